package media

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// fetchTransport wraps http.Transport and refuses requests whose host
// resolves to a private, loopback, or link-local address. Image
// references come straight from clients, so without this check a post
// could point the server at its own metadata endpoints or internal
// services.
type fetchTransport struct {
	base         *http.Transport
	allowPrivate bool
}

func (t *fetchTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.allowPrivate {
		host := req.URL.Hostname()

		ips, err := net.LookupIP(host)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve host %s: %w", host, err)
		}

		for _, ip := range ips {
			if isPrivateIP(ip) {
				return nil, fmt.Errorf("fetch blocked: %s resolves to private IP %s", host, ip)
			}
		}
	}

	return t.base.RoundTrip(req)
}

// isPrivateIP checks if an IP address is in a private or reserved range.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"::1/128",
		"fc00::/7",
		"fe80::/10",
	}

	for _, cidr := range privateRanges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}

	return false
}

// newFetchClient creates an HTTP client for pulling client-supplied
// image URLs. allowPrivate disables the private-address check and is
// for dev and testing only.
func newFetchClient(allowPrivate bool) *http.Client {
	return &http.Client{
		Transport: &fetchTransport{
			base: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			allowPrivate: allowPrivate,
		},
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}
