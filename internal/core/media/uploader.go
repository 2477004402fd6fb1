package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Store is the blob storage backend the uploader writes to.
// internal/blob/s3 implements it.
type Store interface {
	// Put writes one object under key
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// PublicURL returns the durable download URL for key
	PublicURL(key string) string

	// URLPrefix returns the prefix all of this store's public URLs share
	URLPrefix() string
}

// Maximum image size accepted for upload (6MB).
const maxImageSize = 6 << 20

// Uploader converts local image references into durable remote URLs.
// A reference is either a URL to fetch or a path inside the staging
// directory on the local filesystem.
type Uploader struct {
	store      Store
	client     *http.Client
	stagingDir string
	now        func() time.Time
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithStagingDir allows file references under dir. Without it every
// file reference is rejected.
func WithStagingDir(dir string) Option {
	return func(u *Uploader) {
		u.stagingDir = filepath.Clean(dir)
	}
}

// WithPrivateFetch allows image URLs that resolve to private addresses.
// For dev and testing only.
func WithPrivateFetch() Option {
	return func(u *Uploader) {
		u.client = newFetchClient(true)
	}
}

// NewUploader creates an uploader backed by store.
func NewUploader(store Store, opts ...Option) *Uploader {
	u := &Uploader{
		store:  store,
		client: newFetchClient(false),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload turns one local reference into a remote URL.
//
// References that already point into the blob store are returned unchanged
// with no network calls, so edit flows can mix kept images with new ones.
// Otherwise the resource is read fully into memory, validated, and written
// under posts/{ownerUID}/{millis}_{index}.jpg. The index keeps keys unique
// when a batch uploads several images in the same millisecond.
//
// A failed upload may leave nothing to clean up, but a post write that
// fails after Upload succeeded leaves the blob orphaned. That is accepted;
// there is no rollback.
func (u *Uploader) Upload(ctx context.Context, localRef, ownerUID string, index int) (string, error) {
	if localRef == "" {
		return "", NewUploadError(localRef, fmt.Errorf("empty image reference"))
	}
	if strings.HasPrefix(localRef, u.store.URLPrefix()) {
		return localRef, nil
	}

	data, contentType, err := u.fetch(ctx, localRef)
	if err != nil {
		return "", NewUploadError(localRef, err)
	}

	if !isValidImageType(contentType) {
		return "", NewUploadError(localRef,
			fmt.Errorf("unsupported content type: %s (allowed: image/jpeg, image/png, image/webp)", contentType))
	}
	if len(data) > maxImageSize {
		return "", NewUploadError(localRef,
			fmt.Errorf("image size %d bytes exceeds maximum of %d bytes", len(data), maxImageSize))
	}

	key := fmt.Sprintf("posts/%s/%d_%d.jpg", ownerUID, u.now().UTC().UnixMilli(), index)
	if err := u.store.Put(ctx, key, data, contentType); err != nil {
		return "", NewUploadError(localRef, err)
	}

	return u.store.PublicURL(key), nil
}

// UploadAll uploads a batch of references concurrently, preserving order.
// All uploads are issued at once; if any one fails the whole batch fails
// and in-flight uploads are cancelled, but uploads that already finished
// are not rolled back.
func (u *Uploader) UploadAll(ctx context.Context, localRefs []string, ownerUID string) ([]string, error) {
	urls := make([]string, len(localRefs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range localRefs {
		g.Go(func() error {
			url, err := u.Upload(ctx, ref, ownerUID, i)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// fetch reads the referenced resource fully into memory and reports its
// content type.
func (u *Uploader) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return u.fetchHTTP(ctx, ref)
	}

	path, err := u.resolveLocalPath(strings.TrimPrefix(ref, "file://"))
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read local image: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

// resolveLocalPath confines a file reference to the staging directory.
// Clients choose the path, so anything that escapes the directory is
// an attempt to read arbitrary server files.
func (u *Uploader) resolveLocalPath(path string) (string, error) {
	if u.stagingDir == "" {
		return "", fmt.Errorf("file references are not enabled")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("invalid image path")
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(u.stagingDir, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(u.stagingDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("image path escapes staging directory")
	}
	return resolved, nil
}

func (u *Uploader) fetchHTTP(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, normalizeContentType(contentType), nil
}

// normalizeContentType converts non-standard types to their standard
// equivalents. Common case: CDNs returning image/jpg.
func normalizeContentType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if contentType == "image/jpg" {
		return "image/jpeg"
	}
	return contentType
}

func isValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}
