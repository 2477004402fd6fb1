package media

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jpegBytes is a minimal payload http.DetectContentType sniffs as image/jpeg.
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

// fakeStore records puts in memory.
type fakeStore struct {
	mu     sync.Mutex
	puts   map[string][]byte
	failOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(key, s.failOn) {
		return fmt.Errorf("store unavailable")
	}
	s.puts[key] = data
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return s.URLPrefix() + key
}

func (s *fakeStore) URLPrefix() string {
	return "https://media.example.com/"
}

func (s *fakeStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

// newTestUploader pins the clock and allows private addresses so the
// fetch path can reach the loopback test server.
func newTestUploader(store Store, opts ...Option) *Uploader {
	u := NewUploader(store, append([]Option{WithPrivateFetch()}, opts...)...)
	u.now = func() time.Time { return time.UnixMilli(1700000000000).UTC() }
	return u
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.jpg":
			http.NotFound(w, r)
		case "/style.css":
			w.Header().Set("Content-Type", "text/css")
			w.Write([]byte("body{}"))
		case "/huge.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			payload := make([]byte, maxImageSize+1)
			copy(payload, jpegBytes)
			w.Write(payload)
		default:
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write(jpegBytes)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUpload_RemoteRefShortCircuit(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)

	ref := "https://media.example.com/posts/uid-1/1_0.jpg"
	url, err := uploader.Upload(context.Background(), ref, "uid-1", 0)

	require.NoError(t, err)
	assert.Equal(t, ref, url)
	assert.Zero(t, store.putCount(), "short-circuit must not touch the store")
}

func TestUpload_FetchesAndStores(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	url, err := uploader.Upload(context.Background(), srv.URL+"/photo.jpg", "uid-1", 2)
	require.NoError(t, err)

	assert.Equal(t, "https://media.example.com/posts/uid-1/1700000000000_2.jpg", url)
	require.Equal(t, 1, store.putCount())
	assert.Equal(t, jpegBytes, store.puts["posts/uid-1/1700000000000_2.jpg"])
}

func TestUpload_LocalFileRef(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	uploader := newTestUploader(store, WithStagingDir(dir))

	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(path, jpegBytes, 0o600))

	url, err := uploader.Upload(context.Background(), "file://"+path, "uid-1", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, store.URLPrefix()))
	assert.Equal(t, 1, store.putCount())
}

func TestUpload_LocalFileRefRelative(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	uploader := newTestUploader(store, WithStagingDir(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), jpegBytes, 0o600))

	// Relative references resolve against the staging directory.
	_, err := uploader.Upload(context.Background(), "photo.jpg", "uid-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, store.putCount())
}

func TestUpload_FileRefsDisabledByDefault(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)

	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, jpegBytes, 0o600))

	_, err := uploader.Upload(context.Background(), "file://"+path, "uid-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
	assert.Zero(t, store.putCount())
}

func TestUpload_RejectsPathOutsideStagingDir(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store, WithStagingDir(t.TempDir()))

	outside := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(outside, jpegBytes, 0o600))

	refs := []string{
		"file://" + outside,
		"../outside.jpg",
		"file://" + filepath.Join("sub", "..", "..", "outside.jpg"),
	}
	for _, ref := range refs {
		_, err := uploader.Upload(context.Background(), ref, "uid-1", 0)
		require.Error(t, err, "ref %q must be rejected", ref)
		assert.Contains(t, err.Error(), "escapes staging directory")
	}
	assert.Zero(t, store.putCount())
}

func TestUpload_BlocksPrivateAddress(t *testing.T) {
	store := newFakeStore()
	uploader := NewUploader(store) // private fetch not enabled
	srv := imageServer(t)

	// httptest binds loopback, which the default client refuses.
	_, err := uploader.Upload(context.Background(), srv.URL+"/photo.jpg", "uid-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private IP")
	assert.Zero(t, store.putCount())
}

func TestUpload_OversizeHTTP(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	_, err := uploader.Upload(context.Background(), srv.URL+"/huge.jpg", "uid-1", 0)
	require.Error(t, err)
	assert.True(t, IsUploadError(err))
	assert.Contains(t, err.Error(), "exceeds maximum")
	assert.Zero(t, store.putCount())
}

func TestUpload_OversizeLocalFile(t *testing.T) {
	store := newFakeStore()
	dir := t.TempDir()
	uploader := newTestUploader(store, WithStagingDir(dir))

	payload := make([]byte, maxImageSize+1)
	copy(payload, jpegBytes)
	path := filepath.Join(dir, "huge.jpg")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	_, err := uploader.Upload(context.Background(), "file://"+path, "uid-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
	assert.Zero(t, store.putCount())
}

func TestUpload_KeyLayout(t *testing.T) {
	store := newFakeStore()
	uploader := NewUploader(store, WithPrivateFetch()) // real clock
	srv := imageServer(t)

	url, err := uploader.Upload(context.Background(), srv.URL+"/photo.jpg", "uid-7", 1)
	require.NoError(t, err)

	key := strings.TrimPrefix(url, store.URLPrefix())
	assert.Regexp(t, regexp.MustCompile(`^posts/uid-7/\d+_1\.jpg$`), key)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	_, err := uploader.Upload(context.Background(), srv.URL+"/style.css", "uid-1", 0)
	require.Error(t, err)
	assert.True(t, IsUploadError(err))
	assert.Zero(t, store.putCount())
}

func TestUpload_FetchFailureWrapsCause(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	ref := srv.URL + "/missing.jpg"
	_, err := uploader.Upload(context.Background(), ref, "uid-1", 0)
	require.Error(t, err)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, ref, uploadErr.Ref)
	assert.Contains(t, uploadErr.Unwrap().Error(), "HTTP 404")
}

func TestUploadAll_PreservesOrder(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	kept := "https://media.example.com/posts/uid-1/old_0.jpg"
	refs := []string{kept, srv.URL + "/a.jpg", srv.URL + "/b.jpg"}

	urls, err := uploader.UploadAll(context.Background(), refs, "uid-1")
	require.NoError(t, err)
	require.Len(t, urls, 3)

	// Kept image passes through in place, new ones carry their batch index.
	assert.Equal(t, kept, urls[0])
	assert.True(t, strings.HasSuffix(urls[1], "_1.jpg"))
	assert.True(t, strings.HasSuffix(urls[2], "_2.jpg"))
	assert.Equal(t, 2, store.putCount())
}

func TestUploadAll_FailFast(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)
	srv := imageServer(t)

	refs := []string{srv.URL + "/a.jpg", srv.URL + "/missing.jpg", srv.URL + "/c.jpg"}

	urls, err := uploader.UploadAll(context.Background(), refs, "uid-1")
	require.Error(t, err)
	assert.Nil(t, urls)
	assert.True(t, IsUploadError(err))

	// Whatever finished before the failure stays in the store: no rollback.
	assert.LessOrEqual(t, store.putCount(), 2)
}

func TestUploadAll_Empty(t *testing.T) {
	store := newFakeStore()
	uploader := newTestUploader(store)

	urls, err := uploader.UploadAll(context.Background(), nil, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, urls)
}
