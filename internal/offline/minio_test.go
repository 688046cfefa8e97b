package offline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryObject(t *testing.T) {
	key := "/index.html?v=1&x=/y"
	obj := entryObject("javoucar-v1", key)

	require.True(t, strings.HasPrefix(obj, "javoucar-v1/"))
	name := strings.TrimPrefix(obj, "javoucar-v1/")
	assert.NotContains(t, name, "/")

	decoded, err := base64.RawURLEncoding.DecodeString(name)
	require.NoError(t, err)
	assert.Equal(t, key, string(decoded))
}

// TestMinioStorage runs against a live MinIO when JAVOUCAR_TEST_MINIO_ENDPOINT is set.
func TestMinioStorage(t *testing.T) {
	endpoint := os.Getenv("JAVOUCAR_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("JAVOUCAR_TEST_MINIO_ENDPOINT not set")
	}
	ctx := context.Background()

	s, err := NewMinioStorage(ctx, MinioConfig{
		Endpoint:        endpoint,
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "javoucar-test-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)

	b, err := s.Open(ctx, "javoucar-v0")
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "/", &Entry{Status: http.StatusOK, Header: http.Header{"Content-Type": {"text/html"}}, Body: []byte("<html>")}))
	current, err := s.Open(ctx, "javoucar-v1")
	require.NoError(t, err)
	require.NoError(t, current.Put(ctx, "/", &Entry{Status: http.StatusOK, Body: []byte("<html>")}))

	got, ok, err := b.Match(ctx, "/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<html>", string(got.Body))

	_, ok, err = b.Match(ctx, "/missing")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"javoucar-v0", "javoucar-v1"}, names)

	existed, err := s.Delete(ctx, "javoucar-v0")
	require.NoError(t, err)
	assert.True(t, existed)

	names, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"javoucar-v1"}, names)
}

// fakeS3 answers the handful of S3 calls MinioStorage makes and records
// every request.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	requests []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	data, ok := f.objects[r.URL.Path]
	f.mu.Unlock()

	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		w.Header().Set("ETag", `"put"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message><Key>%s</Key></Error>`, r.URL.Path)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.Header().Set("ETag", `"get"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, method+" ") {
			n++
		}
	}
	return n
}

func TestWorker_MinioHitDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	const bucketName = "edge-cache"

	cached, err := json.Marshal(&Entry{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": {"text/html"}},
		Body:   []byte("<html>cached</html>"),
	})
	require.NoError(t, err)
	s3 := &fakeS3{objects: map[string][]byte{
		"/" + bucketName + "/" + entryObject(DefaultCacheName, "/index.html"): cached,
	}}
	s3Server := httptest.NewServer(s3)
	t.Cleanup(s3Server.Close)

	storage, err := NewMinioStorage(ctx, MinioConfig{
		Endpoint:        strings.TrimPrefix(s3Server.URL, "http://"),
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      bucketName,
		Region:          "us-east-1",
	})
	require.NoError(t, err)

	o := &origin{hits: make(map[string]int), missing: make(map[string]bool)}
	originServer := httptest.NewServer(o)
	t.Cleanup(originServer.Close)
	u, err := url.Parse(originServer.URL)
	require.NoError(t, err)
	w := NewWorker(u, storage)

	rec := get(t, w, "/index.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<html>cached</html>", rec.Body.String())
	assert.Equal(t, 0, o.count("GET /index.html"))
	assert.Equal(t, 0, s3.count(http.MethodPut), "a hit only reads")

	rec = get(t, w, "/extra.js")
	assert.Equal(t, "body of /extra.js", rec.Body.String())
	assert.Equal(t, 1, s3.count(http.MethodPut), "a miss stores only the entry")
}
