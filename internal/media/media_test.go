package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var png = []byte("\x89PNG\r\n\x1a\nfake")

func newFS(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.png"), png, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "8.png"), 0o755))
	return NewFS(dir)
}

func TestFS(t *testing.T) {
	s := newFS(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Exists(ctx, 8)
	require.NoError(t, err)
	assert.False(t, ok, "directories are not covers")

	rc, err := s.Open(ctx, 7)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = s.Open(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

// fakeS3 answers path-style HEAD/GET for a fixed set of object keys.
type fakeS3 struct{ objects map[string][]byte }

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	// /<bucket>/<key>
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	body, ok := []byte(nil), false
	if len(parts) == 2 && parts[0] == "covers-bucket" {
		body, ok = f.objects[parts[1]]
	}
	if !ok {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	h := http.Header{"Content-Type": {"image/png"}}
	if req.Method == http.MethodHead {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: h}, nil
	}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: h, ContentLength: int64(len(body))}, nil
}

func newS3(t *testing.T) *S3 {
	t.Helper()
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  aws.AnonymousCredentials{},
		HTTPClient:   &http.Client{Transport: &fakeS3{objects: map[string][]byte{"covers/7.png": png}}},
		UsePathStyle: true,
		BaseEndpoint: aws.String("https://mock.s3.local"),
	})
	return NewS3(client, "covers-bucket", "covers/")
}

func TestS3(t *testing.T) {
	s := newS3(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)

	rc, err := s.Open(ctx, 7)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = s.Open(ctx, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "ftp"})
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newFS(t))

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, `"True"`, get("/media/exists/7").Body.String())
	assert.Equal(t, `"False"`, get("/media/exists/9").Body.String())

	w := get("/media/7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, get("/media/9").Code)
	assert.Equal(t, http.StatusBadRequest, get("/media/abc").Code)
}
