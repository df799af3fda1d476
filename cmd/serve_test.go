package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOutput(t *testing.T, withNotFound bool) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blog", "post"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("home"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blog", "post", "index.html"), []byte("post"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "me.png"), []byte("png"), 0o644))
	if withNotFound {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "404.html"), []byte("custom 404"), 0o644))
	}
	return dir
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestSiteHandlerServesPages(t *testing.T) {
	h := newSiteHandler(seedOutput(t, true))

	res, body := get(t, h, "/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "home", body)
	assert.Equal(t, "no-cache, no-store, must-revalidate", res.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", res.Header.Get("Pragma"))
	assert.Equal(t, "0", res.Header.Get("Expires"))

	res, body = get(t, h, "/blog/post/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "post", body)
}

func TestSiteHandlerNotFound(t *testing.T) {
	h := newSiteHandler(seedOutput(t, true))

	for _, target := range []string{"/missing", "/img/", "/blog/nope/"} {
		res, body := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, target)
		assert.Equal(t, "custom 404", body, target)
	}
}

func TestSiteHandlerNotFoundWithoutPage(t *testing.T) {
	h := newSiteHandler(seedOutput(t, false))

	res, body := get(t, h, "/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "404 page not found")
}
