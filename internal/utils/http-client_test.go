package utils

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenOnlySentToAPIHost(t *testing.T) {
	var storageAuth string
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storageAuth = r.Header.Get("Authorization")
	}))
	defer storage.Close()

	var apiAuth string
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiAuth = r.Header.Get("Authorization")
		w.Header().Set("Location", storage.URL+"/blob")
		w.WriteHeader(http.StatusFound)
	}))
	defer apiSrv.Close()

	client := NewAskAnnaHTTPClient(HTTPClientConfig{APIURL: apiSrv.URL + "/v1/", Token: "secret"})

	req, err := http.NewRequest(http.MethodGet, apiSrv.URL+"/v1/package/x/download/", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode, "redirects are not followed")
	assert.Equal(t, "Token secret", apiAuth)

	req, err = http.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil)
	require.NoError(t, err)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, storageAuth)
}

func TestHeadersAndUserAgent(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := NewAskAnnaHTTPClient(HTTPClientConfig{Headers: map[string]string{"X-Trace": "1"}})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, ToolUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "1", got.Get("X-Trace"))
	assert.Empty(t, got.Get("Authorization"))

	custom := NewAskAnnaHTTPClient(HTTPClientConfig{UserAgent: "batch/1.0"})
	req, err = http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err = custom.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "batch/1.0", got.Get("User-Agent"))
}

func TestParseHeaderArgs(t *testing.T) {
	parsed := ParseHeaderArgs([]string{"X-A: 1", "X-B:two:parts", "broken"})
	assert.Equal(t, map[string]string{"X-A": "1", "X-B": "two:parts"}, parsed)
}

func TestRenewOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.zip")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.Equal(t, filepath.Join(dir, "file-(1).zip"), RenewOutputPath(path))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file-(1).zip"), nil, 0644))
	assert.Equal(t, filepath.Join(dir, "file-(2).zip"), RenewOutputPath(path))
}

func TestCleanTemp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CleanTemp(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, TempDirName, "session"), 0755))
	require.NoError(t, CleanTemp(dir))
	_, err := os.Stat(filepath.Join(dir, TempDirName))
	assert.True(t, os.IsNotExist(err))
}
