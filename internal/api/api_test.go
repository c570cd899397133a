package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	r := Routes{Base: "https://api.example.com/v1"}
	assert.Equal(t, "https://api.example.com/v1/package/", r.PackageRegister())
	assert.Equal(t, "https://api.example.com/v1/package/p1/packagechunk/c1/chunk/", r.PackageChunkUpload("p1", "c1"))
	assert.Equal(t, "https://api.example.com/v1/runinfo/r1/artifact/a1/finish_upload/", r.ArtifactFinish("r1", "a1"))
	assert.Equal(t, "https://api.example.com/v1/runinfo/r1/result/x1/resultchunk/", r.ResultChunkRegister("r1", "x1"))
	assert.Equal(t, "https://api.example.com/v1/run/r1/result/download/", r.ResultDownload("r1"))

	// trailing slash on the base is not doubled
	r = Routes{Base: "https://api.example.com/v1/"}
	assert.Equal(t, "https://api.example.com/v1/auth/user/", r.Me())
}

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"suuid":"u-1","name":"Anna","email":"anna@example.com"}`))
	}))
	defer srv.Close()

	routes := Routes{Base: srv.URL + "/v1/"}

	good := utils.NewAskAnnaHTTPClient(utils.HTTPClientConfig{APIURL: srv.URL, Token: "good"})
	user, err := Me(context.Background(), good, routes)
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	assert.Equal(t, "u-1", user.SUUID)

	bad := utils.NewAskAnnaHTTPClient(utils.HTTPClientConfig{APIURL: srv.URL, Token: "bad"})
	_, err = Me(context.Background(), bad, routes)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
