package tunnel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURLPrefersHTTPS(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tunnels", r.URL.Path)
		_, _ = w.Write([]byte(`{"tunnels":[
			{"public_url":"http://abc.ngrok.io","proto":"http"},
			{"public_url":"https://abc.ngrok.io","proto":"https"}
		]}`))
	}))
	defer srv.Close()

	url, err := NewResolver(srv.URL).PublicURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://abc.ngrok.io", url)
}

func TestPublicURLFallsBackToFirstTunnel(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tunnels":[{"public_url":"tcp://1.2.3.4:9000","proto":"tcp"}]}`))
	}))
	defer srv.Close()

	url, err := NewResolver(srv.URL).PublicURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tcp://1.2.3.4:9000", url)
}

func TestPublicURLNoTunnels(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tunnels":[]}`))
	}))
	defer srv.Close()

	_, err := NewResolver(srv.URL).PublicURL(context.Background())
	assert.Error(t, err)
}

func TestPublicURLAgentDown(t *testing.T) {
	t.Parallel()
	_, err := NewResolver("http://127.0.0.1:1").PublicURL(context.Background())
	assert.Error(t, err)
}
