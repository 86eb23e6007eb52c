package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/clusterdash-server/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second)
}

func TestClient_Status(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"nodes":3}`))
	})

	data, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":3}`, string(data))
	assert.Equal(t, "/v1/status", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClient_Paths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client, context.Context) error
		wantPath string
		wantRaw  string
	}{
		{
			name: "layout",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Layout(ctx)
				return err
			},
			wantPath: "/v1/layout",
		},
		{
			name: "buckets",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Buckets(ctx)
				return err
			},
			wantPath: "/v1/bucket",
			wantRaw:  "list",
		},
		{
			name: "keys",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Keys(ctx)
				return err
			},
			wantPath: "/v1/key",
			wantRaw:  "list",
		},
		{
			name: "workers",
			call: func(c *Client, ctx context.Context) error {
				_, err := c.Workers(ctx)
				return err
			},
			wantPath: "/v1/worker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				w.Write([]byte(`[]`))
			})

			require.NoError(t, tt.call(c, context.Background()))
			assert.Equal(t, tt.wantPath, gotPath)
			if tt.wantRaw != "" {
				assert.Equal(t, tt.wantRaw, gotQuery)
			}
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Status(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClient_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/status", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", time.Second)
	_, err := c.Status(context.Background())
	require.NoError(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Status(ctx)
	require.Error(t, err)
}
