package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ProxyType = ProxyNone
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_Proxy(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		addr    string
		wantErr bool
	}{
		{"default", "", "", false},
		{"system", ProxySystem, "", false},
		{"none", ProxyNone, "", false},
		{"manual", ProxyManual, "http://127.0.0.1:3128", false},
		{"manual without host", ProxyManual, "not a url", true},
		{"unknown", "socks", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ProxyType = tt.typ
			cfg.ProxyAddress = tt.addr
			_, err := NewClient(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	var out struct {
		Echo string `json:"echo"`
	}
	err := newTestClient(t).PostJSON(context.Background(), srv.URL,
		map[string]string{"Authorization": "Bearer secret"},
		map[string]string{"msg": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Echo)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	err := newTestClient(t).PostJSON(context.Background(), srv.URL, nil, struct{}{}, &struct{}{})

	var se *StatusError
	require.True(t, errors.As(err, &se), "error = %v", err)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, string(se.Body), "slow down")

	err = newTestClient(t).DownloadFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "x.jpg"), nil)
	assert.True(t, errors.As(err, &se))
}

func TestClient_DownloadFile(t *testing.T) {
	payload := []byte("not really a jpeg but good enough")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "poster.jpg")
	var last int64
	err := newTestClient(t).DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		last = written
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), last)
}

func TestClient_DownloadFileFailureLeavesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "poster.jpg")
	err := newTestClient(t).DownloadFile(context.Background(), srv.URL, dest, nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProgressWriter(t *testing.T) {
	var calls int
	pw := &ProgressWriter{
		Writer:   &discard{},
		Total:    10,
		OnUpdate: func(written, total int64) { calls++ },
	}
	pw.Write([]byte("hello"))
	pw.Write([]byte("world"))

	assert.Equal(t, int64(10), pw.Written)
	assert.Equal(t, 2, calls)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
