package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/overlay"
	"github.com/handiism/nftposter/internal/poster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap/zaptest"
)

type fakeGenerator struct {
	got model.Event
	res poster.Result
}

func (g *fakeGenerator) Generate(ctx context.Context, event model.Event) poster.Result {
	g.got = event
	return g.res
}

type fakeOverlayer struct {
	got model.OverlayRequest
	out string
	err error
}

func (o *fakeOverlayer) Overlay(ctx context.Context, req model.OverlayRequest) (string, error) {
	o.got = req
	return o.out, o.err
}

func newTestServer(t *testing.T, gen Generator, ov poster.Overlayer) *httptest.Server {
	t.Helper()
	return newTestServerIn(t, t.TempDir(), gen, ov)
}

func newTestServerIn(t *testing.T, outputDir string, gen Generator, ov poster.Overlayer) *httptest.Server {
	t.Helper()
	settings := config.DefaultSettings()
	settings.OutputDir = outputDir
	router := NewServerRouter(NewPosterRouter(zaptest.NewLogger(t), settings, gen, ov))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestGenerateHandler(t *testing.T) {
	gen := &fakeGenerator{res: poster.Result{PosterPath: "/srv/nft_images/The Band_12-05-2025_t.jpg"}}
	srv := newTestServer(t, gen, &fakeOverlayer{})

	status, body := post(t, srv.URL+"/generate_image",
		`{"variables": {"artist": "The Band", "location": "Texas", "date": "12/05/2025", "image_path": "/etc/passwd.jpg"}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/srv/nft_images/The Band_12-05-2025_t.jpg", body)
	assert.Equal(t, "The Band", gen.got.Artist)
	assert.Equal(t, "Texas", gen.got.Location)
	assert.Equal(t, "night", gen.got.TimeOfDay)
	assert.Empty(t, gen.got.ImagePath, "clients cannot pick the image path")
}

func TestGenerateHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"invalid event", `{"variables": {}}`, poster.ErrInvalidEvent, http.StatusBadRequest},
		{"pipeline failure", `{"variables": {"artist": "x"}}`, fmt.Errorf("image generation: %w", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{res: poster.Result{Err: tt.err}}
			srv := newTestServer(t, gen, &fakeOverlayer{})

			status, _ := post(t, srv.URL+"/generate_image", tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestOverlayHandler(t *testing.T) {
	dir := t.TempDir()
	ov := &fakeOverlayer{out: "/abs/poster_t.jpg"}
	srv := newTestServerIn(t, dir, &fakeGenerator{}, ov)

	status, body := post(t, srv.URL+"/overlay",
		`{"image_path": "poster.jpg", "artist": "The Band", "match": "Lions vs Bears", "date": "12/05/2025", "location": "Texas"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/abs/poster_t.jpg", body)
	assert.Equal(t, model.OverlayRequest{
		ImagePath: filepath.Join(dir, "poster.jpg"),
		Artist:    "The Band",
		Match:     "Lions vs Bears",
		Date:      "12/05/2025",
		Location:  "Texas",
	}, ov.got)
}

func TestOverlayHandler_ConfinedToOutputDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "nft_images")
	other := filepath.Join(root, "elsewhere")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.MkdirAll(other, 0755))
	require.NoError(t, os.Symlink(other, filepath.Join(dir, "link")))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"relative inside", "sub/poster.jpg", http.StatusOK},
		{"absolute inside", filepath.Join(dir, "poster.jpg"), http.StatusOK},
		{"absolute outside", filepath.Join(other, "victim.jpg"), http.StatusBadRequest},
		{"dot dot", "../elsewhere/victim.jpg", http.StatusBadRequest},
		{"dot dot after subdir", "sub/../../elsewhere/victim.jpg", http.StatusBadRequest},
		{"symlink out", "link/victim.jpg", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov := &fakeOverlayer{out: "poster_t.jpg"}
			srv := newTestServerIn(t, dir, &fakeGenerator{}, ov)

			body, err := json.Marshal(map[string]string{"image_path": tt.path, "artist": "x"})
			require.NoError(t, err)
			status, msg := post(t, srv.URL+"/overlay", string(body))

			assert.Equal(t, tt.status, status, msg)
			if tt.status != http.StatusOK {
				assert.Contains(t, msg, ErrOutsideOutputDir.Error())
				assert.Empty(t, ov.got.ImagePath, "overlay must not run")
			}
		})
	}
}

func TestOverlayHandler_EmptyPathReachesValidation(t *testing.T) {
	ov := &fakeOverlayer{err: overlay.ErrMissingImagePath}
	srv := newTestServer(t, &fakeGenerator{}, ov)

	status, _ := post(t, srv.URL+"/overlay", `{"artist": "x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, ov.got.ImagePath)
}

func TestOverlayHandler_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{overlay.ErrMissingImagePath, http.StatusBadRequest},
		{overlay.ErrNoTitleSource, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", overlay.ErrUnsupportedPath, "a.png"), http.StatusBadRequest},
		{fmt.Errorf("%w: %q", overlay.ErrImageLoad, "a.jpg"), http.StatusInternalServerError},
		{overlay.ErrFontResolution, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			srv := newTestServer(t, &fakeGenerator{}, &fakeOverlayer{err: tt.err})

			status, body := post(t, srv.URL+"/overlay", `{"image_path": "a.jpg", "artist": "x"}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.err.Error(), body)
		})
	}
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{}, &fakeOverlayer{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/generate_image")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandle_StartShutdown(t *testing.T) {
	h := NewHandle(&http.Server{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("hi"))
		}),
	})
	assert.Nil(t, h.Addr())

	require.NoError(t, h.Start(context.Background()))
	assert.Error(t, h.Start(context.Background()), "second start fails")

	resp, err := http.Get("http://" + h.Addr().String())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Nil(t, h.Addr())
}

func TestModule_Graph(t *testing.T) {
	err := fx.ValidateApp(
		fx.Supply(ConfigPath("does-not-exist.json")),
		Module,
	)
	assert.NoError(t, err)
}
