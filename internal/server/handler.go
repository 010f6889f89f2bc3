package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/overlay"
	"github.com/handiism/nftposter/internal/poster"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; every request is a handful of strings.
const maxBodyBytes = 64 << 10

// ErrOutsideOutputDir is returned when an overlay request names an image
// outside the configured output directory.
var ErrOutsideOutputDir = errors.New("image path outside output directory")

// Generator runs the full poster pipeline for one event.
type Generator interface {
	Generate(ctx context.Context, event model.Event) poster.Result
}

// GenerateRequest is the body of POST /generate_image.
type GenerateRequest struct {
	Variables model.Event `json:"variables"`
}

// PosterRouter handles the poster HTTP routes, with logging.
type PosterRouter struct {
	logger    *zap.Logger
	generator Generator
	overlayer poster.Overlayer
	outputDir string
}

// NewPosterRouter returns a PosterRouter serving gen and ov. Overlay
// requests may only name images under settings.OutputDir.
func NewPosterRouter(logger *zap.Logger, settings *config.Settings, gen Generator, ov poster.Overlayer) *PosterRouter {
	return &PosterRouter{
		logger:    logger,
		generator: gen,
		overlayer: ov,
		outputDir: settings.OutputDir,
	}
}

// NewServerRouter returns a new mux.Router with every route registered.
func NewServerRouter(s *PosterRouter) *mux.Router {
	router := mux.NewRouter()
	router.Use(s.logRequests)
	router.HandleFunc("/generate_image", s.GenerateHandler).Methods(http.MethodPost)
	router.HandleFunc("/overlay", s.OverlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	return router
}

// GenerateHandler generates artwork for the event in the request, draws
// its text and answers with the absolute path of the poster.
func (s *PosterRouter) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	event := req.Variables
	if event.TimeOfDay == "" {
		event.TimeOfDay = "night"
	}
	// A client must not point the pipeline at arbitrary files or MP3s.
	event.ImagePath = ""
	event.MP3Path = ""

	res := s.generator.Generate(r.Context(), event)
	if res.Err != nil {
		s.fail(w, statusFor(res.Err), res.Err)
		return
	}

	writeText(w, http.StatusOK, res.PosterPath)
}

// OverlayHandler draws text onto an existing image on the server's disk.
func (s *PosterRouter) OverlayHandler(w http.ResponseWriter, r *http.Request) {
	var req model.OverlayRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	if req.ImagePath != "" {
		p, err := s.confine(req.ImagePath)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
		req.ImagePath = p
	}

	path, err := s.overlayer.Overlay(r.Context(), req)
	if err != nil {
		s.fail(w, statusFor(err), err)
		return
	}

	writeText(w, http.StatusOK, path)
}

// confine resolves p against the output directory and rejects anything
// that leaves it, through ".." or symlinks. Relative paths are taken
// relative to the output directory.
func (s *PosterRouter) confine(p string) (string, error) {
	root, err := filepath.Abs(s.outputDir)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	p = filepath.Clean(p)

	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	checked := p
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		checked = resolved
	} else if dir, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
		checked = filepath.Join(dir, filepath.Base(p))
	}

	rel, err := filepath.Rel(root, checked)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideOutputDir, p)
	}
	return p, nil
}

// HealthHandler reports that the process is serving.
func (s *PosterRouter) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *PosterRouter) fail(w http.ResponseWriter, status int, err error) {
	if status >= 500 {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeText(w, status, err.Error())
}

func (s *PosterRouter) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("New inbound HTTP request",
			zap.String("IP", r.RemoteAddr),
			zap.String("Method", r.Method),
			zap.String("Path", r.URL.Path),
			zap.Int("Status", sw.status),
			zap.Duration("Duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// statusFor maps pipeline errors to HTTP statuses: bad input is the
// client's fault, everything else is ours.
func statusFor(err error) int {
	switch {
	case overlay.IsValidation(err), errors.Is(err, poster.ErrInvalidEvent), errors.Is(err, ErrOutsideOutputDir):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
