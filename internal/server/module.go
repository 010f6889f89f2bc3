package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/overlay"
	"github.com/handiism/nftposter/internal/poster"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConfigPath is the settings file the server loads at startup.
type ConfigPath string

// Module provides every server component. Supply a ConfigPath to use it:
//
//	fx.New(fx.Supply(server.ConfigPath("nftposter.yaml")), server.Module).Run()
var Module = fx.Options(
	fx.Provide(
		NewLogger,
		NewSettings,
		fx.Annotate(NewManager, fx.As(new(Generator))),
		fx.Annotate(NewOverlayer, fx.As(new(poster.Overlayer))),
		NewPosterRouter,
		NewServerRouter,
		NewHTTPServer,
	),
	fx.Invoke(StartServer),
)

// NewLogger returns a new *zap.Logger
func NewLogger() (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true

	return zapConfig.Build()
}

// NewSettings loads the settings file.
func NewSettings(path ConfigPath) (*config.Settings, error) {
	return config.Load(string(path))
}

// NewManager builds the poster pipeline from settings.
func NewManager(settings *config.Settings, logger *zap.Logger) (*poster.Manager, error) {
	return poster.Build(settings, logger, nil)
}

// NewOverlayer builds the overlay-only pipeline from settings.
func NewOverlayer(settings *config.Settings, logger *zap.Logger) *overlay.Overlayer {
	return poster.NewOverlayer(settings, logger)
}

// NewHTTPServer provides a new HTTP server listener
func NewHTTPServer(router *mux.Router, settings *config.Settings) *http.Server {
	return &http.Server{
		Addr:    settings.HTTPAddress,
		Handler: router,
	}
}

// StartServer starts the HTTP server
func StartServer(server *http.Server, lc fx.Lifecycle, logger *zap.Logger) {
	h := NewHandle(server)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := h.Start(ctx); err != nil {
				return err
			}
			logger.Info("listening", zap.Stringer("addr", h.Addr()))
			return nil
		},
		OnStop: h.Shutdown,
	})
}
