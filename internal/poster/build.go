package poster

import (
	"github.com/handiism/nftposter/internal/audio"
	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/fonts"
	"github.com/handiism/nftposter/internal/http"
	"github.com/handiism/nftposter/internal/openai"
	"github.com/handiism/nftposter/internal/overlay"
	"go.uber.org/zap"
)

// Build wires a Manager from settings with the real HTTP client, OpenAI
// generator, font resolver and overlayer.
func Build(settings *config.Settings, logger *zap.Logger, onProgress func(ProgressEvent)) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hc, err := http.NewClient(settings.ToHTTPConfig())
	if err != nil {
		return nil, err
	}

	return NewManager(settings, Deps{
		Generator:  openai.NewClient(hc, settings.ToGeneratorConfig(), logger.Named("openai")),
		Downloader: hc,
		Overlayer:  NewOverlayer(settings, logger),
		Tagger:     audio.NewTagger(audio.DefaultTagConfig()),
		Logger:     logger.Named("poster"),
	}, onProgress), nil
}

// NewOverlayer builds the overlayer described by settings. It is used on
// its own by front ends that only draw text.
func NewOverlayer(settings *config.Settings, logger *zap.Logger) *overlay.Overlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return overlay.New(
		fonts.NewResolver(),
		settings.ToFontSet(),
		overlay.WithJPEGQuality(settings.JPEGQuality),
		overlay.WithLogger(logger.Named("overlay")),
	)
}
