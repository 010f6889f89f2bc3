package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/nftposter/internal/fonts"
	"github.com/handiism/nftposter/internal/http"
	ioutils "github.com/handiism/nftposter/internal/io"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/openai"
	uberconfig "go.uber.org/config"
)

// APIKeyEnv overrides Settings.OpenAIKey when set.
const APIKeyEnv = "OPENAI_KEY"

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputDir    string `json:"output_dir" yaml:"output_dir"`
	JPEGQuality  int    `json:"jpeg_quality" yaml:"jpeg_quality"`
	MaxImageSize int    `json:"max_image_size" yaml:"max_image_size"` // 0 keeps the generated size

	// Font settings
	FontFamily       string `json:"font_family" yaml:"font_family"`
	TitleFontSize    int    `json:"title_font_size" yaml:"title_font_size"`
	DateFontSize     int    `json:"date_font_size" yaml:"date_font_size"`
	LocationFontSize int    `json:"location_font_size" yaml:"location_font_size"`

	// Image generation settings
	OpenAIBaseURL      string `json:"openai_base_url" yaml:"openai_base_url"`
	OpenAIKey          string `json:"openai_key" yaml:"openai_key"`
	OpenAIImageModel   string `json:"openai_image_model" yaml:"openai_image_model"`
	OpenAIImageSize    string `json:"openai_image_size" yaml:"openai_image_size"`
	OpenAIImageQuality string `json:"openai_image_quality" yaml:"openai_image_quality"`
	OpenAIChatModel    string `json:"openai_chat_model" yaml:"openai_chat_model"`

	// Retry and concurrency settings
	MaxConcurrentEvents   int     `json:"max_concurrent_events" yaml:"max_concurrent_events"`
	DownloadMaxRetries    int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`
	RequestTimeout        float64 `json:"request_timeout" yaml:"request_timeout"` // seconds

	// Tag settings
	EmbedPosterInMP3 bool `json:"embed_poster_in_mp3" yaml:"embed_poster_in_mp3"`

	// Proxy settings
	ProxyType    string `json:"proxy_type" yaml:"proxy_type"` // none, system, manual
	ProxyAddress string `json:"proxy_address" yaml:"proxy_address"`

	// Server settings
	HTTPAddress string `json:"http_address" yaml:"http_address"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	ai := openai.DefaultConfig()
	return &Settings{
		OutputDir:    "nft_images",
		JPEGQuality:  ioutils.DefaultJPEGQuality,
		MaxImageSize: 0,

		FontFamily:       fonts.DefaultFamily,
		TitleFontSize:    model.TitleFontSize,
		DateFontSize:     model.DateFontSize,
		LocationFontSize: model.LocationFontSize,

		OpenAIBaseURL:      ai.BaseURL,
		OpenAIImageModel:   ai.ImageModel,
		OpenAIImageSize:    ai.ImageSize,
		OpenAIImageQuality: ai.ImageQuality,
		OpenAIChatModel:    ai.ChatModel,

		MaxConcurrentEvents:   2,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 0.5,
		DownloadRetryExponent: 4.0,
		RequestTimeout:        120,

		EmbedPosterInMP3: true,

		ProxyType: http.ProxySystem,

		HTTPAddress: ":5000",
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension.
//
// A missing file yields the defaults. YAML files may reference environment
// variables as ${NAME} or ${NAME:default}. In both cases the OPENAI_KEY
// environment variable, when set, replaces the configured key.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			settings.applyEnv()
			return settings, nil
		}
		return nil, err
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = settings.loadYAML(path)
	default:
		err = settings.loadJSON(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load settings %s: %w", path, err)
	}

	settings.applyEnv()
	return settings, nil
}

func (s *Settings) loadJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}

func (s *Settings) loadYAML(path string) error {
	provider, err := uberconfig.NewYAML(
		uberconfig.File(path),
		uberconfig.Expand(os.LookupEnv),
	)
	if err != nil {
		return err
	}
	return provider.Get(uberconfig.Root).Populate(s)
}

func (s *Settings) applyEnv() {
	if key, ok := os.LookupEnv(APIKeyEnv); ok && key != "" {
		s.OpenAIKey = key
	}
}

// Save writes settings to a JSON file. The API key is never written.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := *s
	out.OpenAIKey = ""
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	return ioutils.WriteFile(path, data)
}

// Validate checks the values that would otherwise fail deep inside a run.
func (s *Settings) Validate() error {
	if s.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within 1..100, got %d", s.JPEGQuality)
	}
	if s.MaxConcurrentEvents < 1 {
		return fmt.Errorf("max_concurrent_events must be at least 1, got %d", s.MaxConcurrentEvents)
	}
	if s.DownloadMaxRetries < 1 {
		return fmt.Errorf("download_max_retries must be at least 1, got %d", s.DownloadMaxRetries)
	}
	return s.ToFontSet().Validate()
}

// ToFontSet converts settings to the per-role font set.
func (s *Settings) ToFontSet() model.FontSet {
	return model.FontSet{
		Title:    model.FontSpec{Family: s.FontFamily, Size: s.TitleFontSize},
		Date:     model.FontSpec{Family: s.FontFamily, Size: s.DateFontSize},
		Location: model.FontSpec{Family: s.FontFamily, Size: s.LocationFontSize},
	}
}

// ToGeneratorConfig converts settings to the image generator config.
func (s *Settings) ToGeneratorConfig() openai.Config {
	return openai.Config{
		BaseURL:      s.OpenAIBaseURL,
		APIKey:       s.OpenAIKey,
		ImageModel:   s.OpenAIImageModel,
		ImageSize:    s.OpenAIImageSize,
		ImageQuality: s.OpenAIImageQuality,
		ChatModel:    s.OpenAIChatModel,
	}
}

// ToHTTPConfig converts settings to the HTTP client config.
func (s *Settings) ToHTTPConfig() http.Config {
	cfg := http.DefaultConfig()
	cfg.Timeout = time.Duration(s.RequestTimeout * float64(time.Second))
	cfg.ProxyType = s.ProxyType
	cfg.ProxyAddress = s.ProxyAddress
	return cfg
}
