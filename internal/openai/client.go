package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/nftposter/internal/http"
	"github.com/handiism/nftposter/internal/openai/dto"
	"go.uber.org/zap"
)

// Errors returned by Client.
var (
	ErrMissingAPIKey = errors.New("openai: API key not configured")
	ErrEmptyResponse = errors.New("openai: empty response")
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.openai.com"

// Config selects the endpoint and models used by a Client.
type Config struct {
	BaseURL      string
	APIKey       string
	ImageModel   string
	ImageSize    string
	ImageQuality string
	ChatModel    string
}

// DefaultConfig returns dall-e-3 at 1024x1024 standard quality and gpt-4o
// for the artist lookup. APIKey is left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		ImageModel:   "dall-e-3",
		ImageSize:    "1024x1024",
		ImageQuality: "standard",
		ChatModel:    "gpt-4o",
	}
}

// APIError is a non-2xx answer from the API with its decoded message.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: HTTP %d", e.Code)
	}
	return fmt.Sprintf("openai: HTTP %d: %s", e.Code, e.Message)
}

// Client calls the image generation and chat completion endpoints.
//
// Example usage:
//
//	hc, _ := http.NewClient(http.DefaultConfig())
//	cfg := openai.DefaultConfig()
//	cfg.APIKey = os.Getenv("OPENAI_KEY")
//	client := openai.NewClient(hc, cfg, logger)
//
//	profile, err := client.QueryArtist(ctx, "The Band")
//	url, err := client.GenerateImage(ctx, openai.MusicPrompt(profile, event))
type Client struct {
	http   *http.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a Client. Empty fields of cfg fall back to DefaultConfig.
func NewClient(hc *http.Client, cfg Config, logger *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = def.ImageSize
	}
	if cfg.ImageQuality == "" {
		cfg.ImageQuality = def.ImageQuality
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = def.ChatModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{http: hc, cfg: cfg, logger: logger}
}

// GenerateImage asks for a single image for prompt and returns its URL.
// The URL is short-lived and should be downloaded right away.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := dto.ImageRequest{
		Model:   c.cfg.ImageModel,
		Prompt:  prompt,
		Size:    c.cfg.ImageSize,
		Quality: c.cfg.ImageQuality,
		N:       1,
	}

	var resp dto.ImageResponse
	if err := c.post(ctx, "/v1/images/generations", req, &resp); err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("generate image: %w", ErrEmptyResponse)
	}

	c.logger.Debug("image generated",
		zap.String("model", c.cfg.ImageModel),
		zap.String("revised_prompt", resp.Data[0].RevisedPrompt),
	)
	return resp.Data[0].URL, nil
}

// QueryArtist asks the chat model for the genre and mood of artist.
func (c *Client) QueryArtist(ctx context.Context, artist string) (ArtistProfile, error) {
	req := dto.ChatRequest{
		Model: c.cfg.ChatModel,
		Messages: []dto.ChatMessage{
			{Role: dto.RoleSystem, Content: artistSystemPrompt},
			{Role: dto.RoleUser, Content: "Artist: " + artist},
		},
	}

	var resp dto.ChatResponse
	if err := c.post(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return ArtistProfile{}, fmt.Errorf("query artist %q: %w", artist, err)
	}
	if len(resp.Choices) == 0 {
		return ArtistProfile{}, fmt.Errorf("query artist %q: %w", artist, ErrEmptyResponse)
	}

	reply := resp.Choices[0].Message.Content
	profile, err := ParseArtistProfile(reply)
	if err != nil {
		return ArtistProfile{}, fmt.Errorf("query artist %q: %w", artist, err)
	}

	c.logger.Debug("artist profile",
		zap.String("artist", artist),
		zap.String("genre", profile.Genre),
		zap.String("mood", profile.Mood),
	)
	return profile, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	err := c.http.PostJSON(ctx, c.cfg.BaseURL+path, headers, in, out)

	var se *http.StatusError
	if errors.As(err, &se) {
		apiErr := &APIError{Code: se.Code}
		var body dto.ErrorResponse
		if json.Unmarshal(se.Body, &body) == nil {
			apiErr.Message = body.Error.Message
		}
		return apiErr
	}
	return err
}
