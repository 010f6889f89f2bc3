package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ioutils "github.com/handiism/nftposter/internal/io"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "nftposter"

// Proxy modes accepted by Config.ProxyType.
const (
	ProxyNone   = "none"
	ProxySystem = "system"
	ProxyManual = "manual"
)

// Config holds the transport settings of a Client.
type Config struct {
	UserAgent string
	Timeout   time.Duration

	// ProxyType is one of ProxyNone, ProxySystem or ProxyManual.
	// ProxySystem reads HTTP_PROXY/HTTPS_PROXY from the environment.
	ProxyType string
	// ProxyAddress is the proxy URL used with ProxyManual,
	// e.g. "http://127.0.0.1:8080".
	ProxyAddress string
}

// DefaultConfig returns a 60 second timeout and the system proxy.
func DefaultConfig() Config {
	return Config{
		UserAgent: DefaultUserAgent,
		Timeout:   60 * time.Second,
		ProxyType: ProxySystem,
	}
}

// StatusError is returned when a server answers with an unexpected status.
// Body holds at most the first 4 KiB of the response.
type StatusError struct {
	Code   int
	Status string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Client wraps HTTP operations shared by the image generator and the
// poster downloader.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout and proxy handling
//   - JSON POST requests with extra headers (API keys)
//   - File download with progress tracking
//
// Example usage:
//
//	client, err := NewClient(DefaultConfig())
//
//	// Call a JSON API
//	var out response
//	err = client.PostJSON(ctx, apiURL, map[string]string{"Authorization": "Bearer " + key}, in, &out)
//
//	// Download an image with progress
//	err = client.DownloadFile(ctx, imageURL, "/posters/band.jpg", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client from cfg.
//
// Returns an error if ProxyType is unknown or ProxyAddress is not a valid URL.
func NewClient(cfg Config) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	switch cfg.ProxyType {
	case "", ProxySystem:
		transport.Proxy = http.ProxyFromEnvironment
	case ProxyNone:
		transport.Proxy = nil
	case ProxyManual:
		u, err := url.Parse(cfg.ProxyAddress)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy address %q", cfg.ProxyAddress)
		}
		transport.Proxy = http.ProxyURL(u)
	default:
		return nil, fmt.Errorf("unknown proxy type %q", cfg.ProxyType)
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		userAgent: ua,
	}, nil
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header),
	// or -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// do sends req with the configured User-Agent and returns the response if
// its status is 2xx. Any other status is turned into a *StatusError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: body}
	}
	return resp, nil
}

// PostJSON encodes in as the request body, sends it to url with the given
// extra headers and decodes the JSON response into out. A nil out discards
// the response body.
//
// Non-2xx responses return a *StatusError carrying the start of the body,
// so callers can extract an API error message.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return fmt.Errorf("unexpected content type %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DownloadFile downloads url to destPath with an optional progress callback.
//
// The body is streamed to a temporary file next to destPath and renamed
// into place when complete, so an interrupted download never leaves a
// truncated image behind.
//
// Example:
//
//	err := client.DownloadFile(ctx, imageURL, "/posters/band.jpg", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return ioutils.WriteFileAtomic(destPath, func(w io.Writer) error {
		if onProgress != nil {
			w = &ProgressWriter{
				Writer:   w,
				Total:    resp.ContentLength,
				OnUpdate: onProgress,
			}
		}
		_, err := io.Copy(w, resp.Body)
		return err
	})
}
