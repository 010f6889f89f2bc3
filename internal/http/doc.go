// Package http provides the HTTP client used to talk to the image
// generation API and to fetch generated images.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout and proxy handling (none, system, manual)
//   - JSON POST requests with API key headers
//   - File downloads with progress tracking
//
// # Basic Usage
//
//	client, err := http.NewClient(http.DefaultConfig())
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, imageURL, "/posters/band.jpg", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
//
// # Errors
//
// Responses outside the 2xx range are returned as *StatusError:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.Code == 429 {
//	    // rate limited
//	}
package http
