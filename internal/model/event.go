package model

import (
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/nftposter/internal/io"
)

// EventType distinguishes concerts from sports matches.
type EventType int

const (
	// EventConcert is a music event; the title is the artist or band.
	EventConcert EventType = iota

	// EventSports is a match; the title is the match name.
	EventSports
)

// String implements fmt.Stringer.
func (t EventType) String() string {
	if t == EventSports {
		return "sports"
	}
	return "concert"
}

// Event describes the metadata a poster is generated from.
//
// Exactly one of Artist or Match is expected. When both are set the
// artist wins, mirroring OverlayRequest.Title.
//
// Example:
//
//	ev := Event{Artist: "The Band", Date: "12/05/2025", Location: "Texas", TimeOfDay: "night"}
//	ev.FileName() // "The Band_12-05-2025.jpg"
type Event struct {
	// Artist is the musician or band for concerts.
	Artist string `json:"artist"`

	// Match is the event name for sports matches, e.g. "Lakers vs Celtics".
	Match string `json:"match"`

	// Date is free-form and drawn verbatim.
	Date string `json:"date"`

	// Location is the state or venue, drawn verbatim.
	Location string `json:"location"`

	// TimeOfDay is "day" or "night" and only influences the image prompt.
	TimeOfDay string `json:"time"`

	// ImagePath, when set, skips image generation and overlays onto this file.
	ImagePath string `json:"image_path,omitempty"`

	// MP3Path, when set, receives the finished poster as embedded cover art.
	MP3Path string `json:"mp3_path,omitempty"`
}

// Type reports whether the event is a concert or a sports match.
func (e Event) Type() EventType {
	if e.Artist == "" && e.Match != "" {
		return EventSports
	}
	return EventConcert
}

// Title returns the artist, falling back to the match name.
func (e Event) Title() string {
	if e.Artist != "" {
		return e.Artist
	}
	return e.Match
}

// FileName returns the base file name of the downloaded image:
// "<title>_<date>.jpg" with slashes in the date replaced by dashes.
func (e Event) FileName() string {
	date := strings.ReplaceAll(e.Date, "/", "-")
	return ioutils.SanitizeFileName(e.Title()+"_"+date) + ".jpg"
}

// ImageFilePath joins dir and FileName, keeping the result under the
// Windows MAX_PATH limit.
func (e Event) ImageFilePath(dir string) string {
	fileName := e.FileName()
	filePath := filepath.Join(dir, fileName)

	if len(filePath) >= 260 {
		ext := filepath.Ext(fileName)
		maxLen := 259 - len(filepath.Join(dir, ext)) - 1
		if maxLen > 0 && maxLen < len(fileName)-len(ext) {
			filePath = filepath.Join(dir, fileName[:maxLen]+ext)
		}
	}

	return filePath
}

// OverlayRequest is the input of a single overlay operation.
type OverlayRequest struct {
	ImagePath string `json:"image_path"`
	Artist    string `json:"artist"`
	Match     string `json:"match"`
	Date      string `json:"date"`
	Location  string `json:"location"`
}

// Title resolves the title source. Artist takes precedence over Match;
// ok is false when neither is present.
func (r OverlayRequest) Title() (title string, ok bool) {
	switch {
	case r.Artist != "":
		return r.Artist, true
	case r.Match != "":
		return r.Match, true
	}
	return "", false
}

// OverlayRequest converts an event into an overlay request for imagePath.
func (e Event) OverlayRequest(imagePath string) OverlayRequest {
	return OverlayRequest{
		ImagePath: imagePath,
		Artist:    e.Artist,
		Match:     e.Match,
		Date:      e.Date,
		Location:  e.Location,
	}
}
