package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/handiism/nftposter/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty removes the frame.
	TagEmpty TagEditAction = iota

	// TagModify writes the value taken from the event.
	TagModify

	// TagDoNotModify leaves the existing frame unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    Artist:   TagModify,      // artist or match name
//	    Title:    TagModify,      // "<title> live in <location>"
//	    Date:     TagModify,      // event date as entered
//	    Comments: TagDoNotModify, // keep whatever the file has
//	}
type TagConfig struct {
	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Date controls the TDRC (Recording time) frame.
	Date TagEditAction

	// Comments controls the COMM (Comments) frame, which receives the
	// event location and time of day.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration: everything is
// written except comments, which are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist:   TagModify,
		Title:    TagModify,
		Date:     TagModify,
		Comments: TagEmpty,
	}
}

// Tagger writes event metadata and poster artwork into MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After the poster has been rendered
//	err := tagger.EmbedPoster("promo.mp3", event, posterJPEG)
//	if err != nil {
//	    log.Printf("Failed to tag promo.mp3: %v", err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// TrackTitle is the TIT2 value for an event: "<title> live in <location>",
// or just the title when no location is known.
func TrackTitle(e model.Event) string {
	if e.Location == "" {
		return e.Title()
	}
	return fmt.Sprintf("%s live in %s", e.Title(), e.Location)
}

// EmbedPoster writes the event's tags into the MP3 at mp3Path and attaches
// poster as the front cover. Existing cover pictures are replaced.
// A nil poster updates the text frames only.
//
// The MP3 file must already exist.
func (t *Tagger) EmbedPoster(mp3Path string, event model.Event, poster []byte) error {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open %s: %w", mp3Path, err)
	}
	defer tag.Close()

	t.updateStringTags(tag, event)

	if poster != nil {
		t.updateArtwork(tag, poster)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags %s: %w", mp3Path, err)
	}
	return nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, e model.Event) {
	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.DeleteFrames("TPE1")
	case TagModify:
		tag.SetArtist(e.Title())
	}

	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.DeleteFrames("TIT2")
	case TagModify:
		tag.SetTitle(TrackTitle(e))
	}

	// Date (TDRC)
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		if e.Date != "" {
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, e.Date)
		}
	}

	// Comments (COMM)
	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "event",
			Text:        fmt.Sprintf("%s, %s", e.Location, e.TimeOfDay),
		})
	}
}

// updateArtwork embeds the poster as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, poster []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Poster",
		Picture:     poster,
	}
	tag.AddAttachedPicture(pic)
}
