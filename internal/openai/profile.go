package openai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedProfile is returned when a chat reply does not follow the
// "music_genre: X, mood: Y" format.
var ErrMalformedProfile = errors.New("openai: malformed artist profile")

const (
	genreMarker = "music_genre: "
	moodMarker  = ", mood: "
)

const artistSystemPrompt = "You are a music expert, an user will give you a musician or band " +
	"and you must answer the following points in one sentence as a maximum: " +
	"What genre does the musician or band primarly play? What mood does his or " +
	"her music give (happy, sad, angry, brooding, calm, uplifting, etc)? " +
	"You must answer these two questions by using the following nomenclature: " +
	"music_genre: [answer], mood: [answer]."

// ArtistProfile is what the chat model knows about an artist.
type ArtistProfile struct {
	Genre string `json:"music_genre"`
	Mood  string `json:"mood"`
}

// ParseArtistProfile extracts genre and mood from a reply shaped like
//
//	music_genre: indie rock, mood: brooding
//
// Text before the genre marker is ignored. Both values are trimmed.
func ParseArtistProfile(reply string) (ArtistProfile, error) {
	gi := strings.Index(reply, genreMarker)
	if gi < 0 {
		return ArtistProfile{}, fmt.Errorf("%w: %q", ErrMalformedProfile, reply)
	}
	rest := reply[gi+len(genreMarker):]

	mi := strings.Index(rest, moodMarker)
	if mi < 0 {
		return ArtistProfile{}, fmt.Errorf("%w: %q", ErrMalformedProfile, reply)
	}

	return ArtistProfile{
		Genre: strings.TrimSpace(rest[:mi]),
		Mood:  strings.TrimSpace(rest[mi+len(moodMarker):]),
	}, nil
}
