package openai

import (
	"fmt"

	"github.com/handiism/nftposter/internal/model"
)

// MusicPrompt describes the poster image for a concert.
func MusicPrompt(p ArtistProfile, e model.Event) string {
	return fmt.Sprintf("Create an NFT-like image for the upcoming concert of %s "+
		"which primarly has the genre of %s, the NFT should "+
		"display the general mood of %s. Since the event will be held at "+
		"%s, the image should have that lightning. The event will "+
		"be held in %s so you may use some elements from that state.",
		e.Artist, p.Genre, p.Mood, timeOfDay(e), e.Location)
}

// SportsPrompt describes the poster image for a match.
func SportsPrompt(e model.Event) string {
	return fmt.Sprintf("Create an NFT-like image for the upcoming sports match %s. "+
		"The image should convey the energy and rivalry of the game. "+
		"Since the event will be held at %s, the image should have that lightning. "+
		"The event will be held in %s so you may use some elements from that state.",
		e.Match, timeOfDay(e), e.Location)
}

// Prompt picks MusicPrompt or SportsPrompt by event type.
func Prompt(p ArtistProfile, e model.Event) string {
	if e.Type() == model.EventSports {
		return SportsPrompt(e)
	}
	return MusicPrompt(p, e)
}

func timeOfDay(e model.Event) string {
	if e.TimeOfDay == "" {
		return "night"
	}
	return e.TimeOfDay
}
