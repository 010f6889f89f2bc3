// Package audio embeds rendered posters into MP3 files.
//
// # ID3 Tagging
//
// Use the Tagger to write event metadata and the poster image:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.EmbedPoster("promo.mp3", event, posterJPEG)
//
// The tagger writes:
//   - TPE1: artist or match name
//   - TIT2: "<title> live in <location>"
//   - TDRC: event date as entered
//   - COMM: location and time of day (off by default)
//   - APIC: the poster as front cover
package audio
