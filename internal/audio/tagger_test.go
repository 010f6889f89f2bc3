package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/nftposter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "promo.mp3")
	require.NoError(t, os.WriteFile(path, []byte("\xff\xfb\x90\x00fake frame data"), 0644))
	return path
}

func TestTrackTitle(t *testing.T) {
	tests := []struct {
		event model.Event
		want  string
	}{
		{model.Event{Artist: "The Band", Location: "Texas"}, "The Band live in Texas"},
		{model.Event{Match: "Lions vs Bears", Location: "Ohio"}, "Lions vs Bears live in Ohio"},
		{model.Event{Artist: "The Band"}, "The Band"},
	}

	for _, tt := range tests {
		if got := TrackTitle(tt.event); got != tt.want {
			t.Errorf("TrackTitle(%+v) = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestTagger_EmbedPoster(t *testing.T) {
	path := writeFakeMP3(t)
	event := model.Event{Artist: "The Band", Date: "12/05/2025", Location: "Texas", TimeOfDay: "night"}
	poster := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}

	require.NoError(t, NewTagger(nil).EmbedPoster(path, event, poster))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "The Band", tag.Artist())
	assert.Equal(t, "The Band live in Texas", tag.Title())
	assert.Equal(t, "12/05/2025", tag.GetTextFrame("TDRC").Text)

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pics, 1)
	pic, ok := pics[0].(id3v2.PictureFrame)
	require.True(t, ok)
	assert.Equal(t, poster, pic.Picture)
	assert.Equal(t, byte(id3v2.PTFrontCover), pic.PictureType)
}

func TestTagger_EmbedPosterReplacesCover(t *testing.T) {
	path := writeFakeMP3(t)
	event := model.Event{Match: "Lions vs Bears"}
	tagger := NewTagger(nil)

	require.NoError(t, tagger.EmbedPoster(path, event, []byte("first")))
	require.NoError(t, tagger.EmbedPoster(path, event, []byte("second")))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	require.Len(t, pics, 1)
	assert.Equal(t, []byte("second"), pics[0].(id3v2.PictureFrame).Picture)
	assert.Equal(t, "Lions vs Bears", tag.Artist())
}

func TestTagger_Comments(t *testing.T) {
	path := writeFakeMP3(t)
	cfg := DefaultTagConfig()
	cfg.Comments = TagModify
	cfg.Date = TagDoNotModify

	event := model.Event{Artist: "The Band", Date: "12/05/2025", Location: "Texas", TimeOfDay: "day"}
	require.NoError(t, NewTagger(cfg).EmbedPoster(path, event, nil))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	comments := tag.GetFrames(tag.CommonID("Comments"))
	require.Len(t, comments, 1)
	assert.Equal(t, "Texas, day", comments[0].(id3v2.CommentFrame).Text)
	assert.Empty(t, tag.GetFrames("TDRC"))
	assert.Empty(t, tag.GetFrames(tag.CommonID("Attached picture")))
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil).EmbedPoster(filepath.Join(t.TempDir(), "none.mp3"), model.Event{Artist: "x"}, nil)
	assert.Error(t, err)
}
