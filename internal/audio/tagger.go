package audio

import (
	"context"
	"fmt"

	"github.com/bogem/id3v2"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Tagger writes ID3v2 metadata into downloaded MP3 files.
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// TagOptions controls which frames TagClip writes.
type TagOptions struct {
	Artist        string
	SaveLyrics    bool
	SaveArtwork   bool
	ArtworkData   []byte // JPEG bytes, only used when SaveArtwork is set
	CommentPrefix string // written as a COMM frame when non-empty
}

// TagClip writes title, artist, genre, lyrics and cover art frames for
// a generated clip into the MP3 at path. Existing tags are replaced.
func (t *Tagger) TagClip(ctx context.Context, path string, clip model.Clip, opts TagOptions) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if clip.Title != "" {
		tag.SetTitle(clip.Title)
	}
	if opts.Artist != "" {
		tag.SetArtist(opts.Artist)
		tag.SetAlbum(opts.Artist)
	}
	if clip.Style != "" {
		tag.SetGenre(clip.Style)
	}

	if opts.SaveLyrics && clip.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "Lyrics",
			Lyrics:            clip.Lyrics,
		})
	}

	if opts.SaveArtwork && len(opts.ArtworkData) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     opts.ArtworkData,
		})
	}

	if opts.CommentPrefix != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        fmt.Sprintf("%s %s", opts.CommentPrefix, clip.ID),
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}
