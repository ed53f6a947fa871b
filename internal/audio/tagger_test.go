package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

func writeTestMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	// Minimal MPEG frame header followed by silence. id3v2 only needs a
	// readable file to prepend a tag to.
	frame := []byte{0xFF, 0xFB, 0x90, 0x00}
	data := append(frame, make([]byte, 416)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTagClipWritesFrames(t *testing.T) {
	path := writeTestMP3(t)
	clip := model.Clip{
		ID:     "f3a1b2c4-0000-1111-2222-333344445555",
		Title:  "Neon Rain",
		Style:  "synthwave",
		Lyrics: "verse one\nchorus",
	}

	tagger := NewTagger()
	err := tagger.TagClip(context.Background(), path, clip, TagOptions{
		Artist:     "Suno",
		SaveLyrics: true,
	})
	if err != nil {
		t.Fatalf("TagClip: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "Neon Rain" {
		t.Errorf("title = %q, want %q", got, "Neon Rain")
	}
	if got := tag.Artist(); got != "Suno" {
		t.Errorf("artist = %q, want %q", got, "Suno")
	}
	if got := tag.Genre(); got != "synthwave" {
		t.Errorf("genre = %q, want %q", got, "synthwave")
	}

	lyrics := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	if len(lyrics) != 1 {
		t.Fatalf("lyrics frames = %d, want 1", len(lyrics))
	}
}

func TestTagClipEmbedsArtwork(t *testing.T) {
	path := writeTestMP3(t)
	art := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10} // JPEG magic prefix

	tagger := NewTagger()
	err := tagger.TagClip(context.Background(), path, model.Clip{Title: "X"}, TagOptions{
		SaveArtwork: true,
		ArtworkData: art,
	})
	if err != nil {
		t.Fatalf("TagClip: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()

	pics := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("picture frames = %d, want 1", len(pics))
	}
	pic, ok := pics[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("frame type %T, want PictureFrame", pics[0])
	}
	if pic.MimeType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", pic.MimeType)
	}
}

func TestTagClipMissingFile(t *testing.T) {
	tagger := NewTagger()
	err := tagger.TagClip(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"), model.Clip{}, TagOptions{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
