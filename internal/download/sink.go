package download

import (
	"context"
	"fmt"

	"github.com/gemchajang/suno-batch-generator/internal/audio"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	ioutils "github.com/gemchajang/suno-batch-generator/internal/io"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// FileSink saves artifacts to the local filesystem and applies ID3
// metadata to MP3 downloads.
type FileSink struct {
	HTTP    *http.Client
	Tagger  *audio.Tagger
	Images  *ioutils.ImageService
	Bus     *events.Bus
	BaseDir string
	FileCfg *model.ClipFileConfig

	ModifyTags      bool
	SaveCoverArt    bool
	CoverArtMaxSize int
}

// NewFileSink creates a sink writing under baseDir with the given
// filename configuration.
func NewFileSink(httpClient *http.Client, baseDir string, cfg *model.ClipFileConfig) *FileSink {
	return &FileSink{
		HTTP:    httpClient,
		Tagger:  audio.NewTagger(),
		Images:  ioutils.NewImageService(),
		BaseDir: baseDir,
		FileCfg: cfg,
	}
}

func (s *FileSink) log(level events.Level, format string, args ...any) {
	if s.Bus != nil {
		s.Bus.Log(level, fmt.Sprintf(format, args...))
	}
}

// Save writes the artifact to disk and, for MP3 output, tags it.
func (s *FileSink) Save(ctx context.Context, art Artifact) (string, error) {
	path := art.Clip.FilePath(s.BaseDir, art.Subfolder, s.FileCfg)

	switch {
	case len(art.Data) > 0:
		if err := ioutils.WriteFile(path, art.Data); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	case art.URL != "":
		if err := s.HTTP.DownloadFile(ctx, art.URL, path, nil); err != nil {
			return "", fmt.Errorf("download %s: %w", art.URL, err)
		}
	default:
		return "", fmt.Errorf("artifact for clip %s has no byte source", art.Clip.ID)
	}

	if s.ModifyTags && art.Format == model.FormatMP3 {
		if err := s.tag(ctx, path, art.Clip); err != nil {
			// Tagging failure must not discard an already saved file.
			s.log(events.LevelWarning, "tagging failed for %s: %v", path, err)
		}
	}

	s.log(events.LevelSuccess, "saved %s", path)
	return path, nil
}

func (s *FileSink) tag(ctx context.Context, path string, clip model.Clip) error {
	opts := audio.TagOptions{
		Artist:     "Suno",
		SaveLyrics: true,
	}

	if s.SaveCoverArt && clip.ImageURL != "" {
		art, err := s.coverArt(ctx, clip.ImageURL)
		if err != nil {
			s.log(events.LevelWarning, "cover art skipped for %s: %v", clip.ID, err)
		} else {
			opts.SaveArtwork = true
			opts.ArtworkData = art
		}
	}

	return s.Tagger.TagClip(ctx, path, clip, opts)
}

func (s *FileSink) coverArt(ctx context.Context, url string) ([]byte, error) {
	raw, err := s.HTTP.DownloadBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	max := s.CoverArtMaxSize
	if max <= 0 {
		max = 1000
	}
	return s.Images.ResizeImage(ctx, raw, max, max)
}
