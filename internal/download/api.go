package download

import (
	"context"
	"fmt"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/suno"
)

// APIStrategy retrieves audio through the site's private REST API,
// bypassing the page entirely. It needs session credentials on the
// underlying HTTP client.
type APIStrategy struct {
	client  *suno.Client
	bus     *events.Bus
	timeout time.Duration
}

// NewAPIStrategy creates the API retrieval strategy. timeout bounds
// each polling phase (readiness, conversion).
func NewAPIStrategy(client *suno.Client, bus *events.Bus, timeout time.Duration) *APIStrategy {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &APIStrategy{client: client, bus: bus, timeout: timeout}
}

// Name identifies the strategy in logs.
func (s *APIStrategy) Name() string { return "api-poll" }

// Fetch polls the clip until it reaches the format's ready state, for
// WAV additionally triggers lossless conversion, and returns the
// resulting audio URL.
func (s *APIStrategy) Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*Artifact, error) {
	ready, err := s.client.PollUntilReady(ctx, clip.ID, format, s.timeout)
	if err != nil {
		return nil, err
	}

	enriched := clip
	if enriched.Title == "" {
		enriched.Title = ready.Title
	}
	if enriched.Style == "" {
		enriched.Style = ready.Metadata.Tags
	}
	if enriched.ImageURL == "" {
		enriched.ImageURL = ready.ImageURL
	}

	var url string
	if format == model.FormatWAV {
		if err := s.client.RequestWAVConversion(ctx, clip.ID); err != nil {
			return nil, fmt.Errorf("wav conversion for %s: %w", clip.ID, err)
		}
		url, err = s.client.WAVFileURL(ctx, clip.ID, s.timeout)
		if err != nil {
			return nil, fmt.Errorf("wav file for %s: %w", clip.ID, err)
		}
	} else {
		url = ready.AudioURL
		if url == "" {
			return nil, ErrNoArtifact
		}
	}

	// Billing acknowledgement mirrors what the site's own download
	// button does. Failure is not worth losing the artifact over.
	if err := s.client.AckUsage(ctx, clip.ID); err != nil && s.bus != nil {
		s.bus.Log(events.LevelVerbose, fmt.Sprintf("usage ack for %s: %v", clip.ID, err))
	}

	return &Artifact{Clip: enriched, URL: url, Format: format}, nil
}

// CDNStrategy constructs a conventional CDN URL from the clip id. With
// an HTTP client set it verifies the guess with a HEAD request first;
// without one the sink's fetch decides whether the guess was right.
type CDNStrategy struct {
	HTTP *http.Client
}

// Name identifies the strategy in logs.
func (CDNStrategy) Name() string { return "cdn-guess" }

// Fetch returns the conventional CDN location for the clip's audio.
func (s CDNStrategy) Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*Artifact, error) {
	url := suno.CDNAudioURL(clip.ID, format)
	if s.HTTP != nil {
		size, err := s.HTTP.GetFileSize(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", url, err)
		}
		if size == 0 {
			return nil, fmt.Errorf("probe %s: %w", url, ErrNoArtifact)
		}
	}
	return &Artifact{Clip: clip, URL: url, Format: format}, nil
}
