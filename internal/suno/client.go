package suno

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/suno/dto"
)

// DefaultBaseURL is the studio API origin. The whole surface is
// private and version-fragile; paths here match what the web client
// calls today.
const DefaultBaseURL = "https://studio-api.suno.ai"

// ErrClipFailed is returned when the feed reports a clip errored
// remotely.
var ErrClipFailed = errors.New("clip generation failed remotely")

// ErrNotReady is returned by WAVFile while the conversion has not
// produced a URL yet.
var ErrNotReady = errors.New("file not ready")

// Client calls the site's private REST API.
//
// Example:
//
//	client := suno.NewClient(httpClient, "")
//	resp, err := client.Generate(ctx, dto.GenerateRequest{
//	    Title: "Neon Rain", Tags: "synthwave", Prompt: "city lights below",
//	})
type Client struct {
	http    *http.Client
	baseURL string

	pollInterval time.Duration
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL;
// tests point it at a local server.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:         httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: 5 * time.Second,
	}
}

// Generate submits a generation request and returns the created clips.
func (c *Client) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if req.MV == "" {
		req.MV = "chirp-v3-5"
	}

	var resp dto.GenerateResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/generate/v2/", req, &resp); err != nil {
		return nil, fmt.Errorf("submit generation: %w", err)
	}
	return &resp, nil
}

// Feed fetches current status and metadata for the given clip ids.
func (c *Client) Feed(ctx context.Context, ids []string) ([]dto.Clip, error) {
	endpoint := c.baseURL + "/api/feed/v2/?ids=" + url.QueryEscape(strings.Join(ids, ","))

	var clips []dto.Clip
	if err := c.http.GetJSON(ctx, endpoint, &clips); err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return clips, nil
}

// PollUntilReady polls the feed until the clip reaches the readiness
// the output format needs: the streaming state suffices for compressed
// audio, while lossless conversion requires the fully finished state.
func (c *Client) PollUntilReady(ctx context.Context, id string, format model.AudioFormat, timeout time.Duration) (*dto.Clip, error) {
	deadline := time.Now().Add(timeout)

	for {
		clips, err := c.Feed(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		if len(clips) > 0 {
			clip := clips[0]
			if clip.Failed() {
				return nil, fmt.Errorf("%w: %s (%s)", ErrClipFailed, id, clip.Metadata.ErrorMessage)
			}
			ready := clip.Streamable()
			if format == model.FormatWAV {
				ready = clip.Finished()
			}
			if ready {
				return &clip, nil
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("clip %s not ready within %s", id, timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// RequestWAVConversion asks the site to render the lossless file for a
// finished clip.
func (c *Client) RequestWAVConversion(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/api/gen/%s/convert_wav/", c.baseURL, id)
	if err := c.http.PostJSON(ctx, endpoint, struct{}{}, nil); err != nil {
		return fmt.Errorf("request wav conversion: %w", err)
	}
	return nil
}

// WAVFile fetches the conversion result URL. ErrNotReady is returned
// while the conversion is still running.
func (c *Client) WAVFile(ctx context.Context, id string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/gen/%s/wav_file/", c.baseURL, id)

	var out dto.WAVFile
	if err := c.http.GetJSON(ctx, endpoint, &out); err != nil {
		return "", fmt.Errorf("fetch wav file: %w", err)
	}
	if out.AudioWavURL == "" {
		return "", ErrNotReady
	}
	return out.AudioWavURL, nil
}

// WAVFileURL polls WAVFile until the conversion result appears.
func (c *Client) WAVFileURL(ctx context.Context, id string, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)

	for {
		url, err := c.WAVFile(ctx, id)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, ErrNotReady) {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("wav conversion for %s not ready within %s", id, timeout)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// AckUsage acknowledges billing/usage for a download. Failures are
// reported but callers treat them as non-fatal; the artifact is already
// local at that point.
func (c *Client) AckUsage(ctx context.Context, id string) error {
	payload := map[string]string{"clip_id": id, "action": "download"}
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/billing/usage/ack/", payload, nil); err != nil {
		return fmt.Errorf("ack usage: %w", err)
	}
	return nil
}

// CDNAudioURL builds the conventional CDN location for a clip's audio.
// This is a guess of last resort when no better URL was discoverable.
func CDNAudioURL(id string, format model.AudioFormat) string {
	return "https://cdn1.suno.ai/" + id + format.Extension()
}
