package suno

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/suno/dto"
)

func newTestClient(t *testing.T, handler nethttp.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(http.NewClient(), srv.URL)
	client.pollInterval = 5 * time.Millisecond
	return client
}

func TestGenerate(t *testing.T) {
	client := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/api/generate/v2/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req dto.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Title != "Neon Rain" || !req.MakeInstrumental {
			t.Errorf("request = %+v", req)
		}
		if req.MV == "" {
			t.Error("model version should default")
		}
		json.NewEncoder(w).Encode(dto.GenerateResponse{
			ID:    "req-1",
			Clips: []dto.Clip{{ID: "clip-a"}, {ID: "clip-b"}},
		})
	}))

	resp, err := client.Generate(context.Background(), dto.GenerateRequest{
		Title:            "Neon Rain",
		Tags:             "synthwave",
		MakeInstrumental: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Clips) != 2 || resp.Clips[0].ID != "clip-a" {
		t.Errorf("response = %+v", resp)
	}
}

func TestPollUntilReady_StreamingSufficesForMP3(t *testing.T) {
	var calls int
	client := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls++
		status := dto.StatusQueued
		if calls >= 3 {
			status = dto.StatusStreaming
		}
		json.NewEncoder(w).Encode([]dto.Clip{{ID: "clip-a", Status: status, AudioURL: "https://cdn/audio.mp3"}})
	}))

	clip, err := client.PollUntilReady(context.Background(), "clip-a", model.FormatMP3, time.Second)
	if err != nil {
		t.Fatalf("PollUntilReady: %v", err)
	}
	if clip.Status != dto.StatusStreaming {
		t.Errorf("status = %s", clip.Status)
	}
	if calls < 3 {
		t.Errorf("expected polling, got %d calls", calls)
	}
}

func TestPollUntilReady_WAVRequiresComplete(t *testing.T) {
	var calls int
	client := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls++
		status := dto.StatusStreaming
		if calls >= 3 {
			status = dto.StatusComplete
		}
		json.NewEncoder(w).Encode([]dto.Clip{{ID: "clip-a", Status: status}})
	}))

	clip, err := client.PollUntilReady(context.Background(), "clip-a", model.FormatWAV, time.Second)
	if err != nil {
		t.Fatalf("PollUntilReady: %v", err)
	}
	if clip.Status != dto.StatusComplete {
		t.Errorf("status = %s, streaming must not satisfy wav", clip.Status)
	}
}

func TestPollUntilReady_RemoteFailure(t *testing.T) {
	client := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		json.NewEncoder(w).Encode([]dto.Clip{{
			ID:     "clip-a",
			Status: dto.StatusError,
			Metadata: dto.Metadata{ErrorMessage: "content policy"},
		}})
	}))

	_, err := client.PollUntilReady(context.Background(), "clip-a", model.FormatMP3, time.Second)
	if !errors.Is(err, ErrClipFailed) {
		t.Fatalf("err = %v, want ErrClipFailed", err)
	}
	if !strings.Contains(err.Error(), "content policy") {
		t.Errorf("error should carry the remote message: %v", err)
	}
}

func TestWAVFileURL_PollsUntilPresent(t *testing.T) {
	var calls int
	client := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if !strings.HasSuffix(r.URL.Path, "/wav_file/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		calls++
		out := dto.WAVFile{}
		if calls >= 2 {
			out.AudioWavURL = "https://cdn/clip.wav"
		}
		json.NewEncoder(w).Encode(out)
	}))

	url, err := client.WAVFileURL(context.Background(), "clip-a", time.Second)
	if err != nil {
		t.Fatalf("WAVFileURL: %v", err)
	}
	if url != "https://cdn/clip.wav" {
		t.Errorf("url = %s", url)
	}
}

func TestCDNAudioURL(t *testing.T) {
	if got := CDNAudioURL("abc-123", model.FormatMP3); got != "https://cdn1.suno.ai/abc-123.mp3" {
		t.Errorf("mp3 url = %s", got)
	}
	if got := CDNAudioURL("abc-123", model.FormatWAV); got != "https://cdn1.suno.ai/abc-123.wav" {
		t.Errorf("wav url = %s", got)
	}
}
