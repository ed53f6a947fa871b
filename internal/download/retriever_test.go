package download

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

type stubStrategy struct {
	mu    sync.Mutex
	name  string
	calls int
	fetch func(attempt int) (*Artifact, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*Artifact, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	return s.fetch(n)
}

type recordingSink struct {
	mu    sync.Mutex
	saved []Artifact
	err   error
}

func (s *recordingSink) Save(ctx context.Context, art Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, art)
	return "/downloads/" + art.Clip.FileName(&model.ClipFileConfig{
		FileNameFormat: "{title}",
		Format:         art.Format,
	}), nil
}

func fastRetriever(sink Sink, strategies ...Strategy) *Retriever {
	r := NewRetriever(sink, nil, strategies...)
	r.SetRetryPolicy(3, time.Millisecond, 2.0)
	return r
}

func TestRetrieveUsesFirstWorkingStrategy(t *testing.T) {
	clip := model.Clip{ID: "c1", Title: "Song"}
	art := &Artifact{Clip: clip, URL: "https://cdn/x.mp3", Format: model.FormatMP3}

	first := &stubStrategy{name: "a", fetch: func(int) (*Artifact, error) { return art, nil }}
	second := &stubStrategy{name: "b", fetch: func(int) (*Artifact, error) {
		t.Fatal("second strategy should not run")
		return nil, nil
	}}
	sink := &recordingSink{}

	path, err := fastRetriever(sink, first, second).Retrieve(context.Background(), clip, model.FormatMP3, "sub")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Errorf("path %q does not end in .mp3", path)
	}
	if len(sink.saved) != 1 {
		t.Fatalf("sink calls = %d, want 1", len(sink.saved))
	}
	if sink.saved[0].Subfolder != "sub" {
		t.Errorf("subfolder = %q, want %q", sink.saved[0].Subfolder, "sub")
	}
}

func TestRetrieveFallsThroughChain(t *testing.T) {
	clip := model.Clip{ID: "c1", Title: "Song"}
	failing := &stubStrategy{name: "ui", fetch: func(int) (*Artifact, error) {
		return nil, ErrNoArtifact
	}}
	working := &stubStrategy{name: "cdn", fetch: func(int) (*Artifact, error) {
		return &Artifact{Clip: clip, URL: "u", Format: model.FormatWAV}, nil
	}}
	sink := &recordingSink{}

	path, err := fastRetriever(sink, failing, working).Retrieve(context.Background(), clip, model.FormatWAV, "")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !strings.HasSuffix(path, ".wav") {
		t.Errorf("path %q does not end in .wav", path)
	}
	if failing.calls != 1 || working.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", failing.calls, working.calls)
	}
}

func TestRetrieveSinkFailureContinuesToNextStrategy(t *testing.T) {
	clip := model.Clip{ID: "c1", Title: "Song"}
	guess := &stubStrategy{name: "cdn", fetch: func(int) (*Artifact, error) {
		return &Artifact{Clip: clip, URL: "https://cdn/bad", Format: model.FormatMP3}, nil
	}}

	sink := &recordingSink{err: errors.New("404")}
	_, err := fastRetriever(sink, guess).Retrieve(context.Background(), clip, model.FormatMP3, "")
	if err == nil {
		t.Fatal("expected error when every save fails")
	}
	// One chain pass per attempt.
	if guess.calls != 3 {
		t.Errorf("strategy attempts = %d, want 3", guess.calls)
	}
}

func TestRetrieveRetriesThenSucceeds(t *testing.T) {
	clip := model.Clip{ID: "c1", Title: "Song"}
	flaky := &stubStrategy{name: "api", fetch: func(attempt int) (*Artifact, error) {
		if attempt < 3 {
			return nil, errors.New("transient")
		}
		return &Artifact{Clip: clip, URL: "u", Format: model.FormatMP3}, nil
	}}
	sink := &recordingSink{}

	if _, err := fastRetriever(sink, flaky).Retrieve(context.Background(), clip, model.FormatMP3, ""); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if flaky.calls != 3 {
		t.Errorf("attempts = %d, want 3", flaky.calls)
	}
}

func TestRetrieveHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stuck := &stubStrategy{name: "ui", fetch: func(int) (*Artifact, error) {
		cancel()
		return nil, errors.New("transient")
	}}

	_, err := fastRetriever(&recordingSink{}, stuck).Retrieve(ctx, model.Clip{ID: "c1"}, model.FormatMP3, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stuck.calls != 1 {
		t.Errorf("attempts after cancel = %d, want 1", stuck.calls)
	}
}

func TestRetrieveAllSavesEveryClip(t *testing.T) {
	clips := []model.Clip{
		{ID: "c1", Title: "One", Index: 1},
		{ID: "c2", Title: "Two", Index: 2},
	}
	strat := &stubStrategy{name: "cdn"}
	strat.fetch = func(int) (*Artifact, error) {
		return &Artifact{Clip: model.Clip{Title: "X"}, URL: "u", Format: model.FormatMP3}, nil
	}
	sink := &recordingSink{}

	paths, err := fastRetriever(sink, strat).RetrieveAll(context.Background(), clips, model.FormatMP3, "")
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}
	for _, p := range paths {
		if !strings.HasSuffix(p, ".mp3") {
			t.Errorf("path %q does not end in .mp3", p)
		}
	}
}

func TestCDNStrategyBuildsConventionalURL(t *testing.T) {
	art, err := CDNStrategy{}.Fetch(context.Background(), model.Clip{ID: "abc-123"}, model.FormatMP3)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if art.URL != "https://cdn1.suno.ai/abc-123.mp3" {
		t.Errorf("url = %q", art.URL)
	}
}
