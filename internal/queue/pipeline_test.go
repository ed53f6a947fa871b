package queue

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser/browsertest"
	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/download"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/monitor"
	"github.com/gemchajang/suno-batch-generator/internal/selector"
)

// e2eBridge simulates the create page: clicking the create button makes
// two new clips appear.
type e2eBridge struct {
	*browsertest.FakeBridge
	created atomic.Bool
}

func (b *e2eBridge) Click(ctx context.Context, locator string) error {
	if locator == "loc-create" {
		b.created.Store(true)
	}
	return b.FakeBridge.Click(ctx, locator)
}

type captureSink struct {
	mu    sync.Mutex
	files []string
}

func (s *captureSink) Save(ctx context.Context, art download.Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := art.Clip.FileName(&model.ClipFileConfig{FileNameFormat: "{title} ({index})", Format: art.Format})
	s.files = append(s.files, name)
	return "/downloads/" + name, nil
}

type urlStrategy struct{}

func (urlStrategy) Name() string { return "test-url" }

func (urlStrategy) Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*download.Artifact, error) {
	return &download.Artifact{Clip: clip, URL: "https://example.test/" + clip.ID, Format: format}, nil
}

func newE2EBridge() *e2eBridge {
	bridge := &e2eBridge{FakeBridge: &browsertest.FakeBridge{}}

	bridge.SetFindFunc(func(css, requiredText string) (string, bool) {
		switch {
		case strings.Contains(css, `aria-label="Custom"`):
			return "loc-custom", true
		case strings.Contains(css, "song title"):
			return "loc-title", true
		case strings.Contains(css, "style of music"):
			return "loc-style", true
		case strings.Contains(css, "your own lyrics"):
			return "loc-lyrics", true
		case strings.Contains(css, `aria-label="Instrumental"`):
			return "loc-instrumental", true
		case strings.Contains(css, "create-button"):
			return "loc-create", true
		}
		return "", false
	})

	bridge.SetCountFunc(func(css string) int {
		if strings.Contains(css, "More Options") && bridge.created.Load() {
			return 2
		}
		return 0
	})

	bridge.SetAttrFunc(func(css, attr string) []string {
		if attr == "data-clip-id" && bridge.created.Load() {
			return []string{"clip-1", "clip-2"}
		}
		return nil
	})

	bridge.EvalFunc = func(js string, out any) error {
		switch {
		case strings.Contains(js, "isContentEditable"):
			if b, ok := out.(*bool); ok {
				*b = false
			}
		case strings.Contains(js, "getOwnPropertyDescriptor"):
			if b, ok := out.(*bool); ok {
				*b = true
			}
		case strings.Contains(js, "aria-checked"):
			if pp, ok := out.(**bool); ok {
				off := false
				*pp = &off
			}
		default:
			if n, ok := out.(*int); ok {
				*n = 0
			}
		}
		return nil
	}

	return bridge
}

func TestPipelineEndToEnd(t *testing.T) {
	bridge := newE2EBridge()
	sink := &captureSink{}
	retriever := download.NewRetriever(sink, nil, urlStrategy{})

	settings := fastSettings()
	settings.GenerationTimeoutSec = 5

	bus := events.NewBus(100)
	resolver := selector.NewResolver(bridge, selector.DefaultEntries())
	pipeline := NewBrowserPipeline(bridge, resolver, retriever, bus, func() *config.Settings {
		s := *settings
		return &s
	})
	pipeline.resolveWait = 200 * time.Millisecond
	pipeline.baselineWait = 50 * time.Millisecond
	pipeline.monitorCfg = monitor.Config{
		PollInterval:         5 * time.Millisecond,
		MutationPollInterval: 5 * time.Millisecond,
		StabilizationWindow:  20 * time.Millisecond,
		SettleDelay:          0,
		ExtendCeiling:        50 * time.Millisecond,
		ExpectedClips:        2,
	}

	r := NewRunner(&memStore{}, bus, pipeline, settings)
	r.retryDelay = 0
	if _, err := r.Add(context.Background(), model.SongInput{
		Title:  "A",
		Style:  "pop",
		Lyrics: "la la",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	job := r.Snapshot().Jobs[0]
	if job.Status != model.StatusCompleted {
		t.Fatalf("status = %s (error %q), want completed", job.Status, job.Error)
	}
	if len(job.ClipIDs) != 2 {
		t.Errorf("clip ids = %v, want 2", job.ClipIDs)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.files) != 2 {
		t.Fatalf("sink received %d files, want 2", len(sink.files))
	}
	for _, name := range sink.files {
		if !strings.HasSuffix(name, ".mp3") {
			t.Errorf("file %q does not end in .mp3", name)
		}
		if !strings.HasPrefix(name, "A (") {
			t.Errorf("file %q does not carry the song title", name)
		}
	}
}
