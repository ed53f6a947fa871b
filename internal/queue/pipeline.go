package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/download"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/form"
	"github.com/gemchajang/suno-batch-generator/internal/model"
	"github.com/gemchajang/suno-batch-generator/internal/monitor"
	"github.com/gemchajang/suno-batch-generator/internal/selector"
)

// Pipeline executes one job end to end. setStatus reports phase
// transitions back to the runner, which persists and broadcasts them.
// The returned clip ids are recorded on the job even when err is
// non-nil, so a partially retrieved generation stays inspectable.
type Pipeline interface {
	Execute(ctx context.Context, job model.Job, setStatus func(model.JobStatus)) (clipIDs []string, err error)
}

// BrowserPipeline is the production pipeline: it fills the creation
// form in the automation tab, triggers generation, waits for the new
// clips and retrieves their audio.
type BrowserPipeline struct {
	bridge    browser.Bridge
	resolver  *selector.Resolver
	filler    *form.Filler
	retriever *download.Retriever
	bus       *events.Bus
	settings  func() *config.Settings

	monitorCfg   monitor.Config
	resolveWait  time.Duration
	baselineWait time.Duration
}

// NewBrowserPipeline wires the production pipeline. settings is called
// at each phase so live settings changes apply to the next job.
func NewBrowserPipeline(bridge browser.Bridge, resolver *selector.Resolver, retriever *download.Retriever, bus *events.Bus, settings func() *config.Settings) *BrowserPipeline {
	return &BrowserPipeline{
		bridge:       bridge,
		resolver:     resolver,
		filler:       form.NewFiller(bridge),
		retriever:    retriever,
		bus:          bus,
		settings:     settings,
		monitorCfg:   monitor.DefaultConfig(),
		resolveWait:  10 * time.Second,
		baselineWait: 500 * time.Millisecond,
	}
}

func (p *BrowserPipeline) log(level events.Level, format string, args ...any) {
	if p.bus != nil {
		p.bus.Log(level, fmt.Sprintf(format, args...))
	}
}

// Execute runs fill, create, wait and download for one job.
func (p *BrowserPipeline) Execute(ctx context.Context, job model.Job, setStatus func(model.JobStatus)) ([]string, error) {
	setStatus(model.StatusFilling)
	if err := p.fillForm(ctx, job.Input); err != nil {
		return nil, err
	}

	setStatus(model.StatusCreating)
	result, err := p.createAndWait(ctx, job, setStatus)
	if err != nil {
		return nil, err
	}
	if result.TimedOut {
		return result.NewClipIDs, fmt.Errorf("job %s: %w", job.ID, ErrGenerationTimeout)
	}

	setStatus(model.StatusDownloading)
	clips := p.clipsForJob(job, result.NewClipIDs)
	s := p.settings()
	if _, err := p.retriever.RetrieveAll(ctx, clips, s.Format(), job.Input.Subfolder); err != nil {
		return result.NewClipIDs, err
	}

	return result.NewClipIDs, nil
}

// fillForm puts the creation form into custom mode and fills every
// field of the job input.
func (p *BrowserPipeline) fillForm(ctx context.Context, input model.SongInput) error {
	custom, err := p.resolver.WaitFor(ctx, selector.KeyCustomToggle, p.resolveWait)
	if err != nil {
		return fmt.Errorf("custom mode toggle: %w", err)
	}
	if err := p.filler.SetToggle(ctx, custom, true); err != nil {
		return fmt.Errorf("enable custom mode: %w", err)
	}

	fields := []struct {
		key   string
		value string
		skip  bool
	}{
		{selector.KeyTitleInput, input.Title, false},
		{selector.KeyStyleInput, input.Style, false},
		{selector.KeyLyricsInput, input.Lyrics, input.Instrumental},
	}
	for _, field := range fields {
		if field.skip || field.value == "" {
			continue
		}
		locator, err := p.resolver.WaitFor(ctx, field.key, p.resolveWait)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		strategy, err := p.filler.Fill(ctx, locator, field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
		p.log(events.LevelVerbose, "filled %s via %s", field.key, strategy)
	}

	instrumental, err := p.resolver.WaitFor(ctx, selector.KeyInstrumentalToggle, p.resolveWait)
	if err != nil {
		return fmt.Errorf("instrumental toggle: %w", err)
	}
	if err := p.filler.SetToggle(ctx, instrumental, input.Instrumental); err != nil {
		return fmt.Errorf("set instrumental: %w", err)
	}
	return nil
}

// createAndWait starts the completion monitor, clicks Create once the
// baseline is recorded, and waits for new clips.
func (p *BrowserPipeline) createAndWait(ctx context.Context, job model.Job, setStatus func(model.JobStatus)) (*monitor.Result, error) {
	create, err := p.resolver.WaitFor(ctx, selector.KeyCreateButton, p.resolveWait)
	if err != nil {
		return nil, fmt.Errorf("create button: %w", err)
	}

	mon := monitor.New(p.bridge, p.monitorCfg)

	type waitResult struct {
		result *monitor.Result
		err    error
	}
	done := make(chan waitResult, 1)
	go func() {
		result, err := mon.Wait(ctx, p.settings().GenerationTimeout())
		done <- waitResult{result, err}
	}()

	// The monitor records its baseline on entry; give it a moment
	// before the click starts mutating the page.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.baselineWait):
	}

	if err := p.bridge.Click(ctx, create); err != nil {
		return nil, fmt.Errorf("click create: %w", err)
	}
	setStatus(model.StatusWaiting)
	p.log(events.LevelInfo, "generation triggered for %q (job %s)", job.Input.Title, job.ID)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.result, r.err
	}
}

// clipsForJob builds clip records for the retrieved generation. A
// generation normally yields two clips of the same song.
func (p *BrowserPipeline) clipsForJob(job model.Job, clipIDs []string) []model.Clip {
	clips := make([]model.Clip, len(clipIDs))
	for i, id := range clipIDs {
		clips[i] = model.Clip{
			ID:     id,
			Title:  job.Input.Title,
			Style:  job.Input.Style,
			Lyrics: job.Input.Lyrics,
			Index:  i + 1,
		}
	}
	return clips
}
