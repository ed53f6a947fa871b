package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/browser"
)

// Result is the outcome of one generation watch.
type Result struct {
	// Completed reports that a completion signal fired.
	Completed bool

	// TimedOut reports that the hard timeout elapsed first.
	TimedOut bool

	// NewClipIDs are clip identifiers that appeared after the baseline
	// was taken, in document order.
	NewClipIDs []string
}

// Config holds the DOM probes and timing knobs for the monitor.
type Config struct {
	// ClipButtonCSS matches per-clip action buttons; their count
	// exceeding the baseline is completion signal (a).
	ClipButtonCSS string

	// AudioCSS matches audio elements; signal (b).
	AudioCSS string

	// ClipRowCSS and ClipAttr identify clip rows and the attribute
	// carrying the clip id.
	ClipRowCSS string
	ClipAttr   string

	// LoadingCSS matches the in-progress indicator; it disappearing
	// for StabilizationWindow after having been seen is signal (c).
	LoadingCSS string

	// PollInterval is the fixed-interval detection channel's period.
	PollInterval time.Duration

	// MutationPollInterval is how often the in-page mutation counter
	// is sampled.
	MutationPollInterval time.Duration

	// StabilizationWindow debounces the loading-indicator signal.
	StabilizationWindow time.Duration

	// SettleDelay is waited after any completion signal before
	// diffing clip ids.
	SettleDelay time.Duration

	// ExtendCeiling bounds the extra wait when fewer than
	// ExpectedClips new ids are found after completion.
	ExtendCeiling time.Duration

	// ExpectedClips is how many clips one request normally yields.
	ExpectedClips int
}

// DefaultConfig returns the probe set and timings for the current site.
func DefaultConfig() Config {
	return Config{
		ClipButtonCSS:        `button[aria-label="More Options"]`,
		AudioCSS:             `audio`,
		ClipRowCSS:           `[data-clip-id]`,
		ClipAttr:             `data-clip-id`,
		LoadingCSS:           `[data-testid="generation-progress"], .animate-spin`,
		PollInterval:         2 * time.Second,
		MutationPollInterval: 500 * time.Millisecond,
		StabilizationWindow:  3 * time.Second,
		SettleDelay:          2 * time.Second,
		ExtendCeiling:        30 * time.Second,
		ExpectedClips:        2,
	}
}

// Monitor detects asynchronous completion of a generation with no
// single reliable signal. Two detection channels race: an in-page
// MutationObserver sampled through a counter, and a fixed-interval
// poll. Both run the same completion check; the first signal wins and
// both are torn down.
type Monitor struct {
	bridge browser.Bridge
	cfg    Config

	mu             sync.Mutex
	baselineClips  map[string]bool
	baselineBtns   int
	baselineAudio  int
	loadingSeen    bool
	loadingGoneAt  time.Time
}

// New creates a Monitor with the given config; zero config fields fall
// back to DefaultConfig values.
func New(bridge browser.Bridge, cfg Config) *Monitor {
	def := DefaultConfig()
	if cfg.ClipButtonCSS == "" {
		cfg.ClipButtonCSS = def.ClipButtonCSS
	}
	if cfg.AudioCSS == "" {
		cfg.AudioCSS = def.AudioCSS
	}
	if cfg.ClipRowCSS == "" {
		cfg.ClipRowCSS = def.ClipRowCSS
	}
	if cfg.ClipAttr == "" {
		cfg.ClipAttr = def.ClipAttr
	}
	if cfg.LoadingCSS == "" {
		cfg.LoadingCSS = def.LoadingCSS
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.MutationPollInterval <= 0 {
		cfg.MutationPollInterval = def.MutationPollInterval
	}
	if cfg.StabilizationWindow <= 0 {
		cfg.StabilizationWindow = def.StabilizationWindow
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = def.SettleDelay
	}
	if cfg.ExtendCeiling <= 0 {
		cfg.ExtendCeiling = def.ExtendCeiling
	}
	if cfg.ExpectedClips <= 0 {
		cfg.ExpectedClips = def.ExpectedClips
	}
	return &Monitor{bridge: bridge, cfg: cfg}
}

// Wait records the baseline and blocks until a completion signal fires
// or the hard timeout elapses. A non-nil error only reports bridge
// failures; a timed-out generation is a valid Result.
func (m *Monitor) Wait(ctx context.Context, timeout time.Duration) (*Result, error) {
	if err := m.recordBaseline(ctx); err != nil {
		return nil, err
	}

	// Install the in-page observer; best effort, the poll channel
	// still works without it.
	_ = m.bridge.Eval(ctx, `window.__sbg && window.__sbg.observe()`, nil)
	defer func() {
		_ = m.bridge.Eval(context.WithoutCancel(ctx), `window.__sbg && window.__sbg.disconnect()`, nil)
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)

	signal := make(chan struct{}, 2)
	errs := make(chan error, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.watchMutations(watchCtx, signal, errs)
	}()
	go func() {
		defer wg.Done()
		m.watchPoll(watchCtx, signal, errs)
	}()
	// The watchers only exit once watchCtx is cancelled, so cancel
	// before joining or a timeout return would block forever.
	defer func() {
		stopWatch()
		wg.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errs:
		return nil, err
	case <-timer.C:
		return &Result{TimedOut: true}, nil
	case <-signal:
		stopWatch()
	}

	if m.cfg.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.cfg.SettleDelay):
		}
	}

	newIDs, err := m.collectNewClips(ctx)
	if err != nil {
		return nil, err
	}

	// Sibling clips can trail the first completion signal; extend the
	// wait up to a ceiling before settling for what was found.
	deadline := time.Now().Add(m.cfg.ExtendCeiling)
	for len(newIDs) < m.cfg.ExpectedClips && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.cfg.PollInterval):
		}
		if newIDs, err = m.collectNewClips(ctx); err != nil {
			return nil, err
		}
	}

	return &Result{Completed: true, NewClipIDs: newIDs}, nil
}

func (m *Monitor) recordBaseline(ctx context.Context) error {
	btns, err := m.bridge.Count(ctx, m.cfg.ClipButtonCSS)
	if err != nil {
		return err
	}
	audio, err := m.bridge.Count(ctx, m.cfg.AudioCSS)
	if err != nil {
		return err
	}
	ids, err := m.bridge.CollectAttr(ctx, m.cfg.ClipRowCSS, m.cfg.ClipAttr)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.baselineBtns = btns
	m.baselineAudio = audio
	m.baselineClips = make(map[string]bool, len(ids))
	for _, id := range ids {
		m.baselineClips[id] = true
	}
	m.loadingSeen = false
	m.loadingGoneAt = time.Time{}
	return nil
}

// watchMutations samples the in-page mutation counter and re-checks
// completion whenever the DOM changed.
func (m *Monitor) watchMutations(ctx context.Context, signal chan<- struct{}, errs chan<- error) {
	var lastCount int
	ticker := time.NewTicker(m.cfg.MutationPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var count int
		if err := m.bridge.Eval(ctx, `window.__sbg ? window.__sbg.mutations : 0`, &count); err != nil {
			continue // transient eval failures are not fatal here
		}
		if count == lastCount {
			continue
		}
		lastCount = count

		done, err := m.checkCompletion(ctx)
		if err != nil {
			select {
			case errs <- err:
			default:
			}
			return
		}
		if done {
			select {
			case signal <- struct{}{}:
			default:
			}
			return
		}
	}
}

// watchPoll runs the completion check on a fixed interval regardless of
// observed mutations.
func (m *Monitor) watchPoll(ctx context.Context, signal chan<- struct{}, errs chan<- error) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		done, err := m.checkCompletion(ctx)
		if err != nil {
			select {
			case errs <- err:
			default:
			}
			return
		}
		if done {
			select {
			case signal <- struct{}{}:
			default:
			}
			return
		}
	}
}

// checkCompletion evaluates all three completion conditions against the
// recorded baseline.
func (m *Monitor) checkCompletion(ctx context.Context) (bool, error) {
	btns, err := m.bridge.Count(ctx, m.cfg.ClipButtonCSS)
	if err != nil {
		return false, err
	}
	audio, err := m.bridge.Count(ctx, m.cfg.AudioCSS)
	if err != nil {
		return false, err
	}
	loading, err := m.bridge.Visible(ctx, m.cfg.LoadingCSS)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if btns > m.baselineBtns || audio > m.baselineAudio {
		return true, nil
	}

	// Signal (c): the indicator has to be observed at least once, then
	// stay gone for the stabilization window. Transient flicker resets
	// the clock.
	if loading {
		m.loadingSeen = true
		m.loadingGoneAt = time.Time{}
		return false, nil
	}
	if m.loadingSeen {
		if m.loadingGoneAt.IsZero() {
			m.loadingGoneAt = time.Now()
			return false, nil
		}
		if time.Since(m.loadingGoneAt) >= m.cfg.StabilizationWindow {
			return true, nil
		}
	}
	return false, nil
}

func (m *Monitor) collectNewClips(ctx context.Context) ([]string, error) {
	ids, err := m.bridge.CollectAttr(ctx, m.cfg.ClipRowCSS, m.cfg.ClipAttr)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var fresh []string
	for _, id := range ids {
		if !m.baselineClips[id] {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}
