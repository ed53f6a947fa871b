package download

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Strategy is one way of turning a completed clip into a byte source.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Fetch produces an artifact for the clip, or an error when this
	// path cannot deliver one.
	Fetch(ctx context.Context, clip model.Clip, format model.AudioFormat) (*Artifact, error)
}

// Retriever runs the strategy chain for completed clips and hands the
// winning artifact to the sink. Strategies are tried in order; the
// whole chain is retried with exponential cooldown when every strategy
// fails, since most failures here are transient page or network state.
type Retriever struct {
	strategies []Strategy
	sink       Sink
	bus        *events.Bus

	maxRetries       int
	cooldown         time.Duration
	cooldownExponent float64
}

// NewRetriever creates a retriever over the given strategy chain.
func NewRetriever(sink Sink, bus *events.Bus, strategies ...Strategy) *Retriever {
	return &Retriever{
		strategies:       strategies,
		sink:             sink,
		bus:              bus,
		maxRetries:       5,
		cooldown:         500 * time.Millisecond,
		cooldownExponent: 2.0,
	}
}

// SetRetryPolicy overrides the chain-level retry settings.
func (r *Retriever) SetRetryPolicy(maxRetries int, cooldown time.Duration, exponent float64) {
	if maxRetries > 0 {
		r.maxRetries = maxRetries
	}
	if cooldown > 0 {
		r.cooldown = cooldown
	}
	if exponent > 1 {
		r.cooldownExponent = exponent
	}
}

func (r *Retriever) log(level events.Level, format string, args ...any) {
	if r.bus != nil {
		r.bus.Log(level, fmt.Sprintf(format, args...))
	}
}

// Retrieve downloads one clip and returns the saved path.
func (r *Retriever) Retrieve(ctx context.Context, clip model.Clip, format model.AudioFormat, subfolder string) (string, error) {
	var lastErr error
	cooldown := r.cooldown

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			r.log(events.LevelVerbose, "retrying clip %s (attempt %d/%d)", clip.ID, attempt+1, r.maxRetries)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(cooldown):
			}
			cooldown = time.Duration(float64(cooldown) * r.cooldownExponent)
		}

		path, err := r.attempt(ctx, clip, format, subfolder)
		if err == nil {
			return path, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}

	return "", fmt.Errorf("clip %s after %d attempts: %w", clip.ID, r.maxRetries, lastErr)
}

// attempt runs the strategy chain once.
func (r *Retriever) attempt(ctx context.Context, clip model.Clip, format model.AudioFormat, subfolder string) (string, error) {
	var lastErr error
	for _, strat := range r.strategies {
		art, err := strat.Fetch(ctx, clip, format)
		if err != nil {
			r.log(events.LevelVerbose, "strategy %s for clip %s: %v", strat.Name(), clip.ID, err)
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		art.Subfolder = subfolder

		path, err := r.sink.Save(ctx, *art)
		if err != nil {
			// A sink failure on a guessed URL means the guess was
			// wrong; let the next strategy or attempt try.
			r.log(events.LevelVerbose, "sink for clip %s via %s: %v", clip.ID, strat.Name(), err)
			lastErr = err
			continue
		}

		r.log(events.LevelInfo, "clip %s retrieved via %s", clip.ID, strat.Name())
		return path, nil
	}
	if lastErr == nil {
		lastErr = ErrNoArtifact
	}
	return "", lastErr
}

// RetrieveAll downloads the clips of one generation concurrently, two
// at a time, and returns the saved paths in clip order. The first
// error cancels remaining work.
func (r *Retriever) RetrieveAll(ctx context.Context, clips []model.Clip, format model.AudioFormat, subfolder string) ([]string, error) {
	paths := make([]string, len(clips))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)

	for i, clip := range clips {
		i, clip := i, clip
		g.Go(func() error {
			path, err := r.Retrieve(gctx, clip, format, subfolder)
			if err != nil {
				return err
			}
			mu.Lock()
			paths[i] = path
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
