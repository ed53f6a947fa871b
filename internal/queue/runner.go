package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

// Store persists queue snapshots and settings between sessions.
// *store.SQLite satisfies it.
type Store interface {
	SaveQueue(ctx context.Context, state *model.QueueState) error
	SaveSettings(ctx context.Context, settings *config.Settings) error
}

// Page is the liveness surface of the automation tab. The runner
// pings it before every job and tries to re-inject the page helpers
// when it stops responding.
type Page interface {
	Ping(ctx context.Context) error
	InjectHelpers(ctx context.Context) error
}

// Runner owns the queue. It processes jobs strictly one at a time in
// insertion order, persists every mutation and broadcasts snapshots on
// the event bus.
type Runner struct {
	mu       sync.Mutex
	state    *model.QueueState
	settings *config.Settings

	store    Store
	bus      *events.Bus
	pipeline Pipeline
	page     Page

	cancel context.CancelFunc
	done   chan struct{}

	// test seams
	retryDelay        time.Duration
	heartbeatInterval time.Duration
	jobTimeoutBuffer  time.Duration
}

// NewRunner creates a runner over an empty queue.
func NewRunner(store Store, bus *events.Bus, pipeline Pipeline, settings *config.Settings) *Runner {
	return &Runner{
		state:             &model.QueueState{},
		settings:          settings,
		store:             store,
		bus:               bus,
		pipeline:          pipeline,
		retryDelay:        2 * time.Second,
		heartbeatInterval: 30 * time.Second,
		jobTimeoutBuffer:  time.Minute,
	}
}

// SetPage installs the automation tab liveness check. Without a page
// the pre-job check is skipped, which only makes sense in tests and
// API-only setups.
func (r *Runner) SetPage(page Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = page
}

// Restore installs a previously persisted queue snapshot. The snapshot
// must already be normalized, which LoadQueue guarantees.
func (r *Runner) Restore(state *model.QueueState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

// Snapshot returns a deep copy of the current queue state.
func (r *Runner) Snapshot() *model.QueueState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Settings returns the current settings value.
func (r *Runner) Settings() config.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.settings
}

// UpdateSettings applies a partial settings change and persists it.
// The change takes effect from the next job.
func (r *Runner) UpdateSettings(ctx context.Context, patch config.Patch) error {
	r.mu.Lock()
	r.settings.Apply(patch)
	snapshot := *r.settings
	r.mu.Unlock()

	r.bus.Log(events.LevelInfo, "settings updated")
	return r.store.SaveSettings(ctx, &snapshot)
}

// ReplaceSettings swaps the full settings snapshot and persists it.
func (r *Runner) ReplaceSettings(ctx context.Context, s *config.Settings) error {
	r.mu.Lock()
	*r.settings = *s
	snapshot := *r.settings
	r.mu.Unlock()

	r.bus.Log(events.LevelInfo, "settings replaced")
	return r.store.SaveSettings(ctx, &snapshot)
}

// Add appends a job to the queue and returns a copy of it.
func (r *Runner) Add(ctx context.Context, input model.SongInput) (model.Job, error) {
	now := time.Now()
	job := &model.Job{
		ID:        uuid.NewString(),
		Input:     input,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.state.Jobs = append(r.state.Jobs, job)
	r.mu.Unlock()

	r.bus.Log(events.LevelInfo, fmt.Sprintf("queued %q", input.Title))
	return *job, r.persist(ctx)
}

// Skip marks a pending job as skipped. Active and terminal jobs cannot
// be skipped.
func (r *Runner) Skip(ctx context.Context, id string) error {
	r.mu.Lock()
	job := r.state.Find(id)
	if job == nil {
		r.mu.Unlock()
		return fmt.Errorf("job %s not found", id)
	}
	if job.Status != model.StatusPending {
		r.mu.Unlock()
		return fmt.Errorf("job %s is %s, only pending jobs can be skipped", id, job.Status)
	}
	job.Status = model.StatusSkipped
	job.UpdatedAt = time.Now()
	r.mu.Unlock()

	return r.persist(ctx)
}

// Clear removes every job. The queue must be stopped.
func (r *Runner) Clear(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Running {
		r.mu.Unlock()
		return ErrQueueRunning
	}
	r.state.Jobs = nil
	r.state.CurrentJobID = ""
	r.mu.Unlock()

	r.bus.Log(events.LevelInfo, "queue cleared")
	return r.persist(ctx)
}

// Running reports whether the processing loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Running
}

// Start launches the processing loop. It returns immediately; progress
// is observable on the event bus.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.state.Running = true
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.mu.Unlock()

	if err := r.persist(ctx); err != nil {
		r.bus.Log(events.LevelWarning, fmt.Sprintf("persist on start: %v", err))
	}

	go r.loop(loopCtx)
	return nil
}

// Stop aborts the active job cooperatively and halts the loop. It
// blocks until the loop has exited.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the processing loop exits on its own, typically
// because the queue drained.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.state.Running = false
		r.state.CurrentJobID = ""
		r.cancel = nil
		done := r.done
		r.mu.Unlock()

		r.persist(context.WithoutCancel(ctx))
		close(done)
	}()

	go r.heartbeat(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		job := r.takeNext()
		if job == nil {
			r.bus.Log(events.LevelSuccess, "queue drained")
			return
		}

		if err := r.ensurePage(ctx); err != nil {
			// Leave the job pending so a restart picks it up.
			r.bus.Log(events.LevelError, err.Error())
			return
		}

		r.runJob(ctx, job.ID)

		if ctx.Err() != nil {
			return
		}
		s := r.currentSettings()
		r.sleep(ctx, s.DelayBetweenJobs())
	}
}

// takeNext claims the first pending job and marks it current.
func (r *Runner) takeNext() *model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.state.FirstPending()
	if job == nil {
		return nil
	}
	r.state.CurrentJobID = job.ID
	copied := *job
	return &copied
}

// ensurePage verifies the automation tab responds, re-injecting the
// page helpers between attempts.
func (r *Runner) ensurePage(ctx context.Context) error {
	if r.page == nil {
		return nil
	}
	s := r.currentSettings()

	var lastErr error
	for attempt := 0; attempt < s.PageRetryLimit; attempt++ {
		if attempt > 0 {
			r.sleep(ctx, time.Duration(s.PageRetryDelay)*time.Second)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		err := r.page.Ping(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if err := r.page.InjectHelpers(ctx); err != nil {
			lastErr = err
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrPageUnreachable, s.PageRetryLimit, lastErr)
}

// runJob executes one job and applies the retry policy to its outcome.
func (r *Runner) runJob(ctx context.Context, id string) {
	job, ok := r.snapshotJob(id)
	if !ok {
		return
	}
	s := r.currentSettings()

	jobCtx, cancel := context.WithTimeout(ctx, s.GenerationTimeout()+r.jobTimeoutBuffer)
	clipIDs, err := r.pipeline.Execute(jobCtx, job, func(status model.JobStatus) {
		r.updateJob(ctx, id, func(j *model.Job) {
			j.Status = status
		})
	})
	cancel()

	switch {
	case err == nil:
		r.updateJob(ctx, id, func(j *model.Job) {
			j.Status = model.StatusCompleted
			j.Error = ""
			j.ClipIDs = clipIDs
		})
		r.bus.Log(events.LevelSuccess, fmt.Sprintf("job %q completed", job.Input.Title))

	case ctx.Err() != nil:
		// The queue was stopped; the job did not fail on its own.
		r.updateJob(ctx, id, func(j *model.Job) {
			j.Status = model.StatusPending
		})
		r.bus.Log(events.LevelInfo, fmt.Sprintf("job %q aborted, left pending", job.Input.Title))

	case job.RetryCount < s.MaxRetries:
		r.updateJob(ctx, id, func(j *model.Job) {
			j.Status = model.StatusPending
			j.RetryCount++
			j.Error = err.Error()
			j.ClipIDs = clipIDs
		})
		r.bus.Log(events.LevelWarning, fmt.Sprintf("job %q failed (%s), retry %d/%d: %v",
			job.Input.Title, Classify(err), job.RetryCount+1, s.MaxRetries, err))
		r.sleep(ctx, r.retryDelay)

	default:
		r.updateJob(ctx, id, func(j *model.Job) {
			j.Status = model.StatusFailed
			j.Error = err.Error()
			j.ClipIDs = clipIDs
		})
		r.bus.Log(events.LevelError, fmt.Sprintf("job %q failed permanently (%s): %v",
			job.Input.Title, Classify(err), err))
	}
}

func (r *Runner) snapshotJob(id string) (model.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.state.Find(id)
	if job == nil {
		return model.Job{}, false
	}
	return *job, true
}

// updateJob mutates one job under the lock, then persists and
// broadcasts the new snapshot.
func (r *Runner) updateJob(ctx context.Context, id string, mutate func(*model.Job)) {
	r.mu.Lock()
	job := r.state.Find(id)
	if job != nil {
		mutate(job)
		job.UpdatedAt = time.Now()
		// The current marker tracks the active job only; drop it as
		// soon as the job settles back to pending or a terminal state.
		if r.state.CurrentJobID == job.ID && !job.Status.IsActive() {
			r.state.CurrentJobID = ""
		}
	}
	r.mu.Unlock()

	if err := r.persist(context.WithoutCancel(ctx)); err != nil {
		r.bus.Log(events.LevelWarning, fmt.Sprintf("persist: %v", err))
	}
}

// persist saves the queue and broadcasts the snapshot.
func (r *Runner) persist(ctx context.Context) error {
	r.mu.Lock()
	snapshot := r.state.Clone()
	r.mu.Unlock()

	r.bus.Queue(snapshot)
	return r.store.SaveQueue(ctx, snapshot)
}

func (r *Runner) currentSettings() config.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.settings
}

// heartbeat emits a periodic liveness event while the loop runs, so
// observers can tell a long generation wait from a hung runner.
func (r *Runner) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(r.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.bus.Heartbeat()
		}
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
