package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

type memStore struct {
	mu        sync.Mutex
	saves     int
	lastState *model.QueueState
}

func (m *memStore) SaveQueue(ctx context.Context, state *model.QueueState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.lastState = state
	return nil
}

func (m *memStore) SaveSettings(ctx context.Context, settings *config.Settings) error {
	return nil
}

type fakePipeline struct {
	mu       sync.Mutex
	executed []string
	fn       func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error)
}

func (p *fakePipeline) Execute(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
	p.mu.Lock()
	p.executed = append(p.executed, job.Input.Title)
	p.mu.Unlock()
	if p.fn == nil {
		return []string{"clip-a", "clip-b"}, nil
	}
	return p.fn(ctx, job, set)
}

func (p *fakePipeline) titles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.executed...)
}

type fakePage struct {
	mu      sync.Mutex
	pingErr error
	pings   int
	injects int
}

func (f *fakePage) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakePage) InjectHelpers(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injects++
	return nil
}

func fastSettings() *config.Settings {
	s := config.DefaultSettings()
	s.DelayBetweenJobsSec = 0
	s.PageRetryDelay = 0
	return s
}

func newTestRunner(pipeline Pipeline, settings *config.Settings) (*Runner, *memStore) {
	store := &memStore{}
	r := NewRunner(store, events.NewBus(100), pipeline, settings)
	r.retryDelay = 0
	return r, store
}

func addJobs(t *testing.T, r *Runner, titles ...string) {
	t.Helper()
	for _, title := range titles {
		if _, err := r.Add(context.Background(), model.SongInput{Title: title, Style: "pop"}); err != nil {
			t.Fatalf("Add(%q): %v", title, err)
		}
	}
}

func TestRunnerProcessesJobsInInsertionOrder(t *testing.T) {
	pipeline := &fakePipeline{}
	r, _ := newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "first", "second", "third")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	got := pipeline.titles()
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("executed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("executed %v, want %v", got, want)
		}
	}

	state := r.Snapshot()
	if state.Running {
		t.Error("queue still running after drain")
	}
	if state.CurrentJobID != "" {
		t.Errorf("currentJobId = %q after drain", state.CurrentJobID)
	}
	for _, job := range state.Jobs {
		if job.Status != model.StatusCompleted {
			t.Errorf("job %q status = %s, want completed", job.Input.Title, job.Status)
		}
		if len(job.ClipIDs) != 2 {
			t.Errorf("job %q clip ids = %v", job.Input.Title, job.ClipIDs)
		}
	}
}

func TestRunnerExposesCurrentJobWhileExecuting(t *testing.T) {
	var r *Runner
	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		set(model.StatusFilling)
		state := r.Snapshot()
		if state.CurrentJobID != job.ID {
			t.Errorf("currentJobId = %q, want %q", state.CurrentJobID, job.ID)
		}
		active := 0
		for _, j := range state.Jobs {
			if j.Status.IsActive() {
				active++
			}
		}
		if active > 1 {
			t.Errorf("%d active jobs, want at most 1", active)
		}
		return nil, nil
	}

	r, _ = newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "a", "b")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()
}

func TestRunnerClearsCurrentJobOnSettledStatus(t *testing.T) {
	pipeline := &fakePipeline{}
	bus := events.NewBus(100)
	r := NewRunner(&memStore{}, bus, pipeline, fastSettings())
	r.retryDelay = 0
	addJobs(t, r, "a", "b")

	var mu sync.Mutex
	var stale []model.JobStatus
	bus.Subscribe(func(e events.Event) {
		if e.Kind != events.KindQueue || e.Queue == nil || e.Queue.CurrentJobID == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for _, j := range e.Queue.Jobs {
			if j.ID == e.Queue.CurrentJobID && !j.Status.IsActive() && j.Status != model.StatusPending {
				stale = append(stale, j.Status)
			}
		}
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(stale) > 0 {
		t.Errorf("broadcast snapshots named a settled job as current: %v", stale)
	}
}

func TestRunnerRetriesUntilExhaustion(t *testing.T) {
	settings := fastSettings()
	settings.MaxRetries = 2

	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		return nil, errors.New("create button vanished")
	}

	r, _ := newTestRunner(pipeline, settings)
	addJobs(t, r, "doomed")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	if got := len(pipeline.titles()); got != 3 {
		t.Errorf("executions = %d, want 3 (initial + 2 retries)", got)
	}

	job := r.Snapshot().Jobs[0]
	if job.Status != model.StatusFailed {
		t.Errorf("status = %s, want failed", job.Status)
	}
	if job.RetryCount != 2 {
		t.Errorf("retryCount = %d, want 2", job.RetryCount)
	}
	if job.Error == "" {
		t.Error("error message not recorded")
	}
}

func TestRunnerStopLeavesActiveJobPending(t *testing.T) {
	started := make(chan struct{})
	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		set(model.StatusWaiting)
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	r, _ := newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "interrupted")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	r.Stop()

	state := r.Snapshot()
	if state.Running {
		t.Error("queue still running after Stop")
	}
	job := state.Jobs[0]
	if job.Status != model.StatusPending {
		t.Errorf("status = %s, want pending", job.Status)
	}
	if job.RetryCount != 0 {
		t.Errorf("retryCount = %d, abort must not consume the retry budget", job.RetryCount)
	}
}

func TestRunnerHaltsWhenPageUnreachable(t *testing.T) {
	settings := fastSettings()
	settings.PageRetryLimit = 2

	pipeline := &fakePipeline{}
	page := &fakePage{pingErr: errors.New("tab gone")}

	r, _ := newTestRunner(pipeline, settings)
	r.SetPage(page)
	addJobs(t, r, "stranded")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	if got := len(pipeline.titles()); got != 0 {
		t.Errorf("pipeline ran %d times despite dead page", got)
	}
	if page.pings != 2 {
		t.Errorf("pings = %d, want 2", page.pings)
	}
	if page.injects == 0 {
		t.Error("helpers were never re-injected")
	}

	state := r.Snapshot()
	if state.Running {
		t.Error("queue still running")
	}
	if state.Jobs[0].Status != model.StatusPending {
		t.Errorf("status = %s, want pending", state.Jobs[0].Status)
	}
}

func TestRunnerStartWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		close(started)
		<-release
		return nil, nil
	}

	r, _ := newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "a")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	if err := r.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
	close(release)
	r.Wait()
}

func TestRunnerSkip(t *testing.T) {
	r, _ := newTestRunner(&fakePipeline{}, fastSettings())
	job, err := r.Add(context.Background(), model.SongInput{Title: "skip me"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Skip(context.Background(), job.ID); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if got := r.Snapshot().Jobs[0].Status; got != model.StatusSkipped {
		t.Errorf("status = %s, want skipped", got)
	}

	if err := r.Skip(context.Background(), job.ID); err == nil {
		t.Error("skipping a non-pending job must fail")
	}
	if err := r.Skip(context.Background(), "no-such-id"); err == nil {
		t.Error("skipping an unknown job must fail")
	}
}

func TestRunnerClearRequiresStoppedQueue(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		close(started)
		<-release
		return nil, nil
	}

	r, _ := newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "a")
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started

	if err := r.Clear(context.Background()); !errors.Is(err, ErrQueueRunning) {
		t.Errorf("Clear while running = %v, want ErrQueueRunning", err)
	}

	close(release)
	r.Wait()

	if err := r.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := len(r.Snapshot().Jobs); got != 0 {
		t.Errorf("jobs after clear = %d, want 0", got)
	}
}

func TestRunnerPersistsEveryMutation(t *testing.T) {
	pipeline := &fakePipeline{}
	r, store := newTestRunner(pipeline, fastSettings())
	addJobs(t, r, "a")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saves < 3 {
		t.Errorf("saves = %d, want at least add + status changes + final", store.saves)
	}
	if store.lastState == nil || store.lastState.Running {
		t.Error("final persisted snapshot must have running = false")
	}
}

func TestRunnerHeartbeat(t *testing.T) {
	release := make(chan struct{})
	pipeline := &fakePipeline{}
	pipeline.fn = func(ctx context.Context, job model.Job, set func(model.JobStatus)) ([]string, error) {
		<-release
		return nil, nil
	}

	bus := events.NewBus(100)
	r := NewRunner(&memStore{}, bus, pipeline, fastSettings())
	r.retryDelay = 0
	r.heartbeatInterval = 5 * time.Millisecond
	addJobs(t, r, "slow")

	var mu sync.Mutex
	beats := 0
	bus.Subscribe(func(e events.Event) {
		if e.Kind == events.KindHeartbeat {
			mu.Lock()
			beats++
			mu.Unlock()
		}
	})

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	close(release)
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if beats == 0 {
		t.Error("no heartbeat events during a long wait")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Fault
	}{
		{context.Canceled, FaultAbort},
		{context.DeadlineExceeded, FaultTimeout},
		{ErrGenerationTimeout, FaultTimeout},
		{fmt.Errorf("fetch feed: %w", &http.StatusError{Code: 503, Status: "503 Service Unavailable"}), FaultRemoteRejection},
		{errors.New("mystery"), FaultUnknown},
	}
	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}
