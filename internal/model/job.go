package model

import (
	"time"
)

// JobStatus describes where a job currently sits in its lifecycle.
//
// The runner is the only component that moves a job between statuses.
// Active statuses (Filling, Creating, Waiting, Downloading) are held by
// at most one job at a time.
type JobStatus string

const (
	// StatusPending means the job is queued and has not started yet.
	StatusPending JobStatus = "pending"

	// StatusFilling means the create form is being populated.
	StatusFilling JobStatus = "filling"

	// StatusCreating means the generation request has been triggered.
	StatusCreating JobStatus = "creating"

	// StatusWaiting means the job is waiting for remote generation to finish.
	StatusWaiting JobStatus = "waiting"

	// StatusDownloading means generated clips are being retrieved.
	StatusDownloading JobStatus = "downloading"

	// StatusCompleted means all artifacts were saved successfully.
	StatusCompleted JobStatus = "completed"

	// StatusFailed means the job exhausted its retry budget.
	StatusFailed JobStatus = "failed"

	// StatusSkipped means the user explicitly skipped the job.
	StatusSkipped JobStatus = "skipped"
)

// IsActive reports whether the status represents in-flight execution.
func (s JobStatus) IsActive() bool {
	switch s {
	case StatusFilling, StatusCreating, StatusWaiting, StatusDownloading:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is a final state.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// SongInput is the user-provided description of one song to generate.
//
// Example:
//
//	input := model.SongInput{
//	    Title:        "Neon Rain",
//	    Style:        "synthwave, dreamy",
//	    Lyrics:       "city lights below...",
//	    Instrumental: false,
//	}
type SongInput struct {
	// Title is the song title, also used for output file naming.
	Title string `json:"title"`

	// Style is the free-text style/genre prompt.
	Style string `json:"style"`

	// Lyrics holds custom lyrics. Empty means let the site write them,
	// or no lyrics at all when Instrumental is set.
	Lyrics string `json:"lyrics"`

	// Instrumental requests a song without vocals.
	Instrumental bool `json:"instrumental"`

	// Subfolder is an optional folder under the downloads path to save
	// this job's clips into. Empty means the downloads path itself.
	Subfolder string `json:"subfolder,omitempty"`
}

// Job is one queued generation request and its execution state.
//
// A Job is created when the user submits a SongInput and is mutated only
// by the queue runner. Jobs are never deleted except on explicit queue
// clear.
type Job struct {
	// ID is a unique job identifier (UUID).
	ID string `json:"id"`

	// Input is the song description this job will generate.
	Input SongInput `json:"input"`

	// Status is the current lifecycle state.
	Status JobStatus `json:"status"`

	// Error holds the most recent failure message, if any.
	Error string `json:"error,omitempty"`

	// RetryCount is how many times this job has been re-queued after
	// a failure.
	RetryCount int `json:"retryCount"`

	// ClipIDs are the identifiers of clips produced by this job.
	ClipIDs []string `json:"clipIds,omitempty"`

	// CreatedAt is when the job was added to the queue.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the job last changed state.
	UpdatedAt time.Time `json:"updatedAt"`
}

// QueueState is the full queue snapshot owned by the runner.
//
// A single shared instance exists per session. It is persisted on every
// mutation and broadcast to observers; restoring a persisted snapshot
// resets in-flight jobs to pending and clears the running flag.
type QueueState struct {
	// Jobs holds all queued jobs in insertion order.
	Jobs []*Job `json:"jobs"`

	// Running reports whether the runner loop is processing jobs.
	Running bool `json:"running"`

	// CurrentJobID is the id of the active job, empty when idle.
	CurrentJobID string `json:"currentJobId,omitempty"`
}

// PendingCount returns the number of jobs still waiting to run.
func (q *QueueState) PendingCount() int {
	n := 0
	for _, job := range q.Jobs {
		if job.Status == StatusPending {
			n++
		}
	}
	return n
}

// FirstPending returns the first job in insertion order whose status is
// pending, or nil when none remain.
func (q *QueueState) FirstPending() *Job {
	for _, job := range q.Jobs {
		if job.Status == StatusPending {
			return job
		}
	}
	return nil
}

// Find returns the job with the given id, or nil.
func (q *QueueState) Find(id string) *Job {
	for _, job := range q.Jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Normalize resets transient state after restoring a persisted snapshot:
// the running flag is cleared, the current job id is dropped, and any job
// caught mid-flight reverts to pending so it is retried on next start.
func (q *QueueState) Normalize() {
	q.Running = false
	q.CurrentJobID = ""
	for _, job := range q.Jobs {
		if job.Status.IsActive() {
			job.Status = StatusPending
		}
	}
}

// Clone returns a deep copy of the snapshot, safe to hand to observers.
func (q *QueueState) Clone() *QueueState {
	out := &QueueState{
		Running:      q.Running,
		CurrentJobID: q.CurrentJobID,
		Jobs:         make([]*Job, len(q.Jobs)),
	}
	for i, job := range q.Jobs {
		copied := *job
		copied.ClipIDs = append([]string(nil), job.ClipIDs...)
		out.Jobs[i] = &copied
	}
	return out
}
