// Package queue owns job execution. The Runner processes queued jobs
// strictly one at a time in insertion order: it verifies the
// automation page is alive, runs the fill, create, wait and download
// pipeline with a per-job timeout, and applies the retry policy to
// failures. Every queue mutation is persisted and broadcast on the
// event bus, and stopping the queue aborts the active job
// cooperatively, leaving it pending for the next start.
package queue
