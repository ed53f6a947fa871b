// Package model defines the core data structures used throughout
// the suno-batch-generator application.
//
// # Job
//
// Job represents one queued generation request and its execution state:
//
//	job := &model.Job{
//	    ID:     uuid.NewString(),
//	    Input:  model.SongInput{Title: "Neon Rain", Style: "synthwave"},
//	    Status: model.StatusPending,
//	}
//
// Jobs move through pending -> filling -> creating -> waiting ->
// downloading before reaching a terminal status (completed, failed or
// skipped). Only the queue runner mutates jobs.
//
// # QueueState
//
// QueueState is the shared queue snapshot: the ordered job list, the
// running flag and the currently active job id. It is persisted on every
// mutation; Normalize() applies the restore semantics (running cleared,
// in-flight jobs reset to pending).
//
// # Clip
//
// Clip represents one generated audio candidate. A request commonly
// yields two clips. Output paths are computed from a ClipFileConfig:
//
//	cfg := &model.ClipFileConfig{FileNameFormat: "{title} ({index})", Format: model.FormatMP3}
//	path := clip.FilePath("/music/suno", "", cfg)
//
// Available placeholders: {title}, {style}, {index}, {id}
package model
