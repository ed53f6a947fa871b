package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

const settingsKey = "settings"

// SQLite persists the queue snapshot and the settings snapshot so the
// session survives process restarts.
type SQLite struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the database at path.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  position INTEGER NOT NULL,
  id TEXT PRIMARY KEY,
  input_json TEXT NOT NULL,
  status TEXT NOT NULL,
  error_message TEXT,
  retry_count INTEGER NOT NULL DEFAULT 0,
  clip_ids TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// SaveQueue replaces the persisted queue snapshot. Called after every
// queue mutation, so it runs in a single transaction.
func (s *SQLite) SaveQueue(ctx context.Context, state *model.QueueState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return err
	}

	for i, job := range state.Jobs {
		inputJSON, err := json.Marshal(job.Input)
		if err != nil {
			return fmt.Errorf("encode job %s input: %w", job.ID, err)
		}
		var clipIDs any
		if len(job.ClipIDs) > 0 {
			encoded, err := json.Marshal(job.ClipIDs)
			if err != nil {
				return err
			}
			clipIDs = string(encoded)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO jobs (position, id, input_json, status, error_message, retry_count, clip_ids, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i,
			job.ID,
			string(inputJSON),
			string(job.Status),
			job.Error,
			job.RetryCount,
			clipIDs,
			job.CreatedAt.UnixMilli(),
			job.UpdatedAt.UnixMilli(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadQueue restores the persisted queue snapshot with restart
// semantics applied: the running flag is cleared and jobs caught
// mid-flight revert to pending.
func (s *SQLite) LoadQueue(ctx context.Context) (*model.QueueState, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, input_json, status, error_message, retry_count, clip_ids, created_at, updated_at
FROM jobs ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := &model.QueueState{}
	for rows.Next() {
		var (
			id, inputJSON, status  string
			errorMsg, clipIDs      sql.NullString
			retryCount             int
			createdMs, updatedMs   int64
		)
		if err := rows.Scan(&id, &inputJSON, &status, &errorMsg, &retryCount, &clipIDs, &createdMs, &updatedMs); err != nil {
			return nil, err
		}

		job := &model.Job{
			ID:         id,
			Status:     model.JobStatus(status),
			RetryCount: retryCount,
			CreatedAt:  time.UnixMilli(createdMs),
			UpdatedAt:  time.UnixMilli(updatedMs),
		}
		if err := json.Unmarshal([]byte(inputJSON), &job.Input); err != nil {
			return nil, fmt.Errorf("decode job %s input: %w", id, err)
		}
		if errorMsg.Valid {
			job.Error = errorMsg.String
		}
		if clipIDs.Valid {
			if err := json.Unmarshal([]byte(clipIDs.String), &job.ClipIDs); err != nil {
				return nil, fmt.Errorf("decode job %s clip ids: %w", id, err)
			}
		}
		state.Jobs = append(state.Jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	state.Normalize()
	return state, nil
}

// SaveSettings persists the settings snapshot.
func (s *SQLite) SaveSettings(ctx context.Context, settings *config.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingsKey, string(data))
	return err
}

// LoadSettings restores the persisted settings snapshot. The second
// return value is false when no snapshot has been saved yet.
func (s *SQLite) LoadSettings(ctx context.Context) (*config.Settings, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, settingsKey)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	settings := config.DefaultSettings()
	if err := json.Unmarshal([]byte(value), settings); err != nil {
		return nil, false, err
	}
	return settings, true, nil
}
