package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clipmark/internal/export"
)

// BatchRecord is one persisted export run.
type BatchRecord struct {
	ID         string
	VideoPath  string
	Phase      string
	CreatedAt  time.Time
	FinishedAt *time.Time
	Jobs       []JobRecord
}

// JobRecord is one persisted job outcome.
type JobRecord struct {
	ID              string
	RangeID         string
	OutputPath      string
	Label           string
	StartSeconds    float64
	DurationSeconds float64
	ErrorMessage    string
	Elapsed         time.Duration
}

// Failed reports whether the job ended in error.
func (j JobRecord) Failed() bool {
	return j.ErrorMessage != ""
}

// RecordBatch persists a finished export run with its per-job outcomes.
func (s *Store) RecordBatch(ctx context.Context, batch export.Batch, phase export.Phase, outcomes []export.Outcome) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin batch tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		finished := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO export_batches (id, video_path, phase, created_at, finished_at)
             VALUES (?, ?, ?, ?, ?)`,
			batch.ID, batch.SourcePath, string(phase),
			batch.CreatedAt.UTC().Format(time.RFC3339Nano),
			nullableTime(&finished),
		); err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}

		for _, outcome := range outcomes {
			var errorMessage any
			if outcome.Err != nil {
				errorMessage = outcome.Err.Error()
			}
			job := outcome.Job
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO export_jobs (
                    id, batch_id, range_id, output_path, label,
                    start_seconds, duration_seconds, error_message, elapsed_ms
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				job.ID, batch.ID, nullableString(job.RangeID), job.OutputPath,
				nullableString(job.Label), job.StartSeconds, job.DurationSeconds,
				errorMessage, outcome.Elapsed.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert job outcome: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		return nil
	})
}

// ListBatches returns the most recent export runs, newest first, with their
// job outcomes attached. A limit of 0 means no limit.
func (s *Store) ListBatches(ctx context.Context, limit int) ([]BatchRecord, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, video_path, phase, created_at, finished_at
              FROM export_batches ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BatchRecord
	for rows.Next() {
		var (
			record      BatchRecord
			createdRaw  string
			finishedRaw sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.VideoPath, &record.Phase, &createdRaw, &finishedRaw); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			record.CreatedAt = created
		}
		if finishedRaw.Valid {
			if finished, err := parseTimeString(finishedRaw.String); err == nil {
				record.FinishedAt = &finished
			}
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}

	for i := range out {
		jobs, err := s.batchJobs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Jobs = jobs
	}
	return out, nil
}

func (s *Store) batchJobs(ctx context.Context, batchID string) ([]JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, range_id, output_path, label, start_seconds, duration_seconds, error_message, elapsed_ms
         FROM export_jobs WHERE batch_id = ? ORDER BY rowid`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []JobRecord
	for rows.Next() {
		var (
			job       JobRecord
			rangeID   sql.NullString
			label     sql.NullString
			errorMsg  sql.NullString
			elapsedMS int64
		)
		if err := rows.Scan(&job.ID, &rangeID, &job.OutputPath, &label,
			&job.StartSeconds, &job.DurationSeconds, &errorMsg, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan job outcome: %w", err)
		}
		job.RangeID = rangeID.String
		job.Label = label.String
		job.ErrorMessage = errorMsg.String
		job.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job outcomes: %w", err)
	}
	return out, nil
}
