package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clipmark/internal/crop"
	"clipmark/internal/marks"
)

// SaveRanges replaces the persisted range list for a video. The video is
// keyed by its absolute path; saving an empty list clears the entry.
func (s *Store) SaveRanges(ctx context.Context, videoPath string, ranges []marks.Range) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin ranges tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM ranges WHERE video_path = ?`, videoPath); err != nil {
			return fmt.Errorf("clear ranges: %w", err)
		}

		now := time.Now().UTC().Format(time.RFC3339Nano)
		for i, r := range ranges {
			cropJSON, err := marshalCrop(r.Crop)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ranges (
                    id, video_path, position, start_seconds, end_seconds, label, crop_json, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, videoPath, i, r.Start, r.End,
				nullableString(r.Label), cropJSON, now,
			); err != nil {
				return fmt.Errorf("insert range: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit ranges: %w", err)
		}
		return nil
	})
}

// LoadRanges returns the persisted range list for a video in stored order.
// A video that was never saved yields an empty list.
func (s *Store) LoadRanges(ctx context.Context, videoPath string) ([]marks.Range, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_seconds, end_seconds, label, crop_json
         FROM ranges WHERE video_path = ? ORDER BY position`,
		videoPath,
	)
	if err != nil {
		return nil, fmt.Errorf("load ranges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []marks.Range
	for rows.Next() {
		r, err := scanRange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan range: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranges: %w", err)
	}
	return out, nil
}

// VideosWithRanges lists the video paths that have saved ranges.
func (s *Store) VideosWithRanges(ctx context.Context) ([]string, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT video_path FROM ranges ORDER BY video_path`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan video path: %w", err)
		}
		out = append(out, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return out, nil
}

func marshalCrop(rect *crop.Rect) (any, error) {
	if rect == nil {
		return nil, nil
	}
	data, err := json.Marshal(rect)
	if err != nil {
		return nil, fmt.Errorf("marshal crop: %w", err)
	}
	return string(data), nil
}

func unmarshalCrop(raw string) (*crop.Rect, error) {
	if raw == "" {
		return nil, nil
	}
	var rect crop.Rect
	if err := json.Unmarshal([]byte(raw), &rect); err != nil {
		return nil, fmt.Errorf("unmarshal crop: %w", err)
	}
	return &rect, nil
}
