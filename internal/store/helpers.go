package store

import (
	"database/sql"
	"errors"
	"time"

	"clipmark/internal/marks"
)

func scanRange(scanner interface{ Scan(dest ...any) error }) (marks.Range, error) {
	var (
		id    string
		start float64
		end   float64
		label sql.NullString
		crop  sql.NullString
	)
	if err := scanner.Scan(&id, &start, &end, &label, &crop); err != nil {
		return marks.Range{}, err
	}

	r := marks.Range{ID: id, Start: start, End: end, Label: label.String}
	if crop.Valid {
		rect, err := unmarshalCrop(crop.String)
		if err != nil {
			return marks.Range{}, err
		}
		r.Crop = rect
	}
	return r, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
