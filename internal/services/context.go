package services

import "context"

type contextKey string

const (
	videoPathKey contextKey = "video_path"
	batchIDKey   contextKey = "batch_id"
	jobIDKey     contextKey = "job_id"
)

// WithVideoPath stamps the active source video path onto the context.
func WithVideoPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, videoPathKey, path)
}

// VideoPathFromContext extracts the active source video path, if present.
func VideoPathFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(videoPathKey).(string)
	return value, ok && value != ""
}

// WithBatchID stamps an export batch identifier onto the context.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the export batch identifier, if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(batchIDKey).(string)
	return value, ok && value != ""
}

// WithJobID stamps an export job identifier onto the context.
func WithJobID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the export job identifier, if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(jobIDKey).(string)
	return value, ok && value != ""
}
