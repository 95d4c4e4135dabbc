// Package logging builds the slog loggers used throughout clipmark.
//
// Two output formats are supported: a compact console format that promotes
// the component attribute into the line prefix, and standard JSON with
// ts/level/msg keys. Context helpers stamp video path, batch, and job
// identifiers so engine events stay correlated without threading loggers
// through every call site.
package logging
