// Package export turns range snapshots into clip files on disk.
//
// BuildJobs freezes the editable range list into an immutable batch; the
// Engine then runs the batch against ffmpeg, one job at a time by default.
// Outputs are written through hidden partial files and renamed into place,
// so a crash or cancellation never leaves a half-written clip visible.
package export
