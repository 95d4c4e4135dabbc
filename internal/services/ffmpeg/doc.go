// Package ffmpeg wraps the ffmpeg command line for clip extraction. The
// Client interface keeps the export engine testable without a real binary.
package ffmpeg
