// Package timeline tracks frame-accurate playback position and the tagged
// play state for the active video.
//
// Stepping is computed from the source frame rate (1/rate seconds per
// frame), not a fixed increment, so frame boundaries do not drift on
// fractional-rate sources. Seeks clamp instead of failing.
package timeline
