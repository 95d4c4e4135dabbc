package timeline

import (
	"math"

	"clipmark/internal/media"
)

// frameEpsilon absorbs float noise so frame indexes derived from repeated
// 1/rate steps stay stable.
const frameEpsilon = 1e-9

// Position tracks the playback position for the active video in both time
// and frame-index form. All mutations clamp into [0, duration]; seeking
// never fails.
type Position struct {
	duration float64
	rate     media.Rational
	time     float64
}

// NewPosition builds a position at t=0 for the given video.
func NewPosition(video media.VideoReference) *Position {
	return &Position{duration: video.Duration, rate: video.Rate}
}

// Time returns the current position in seconds.
func (p *Position) Time() float64 { return p.time }

// Duration returns the active video's duration in seconds.
func (p *Position) Duration() float64 { return p.duration }

// FrameIndex returns the current frame index, floor(time x rate).
func (p *Position) FrameIndex() int64 {
	return int64(math.Floor(p.time*p.rate.Value() + frameEpsilon))
}

// Seek moves to the given time, clamped into [0, duration].
func (p *Position) Seek(seconds float64) {
	p.time = clamp(seconds, 0, p.duration)
}

// SeekFrame moves to the start of the given native frame index.
func (p *Position) SeekFrame(frame int64) {
	rate := p.rate.Value()
	if rate <= 0 {
		return
	}
	p.Seek(float64(frame) / rate)
}

// StepForward advances exactly one frame. A no-op at the end of the video.
func (p *Position) StepForward() {
	p.step(1)
}

// StepBackward rewinds exactly one frame. A no-op at time zero.
func (p *Position) StepBackward() {
	p.step(-1)
}

func (p *Position) step(direction float64) {
	rate := p.rate.Value()
	if rate <= 0 {
		return
	}
	p.Seek(p.time + direction/rate)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
