package marks

import (
	"fmt"

	"clipmark/internal/crop"
	"clipmark/internal/media"
	"clipmark/internal/services"
)

// Range is one labeled [start,end] interval on a video, with an optional
// crop. Start <= End holds after every committed mutation. A zero-length
// range (start == end) is a valid marker but never exported.
type Range struct {
	ID    string
	Start float64
	End   float64
	Crop  *crop.Rect
	Label string
}

// Duration returns the range length in seconds.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// IsZeroLength reports whether the range marks a single instant.
func (r Range) IsZeroLength() bool {
	return r.Duration() <= 0
}

// clone returns a copy with its own crop pointer so callers cannot mutate
// store-owned state through the snapshot.
func (r Range) clone() Range {
	out := r
	if r.Crop != nil {
		c := *r.Crop
		out.Crop = &c
	}
	return out
}

// Validate checks a range against its owning video: both times inside
// [0, duration] and the crop rectangle, when present, inside fractional
// bounds. Editing keeps this advisory; export job construction enforces it.
func Validate(r Range, video media.VideoReference) error {
	if r.Start < 0 || r.Start > video.Duration {
		return services.Wrap(services.ErrOutOfBounds, "marks", "validate",
			fmt.Sprintf("start %.3fs outside [0, %.3fs]", r.Start, video.Duration), nil)
	}
	if r.End < 0 || r.End > video.Duration {
		return services.Wrap(services.ErrOutOfBounds, "marks", "validate",
			fmt.Sprintf("end %.3fs outside [0, %.3fs]", r.End, video.Duration), nil)
	}
	if r.Crop != nil {
		if err := r.Crop.Validate(); err != nil {
			return err
		}
	}
	return nil
}
