package media

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Rational is a fractional frame rate such as 30000/1001.
type Rational struct {
	Num int64
	Den int64
}

// ParseRational parses ffprobe-style rate expressions: "25", "25/1",
// "30000/1001". A zero denominator or empty input yields an error.
func ParseRational(text string) (Rational, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return Rational{}, fmt.Errorf("parse rational: empty input")
	}
	num, den := cleaned, "1"
	if idx := strings.IndexByte(cleaned, '/'); idx >= 0 {
		num, den = cleaned[:idx], cleaned[idx+1:]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: %w", text, err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse rational %q: %w", text, err)
	}
	if d == 0 {
		return Rational{}, fmt.Errorf("parse rational %q: zero denominator", text)
	}
	return Rational{Num: n, Den: d}, nil
}

// RationalFromFloat converts a plain frames-per-second value.
func RationalFromFloat(fps float64) Rational {
	return Rational{Num: int64(math.Round(fps * 1000)), Den: 1000}
}

// Value returns the rate as frames per second.
func (r Rational) Value() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// IsUsable reports whether the rate is plausible for playback math. Rates
// outside (0, 1000] are treated as metadata noise.
func (r Rational) IsUsable() bool {
	v := r.Value()
	return v > 0 && v <= 1000
}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// VideoReference describes one source video discovered on load. Immutable
// after construction; a folder re-scan produces fresh references.
type VideoReference struct {
	Path     string
	Duration float64
	Rate     Rational
	Width    int
	Height   int

	// RateFallback is set when metadata reported no usable frame rate and
	// the configured default was substituted.
	RateFallback bool
}

// Stem returns the file name without directory or extension, used to derive
// export output names.
func (v VideoReference) Stem() string {
	base := filepath.Base(v.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// FrameCount derives the total number of frames from duration and rate.
func (v VideoReference) FrameCount() int64 {
	return int64(math.Round(v.Duration * v.Rate.Value()))
}

// FrameDuration returns the length of one frame in seconds.
func (v VideoReference) FrameDuration() float64 {
	rate := v.Rate.Value()
	if rate <= 0 {
		return 0
	}
	return 1 / rate
}
