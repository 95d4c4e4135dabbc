package media

import (
	"context"
	"os"

	"clipmark/internal/media/ffprobe"
	"clipmark/internal/services"
)

// Load probes a source video and builds its reference. Unusable or missing
// frame rates fall back to defaultRate rather than failing; everything else
// that goes wrong is classified Unreadable.
func Load(ctx context.Context, ffprobeBinary, path string, defaultRate float64) (VideoReference, error) {
	if _, err := os.Stat(path); err != nil {
		return VideoReference{}, services.Wrap(services.ErrUnreadable, "media", "stat source", path, err)
	}

	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return VideoReference{}, services.Wrap(services.ErrUnreadable, "media", "probe source", path, err)
	}

	stream, ok := result.VideoStream()
	if !ok {
		return VideoReference{}, services.Wrap(services.ErrUnreadable, "media", "probe source", "no video stream in "+path, nil)
	}

	ref := VideoReference{
		Path:     path,
		Duration: result.DurationSeconds(),
		Width:    stream.Width,
		Height:   stream.Height,
	}

	rate, parseErr := ParseRational(result.FrameRateText())
	if parseErr != nil || !rate.IsUsable() {
		ref.Rate = RationalFromFloat(defaultRate)
		ref.RateFallback = true
	} else {
		ref.Rate = rate
	}

	return ref, nil
}
