package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/crop"
	"clipmark/internal/marks"
	"clipmark/internal/media"
)

// resolveVideo turns a command argument into an absolute video path. Bare
// names are looked up in the configured input folder.
func resolveVideo(cfg *config.Config, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("video path is required")
	}

	candidate := arg
	if !filepath.IsAbs(candidate) {
		if _, err := os.Stat(candidate); err != nil && cfg.Paths.InputDir != "" {
			candidate = filepath.Join(cfg.Paths.InputDir, arg)
		}
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return "", fmt.Errorf("video %s not found", arg)
	}
	return abs, nil
}

func loadVideo(cmd *cobra.Command, cfg *config.Config, path string) (media.VideoReference, error) {
	video, err := media.Load(cmd.Context(), cfg.Export.FFprobeBinary, path, cfg.Playback.DefaultFrameRate)
	if err != nil {
		return media.VideoReference{}, err
	}
	if video.RateFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s reports no usable frame rate, assuming %.3f fps\n",
			filepath.Base(path), video.Rate.Value())
	}
	return video, nil
}

// rangeByRef resolves a range argument: a 1-based list position or an
// identifier prefix.
func rangeByRef(ranges []marks.Range, ref string) (marks.Range, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return marks.Range{}, fmt.Errorf("range reference is required")
	}
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx < 1 || idx > len(ranges) {
			return marks.Range{}, fmt.Errorf("range %d out of 1..%d", idx, len(ranges))
		}
		return ranges[idx-1], nil
	}
	var match *marks.Range
	for i := range ranges {
		if strings.HasPrefix(ranges[i].ID, ref) {
			if match != nil {
				return marks.Range{}, fmt.Errorf("range reference %q is ambiguous", ref)
			}
			match = &ranges[i]
		}
	}
	if match == nil {
		return marks.Range{}, fmt.Errorf("no range matches %q", ref)
	}
	return *match, nil
}

// parseCrop reads a fractional crop flag of the form x:y:w:h.
func parseCrop(value string) (*crop.Rect, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("crop must be x:y:w:h, got %q", value)
	}
	nums := make([]float64, 4)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("crop component %q: %w", part, err)
		}
		nums[i] = f
	}
	rect := &crop.Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
	if err := rect.Validate(); err != nil {
		return nil, err
	}
	return rect, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64) + "s"
}

func formatCrop(rect *crop.Rect) string {
	if rect == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f:%.2f:%.2f:%.2f", rect.X, rect.Y, rect.W, rect.H)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
