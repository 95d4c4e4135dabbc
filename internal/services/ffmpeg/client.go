package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// PixelCrop is a crop window in source pixels, dimensions already even.
type PixelCrop struct {
	X int
	Y int
	W int
	H int
}

// Request describes one clip extraction.
type Request struct {
	InputPath       string
	StartSeconds    float64
	DurationSeconds float64
	Crop            *PixelCrop
	OutputPath      string
	TargetFPS       int
	VideoCodec      string
	Preset          string
}

// ProgressUpdate carries periodic transcode progress. Percent is derived
// from ffmpeg's out_time against the requested duration and stays in
// [0, 100].
type ProgressUpdate struct {
	Percent     float64
	OutTime     float64
	SpeedFactor float64
}

// Client defines clip transcoding behaviour.
type Client interface {
	Extract(ctx context.Context, req Request, progress func(ProgressUpdate)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// BuildArgs assembles the ffmpeg invocation for a request. Input seeking
// (-ss before -i) keeps clip starts fast on long sources; the fps filter
// always runs so every clip lands on the target rate, with the crop filter
// chained after it when present.
func BuildArgs(req Request) ([]string, error) {
	if req.InputPath == "" {
		return nil, errors.New("input path required")
	}
	if req.OutputPath == "" {
		return nil, errors.New("output path required")
	}
	if req.DurationSeconds <= 0 {
		return nil, errors.New("duration must be positive")
	}
	if req.TargetFPS <= 0 {
		return nil, errors.New("target fps must be positive")
	}
	if req.Crop != nil && (req.Crop.W <= 0 || req.Crop.H <= 0) {
		return nil, errors.New("crop dimensions must be positive")
	}

	filter := fmt.Sprintf("fps=%d", req.TargetFPS)
	if req.Crop != nil {
		filter += fmt.Sprintf(",crop=%d:%d:%d:%d", req.Crop.W, req.Crop.H, req.Crop.X, req.Crop.Y)
	}

	args := []string{
		"-y",
		"-nostdin",
		"-hide_banner",
		"-ss", formatSeconds(req.StartSeconds),
		"-t", formatSeconds(req.DurationSeconds),
		"-i", req.InputPath,
		"-vf", filter,
		"-c:v", req.VideoCodec,
		"-preset", req.Preset,
		"-progress", "pipe:1",
		"-nostats",
		req.OutputPath,
	}
	return args, nil
}

// Extract runs one clip transcode, streaming progress until the process
// exits. A cancelled context kills the process; the caller removes any
// partial output.
func (c *CLI) Extract(ctx context.Context, req Request, progress func(ProgressUpdate)) error {
	args, err := BuildArgs(req)
	if err != nil {
		return err
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	parser := newProgressParser(req.DurationSeconds)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := parser.consume(scanner.Text())
		if ok && progress != nil {
			progress(update)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if detail := stderrTail(stderr.String()); detail != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// progressParser accumulates the key=value blocks ffmpeg writes with
// -progress. A block ends at the "progress" key.
type progressParser struct {
	duration float64
	current  ProgressUpdate
}

func newProgressParser(duration float64) *progressParser {
	return &progressParser{duration: duration}
}

func (p *progressParser) consume(line string) (ProgressUpdate, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return ProgressUpdate{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds in practice.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.current.OutTime = float64(us) / 1e6
		}
	case "speed":
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
			p.current.SpeedFactor = f
		}
	case "progress":
		update := p.current
		if p.duration > 0 {
			update.Percent = update.OutTime / p.duration * 100
		}
		if value == "end" {
			update.Percent = 100
		}
		if update.Percent > 100 {
			update.Percent = 100
		}
		return update, true
	}
	return ProgressUpdate{}, false
}

// formatSeconds renders a time argument without float artefacts.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stderrTail keeps the last few stderr lines for error reporting.
func stderrTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "; ")
}

var _ Client = (*CLI)(nil)
