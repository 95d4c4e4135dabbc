package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"clipmark/internal/marks"
	"clipmark/internal/media"
	"clipmark/internal/services"
	"clipmark/internal/services/ffmpeg"
)

// Job is one immutable clip extraction. Jobs are snapshots: once built they
// never observe later range edits.
type Job struct {
	ID              string
	BatchID         string
	RangeID         string
	SourcePath      string
	OutputPath      string
	SidecarPath     string
	Label           string
	StartSeconds    float64
	DurationSeconds float64
	Crop            *ffmpeg.PixelCrop
}

// Batch groups the jobs built from one range list.
type Batch struct {
	ID         string
	SourcePath string
	OutputDir  string
	CreatedAt  time.Time
	Jobs       []Job
}

// BuildJobs snapshots the exportable ranges of a video into a batch.
// Zero-length ranges are skipped. Bounds and crop violations, advisory
// while editing, are hard failures here: no batch is built from a range
// list that cannot fully export.
//
// Output naming follows the range labels: a labeled range exports as
// <stem>_<slug>.mp4, an unlabeled one as <stem>_<n>.mp4 with its position
// in the batch — except when the batch holds a single unlabeled clip, which
// takes the bare stem. Name collisions, against the batch and against files
// already on disk, get a numeric suffix.
func BuildJobs(video media.VideoReference, ranges []marks.Range, outputDir string) (Batch, error) {
	if outputDir == "" {
		return Batch{}, services.Wrap(services.ErrNotConfigured, "export", "build jobs", "output directory not set", nil)
	}

	exportable := make([]marks.Range, 0, len(ranges))
	for _, r := range ranges {
		if r.IsZeroLength() {
			continue
		}
		if err := marks.Validate(r, video); err != nil {
			return Batch{}, err
		}
		exportable = append(exportable, r)
	}

	batch := Batch{
		ID:         uuid.NewString(),
		SourcePath: video.Path,
		OutputDir:  outputDir,
		CreatedAt:  time.Now().UTC(),
	}

	stem := video.Stem()
	used := make(map[string]struct{})
	for i, r := range exportable {
		slug := Slug(r.Label)
		name := stem
		switch {
		case slug != "":
			name = stem + "_" + slug
		case len(exportable) > 1:
			// Unlabeled, or a label that slugs to nothing: number it.
			name = fmt.Sprintf("%s_%d", stem, i+1)
		}
		name = uniqueName(outputDir, name, used)
		used[name] = struct{}{}

		job := Job{
			ID:              uuid.NewString(),
			BatchID:         batch.ID,
			RangeID:         r.ID,
			SourcePath:      video.Path,
			OutputPath:      filepath.Join(outputDir, name+".mp4"),
			SidecarPath:     filepath.Join(outputDir, name+".txt"),
			Label:           r.Label,
			StartSeconds:    r.Start,
			DurationSeconds: r.Duration(),
		}
		if r.Crop != nil {
			px := r.Crop.Pixels(video.Width, video.Height)
			job.Crop = &ffmpeg.PixelCrop{X: px.X, Y: px.Y, W: px.W, H: px.H}
		}
		batch.Jobs = append(batch.Jobs, job)
	}
	return batch, nil
}

var labelTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug reduces a free-text label to a filename-safe token: accents
// stripped, lowercased, runs of anything outside [a-z0-9] collapsed to a
// single underscore.
func Slug(label string) string {
	folded, _, err := transform.String(labelTransformer, label)
	if err != nil {
		folded = label
	}
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// uniqueName appends _2, _3, ... until the candidate collides with neither
// the batch nor an existing output file.
func uniqueName(outputDir, name string, used map[string]struct{}) string {
	candidate := name
	for n := 2; ; n++ {
		if _, taken := used[candidate]; !taken && !outputExists(outputDir, candidate) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
}

func outputExists(outputDir, name string) bool {
	_, err := os.Stat(filepath.Join(outputDir, name+".mp4"))
	return err == nil
}
