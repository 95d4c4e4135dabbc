package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"clipmark/internal/services"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
}

// IsVideo reports whether a path looks like a markable video file. Hidden
// files are excluded, which also keeps in-progress export partials out.
func IsVideo(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Entry is one video found in the input folder.
type Entry struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Scan lists the video files directly inside a folder, sorted by name.
// Subdirectories are not descended into.
func Scan(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrNotConfigured, "library", "scan folder", dir, err)
	}

	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() || !IsVideo(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		out = append(out, Entry{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
