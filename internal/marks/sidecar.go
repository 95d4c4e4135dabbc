package marks

import (
	"os"
	"path/filepath"
	"strings"
)

// SidecarLabel reads a pre-existing label file that sits next to a source
// video (same stem, .txt extension). Returns "" when none exists; the file
// seeds the label of the first range created for the video.
func SidecarLabel(videoPath string) string {
	path := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".txt"
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
