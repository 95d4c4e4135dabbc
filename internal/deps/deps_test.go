package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"clipmark/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	statuses := CheckBinaries([]Requirement{
		{Name: "FFmpeg", Command: "ffmpeg"},
		{Name: "FFprobe", Command: "ffprobe"},
		{Name: "Unset", Command: ""},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("stubbed ffmpeg should be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("missing ffprobe should report detail: %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("empty command should be flagged: %+v", statuses[2])
	}
}

func TestRequirementsUseConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Export.FFmpegBinary = "/opt/ffmpeg"
	cfg.Export.FFprobeBinary = "/opt/ffprobe"

	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg" || reqs[1].Command != "/opt/ffprobe" {
		t.Fatalf("configured binaries not used: %+v", reqs)
	}
}

func TestMissingRequired(t *testing.T) {
	missing := MissingRequired([]Status{
		{Name: "FFmpeg", Available: false},
		{Name: "FFprobe", Available: true},
		{Name: "Extra", Available: false, Optional: true},
	})
	if len(missing) != 1 || missing[0] != "FFmpeg" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}

func TestFreeSpace(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("free space check is linux-only")
	}
	free, err := FreeSpace(t.TempDir())
	if err != nil {
		t.Fatalf("FreeSpace returned error: %v", err)
	}
	if free == 0 {
		t.Fatal("expected non-zero free space in temp dir")
	}
}
