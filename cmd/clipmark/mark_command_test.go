package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const probeStub = `#!/bin/sh
cat <<'JSON'
{"format":{"duration":"10.0"},"streams":[{"codec_type":"video","width":1920,"height":1080,"r_frame_rate":"25/1"}]}
JSON
`

// writeTestConfig builds a config file with temp folders, a stub ffprobe on
// PATH, and a video file in the input folder. Returns the config path and
// the video path.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(probeStub), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	inputDir := filepath.Join(base, "input")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	videoPath := filepath.Join(inputDir, "session.mp4")
	if err := os.WriteFile(videoPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
input_dir = %q
output_dir = %q
log_dir = %q
data_dir = %q
`,
		inputDir,
		filepath.Join(base, "output"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "data"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, videoPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMarkAndListRanges(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath,
		"mark", "session.mp4", "--in", "2.0", "--out", "5.0", "--label", "walk")
	if err != nil {
		t.Fatalf("mark failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `label="walk"`) {
		t.Fatalf("mark output missing label: %s", out)
	}

	out, err = runCommand(t, "--config", configPath, "ranges", "list", "session.mp4")
	if err != nil {
		t.Fatalf("ranges list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "walk") || !strings.Contains(out, "2.000s") || !strings.Contains(out, "5.000s") {
		t.Fatalf("range not listed: %s", out)
	}
}

func TestMarkSwapsInvertedBounds(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath,
		"mark", "session.mp4", "--in", "5.0", "--out", "2.0")
	if err != nil {
		t.Fatalf("mark failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2.000s - 5.000s") {
		t.Fatalf("bounds not swapped: %s", out)
	}
}

func TestMarkAllSpansWholeVideo(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath,
		"mark", "session.mp4", "--all")
	if err != nil {
		t.Fatalf("mark failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "0.000s - 10.000s") {
		t.Fatalf("expected full-span range: %s", out)
	}
}

func TestMarkSeedsLabelFromSidecar(t *testing.T) {
	configPath, videoPath := writeTestConfig(t)
	sidecar := strings.TrimSuffix(videoPath, ".mp4") + ".txt"
	if err := os.WriteFile(sidecar, []byte("warmup\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", configPath,
		"mark", "session.mp4", "--in", "1.0", "--out", "2.0")
	if err != nil {
		t.Fatalf("mark failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `label="warmup"`) {
		t.Fatalf("sidecar label not applied: %s", out)
	}
}

func TestRangesRemove(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if out, err := runCommand(t, "--config", configPath,
		"mark", "session.mp4", "--in", "1.0", "--out", "2.0"); err != nil {
		t.Fatalf("mark failed: %v\n%s", err, out)
	}
	if out, err := runCommand(t, "--config", configPath,
		"ranges", "rm", "session.mp4", "1"); err != nil {
		t.Fatalf("rm failed: %v\n%s", err, out)
	}
	out, err := runCommand(t, "--config", configPath, "ranges", "list", "session.mp4")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No ranges saved") {
		t.Fatalf("range not removed: %s", out)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if out, err = runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("expected refusal to overwrite, got: %s", out)
	}
}
