package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipmark/internal/services"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadAppliesFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
input_dir = "` + filepath.Join(dir, "in") + `"
output_dir = "` + filepath.Join(dir, "out") + `"

[export]
target_fps = 24
workers = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Export.TargetFPS != 24 {
		t.Fatalf("target_fps = %d, want 24", cfg.Export.TargetFPS)
	}
	if cfg.Export.Workers != 2 {
		t.Fatalf("workers = %d, want 2", cfg.Export.Workers)
	}
	if cfg.Export.Preset != defaultPreset {
		t.Fatalf("unset preset should keep default, got %q", cfg.Export.Preset)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"[export]\ntarget_fps = 0\n",
		"[export]\nworkers = 0\n",
		"[crop]\nmin_fraction = 1.5\n",
		"[playback]\ndefault_frame_rate = -1\n",
		"[logging]\nformat = \"yaml\"\n",
	}
	for _, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Fatalf("expected validation error for %q", content)
		}
	}
}

func TestRequireExportFolders(t *testing.T) {
	cfg := Default()
	err := cfg.RequireExportFolders()
	if !errors.Is(err, services.ErrNotConfigured) {
		t.Fatalf("expected NotConfigured for missing input dir, got %v", err)
	}

	dir := t.TempDir()
	cfg.Paths.InputDir = filepath.Join(dir, "in")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	err = cfg.RequireExportFolders()
	if !errors.Is(err, services.ErrNotConfigured) {
		t.Fatalf("expected NotConfigured for non-existent input dir, got %v", err)
	}

	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := cfg.RequireExportFolders(); err != nil {
		t.Fatalf("expected folders to satisfy requirement: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.OutputDir); err != nil || !info.IsDir() {
		t.Fatalf("output dir should have been created: %v", err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	expanded, err := ExpandPath("~/clips")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if !strings.HasPrefix(expanded, home) {
		t.Fatalf("expected %q to live under %q", expanded, home)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[export]") {
		t.Fatalf("sample config missing export section")
	}
}
