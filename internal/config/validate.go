package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Folder presence is checked
// separately at export time; validation covers value ranges only so read-only
// commands work against a partially configured file.
func (c *Config) Validate() error {
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateCrop(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExport() error {
	if c.Export.TargetFPS <= 0 {
		return errors.New("export.target_fps must be positive")
	}
	if c.Export.Workers < 1 {
		return errors.New("export.workers must be at least 1")
	}
	if c.Export.VideoCodec == "" {
		return errors.New("export.video_codec must be set")
	}
	if c.Export.Preset == "" {
		return errors.New("export.preset must be set")
	}
	if c.Export.MinFreeMiB < 0 {
		return errors.New("export.min_free_mib must not be negative")
	}
	return nil
}

func (c *Config) validateCrop() error {
	if c.Crop.MinFraction <= 0 || c.Crop.MinFraction >= 1 {
		return errors.New("crop.min_fraction must be between 0 and 1 exclusive")
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.DefaultFrameRate <= 0 {
		return errors.New("playback.default_frame_rate must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
