package config

import "strings"

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.InputDir, &c.Paths.OutputDir, &c.Paths.LogDir, &c.Paths.DataDir} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Export.VideoCodec = strings.TrimSpace(c.Export.VideoCodec)
	c.Export.Preset = strings.TrimSpace(c.Export.Preset)
	c.Export.FFmpegBinary = strings.TrimSpace(c.Export.FFmpegBinary)
	c.Export.FFprobeBinary = strings.TrimSpace(c.Export.FFprobeBinary)
	if c.Export.FFmpegBinary == "" {
		c.Export.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Export.FFprobeBinary == "" {
		c.Export.FFprobeBinary = defaultFFprobeBinary
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
