package config

const (
	defaultLogDir           = "~/.local/share/clipmark/logs"
	defaultDataDir          = "~/.local/share/clipmark"
	defaultTargetFPS        = 16
	defaultVideoCodec       = "libx264"
	defaultPreset           = "ultrafast"
	defaultWorkers          = 1
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultMinFreeMiB       = 256
	defaultCropMinFraction  = 0.01
	defaultPlaybackRate     = 30.0
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Export: Export{
			TargetFPS:     defaultTargetFPS,
			VideoCodec:    defaultVideoCodec,
			Preset:        defaultPreset,
			Workers:       defaultWorkers,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			MinFreeMiB:    defaultMinFreeMiB,
		},
		Crop: Crop{
			MinFraction: defaultCropMinFraction,
		},
		Playback: Playback{
			DefaultFrameRate: defaultPlaybackRate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
