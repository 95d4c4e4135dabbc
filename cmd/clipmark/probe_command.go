package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "Inspect a video's duration, frame rate and dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveVideo(cfg, args[0])
			if err != nil {
				return err
			}
			video, err := loadVideo(cmd, cfg, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Path:      ", video.Path)
			fmt.Fprintln(out, "Duration:  ", formatSeconds(video.Duration))
			fmt.Fprintf(out, "Frame rate: %s (%.3f fps)", video.Rate, video.Rate.Value())
			if video.RateFallback {
				fmt.Fprintf(out, " [source rate unusable, using configured default]")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Dimensions: %dx%d\n", video.Width, video.Height)
			fmt.Fprintln(out, "Frames:    ", video.FrameCount())
			return nil
		},
	}
}
