package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipmark/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and configured folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				kind := statusOK
				message := status.Command
				if !status.Available {
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
					message = status.Detail
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			folders := []struct {
				label string
				path  string
			}{
				{"Input folder", cfg.Paths.InputDir},
				{"Output folder", cfg.Paths.OutputDir},
			}
			for _, folder := range folders {
				if folder.path == "" {
					fmt.Fprintln(out, renderStatusLine(folder.label, statusError, "not configured", colorize))
					continue
				}
				fmt.Fprintln(out, renderStatusLine(folder.label, statusOK, folder.path, colorize))
			}

			if free, err := deps.FreeSpace(cfg.Paths.OutputDir); err == nil {
				kind := statusOK
				if free < uint64(cfg.Export.MinFreeMiB)*1024*1024 {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Free space", kind, formatSize(int64(free)), colorize))
			}
			return nil
		},
	}
}
