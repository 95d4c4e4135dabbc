package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/library"
	"clipmark/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List markable videos in the input folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				if err := cfg.RequireExportFolders(); err != nil {
					return err
				}
				entries, err := library.Scan(cfg.Paths.InputDir)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos found in", cfg.Paths.InputDir)
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					ranges, err := s.LoadRanges(cmd.Context(), entry.Path)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						entry.Name,
						formatSize(entry.Size),
						entry.ModTime.Local().Format("2006-01-02 15:04"),
						strconv.Itoa(len(ranges)),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
					{title: "#", right: true},
					{title: "Video"},
					{title: "Size", right: true},
					{title: "Modified"},
					{title: "Ranges", right: true},
				}, rows))
				return nil
			})
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the input folder and report new videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireExportFolders(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			arrivals, err := library.Watch(cmd.Context(), cfg.Paths.InputDir, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Watching", cfg.Paths.InputDir, "(ctrl-c to stop)")
			for path := range arrivals {
				fmt.Fprintln(cmd.OutOrStdout(), "new video:", path)
			}
			return cmd.Context().Err()
		},
	}
}
