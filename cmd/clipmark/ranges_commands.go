package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/marks"
	"clipmark/internal/store"
)

func newRangesCommand(ctx *commandContext) *cobra.Command {
	rangesCmd := &cobra.Command{
		Use:   "ranges",
		Short: "Inspect and edit the ranges saved for a video",
	}

	rangesCmd.AddCommand(newRangesListCommand(ctx))
	rangesCmd.AddCommand(newRangesRemoveCommand(ctx))
	rangesCmd.AddCommand(newRangesClearCommand(ctx))
	rangesCmd.AddCommand(newRangesMoveCommand(ctx))
	return rangesCmd
}

func newRangesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <video>",
		Short: "List the ranges saved for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				path, err := resolveVideo(cfg, args[0])
				if err != nil {
					return err
				}
				video, err := loadVideo(cmd, cfg, path)
				if err != nil {
					return err
				}
				ranges, err := s.LoadRanges(cmd.Context(), path)
				if err != nil {
					return err
				}
				if len(ranges) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No ranges saved for", path)
					return nil
				}

				rows := make([][]string, 0, len(ranges))
				for i, r := range ranges {
					note := ""
					if err := marks.Validate(r, video); err != nil {
						note = "invalid"
					} else if r.IsZeroLength() {
						note = "marker"
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						shortID(r.ID),
						formatSeconds(r.Start),
						formatSeconds(r.End),
						r.Label,
						formatCrop(r.Crop),
						note,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
					{title: "#", right: true},
					{title: "ID"},
					{title: "Start", right: true},
					{title: "End", right: true},
					{title: "Label"},
					{title: "Crop"},
					{title: "Note"},
				}, rows))
				return nil
			})
		},
	}
}

func newRangesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <video> <range>",
		Short: "Delete one range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				path, err := resolveVideo(cfg, args[0])
				if err != nil {
					return err
				}
				video, err := loadVideo(cmd, cfg, path)
				if err != nil {
					return err
				}
				persisted, err := s.LoadRanges(cmd.Context(), path)
				if err != nil {
					return err
				}
				target, err := rangeByRef(persisted, args[1])
				if err != nil {
					return err
				}

				rangeStore := marks.NewStore(video)
				rangeStore.Load(persisted)
				if err := rangeStore.Delete(target.ID); err != nil {
					return err
				}
				if err := s.SaveRanges(cmd.Context(), path, rangeStore.List()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted range", shortID(target.ID))
				return nil
			})
		},
	}
}

func newRangesClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <video>",
		Short: "Delete all ranges saved for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				path, err := resolveVideo(cfg, args[0])
				if err != nil {
					return err
				}
				if err := s.SaveRanges(cmd.Context(), path, nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared ranges for", path)
				return nil
			})
		},
	}
}

func newRangesMoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "move <video> <range> <position>",
		Short: "Move a range to a new list position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				path, err := resolveVideo(cfg, args[0])
				if err != nil {
					return err
				}
				video, err := loadVideo(cmd, cfg, path)
				if err != nil {
					return err
				}
				persisted, err := s.LoadRanges(cmd.Context(), path)
				if err != nil {
					return err
				}
				target, err := rangeByRef(persisted, args[1])
				if err != nil {
					return err
				}
				position, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("position %q: %w", args[2], err)
				}

				rangeStore := marks.NewStore(video)
				rangeStore.Load(persisted)
				if err := rangeStore.Reorder(target.ID, position-1); err != nil {
					return err
				}
				if err := s.SaveRanges(cmd.Context(), path, rangeStore.List()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved range %s to position %d\n", shortID(target.ID), position)
				return nil
			})
		},
	}
}
