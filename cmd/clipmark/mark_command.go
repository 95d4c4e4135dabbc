package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/marks"
	"clipmark/internal/store"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	var (
		atFlag    float64
		inFlag    float64
		outFlag   float64
		allFlag   bool
		labelFlag string
		cropFlag  string
		rangeFlag string
	)

	cmd := &cobra.Command{
		Use:   "mark <video>",
		Short: "Create or adjust a range on a video",
		Long: `Create or adjust a range on a video.

Without --range a new range is created: --at makes a zero-length marker,
--in/--out set its bounds, --all spans the whole video. With --range the
referenced range is edited. An out-point before the in-point is accepted
and the two are swapped.`,
		Args: cobra.ExactArgs(1),
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
				rangeStore := marks.NewStore(video)
				rangeStore.Load(persisted)
				wasEmpty := rangeStore.Len() == 0

				var target marks.Range
				if rangeFlag != "" {
					target, err = rangeByRef(rangeStore.List(), rangeFlag)
					if err != nil {
						return err
					}
					if err := rangeStore.Select(target.ID); err != nil {
						return err
					}
				} else {
					at := atFlag
					if cmd.Flags().Changed("in") {
						at = inFlag
					}
					target = rangeStore.Create(at)
				}

				if allFlag {
					if target, err = rangeStore.SetStart(target.ID, 0); err != nil {
						return err
					}
					if target, err = rangeStore.SetEnd(target.ID, video.Duration); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("in") {
					if target, err = rangeStore.SetStart(target.ID, inFlag); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("out") {
					if target, err = rangeStore.SetEnd(target.ID, outFlag); err != nil {
						return err
					}
				}

				label := labelFlag
				if label == "" && wasEmpty && rangeFlag == "" {
					// A .txt next to the source pre-labels the first range.
					label = marks.SidecarLabel(path)
				}
				if label != "" {
					if target, err = rangeStore.SetLabel(target.ID, label); err != nil {
						return err
					}
				}
				if cropFlag != "" {
					rect, err := parseCrop(cropFlag)
					if err != nil {
						return err
					}
					if target, err = rangeStore.SetCrop(target.ID, rect); err != nil {
						return err
					}
				}

				if err := rangeStore.Validate(target.ID); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
				}

				if err := s.SaveRanges(cmd.Context(), path, rangeStore.List()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "range %s  %s - %s  label=%q crop=%s\n",
					shortID(target.ID), formatSeconds(target.Start), formatSeconds(target.End),
					target.Label, formatCrop(target.Crop))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&atFlag, "at", 0, "Create a zero-length range at this time (seconds)")
	cmd.Flags().Float64Var(&inFlag, "in", 0, "In-point in seconds")
	cmd.Flags().Float64Var(&outFlag, "out", 0, "Out-point in seconds")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Span the whole video (0 to duration)")
	cmd.Flags().StringVar(&labelFlag, "label", "", "Range label (used in output names)")
	cmd.Flags().StringVar(&cropFlag, "crop", "", "Fractional crop as x:y:w:h")
	cmd.Flags().StringVar(&rangeFlag, "range", "", "Edit an existing range (index or id prefix)")
	return cmd
}
