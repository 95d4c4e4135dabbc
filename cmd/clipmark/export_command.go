package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/deps"
	"clipmark/internal/export"
	"clipmark/internal/services"
	"clipmark/internal/services/ffmpeg"
	"clipmark/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var workersFlag int

	cmd := &cobra.Command{
		Use:   "export <video>",
		Short: "Export every marked range of a video as a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				if err := cfg.RequireExportFolders(); err != nil {
					return err
				}
				if err := preflight(cfg); err != nil {
					return err
				}

				// One export run per data dir; concurrent runs would race
				// on output names.
				lock := flock.New(filepath.Join(cfg.Paths.DataDir, "export.lock"))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire export lock: %w", err)
				}
				if !locked {
					return services.Wrap(services.ErrAlreadyRunning, "export", "lock", "another export is running", nil)
				}
				defer func() { _ = lock.Unlock() }()

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
					return fmt.Errorf("no ranges saved for %s", path)
				}

				batch, err := export.BuildJobs(video, ranges, cfg.Paths.OutputDir)
				if err != nil {
					return err
				}
				if len(batch.Jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export: all ranges are zero-length markers.")
					return nil
				}

				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				workers := cfg.Export.Workers
				if cmd.Flags().Changed("workers") {
					workers = workersFlag
				}
				engine := export.NewEngine(
					ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Export.FFmpegBinary)),
					logger,
					export.Options{
						TargetFPS:  cfg.Export.TargetFPS,
						VideoCodec: cfg.Export.VideoCodec,
						Preset:     cfg.Export.Preset,
						Workers:    workers,
					},
				)

				events, err := engine.Submit(cmd.Context(), batch)
				if err != nil {
					return err
				}
				reportEvents(cmd, events)

				phase := engine.Wait()
				outcomes := engine.Outcomes()
				if err := s.RecordBatch(cmd.Context(), batch, phase, outcomes); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: record export history:", err)
				}
				printSummary(cmd, phase, outcomes, len(batch.Jobs))

				switch phase {
				case export.PhaseCancelled:
					return cmd.Context().Err()
				case export.PhasePartiallyFailed:
					return errors.New("some clips failed to export")
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent transcodes (overrides config)")
	return cmd
}

func preflight(cfg *config.Config) error {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return services.Wrap(services.ErrNotConfigured, "export", "preflight",
			"missing required tools: "+strings.Join(missing, ", "), nil)
	}

	free, err := deps.FreeSpace(cfg.Paths.OutputDir)
	if err != nil {
		// Unsupported platform or transient stat failure; let ffmpeg find out.
		return nil
	}
	need := uint64(cfg.Export.MinFreeMiB) * 1024 * 1024
	if free < need {
		return services.Wrap(services.ErrNotConfigured, "export", "preflight",
			fmt.Sprintf("output folder has %d MiB free, need %d MiB", free/(1024*1024), cfg.Export.MinFreeMiB), nil)
	}
	return nil
}

func reportEvents(cmd *cobra.Command, events <-chan export.Event) {
	out := cmd.OutOrStdout()
	for ev := range events {
		switch ev.Type {
		case export.EventJobStarted:
			fmt.Fprintf(out, "exporting %s (%s - %s)\n",
				filepath.Base(ev.Job.OutputPath),
				formatSeconds(ev.Job.StartSeconds),
				formatSeconds(ev.Job.StartSeconds+ev.Job.DurationSeconds))
		case export.EventJobFinished:
			if ev.Err != nil {
				fmt.Fprintf(out, "  failed: %v\n", ev.Err)
			} else {
				fmt.Fprintf(out, "  done: %s\n", ev.Job.OutputPath)
			}
		}
	}
}

func printSummary(cmd *cobra.Command, phase export.Phase, outcomes []export.Outcome, total int) {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		status := "ok"
		if outcome.Err != nil {
			status = services.Kind(outcome.Err)
		}
		rows = append(rows, []string{
			filepath.Base(outcome.Job.OutputPath),
			formatSeconds(outcome.Job.DurationSeconds),
			outcome.Elapsed.Round(10 * time.Millisecond).String(),
			status,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(jobColumns(), rows))
	if skipped := total - len(outcomes); skipped > 0 {
		fmt.Fprintf(out, "%d clip(s) skipped\n", skipped)
	}
	fmt.Fprintln(out, "batch", string(phase))
}
