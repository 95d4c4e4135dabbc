package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"clipmark/internal/config"
	"clipmark/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past export runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				records, err := s.ListBatches(cmd.Context(), limitFlag)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No export runs recorded.")
					return nil
				}

				out := cmd.OutOrStdout()
				for _, record := range records {
					fmt.Fprintf(out, "%s  %s  %s\n",
						record.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						filepath.Base(record.VideoPath),
						record.Phase)
					rows := make([][]string, 0, len(record.Jobs))
					for _, job := range record.Jobs {
						status := "ok"
						if job.Failed() {
							status = job.ErrorMessage
						}
						rows = append(rows, []string{
							filepath.Base(job.OutputPath),
							formatSeconds(job.DurationSeconds),
							job.Elapsed.String(),
							status,
						})
					}
					if len(rows) > 0 {
						fmt.Fprintln(out, renderTable(jobColumns(), rows))
					}
					fmt.Fprintln(out)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Number of runs to show (0 for all)")
	return cmd
}
