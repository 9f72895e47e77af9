package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tichme/internal/config"
	"tichme/internal/schedule"
	"tichme/internal/store"
	"tichme/internal/tichu"
)

func newGapCommand(ctx *commandContext) *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "gap",
		Short: "Print the most recent month with no recorded game",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if value := strings.TrimSpace(nowFlag); value != "" {
				parsed, err := time.Parse("2006-01-02", value)
				if err != nil {
					return fmt.Errorf("--now must look like 2006-01-02: %w", err)
				}
				now = parsed
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				finder := schedule.Finder{Epoch: schedule.Month{
					Year:  cfg.Archive.EpochYear,
					Month: time.Month(cfg.Archive.EpochMonth),
				}}
				month, err := finder.EarliestUngappedMonth(cmd.Context(), st, now)
				out := cmd.OutOrStdout()
				if errors.Is(err, tichu.ErrNoDataForPeriod) {
					fmt.Fprintf(out, "Every month back to %s is recorded; the archive holds nothing older\n", month)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Most recent month not recorded: %s\n", month)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "Start the walk from this day (2006-01-02) instead of today")
	return cmd
}
