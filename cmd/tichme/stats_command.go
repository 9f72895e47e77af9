package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tichme/internal/config"
	"tichme/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts for every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				counts, err := st.Counts(cmd.Context())
				if err != nil {
					return err
				}
				size, err := st.Size()
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(counts))
				for _, c := range counts {
					rows = append(rows, []string{c.Table, strconv.FormatInt(c.Rows, 10)})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s (%s)\n", st.Path(), formatBytes(size))
				fmt.Fprintln(out, renderTable(tableSpec{
					Headers: []string{"Table", "Rows"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignLeft, alignRight},
				}))
				return nil
			})
		},
	}
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
