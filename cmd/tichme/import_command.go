package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tichme/internal/config"
	"tichme/internal/importer"
	"tichme/internal/store"
	"tichme/internal/tichu"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var urlFlag string
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Parse transcript files and record them",
		Long: "Parse transcript files (or every transcript under a directory) and record\n" +
			"each game. Games whose URL is already recorded are skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				sources, err := importer.LoadSources(args, cfg.Import.Extensions)
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No transcripts found")
					return nil
				}
				if err := applySourceOverrides(sources, urlFlag, dateFlag); err != nil {
					return err
				}

				logger, err := ctx.logger(cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				imp, err := importer.New(cfg, st, logger)
				if err != nil {
					return err
				}
				summary, err := imp.Import(cmd.Context(), sources)
				if err != nil {
					return err
				}
				printImportSummary(cmd, summary)
				if summary.Failed > 0 {
					return fmt.Errorf("%d of %d transcripts failed", summary.Failed, len(sources))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Source URL to record instead of the file path (single transcript only)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Session time as \""+importer.DateLayout+"\" (single transcript only)")
	return cmd
}

func applySourceOverrides(sources []importer.Source, url, date string) error {
	url = strings.TrimSpace(url)
	date = strings.TrimSpace(date)
	if url == "" && date == "" {
		return nil
	}
	if len(sources) != 1 {
		return errors.New("--url and --date apply to exactly one transcript")
	}
	if url != "" {
		sources[0].URL = url
	}
	if date != "" {
		parsed, err := importer.ParseDate(date)
		if err != nil {
			return err
		}
		sources[0].Date = &parsed
	}
	return nil
}

func printImportSummary(cmd *cobra.Command, summary importer.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %d games (%d rounds), %d already recorded, %d failed\n",
		summary.Recorded, summary.Rounds, summary.Duplicates, summary.Failed)
	fmt.Fprintf(out, "Session %s (see tichme logs --session %s)\n", summary.SessionID, summary.SessionID)
	if len(summary.Failures) == 0 {
		return
	}

	rows := make([][]string, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		kind := tichu.Kind(failure.Err)
		if kind == "" {
			kind = "error"
		}
		rows = append(rows, []string{failure.Source, kind, failure.Err.Error()})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		Headers: []string{"Source", "Kind", "Error"},
		Rows:    rows,
		Footer:  []string{"", "", strconv.Itoa(len(rows)) + " failed"},
	}))
}
