package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"tichme/internal/config"
	"tichme/internal/importer"
	"tichme/internal/store"
)

func newGamesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List recorded games, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				games, err := st.Games(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(games) == 0 {
					fmt.Fprintln(out, "No games recorded")
					return nil
				}

				rows := make([][]string, 0, len(games))
				for _, game := range games {
					seats, err := st.Seats(cmd.Context(), game.ID)
					if err != nil {
						return err
					}
					players := lo.Map(seats, func(seat store.Seat, _ int) string { return seat.Player })
					played := "-"
					if game.PlayedAt != nil {
						played = game.PlayedAt.Format(importer.DateLayout)
					}
					url := game.URL
					if url == "" {
						url = "-"
					}
					rows = append(rows, []string{
						strconv.FormatInt(game.ID, 10),
						played,
						strconv.Itoa(game.Rounds),
						strings.Join(players, ", "),
						url,
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					Headers: []string{"ID", "Played", "Rounds", "Players", "URL"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignRight, alignLeft, alignRight},
				}))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of games to list (0 for all)")
	return cmd
}
