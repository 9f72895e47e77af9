package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tichme/internal/importer"
	"tichme/internal/tichu"
	"tichme/internal/transcript"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "parse <file>",
		Short:       "Show what a transcript parses to without recording it",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := importer.ReadSource(args[0])
			if err != nil {
				return err
			}
			game, err := transcript.Parse(src.Text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(playersTable(game)))
			fmt.Fprintln(out, renderTable(roundsTable(game)))
			fmt.Fprintf(out, "%d rounds, %d exchanges\n", len(game.Rounds), game.ExchangeCount())
			return nil
		},
	}
}

func playersTable(game *transcript.Game) tableSpec {
	rows := make([][]string, 0, len(game.Players))
	for _, seat := range slices.Sorted(maps.Keys(game.Players)) {
		position, err := tichu.PositionForSeat(seat)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(seat),
			seatLabel(position),
			game.Players[seat],
			strconv.Itoa(tichu.TeamForSeat(seat)),
		})
	}
	return tableSpec{
		Headers: []string{"Seat", "Position", "Player", "Team"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	}
}

func roundsTable(game *transcript.Game) tableSpec {
	rows := make([][]string, 0, len(game.Rounds))
	var totals [tichu.TeamCount]int
	for i, round := range game.Rounds {
		totals[0] += round.Scores[0]
		totals[1] += round.Scores[1]
		rows = append(rows, []string{
			strconv.Itoa(i),
			formatCalls(round.Calls),
			formatWish(round.Wish),
			formatFinishes(round.Finishes),
			fmt.Sprintf("%d - %d", round.Scores[0], round.Scores[1]),
		})
	}
	return tableSpec{
		Headers: []string{"Round", "Calls", "Wish", "Finish order", "Score"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		Footer:  []string{"", "", "", "Total", fmt.Sprintf("%d - %d", totals[0], totals[1])},
	}
}

func positionLabel(seat int) string {
	position, err := tichu.PositionForSeat(seat)
	if err != nil {
		return strconv.Itoa(seat)
	}
	return seatLabel(position)
}

func formatCalls(calls map[int]tichu.CallKind) string {
	if len(calls) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(calls))
	for _, seat := range slices.Sorted(maps.Keys(calls)) {
		parts = append(parts, positionLabel(seat)+": "+kindLabel(string(calls[seat])))
	}
	return strings.Join(parts, ", ")
}

func formatWish(wish *transcript.Wish) string {
	if wish == nil {
		return "-"
	}
	rank := wish.Rank
	if rank == "" {
		rank = "none"
	}
	return positionLabel(wish.Seat) + ": " + rank
}

func formatFinishes(finishes []int) string {
	parts := make([]string, 0, len(finishes))
	for _, seat := range finishes {
		parts = append(parts, positionLabel(seat))
	}
	return strings.Join(parts, " > ")
}
