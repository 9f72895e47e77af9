package main

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"tichme/internal/cards"
	"tichme/internal/config"
	"tichme/internal/store"
	"tichme/internal/tichu"
)

// exchangeKey buckets exchanges by the taker's call, the giver's seat
// relative to the taker and the card's analysis rank.
type exchangeKey struct {
	Group    store.CallGroup
	Relation tichu.Relation
	Rank     int
}

type exchangeBucket struct {
	Group    store.CallGroup
	Relation tichu.Relation
}

func newExchangesCommand(ctx *commandContext) *cobra.Command {
	var groupFlag string

	cmd := &cobra.Command{
		Use:   "exchanges",
		Short: "Count passed cards by the taker's call and the giver's seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if groupFlag != "" && !slices.Contains(store.CallGroups(), store.CallGroup(groupFlag)) {
				return fmt.Errorf("unknown group %q (want grand_tichu, tichu_before or no_call)", groupFlag)
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				groups, err := st.ExchangesByCall(cmd.Context())
				if err != nil {
					return err
				}
				counts, totals, err := countExchanges(groups)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(counts) == 0 {
					fmt.Fprintln(out, "No exchanges recorded")
					return nil
				}
				spec := exchangesTable(counts, totals, store.CallGroup(groupFlag))
				fmt.Fprintln(out, renderTable(spec))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&groupFlag, "group", "", "Only show one call group (grand_tichu, tichu_before, no_call)")
	return cmd
}

func countExchanges(groups map[store.CallGroup][]store.CallExchange) (map[exchangeKey]int, map[exchangeBucket]int, error) {
	counts := make(map[exchangeKey]int)
	totals := make(map[exchangeBucket]int)
	for group, exchanges := range groups {
		for _, ex := range exchanges {
			relation, err := tichu.RelationBetween(ex.Giver.Seat(), ex.Taker.Seat())
			if err != nil {
				return nil, nil, err
			}
			counts[exchangeKey{group, relation, cards.AnalysisRank(ex.Card)}]++
			totals[exchangeBucket{group, relation}]++
		}
	}
	return counts, totals, nil
}

func exchangesTable(counts map[exchangeKey]int, totals map[exchangeBucket]int, only store.CallGroup) tableSpec {
	keys := make([]exchangeKey, 0, len(counts))
	for key := range counts {
		if only == "" || key.Group == only {
			keys = append(keys, key)
		}
	}
	groupOrder := store.CallGroups()
	relationOrder := tichu.Relations()
	slices.SortFunc(keys, func(a, b exchangeKey) int {
		return cmp.Or(
			cmp.Compare(slices.Index(groupOrder, a.Group), slices.Index(groupOrder, b.Group)),
			cmp.Compare(slices.Index(relationOrder, a.Relation), slices.Index(relationOrder, b.Relation)),
			cmp.Compare(a.Rank, b.Rank),
		)
	})

	rows := make([][]string, 0, len(keys))
	total := 0
	for _, key := range keys {
		count := counts[key]
		total += count
		share := float64(count) / float64(totals[exchangeBucket{key.Group, key.Relation}])
		rows = append(rows, []string{
			kindLabel(string(key.Group)),
			kindLabel(string(key.Relation)),
			cards.AnalysisRankLabel(key.Rank),
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", share*100),
		})
	}
	return tableSpec{
		Headers: []string{"Taker call", "Giver", "Rank", "Count", "Share"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
		Footer:  []string{"", "", "Total", strconv.Itoa(total), ""},
	}
}
