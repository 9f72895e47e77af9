package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tichme/internal/config"
	"tichme/internal/store"
)

func newWipeCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every recorded game",
		Long: "Delete every recorded game together with its rounds, deals and exchanges.\n" +
			"Players and the card catalog are kept. Databases larger than\n" +
			"database.wipe_confirm_mb ask for confirmation first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				size, err := st.Size()
				if err != nil {
					return err
				}
				if !yes && size > cfg.WipeConfirmBytes() {
					confirmed, err := confirmWipe(cmd, st.Path(), size)
					if err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(cmd.OutOrStdout(), "Wipe cancelled")
						return nil
					}
				}

				removed, err := st.Wipe(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d games from %s\n", removed, st.Path())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirmWipe(cmd *cobra.Command, path string, size int64) (bool, error) {
	if !isTerminal(cmd.InOrStdin()) {
		return false, fmt.Errorf("%s holds %s; rerun with --yes to wipe it non-interactively", path, formatBytes(size))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s holds %s. Delete every recorded game? [y/N] ", path, formatBytes(size))
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false, errors.New("no confirmation received")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
