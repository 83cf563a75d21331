package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/store"
)

func newProgressCommand(o *GlobalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "progress USER",
		Short: "Print the unlocked levels and perfect streaks of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user := strings.TrimSpace(args[0])
			if user == "" {
				return errors.New("username is empty")
			}
			cfg, err := o.Load()
			if err != nil {
				return err
			}
			if err := consoleLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(st store.Store) error {
				p, err := st.LoadUserProgress(cmd.Context(), user)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(p)
				}
				return printProgress(cmd.OutOrStdout(), user, p, cfg.Spec.Round.UnlockStreak)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func printProgress(w io.Writer, user string, p store.UserProgress, unlockStreak int) error {
	if _, err := fmt.Fprintf(w, "%s\n", user); err != nil {
		return err
	}
	for _, level := range common.Levels {
		state := "locked"
		if p.IsUnlocked(level) {
			state = "unlocked"
			if _, ok := level.Next(); ok {
				state = fmt.Sprintf("unlocked, perfect streak %d/%d", p.Streak(level), unlockStreak)
			}
		}
		if _, err := fmt.Fprintf(w, "  %-13s %s\n", level, state); err != nil {
			return err
		}
	}
	return nil
}
