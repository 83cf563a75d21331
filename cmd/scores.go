package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/store"
	"github.com/mensylisir/ipsprint/tui"
)

func newScoresCommand(o *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Print the leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.Load()
			if err != nil {
				return err
			}
			if err := consoleLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(st store.Store) error {
				scores, err := st.LoadHighScores(cmd.Context())
				if err != nil {
					return err
				}
				return printScores(cmd.OutOrStdout(), scores)
			})
		},
	}
}

func printScores(w io.Writer, scores []store.HighScore) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "no high scores yet")
		return err
	}
	headers := append([]string{"Player"}, tui.ScoreColumns()...)
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(tui.ScoreRows(scores)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
