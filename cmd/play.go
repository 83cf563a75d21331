package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/game"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
	"github.com/mensylisir/ipsprint/tui"
)

func newPlayCommand(o *GlobalOptions) *cobra.Command {
	var (
		user  string
		theme string
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start the interactive game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.Load()
			if err != nil {
				return err
			}
			// the TUI owns the terminal, so logs go to file
			if err := logger.Init(logger.Options{
				Dir:     cfg.Spec.Log.Dir,
				Level:   cfg.Spec.Log.Level,
				Verbose: cfg.Spec.Log.Verbose,
			}); err != nil {
				return err
			}
			if theme == "" {
				theme = cfg.Spec.UI.Theme
			}

			ctx := cmd.Context()
			return withStore(ctx, cfg, func(st store.Store) error {
				ctl := game.NewController(st, question.NewDispatcher(newGenerator(seed)), game.SettingsFrom(cfg.Spec.Round))
				model := tui.New(ctl, st, tui.WithUser(user), tui.WithTheme(theme), tui.WithContext(ctx))

				logger.Log.WithField(common.StoreDriver, cfg.Spec.Store.Driver).Info("game started")
				if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
					return errors.Wrap(err, "game exited with an error")
				}
				logger.Log.Info("game closed")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "log in as this player straight away")
	cmd.Flags().StringVar(&theme, "theme", "", "dark or light (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the question generator for a repeatable game")
	return cmd
}
