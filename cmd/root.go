// Package cmd holds the ipsprint command line.
package cmd

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
)

// GlobalOptions are the flags every command shares.
type GlobalOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	Verbose    bool
}

func NewRootCommand() *cobra.Command {
	o := &GlobalOptions{}
	root := &cobra.Command{
		Use:   common.AppName,
		Short: "Practice IPv4 classes, types, masks and portions in the terminal",
		Long: `ipsprint is a quiz game about IPv4 addressing. Play rounds in the
terminal, unlock harder levels with perfect streaks and chase the leaderboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&o.ConfigPath, "config", "c", "", "path to a GameConfig YAML file")
	flags.StringVar(&o.EnvFile, "env-file", "", "dotenv file with IPSPRINT_* overrides (default .env)")
	flags.StringVar(&o.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newPlayCommand(o),
		newAskCommand(o),
		newClassifyCommand(),
		newScoresCommand(o),
		newProgressCommand(o),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// Load resolves the configuration and lays the logging flags over it.
func (o *GlobalOptions) Load() (*config.GameConfig, error) {
	cfg, err := config.Resolve(o.ConfigPath, o.EnvFile)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.Spec.Log.Level = o.LogLevel
	}
	if o.Verbose {
		cfg.Spec.Log.Verbose = true
	}
	return cfg, nil
}

// consoleLogging points the global logger at w, for commands that print and exit.
func consoleLogging(cfg *config.GameConfig, w io.Writer) error {
	return logger.Init(logger.Options{
		Level:   cfg.Spec.Log.Level,
		Verbose: cfg.Spec.Log.Verbose,
		Output:  w,
	})
}

// withStore opens the configured store, runs fn and closes it.
func withStore(ctx context.Context, cfg *config.GameConfig, fn func(store.Store) error) (err error) {
	st, err := store.Open(ctx, cfg.Spec.Store)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(st)
}

// newGenerator seeds the question generator. Zero means a clock seed.
func newGenerator(seed uint64) *question.Generator {
	if seed == 0 {
		return question.NewGenerator(nil, nil)
	}
	return question.NewGenerator(rand.New(rand.NewPCG(seed, seed>>1|1)), nil)
}
