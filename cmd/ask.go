package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/game"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/question"
)

const optionLetters = "abcde"

func newAskCommand(o *GlobalOptions) *cobra.Command {
	var (
		level  string
		count  int
		asJSON bool
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Print generated questions with their answers",
		Example: `  ipsprint ask --level Entry --count 5
  ipsprint ask --level associate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl, ok := common.ParseLevel(level)
			if !ok {
				return errors.Wrapf(question.ErrUnknownLevel, "%q", level)
			}
			if count < 1 {
				return errors.Errorf("count must be positive, got %d", count)
			}
			cfg, err := o.Load()
			if err != nil {
				return err
			}
			if err := consoleLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}

			d := question.NewDispatcher(newGenerator(seed))
			attempts := game.SettingsFrom(cfg.Spec.Round).MaxDispatchAttempts
			log := logger.Log.ForGenerator("ask")
			questions := make([]*question.Question, 0, count)
			for i := 0; i < count; i++ {
				q, err := game.Dispatch(d, lvl, attempts, log)
				if err != nil {
					return err
				}
				questions = append(questions, q)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(questions)
			}
			return printQuestions(cmd.OutOrStdout(), questions)
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", string(common.LevelEntry), "Entry, Associate or Professional")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of questions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the question generator")
	return cmd
}

func printQuestions(w io.Writer, questions []*question.Question) error {
	for i, q := range questions {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, q.Prompt); err != nil {
			return err
		}
		for j, opt := range q.Options {
			mark := " "
			if opt == q.Answer {
				mark = "*"
			}
			if _, err := fmt.Fprintf(w, "  %s %c) %s\n", mark, optionLetters[j%len(optionLetters)], opt); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s\n", q.Explanation); err != nil {
			return err
		}
	}
	return nil
}
