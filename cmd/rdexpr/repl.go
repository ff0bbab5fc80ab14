package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read and evaluate expressions interactively",
		Long: `repl reads expressions one line at a time and applies the current mode to
each. A failed expression reports its error and the loop continues.

Lines beginning with a colon are commands:
  :mode MODE   switch to eval, rpn, tokens, or tree
  :quit        leave the loop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			a.loadHistory(line)
			defer a.saveHistory(line)
			return a.repl(cmd.OutOrStdout(), cmd.ErrOrStderr(), line.Prompt, line.AppendHistory)
		},
	}
}

// repl runs the read-eval-print loop. prompt reads one line; remember records
// a line in the history.
func (a *app) repl(out, errout io.Writer, prompt func(string) (string, error), remember func(string)) error {
	mode := a.cfg.Mode
	for {
		s, err := prompt(mode + "> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		remember(s)
		if strings.HasPrefix(s, ":") {
			f := strings.Fields(s[1:])
			switch {
			case len(f) == 1 && (f[0] == "quit" || f[0] == "q"):
				return nil
			case len(f) == 2 && f[0] == "mode" && validMode(f[1]):
				mode = f[1]
			default:
				fmt.Fprintf(errout, "unknown command %q\n", s)
			}
			continue
		}
		if err := a.run(out, mode, s); err != nil {
			fmt.Fprintln(errout, err)
		}
	}
}

func (a *app) loadHistory(line *liner.State) {
	if a.cfg.History == "" {
		return
	}
	f, err := os.Open(a.cfg.History)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.log.Warn("couldn't read history", slog.String("file", a.cfg.History), slog.Any("err", err))
		}
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		a.log.Warn("couldn't read history", slog.String("file", a.cfg.History), slog.Any("err", err))
	}
}

func (a *app) saveHistory(line *liner.State) {
	if a.cfg.History == "" {
		return
	}
	f, err := os.Create(a.cfg.History)
	if err != nil {
		a.log.Warn("couldn't save history", slog.String("file", a.cfg.History), slog.Any("err", err))
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		a.log.Warn("couldn't save history", slog.String("file", a.cfg.History), slog.Any("err", err))
	}
}
