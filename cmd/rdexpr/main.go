package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rdexpr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rdexpr:", err)
		os.Exit(1)
	}
}

// app is the state shared by all commands for one invocation.
type app struct {
	cfg     Config
	cfgFile string
	inname  string
	dump    bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}
	root := &cobra.Command{
		Use:   "rdexpr [expression...]",
		Short: "Parse and evaluate arithmetic expressions",
		Long: `rdexpr parses arithmetic expressions made of numbers, + - * / ^, round
brackets, and the functions sin, cos, tan, exp, and sqrt.

Each argument is one expression. With no arguments, expressions are read one
per line from --in or standard input. The root command applies the configured
mode (eval by default) to each expression.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.each(cmd, args, a.cfg.Mode)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (.toml, .yaml, or .yml)")
	pf.UintP("prec", "p", 0, "precision of evaluation in bits (0 for float64)")
	pf.String("fmt", "%g", "result formatting verb")
	pf.BoolP("verbose", "v", false, "log debug output, including parser traces")
	pf.StringVar(&a.inname, "in", "", "file of expressions, one per line (- for stdin)")

	for _, mode := range modes {
		mode := mode
		c := &cobra.Command{
			Use:   mode + " [expression...]",
			Short: modeHelp[mode],
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.each(cmd, args, mode)
			},
		}
		if mode == "tree" {
			c.Flags().BoolVar(&a.dump, "dump", false, "dump the Go structure of the tree")
		}
		root.AddCommand(c)
	}
	root.AddCommand(a.replCmd())
	return root
}

var modeHelp = map[string]string{
	"eval":   "Evaluate expressions",
	"rpn":    "Print expressions in reverse Polish notation",
	"tokens": "Print the tokens of expressions",
	"tree":   "Print the syntax trees of expressions",
}

// setup loads the config file, applies flags over it, and creates the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.cfgFile != "" {
		cfg, err := LoadConfig(a.cfgFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	fs := cmd.Flags()
	if fs.Changed("prec") {
		a.cfg.Prec, _ = fs.GetUint("prec")
	}
	if fs.Changed("fmt") {
		a.cfg.Format, _ = fs.GetString("fmt")
	}
	if fs.Changed("verbose") {
		a.cfg.Verbose, _ = fs.GetBool("verbose")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	level := slog.LevelInfo
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// parseOpts returns the options for parsing according to the configuration.
func (a *app) parseOpts() []rdexpr.ParseOption {
	if !a.cfg.Verbose {
		return nil
	}
	return []rdexpr.ParseOption{rdexpr.Trace(a.log)}
}

// each applies mode to every input expression, stopping at the first error.
func (a *app) each(cmd *cobra.Command, args []string, mode string) error {
	srcs := args
	if len(srcs) == 0 {
		lines, err := a.readInputs(cmd)
		if err != nil {
			return err
		}
		srcs = lines
	}
	out := cmd.OutOrStdout()
	for _, src := range srcs {
		if err := a.run(out, mode, src); err != nil {
			return fmt.Errorf("%q: %w", src, err)
		}
	}
	return nil
}

// readInputs reads non-blank lines from --in or standard input.
func (a *app) readInputs(cmd *cobra.Command) ([]string, error) {
	var r io.Reader
	switch a.inname {
	case "", "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(a.inname)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		if s := strings.TrimSpace(scan.Text()); s != "" {
			lines = append(lines, s)
		}
	}
	return lines, scan.Err()
}

// run applies one mode to one expression, writing the output to out.
func (a *app) run(out io.Writer, mode, src string) error {
	a.log.Debug("input", slog.String("mode", mode), slog.String("src", src))
	if mode == "tokens" {
		toks, err := rdexpr.Tokenize(src)
		for _, tok := range toks {
			fmt.Fprintf(out, "%-11s %q\n", tok.Sym, tok.Text)
		}
		return err
	}
	n, err := rdexpr.Parse(src, a.parseOpts()...)
	if err != nil {
		return err
	}
	switch mode {
	case "eval":
		return a.eval(out, n)
	case "rpn":
		return rdexpr.WriteRPN(out, n)
	case "tree":
		if a.dump {
			dumper.Fdump(out, n)
			return nil
		}
		a.log.Debug("tree", slog.Int("depth", n.Depth()))
		_, err := fmt.Fprintln(out, n)
		return err
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// dumper prints trees field by field rather than through their String
// methods.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// eval evaluates n with float64 or the configured precision.
func (a *app) eval(out io.Writer, n *rdexpr.Node) error {
	verb := a.cfg.Format + "\n"
	if a.cfg.Prec == 0 {
		r, err := rdexpr.Eval(n)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, verb, r)
		return err
	}
	r, err := rdexpr.EvalBig(n, rdexpr.Prec(a.cfg.Prec))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, verb, r)
	return err
}
