// Command blend65c is a thin driver over the analysis packages: it
// parses a source file, runs the seven-pass analyzer, and prints
// diagnostics or dominator-tree queries.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/blendsdk/blend65/internal/analysis"
	"github.com/blendsdk/blend65/internal/ast"
	"github.com/blendsdk/blend65/internal/config"
	"github.com/blendsdk/blend65/internal/diagprint"
	"github.com/blendsdk/blend65/internal/lexer"
	"github.com/blendsdk/blend65/internal/parser"
	"github.com/blendsdk/blend65/internal/ssa"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "blend65c",
		Short: "Front-end analysis driver for the blend65 toolchain",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration")

	root.AddCommand(newAnalyzeCmd(&configPath))
	root.AddCommand(newDominatorsCmd(&configPath))
	root.AddCommand(newReplCmd(&configPath))
	return root
}

func parseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	normalized := lexer.Normalize(src)
	p := parser.New(normalized, path)
	prog, errs := p.Parse()
	if len(errs) > 0 {
		var b strings.Builder
		for _, e := range errs {
			fmt.Fprintln(&b, e)
		}
		return nil, fmt.Errorf("parse errors:\n%s", b.String())
	}
	return prog, nil
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var advanced bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Run the seven-pass analyzer over a source file and print diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if advanced {
				opts.RunAdvancedAnalysis = true
			}
			prog, err := parseFile(args[0])
			if err != nil {
				return err
			}
			res := analysis.Analyze(prog, opts)
			diagprint.Write(cmd.OutOrStdout(), res.Diagnostics)
			diagprint.Summary(cmd.OutOrStdout(), args[0], res.Succeeded(),
				res.Diagnostics.ErrorCount(), res.Diagnostics.WarningCount())
			if !res.Succeeded() {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&advanced, "advanced", false, "enable Pass 7 advanced analysis")
	return cmd
}

func newDominatorsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dominators <file> <function>",
		Short: "Print the dominator tree and dominance frontier of one function's CFG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			prog, err := parseFile(args[0])
			if err != nil {
				return err
			}
			res := analysis.Analyze(prog, opts)
			fn, ok := res.Functions[args[1]]
			if !ok {
				return fmt.Errorf("no function %q in %s", args[1], args[0])
			}
			printDominance(cmd.OutOrStdout(), fn.CFG.DomView())
			return nil
		},
	}
	return cmd
}

func printDominance(w io.Writer, g interface {
	EntryID() int
	BlockIDs() []int
	Succs(int) []int
	Preds(int) []int
}) {
	tree := ssa.BuildDominatorTree(g)
	df := ssa.BuildDominanceFrontier(g, tree)
	ids := append([]int(nil), g.BlockIDs()...)
	sort.Ints(ids)
	for _, id := range ids {
		idom, ok := tree.Idom(id)
		idomStr := "-"
		if ok && idom >= 0 {
			idomStr = fmt.Sprintf("%d", idom)
		}
		fmt.Fprintf(w, "%s block %s idom=%s DF=%v\n",
			color.CyanString("%d", id), color.New(color.Bold).Sprint(id), idomStr, df.Of(id))
	}
}

func newReplCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt for exploring diagnostics and dominator queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(*configPath)
		},
	}
}

// runRepl is a minimal read-eval-print loop over already-analyzed
// modules, colorized green for success and red for errors.
// `load <file>` parses and analyzes a file;
// `diag` reprints its diagnostics; `dom <function>` prints that
// function's dominator tree and dominance frontier; `quit` exits.
func runRepl(configPath string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var current *analysis.Result
	var currentPath string

	fmt.Println(color.GreenString("blend65c repl - type 'help' for commands"))
	for {
		input, err := line.Prompt("blend65> ")
		if err != nil {
			return nil // EOF or Ctrl-D/Ctrl-C
		}
		line.AppendHistory(input)
		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help":
			fmt.Println("commands: load <file>, diag, dom <function>, quit")
		case "load":
			if len(fields) != 2 {
				fmt.Println(color.RedString("usage: load <file>"))
				continue
			}
			opts, err := config.Load(configPath)
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			prog, err := parseFile(fields[1])
			if err != nil {
				fmt.Println(color.RedString("%v", err))
				continue
			}
			current = analysis.Analyze(prog, opts)
			currentPath = fields[1]
			diagprint.Summary(os.Stdout, currentPath, current.Succeeded(),
				current.Diagnostics.ErrorCount(), current.Diagnostics.WarningCount())
		case "diag":
			if current == nil {
				fmt.Println(color.RedString("no module loaded"))
				continue
			}
			diagprint.Write(os.Stdout, current.Diagnostics)
		case "dom":
			if current == nil {
				fmt.Println(color.RedString("no module loaded"))
				continue
			}
			if len(fields) != 2 {
				fmt.Println(color.RedString("usage: dom <function>"))
				continue
			}
			fn, ok := current.Functions[fields[1]]
			if !ok {
				fmt.Println(color.RedString("no function %q", fields[1]))
				continue
			}
			printDominance(os.Stdout, fn.CFG.DomView())
		case "quit", "exit":
			return nil
		default:
			fmt.Println(color.YellowString("unknown command: %s", fields[0]))
		}
	}
}
