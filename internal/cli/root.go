// Package cli implements the wardrobe-fetcher command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meur/wardrobe-fetcher/internal/logger"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const exitMessage = "Press any key to exit..."

// ErrCancelled is returned when the user declines to touch an existing output file
var ErrCancelled = errors.New("cancelled by user")

// UsageError reports invalid arguments in user-facing words
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// app carries the state shared by the commands of one invocation
type app struct {
	prompter Prompter
	config   Config
	log      *logger.Logger
}

// NewRootCommand creates a fresh command tree that prompts through p.
// Tests build isolated trees with a scripted Prompter.
func NewRootCommand(p Prompter) *cobra.Command {
	a := &app{prompter: p, log: logger.Default()}

	cmd := &cobra.Command{
		Use:   "wardrobe-fetcher <asset_path> <output_file> [patch]",
		Short: "Collect wardrobe items from unpacked game assets",
		Long: `Scans <asset_path>/items for .head, .chest, .legs and .back item files and
writes their wardrobe fields to <output_file>, grouped by category.

Asset path:  path to the unpacked assets (must contain an 'items' directory).
Output file: file to write results to. When it exists you are asked whether
             to overwrite it, merge into it, or cancel.
Patch:       pass "true" to write JSON patch "add" operations instead.

An existing directory named like a subcommand (e.g. "catalog") is read as
the asset path unless it is followed by one of that subcommand's commands.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runFetch,
	}

	cmd.PersistentFlags().String("config", "", "Config file (yaml, toml or json)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("catalog", "", "SQLite item catalog to update after a successful run")

	cmd.Flags().Bool("compact", false, "Write compact JSON instead of indented JSON")
	cmd.Flags().Bool("skip-invalid", false, "Skip items missing required fields instead of aborting")
	cmd.Flags().StringSlice("exclude", nil, "Glob of paths below items/ to skip (repeatable)")

	cmd.AddCommand(newCatalogCommand(a))

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.config = cfg

	logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(cfg.LogLevel),
		UseColor:  !cfg.NoColor && !cfg.LogJSON,
		JSON:      cfg.LogJSON,
		Component: "wardrobe",
	})
	a.log = logger.Default()
	return nil
}

func (a *app) colorize(color, text string) string {
	if a.config.NoColor {
		return text
	}
	return color + text + colorReset
}

// Run executes root with args. Every path through the fetch command ends by
// waiting for a key press, whether it succeeded, failed or was cancelled.
func Run(root *cobra.Command, p Prompter, args []string) error {
	root.SetArgs(assetPathArgs(root, args))
	cmd, err := root.ExecuteC()
	if err != nil {
		report(root.ErrOrStderr(), err)
	}
	if cmd == root {
		p.WaitForKey(exitMessage)
	}
	return err
}

// assetPathArgs rewrites a first positional argument that names both a
// subcommand and an existing directory to "./<name>", so it reaches the fetch
// command as an asset path. A following word that is one of the subcommand's
// own commands keeps the subcommand ("catalog list").
func assetPathArgs(root *cobra.Command, args []string) []string {
	i := firstPositional(root, args)
	if i < 0 {
		return args
	}
	sub := subcommand(root, args[i])
	if sub == nil {
		return args
	}
	if i+1 < len(args) && subcommand(sub, args[i+1]) != nil {
		return args
	}
	if info, err := os.Stat(args[i]); err != nil || !info.IsDir() {
		return args
	}

	rewritten := append([]string(nil), args...)
	rewritten[i] = "." + string(filepath.Separator) + args[i]
	return rewritten
}

// firstPositional returns the index of the first argument that is not a flag
// or a flag value, or -1.
func firstPositional(root *cobra.Command, args []string) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			if i+1 < len(args) {
				return i + 1
			}
			return -1
		case strings.HasPrefix(arg, "--"):
			if !strings.Contains(arg, "=") && takesValue(root, arg[2:]) {
				i++
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
		default:
			return i
		}
	}
	return -1
}

func takesValue(root *cobra.Command, name string) bool {
	f := root.Flags().Lookup(name)
	if f == nil {
		f = root.PersistentFlags().Lookup(name)
	}
	return f != nil && f.NoOptDefVal == ""
}

func subcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}

func report(w io.Writer, err error) {
	var usage *UsageError
	switch {
	case errors.Is(err, ErrCancelled):
		// The cancellation was already announced.
	case errors.As(err, &usage):
		fmt.Fprintln(w, usage.Message)
	default:
		fmt.Fprintf(w, "%s✗ %v%s\n", colorRed, err, colorReset)
	}
}

// Execute runs the command line against the process terminal
func Execute() {
	p := NewTerminalPrompter(os.Stdin, os.Stdout)
	// Exit status is the same on every path.
	_ = Run(NewRootCommand(p), p, os.Args[1:])
}
