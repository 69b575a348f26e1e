// Package main is the command line driver for the notepad editing core.
// It loads, converts and searches files through the same task units the
// editor uses, so every operation is cancellable with Ctrl-C.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errInterrupted reports a unit cancelled by a signal.
var errInterrupted = errors.New("interrupted")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errInterrupted) {
			return 130
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "notepad-core",
		Short: "Inspect, convert and search text files",
		Long: `notepad-core drives the editing core of the notepad from the command line.

Files are decoded with encoding detection (BOM, UTF-8, UTF-16, Shift_JIS,
EUC-JP) and line endings are preserved unless a conversion asks otherwise.

Examples:
  notepad-core info notes.txt
  notepad-core convert notes.txt --to utf-8 --line-ending lf -o out.txt
  notepad-core search notes.txt TODO -i`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file path (default $NOTEPAD_CORE_CONFIG)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFile, "log-file", "", "write the log to a rotating file instead of stderr")

	root.AddCommand(
		newInfoCmd(a),
		newConvertCmd(a),
		newSearchCmd(a),
		newVersionCmd(a),
	)
	return root
}

// newVersionCmd creates the version subcommand.
func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "notepad-core %s\n", version)
			fmt.Fprintf(a.stdout, "Commit: %s\n", commit)
			fmt.Fprintf(a.stdout, "Built: %s\n", date)
			return nil
		},
	}
}
