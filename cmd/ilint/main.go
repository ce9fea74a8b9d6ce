// Command ilint checks localization resources and program sources for
// internationalization defects.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ilint/internal/driver"
	"ilint/internal/prof"
	"ilint/internal/version"
)

// exitError carries a non-zero exit code out of a command that already
// reported its outcome.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ilint",
		Short:         "Internationalization linter",
		Long:          `ilint checks resource files and program sources for i18n and l10n defects, and fixes what it can`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLintCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "console", "log format (console|json)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to this file")
	return root
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and maps its outcome to an exit code. Anything that
// prevents a run from completing is reported as a configuration failure.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	var session *prof.Session
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		session, err = startProfiling(cmd)
		return err
	}
	err := root.Execute()
	if stopErr := session.Stop(); stopErr != nil {
		fmt.Fprintf(stderr, "ilint: %v\n", stopErr)
	}
	if err == nil {
		return driver.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "ilint: %v\n", err)
	return driver.ExitConfig
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}

// startProfiling starts the profilers requested by the persistent flags.
func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Start(opts)
}
