package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"knot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "knot [flags] [file.kn]",
	Short: "knot language interpreter",
	Long: `knot runs a .kn program, a script read from stdin (--script), the
embedded self-check (--test), or an interactive REPL when called without arguments`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// errReported means the failure was already printed for the user.
var errReported = errors.New("error already reported")

var errColor = color.New(color.FgRed)

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().Bool("test", false, "run the embedded self-check program")
	rootCmd.Flags().Bool("script", false, "read the program from standard input")
	rootCmd.MarkFlagsMutuallyExclusive("test", "script")

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides knot.toml")
	rootCmd.PersistentFlags().Int("max-depth", 0, "maximum depth of user function calls (0 keeps knot.toml or the default)")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, *.ndjson selects NDJSON)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace event format (text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main executes the root command. Failures exit with status 1; user program
// errors are printed once, where they happen.
func main() {
	os.Exit(execute(os.Stderr))
}

func execute(stderr io.Writer) int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(stderr, err)
		}
		return 1
	}
	return 0
}

// printError renders a top-level failure as "Error: <message>" in red.
func printError(w io.Writer, err error) {
	errColor.Fprintf(w, "Error: %v\n", err)
}
