package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mapfold/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mapfold",
	Short: "Compiler output aggregation and source map composition",
	Long: `mapfold collects the per-file artifacts a compiler emits, folds the generated
source maps through the maps of earlier pipeline stages and releases finished
files in arrival or dependency order.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring|both")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime execution trace to file")
}

// main sets the version and executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
