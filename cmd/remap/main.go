package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"remap/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "remap",
	Short: "Remap record transformation toolchain",
	Long:  `Remap compiles and runs record transformation programs over streams of structured records`,
}

// main registers subcommands and persistent flags and executes the root
// command. Command failures exit with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
