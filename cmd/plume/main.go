// Package main implements the plume CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plume/internal/diag"
	"plume/internal/diagfmt"
	"plume/internal/source"
	"plume/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "Plume template compiler",
	Long:  `Plume compiles indentation-based templates into HTML`,
}

func main() {
	// feeds the automatic --version flag
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("diag-format", "pretty", "diagnostic format (pretty|short|json)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor decides stderr colorization from the persistent --color flag.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

// printBag renders accumulated diagnostics to stderr in the format the
// persistent --diag-format flag selects. A bag with nothing above info
// severity prints nothing.
func printBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if !bag.HasErrors() && !bag.HasWarnings() {
		return nil
	}
	bag.Sort()

	format, err := cmd.Root().PersistentFlags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowHints: true,
			ShowNotes: true,
		})
		return nil
	case "short":
		diagfmt.Short(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
		return nil
	case "json":
		return diagfmt.JSON(os.Stderr, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeHints:     true,
			IncludeNotes:     true,
		})
	default:
		return fmt.Errorf("unknown diag-format: %s", format)
	}
}
