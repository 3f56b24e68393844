package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plume/internal/ast"
	"plume/internal/diagfmt"
	"plume/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.plume",
	Short: "Parse a template file and dump its AST",
	Long:  `Parse tokenizes and parses one template file; includes and inheritance are left unresolved`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := printBag(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.Doc == ast.NoNodeID {
		return fmt.Errorf("parsing failed: %s", filePath)
	}

	switch format {
	case "tree":
		return diagfmt.FormatASTTree(os.Stdout, result.Builder, result.Doc, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Builder, result.Doc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
