package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plume/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the render cache",
	Long:  "Remove every cached render from the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("plume")
	if err != nil {
		return fmt.Errorf("failed to open render cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear render cache: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintln(os.Stdout, "render cache cleared")
	}
	return nil
}
