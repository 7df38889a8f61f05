// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export study kits to YAML, JSON or an Excel workbook",
	Long: `Export writes every kit (or those matching the query) to stdout or to
--output. The xlsx format writes Kits, Flashcards and Quiz sheets and
requires --output.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")

	f := store.ExportFormat(format)
	if f == store.ExportXLSXFormat && output == "" {
		return fmt.Errorf("--output is required for xlsx export")
	}

	a, err := newApp(context.Background(), false, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer file.Close()
		w = file
	}

	opts := store.ListOptions{Limit: limit}
	if len(args) > 0 {
		opts.Query = args[0]
	}
	if err := a.store.Export(context.Background(), w, f, opts); err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml, json or xlsx")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().Int("limit", -1, "maximum kits to export (-1 = all)")

	rootCmd.AddCommand(exportCmd)
}
