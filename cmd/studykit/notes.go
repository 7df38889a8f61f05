// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes <id>",
	Short: "Show or replace the notes attached to a study kit",
	Long: `Notes prints the free-form notes saved for a kit. With --set the notes are
replaced by the given text; use --set - to read them from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx, false, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("set") {
			content, _ := cmd.Flags().GetString("set")
			if content == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading notes from stdin: %w", err)
				}
				content = string(data)
			}
			notes, err := a.store.SaveNotes(ctx, args[0], content)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Saved notes for %s (%d bytes)\n", notes.KitID, len(notes.Content))
			return nil
		}

		notes, err := a.store.Notes(ctx, args[0])
		if err != nil {
			return err
		}
		if notes.Content == "" {
			fmt.Fprintln(os.Stdout, "No notes yet.")
			return nil
		}
		fmt.Fprintln(os.Stdout, notes.Content)
		return nil
	},
}

func init() {
	notesCmd.Flags().String("set", "", "replace the notes with this text (- reads stdin)")

	rootCmd.AddCommand(notesCmd)
}
