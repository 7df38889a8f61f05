// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/internal/mindmap"
)

var mindmapCmd = &cobra.Command{
	Use:   "mindmap <id>",
	Short: "Print the mind map of a study kit as a tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := newApp(context.Background(), false, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		kit, err := a.store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		forest := mindmap.Parse(kit.MindMap)
		if jsonOutput {
			return writeJSONOut(os.Stdout, forest)
		}
		if len(forest) == 0 {
			fmt.Fprintln(os.Stdout, "Mind map is empty.")
			return nil
		}
		if err := mindmap.Render(os.Stdout, forest); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\n%d nodes\n", mindmap.Count(forest))
		return nil
	},
}

func init() {
	mindmapCmd.Flags().Bool("json", false, "output the parsed tree as JSON")

	rootCmd.AddCommand(mindmapCmd)
}
