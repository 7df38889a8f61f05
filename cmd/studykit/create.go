// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/pkg/types"
)

var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Build a study kit from a file and save it",
	Long: `Create extracts the text of a file (transcribing audio, video, images and
scanned PDFs), detects its language, writes a summary, then generates
flashcards, a mind map, a quiz and video links concurrently. The kit is
saved only if every step succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	up, err := readUpload(args[0])
	if err != nil {
		return err
	}
	title, _ := cmd.Flags().GetString("title")

	a, err := newApp(ctx, true, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(os.Stdout, "Assembling study kit from %s (%s, %d bytes)\n", args[0], up.MIMEType, len(up.Data))
	kit, err := createKit(ctx, a.assembler, a.store, up, title)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nCreated study kit %s\n", kit.ID)
	fmt.Fprintf(os.Stdout, "  title:      %s\n", kit.Title)
	fmt.Fprintf(os.Stdout, "  language:   %s\n", kit.Language)
	fmt.Fprintf(os.Stdout, "  flashcards: %d\n", len(kit.Flashcards))
	fmt.Fprintf(os.Stdout, "  quiz:       %d questions\n", len(kit.Quiz))
	fmt.Fprintf(os.Stdout, "  videos:     %d\n", len(kit.YouTubeLinks))
	return nil
}

type kitAssembler interface {
	Assemble(ctx context.Context, up types.Upload) (*types.StudyKit, error)
}

type kitCreator interface {
	Create(ctx context.Context, kit *types.StudyKit) error
}

// createKit assembles up and saves the result. The upload keeps its file
// name so extraction can dispatch on the extension; title, when set,
// replaces the kit title afterwards.
func createKit(ctx context.Context, asm kitAssembler, st kitCreator, up types.Upload, title string) (*types.StudyKit, error) {
	kit, err := asm.Assemble(ctx, up)
	if err != nil {
		return nil, err
	}
	if title != "" {
		kit.Title = title
	}
	if err := st.Create(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

func init() {
	createCmd.Flags().String("title", "", "title for the kit (default: the file name)")

	rootCmd.AddCommand(createCmd)
}
