// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/internal/mindmap"
	"github.com/pdiddy/studykit/internal/store"
	"github.com/pdiddy/studykit/pkg/types"
)

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List saved study kits, newest first",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(context.Background(), false, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	kits, err := a.store.List(context.Background(), store.ListOptions{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSONOut(os.Stdout, kits)
	}
	return formatKitList(os.Stdout, kits)
}

func formatKitList(w io.Writer, kits []types.StudyKit) error {
	if len(kits) == 0 {
		fmt.Fprintln(w, "No study kits found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-16s  %-40s  %5s  %4s\n", "ID", "Created", "Title", "Cards", "Quiz")
	fmt.Fprintln(w, strings.Repeat("-", 109))
	for _, k := range kits {
		fmt.Fprintf(w, "%-36s  %-16s  %-40s  %5d  %4d\n",
			k.ID, k.CreatedAt.Local().Format("2006-01-02 15:04"), clip(k.Title, 40),
			len(k.Flashcards), len(k.Quiz))
	}
	fmt.Fprintf(w, "\n%d kits\n", len(kits))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a study kit",
	Long: `Show prints a study kit. Use --section to print only one part:
summary, transcription, flashcards, mindmap, quiz or videos.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	section, _ := cmd.Flags().GetString("section")
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
	if jsonOutput {
		return writeJSONOut(os.Stdout, kit)
	}
	return printKit(os.Stdout, kit, section)
}

var sections = []string{"summary", "transcription", "flashcards", "mindmap", "quiz", "videos"}

// printKit writes one section of kit, or all but the transcription when
// section is empty.
func printKit(w io.Writer, kit *types.StudyKit, section string) error {
	if section == "" {
		fmt.Fprintf(w, "%s\n%s\n", kit.Title, strings.Repeat("=", len([]rune(kit.Title))))
		fmt.Fprintf(w, "ID: %s\nCreated: %s\n", kit.ID, kit.CreatedAt.Local().Format("2006-01-02 15:04"))
		if kit.Language != "" {
			fmt.Fprintf(w, "Language: %s\n", kit.Language)
		}
		for _, s := range sections {
			if s == "transcription" {
				continue
			}
			fmt.Fprintf(w, "\n## %s\n\n", strings.ToUpper(s[:1])+s[1:])
			if err := printSection(w, kit, s); err != nil {
				return err
			}
		}
		return nil
	}
	return printSection(w, kit, section)
}

func printSection(w io.Writer, kit *types.StudyKit, section string) error {
	switch section {
	case "summary":
		fmt.Fprintln(w, kit.Summary)
	case "transcription":
		fmt.Fprintln(w, kit.Transcription)
	case "flashcards":
		for i, c := range kit.Flashcards {
			fmt.Fprintf(w, "%2d. %s\n    %s\n", i+1, c.Term, c.Definition)
		}
	case "mindmap":
		return mindmap.Render(w, mindmap.Parse(kit.MindMap))
	case "quiz":
		for i, q := range kit.Quiz {
			fmt.Fprintf(w, "%2d. %s\n", i+1, q.Question)
			for j, o := range q.Options {
				mark := " "
				if o == q.CorrectAnswer {
					mark = "*"
				}
				fmt.Fprintf(w, "   %s %c) %s\n", mark, 'a'+j, o)
			}
		}
	case "videos":
		if len(kit.YouTubeLinks) == 0 {
			fmt.Fprintln(w, "(none)")
		}
		for _, l := range kit.YouTubeLinks {
			fmt.Fprintln(w, l)
		}
	default:
		return fmt.Errorf("unknown section %q: use one of %s", section, strings.Join(sections, ", "))
	}
	return nil
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit the title or summary of a study kit",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var patch types.StudyKitPatch
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		patch.Title = &v
	}
	if cmd.Flags().Changed("summary") {
		v, _ := cmd.Flags().GetString("summary")
		patch.Summary = &v
	}
	if patch.Empty() {
		return fmt.Errorf("nothing to update: provide --title or --summary")
	}

	a, err := newApp(context.Background(), false, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	kit, err := a.store.Update(context.Background(), args[0], patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Updated study kit %s (%s)\n", kit.ID, kit.Title)
	return nil
}

// --- delete ---

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a study kit and its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background(), false, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted study kit %s\n", args[0])
		return nil
	},
}

func writeJSONOut(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	listCmd.Flags().Int("limit", 0, "maximum kits to list (0 = use default)")
	listCmd.Flags().Bool("json", false, "output as JSON")

	showCmd.Flags().String("section", "", "print one section: "+strings.Join(sections, ", "))
	showCmd.Flags().Bool("json", false, "output the full kit as JSON")

	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().String("summary", "", "new summary")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}
