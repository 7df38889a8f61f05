// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/studykit/internal/quiz"
	"github.com/pdiddy/studykit/pkg/types"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <id>",
	Short: "Take the quiz of a study kit",
	Long: `Quiz asks each question of a kit in turn. Answer with the option letter
or number; an empty answer skips the question. The score is printed at
the end, followed by the correct answers for anything missed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background(), false, os.Stdout)
		if err != nil {
			return err
		}
		defer a.Close()

		kit, err := a.store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		if len(kit.Quiz) == 0 {
			fmt.Fprintln(os.Stdout, "This kit has no quiz.")
			return nil
		}
		report := runQuiz(os.Stdin, os.Stdout, kit.Quiz)
		printReport(os.Stdout, report)
		return nil
	},
}

// runQuiz asks every question on w, reads one answer per line from r and
// grades the answers. A closed input leaves the rest unanswered.
func runQuiz(r io.Reader, w io.Writer, questions []types.QuizQuestion) quiz.Report {
	sc := bufio.NewScanner(r)
	answers := make([]string, len(questions))
	for i, q := range questions {
		fmt.Fprintf(w, "\n%d/%d. %s\n", i+1, len(questions), q.Question)
		for j, o := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'a'+j, o)
		}
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			break
		}
		answers[i] = pickOption(q.Options, sc.Text())
	}
	return quiz.Grade(questions, answers)
}

// pickOption resolves a typed answer to option text. Letters and 1-based
// numbers select by position; anything else is matched against the option
// text case-insensitively.
func pickOption(options []string, input string) string {
	in := strings.TrimSpace(input)
	if in == "" {
		return ""
	}
	if len(in) == 1 && in[0] >= 'a' && in[0] <= 'z' {
		if i := int(in[0] - 'a'); i < len(options) {
			return options[i]
		}
	}
	if len(in) == 1 && in[0] >= 'A' && in[0] <= 'Z' {
		if i := int(in[0] - 'A'); i < len(options) {
			return options[i]
		}
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	for _, o := range options {
		if strings.EqualFold(o, in) {
			return o
		}
	}
	return in
}

func printReport(w io.Writer, report quiz.Report) {
	fmt.Fprintf(w, "\nScore: %d/%d\n", report.Score, report.Total)
	for i, res := range report.Results {
		if res.Correct {
			continue
		}
		given := res.Answer
		if given == "" {
			given = "(no answer)"
		}
		fmt.Fprintf(w, "  %d. %s\n     your answer: %s\n     correct:     %s\n", i+1, res.Question, given, res.CorrectAnswer)
	}
}

func init() {
	rootCmd.AddCommand(quizCmd)
}
