// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quiz scores answers against a generated quiz.
package quiz

import "github.com/pdiddy/studykit/pkg/types"

// Result is the outcome for one question.
type Result struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
}

// Report summarizes a graded attempt.
type Report struct {
	Score   int      `json:"score"`
	Total   int      `json:"total"`
	Results []Result `json:"results"`
}

// Score counts the answers that equal their question's correct answer.
// answers is positional; missing entries count as wrong.
func Score(questions []types.QuizQuestion, answers []string) int {
	return Grade(questions, answers).Score
}

// Grade scores each question and returns the per-question results.
func Grade(questions []types.QuizQuestion, answers []string) Report {
	r := Report{Total: len(questions), Results: make([]Result, 0, len(questions))}
	for i, q := range questions {
		res := Result{Question: q.Question, CorrectAnswer: q.CorrectAnswer}
		if i < len(answers) {
			res.Answer = answers[i]
			res.Correct = answers[i] != "" && answers[i] == q.CorrectAnswer
		}
		if res.Correct {
			r.Score++
		}
		r.Results = append(r.Results, res)
	}
	return r
}
