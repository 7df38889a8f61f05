// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studykit/internal/llm"
	"github.com/pdiddy/studykit/pkg/types"
)

// fakeModel returns a canned reply and records the last request.
type fakeModel struct {
	reply string
	err   error
	last  llm.Request
}

func (f *fakeModel) Generate(_ context.Context, req llm.Request) (string, error) {
	f.last = req
	return f.reply, f.err
}

func (f *fakeModel) Close() error { return nil }

func TestTranscribe(t *testing.T) {
	m := &fakeModel{reply: `{"transcription": "hello class"}`}
	blob := types.MediaBlob{MIMEType: "audio/mpeg", Data: []byte("mp3")}

	got, err := (&Transcriber{Model: m}).Transcribe(context.Background(), blob)
	require.NoError(t, err)
	assert.Equal(t, "hello class", got)
	require.NotNil(t, m.last.Media)
	assert.Equal(t, "audio/mpeg", m.last.Media.MIMEType)
}

func TestDetectLanguage(t *testing.T) {
	m := &fakeModel{reply: "```json\n{\"language\": \" Spanish \"}\n```"}
	got, err := (&LanguageDetector{Model: m}).Detect(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got)
	assert.Contains(t, m.last.Prompt, "hola")
	assert.Nil(t, m.last.Media)
}

func TestSummarize(t *testing.T) {
	m := &fakeModel{reply: `Here you go: {"summary": "Cells are small."} Hope it helps.`}
	got, err := (&Summarizer{Model: m}).Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "Cells are small.", got)
}

func TestSummarizeTrailingBraceProse(t *testing.T) {
	m := &fakeModel{reply: "{\"summary\": \"Cells\"}\n\nNote: I kept the {format} you asked for."}
	got, err := (&Summarizer{Model: m}).Summarize(context.Background(), "long text")
	require.NoError(t, err)
	assert.Equal(t, "Cells", got)
}

func TestFlashcards(t *testing.T) {
	m := &fakeModel{reply: `{"flashcards": [{"term": "Cell", "definition": "Unit of life"}]}`}
	got, err := (&FlashcardGenerator{Model: m}).Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []types.Flashcard{{Term: "Cell", Definition: "Unit of life"}}, got)

	m.reply = `{"flashcards": []}`
	got, err = (&FlashcardGenerator{Model: m}).Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMindMap(t *testing.T) {
	m := &fakeModel{reply: `{"mindMap": "- A\n  - B"}`}
	got, err := (&MindMapGenerator{Model: m}).Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "- A\n  - B", got)
}

func TestQuiz(t *testing.T) {
	m := &fakeModel{reply: `{"quiz": [{"question": "2+2?", "options": ["3", "4"], "correctAnswer": "4"}]}`}
	got, err := (&QuizGenerator{Model: m}).Generate(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Valid())
}

func TestVideoSelector(t *testing.T) {
	m := &fakeModel{reply: `{"videoLinks": ["https://www.youtube.com/watch?v=dQw4w9WgXcQ"]}`}
	got, err := (&VideoSelector{Model: m}).Select(context.Background(), "Cells", []Candidate{
		{ID: "dQw4w9WgXcQ", Title: "Cells explained"},
	}, "French")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}, got)
	assert.Contains(t, m.last.Prompt, "id: dQw4w9WgXcQ title: Cells explained")
	assert.Contains(t, m.last.Prompt, "French")
}

func TestMalformedReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		run   func(m llm.Model) error
	}{
		{"summary not json", "just prose", func(m llm.Model) error {
			_, err := (&Summarizer{Model: m}).Summarize(context.Background(), "x")
			return err
		}},
		{"summary missing field", `{"text": "x"}`, func(m llm.Model) error {
			_, err := (&Summarizer{Model: m}).Summarize(context.Background(), "x")
			return err
		}},
		{"empty language", `{"language": ""}`, func(m llm.Model) error {
			_, err := (&LanguageDetector{Model: m}).Detect(context.Background(), "x")
			return err
		}},
		{"flashcard missing definition", `{"flashcards": [{"term": "a"}]}`, func(m llm.Model) error {
			_, err := (&FlashcardGenerator{Model: m}).Generate(context.Background(), "x")
			return err
		}},
		{"quiz options not array", `{"quiz": [{"question": "q", "options": "a,b", "correctAnswer": "a"}]}`, func(m llm.Model) error {
			_, err := (&QuizGenerator{Model: m}).Generate(context.Background(), "x")
			return err
		}},
		{"mind map wrong type", `{"mindMap": ["a"]}`, func(m llm.Model) error {
			_, err := (&MindMapGenerator{Model: m}).Generate(context.Background(), "x")
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(&fakeModel{reply: tc.reply})
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedGeneration), "got %v", err)
		})
	}
}

func TestModelErrorPassesThrough(t *testing.T) {
	m := &fakeModel{err: fmt.Errorf("%w: boom", types.ErrCollaboratorUnavailable)}
	_, err := (&QuizGenerator{Model: m}).Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, types.ErrCollaboratorUnavailable))
	assert.False(t, errors.Is(err, types.ErrMalformedGeneration))
}

func TestJSONPayload(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{`Sure! {"a":{"b":2}} done`, `{"a":{"b":2}}`},
		{"{\"summary\": \"Cells\"}\n\nNote: I kept the {format}", `{"summary": "Cells"}`},
		{`Using {style}: {"a":1}`, `{"a":1}`},
		{"no braces", "no braces"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, jsonPayload(tc.in), "input %q", tc.in)
	}
}

func TestNewSuite(t *testing.T) {
	m := &fakeModel{}
	s := NewSuite(m)
	assert.Same(t, m, s.Quizzes.Model)
	assert.Same(t, m, s.Transcriber.Model)
}
