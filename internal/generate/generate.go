// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns source text into study artifacts. Each generator
// is one prompt/response round-trip against an llm.Model whose reply must
// match a declared JSON schema. Generators hold no state between calls.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/studykit/internal/llm"
	"github.com/pdiddy/studykit/pkg/types"
)

// contentInput is the template data for content-driven prompts.
type contentInput struct {
	Content string
}

// call renders tmpl, sends it with optional media, validates the reply
// against schema and decodes it into T.
func call[T any](ctx context.Context, model llm.Model, tmpl *template.Template, data any, media *types.MediaBlob, schema *jsonschema.Schema) (T, error) {
	var out T

	prompt, err := render(tmpl, data)
	if err != nil {
		return out, fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}

	reply, err := model.Generate(ctx, llm.Request{Prompt: prompt, Media: media})
	if err != nil {
		return out, err
	}

	raw := []byte(jsonPayload(reply))
	if err := validate(schema, raw); err != nil {
		return out, fmt.Errorf("%w: %s: %v", types.ErrMalformedGeneration, tmpl.Name(), err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", types.ErrMalformedGeneration, tmpl.Name(), err)
	}
	return out, nil
}

// jsonPayload strips Markdown code fences and any prose around the first
// complete JSON object in a model reply.
func jsonPayload(reply string) string {
	s := strings.TrimSpace(reply)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "```"))
	}
	for off := 0; off < len(s); {
		i := strings.IndexByte(s[off:], '{')
		if i < 0 {
			break
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[off+i:])).Decode(&raw); err == nil {
			return string(raw)
		}
		off += i + 1
	}
	return s
}

// Transcriber converts media into text.
type Transcriber struct {
	Model llm.Model
}

// Transcribe returns the text spoken or shown in blob.
func (t *Transcriber) Transcribe(ctx context.Context, blob types.MediaBlob) (string, error) {
	out, err := call[struct {
		Transcription string `json:"transcription"`
	}](ctx, t.Model, transcribeTmpl, nil, &blob, transcriptionSchema)
	return out.Transcription, err
}

// LanguageDetector names the primary language of a text.
type LanguageDetector struct {
	Model llm.Model
}

// Detect returns a language name such as "English".
func (d *LanguageDetector) Detect(ctx context.Context, content string) (string, error) {
	out, err := call[struct {
		Language string `json:"language"`
	}](ctx, d.Model, languageTmpl, contentInput{content}, nil, languageSchema)
	return strings.TrimSpace(out.Language), err
}

// Summarizer writes a concise summary in the content's language.
type Summarizer struct {
	Model llm.Model
}

// Summarize returns the summary of content.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, error) {
	out, err := call[struct {
		Summary string `json:"summary"`
	}](ctx, s.Model, summaryTmpl, contentInput{content}, nil, summarySchema)
	return out.Summary, err
}

// FlashcardGenerator produces term/definition pairs.
type FlashcardGenerator struct {
	Model llm.Model
}

// Generate returns the flashcards for content, never nil on success.
func (f *FlashcardGenerator) Generate(ctx context.Context, content string) ([]types.Flashcard, error) {
	out, err := call[struct {
		Flashcards []types.Flashcard `json:"flashcards"`
	}](ctx, f.Model, flashcardsTmpl, contentInput{content}, nil, flashcardsSchema)
	if err != nil {
		return nil, err
	}
	if out.Flashcards == nil {
		return []types.Flashcard{}, nil
	}
	return out.Flashcards, nil
}

// MindMapGenerator produces an indentation outline.
type MindMapGenerator struct {
	Model llm.Model
}

// Generate returns the outline text for content.
func (m *MindMapGenerator) Generate(ctx context.Context, content string) (string, error) {
	out, err := call[struct {
		MindMap string `json:"mindMap"`
	}](ctx, m.Model, mindMapTmpl, contentInput{content}, nil, mindMapSchema)
	return out.MindMap, err
}

// QuizGenerator produces multiple-choice questions.
type QuizGenerator struct {
	Model llm.Model
}

// Generate returns the quiz for content, never nil on success. Questions
// whose correct answer is not among the options are kept as returned.
func (q *QuizGenerator) Generate(ctx context.Context, content string) ([]types.QuizQuestion, error) {
	out, err := call[struct {
		Quiz []types.QuizQuestion `json:"quiz"`
	}](ctx, q.Model, quizTmpl, contentInput{content}, nil, quizSchema)
	if err != nil {
		return nil, err
	}
	if out.Quiz == nil {
		return []types.QuizQuestion{}, nil
	}
	return out.Quiz, nil
}

// Candidate is one video search hit offered to the selector.
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// VideoSelector asks the model to choose and format video links.
type VideoSelector struct {
	Model llm.Model
}

// Select returns the watch URLs the model picked from candidates. The URLs
// are not validated here.
func (v *VideoSelector) Select(ctx context.Context, topic string, candidates []Candidate, language string) ([]string, error) {
	data := struct {
		Topic      string
		Language   string
		Candidates []Candidate
	}{topic, language, candidates}

	out, err := call[struct {
		VideoLinks []string `json:"videoLinks"`
	}](ctx, v.Model, videoTmpl, data, nil, videoLinksSchema)
	return out.VideoLinks, err
}

// Suite bundles every generator around a single model.
type Suite struct {
	Transcriber *Transcriber
	Language    *LanguageDetector
	Summarizer  *Summarizer
	Flashcards  *FlashcardGenerator
	MindMaps    *MindMapGenerator
	Quizzes     *QuizGenerator
	Videos      *VideoSelector
}

// NewSuite wires all generators to model.
func NewSuite(model llm.Model) Suite {
	return Suite{
		Transcriber: &Transcriber{Model: model},
		Language:    &LanguageDetector{Model: model},
		Summarizer:  &Summarizer{Model: model},
		Flashcards:  &FlashcardGenerator{Model: model},
		MindMaps:    &MindMapGenerator{Model: model},
		Quizzes:     &QuizGenerator{Model: model},
		Videos:      &VideoSelector{Model: model},
	}
}
