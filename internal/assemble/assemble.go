// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble runs the study kit pipeline for one upload: extract text,
// detect its language, summarize it, then generate flashcards, a mind map,
// a quiz and video links concurrently. A kit is returned only when every
// step succeeds. Persisting it is left to the caller.
package assemble

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/studykit/internal/logger"
	"github.com/pdiddy/studykit/pkg/types"
)

// Extractor turns an upload into text.
type Extractor interface {
	Extract(ctx context.Context, up types.Upload) (string, error)
}

// LanguageDetector names the language of a text.
type LanguageDetector interface {
	Detect(ctx context.Context, content string) (string, error)
}

// Summarizer summarizes a text.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// FlashcardGenerator produces flashcards from a text.
type FlashcardGenerator interface {
	Generate(ctx context.Context, content string) ([]types.Flashcard, error)
}

// MindMapGenerator produces an outline from a text.
type MindMapGenerator interface {
	Generate(ctx context.Context, content string) (string, error)
}

// QuizGenerator produces a quiz from a text.
type QuizGenerator interface {
	Generate(ctx context.Context, content string) ([]types.QuizQuestion, error)
}

// VideoLinker finds video links for a topic. It does not fail.
type VideoLinker interface {
	Link(ctx context.Context, topic, language string) []string
}

// Assembler wires the pipeline collaborators. Now, NewID and Out are optional.
type Assembler struct {
	Extractor  Extractor
	Language   LanguageDetector
	Summarizer Summarizer
	Flashcards FlashcardGenerator
	MindMaps   MindMapGenerator
	Quizzes    QuizGenerator
	Videos     VideoLinker

	Log *logger.Logger

	// Out receives one progress line per finished stage.
	Out io.Writer

	Now   func() time.Time
	NewID func() string
}

// Assemble runs the pipeline for up. Failures are returned as
// *types.StageError naming the step that failed; no partial kit is returned.
// The concurrent steps are not cancelled when a sibling fails.
func (a *Assembler) Assemble(ctx context.Context, up types.Upload) (*types.StudyKit, error) {
	log := a.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("file", up.Name)
	start := a.now()
	tr := &tracker{out: a.Out}

	// Steps 1-3 are sequential: each depends on the previous one.
	var text string
	err := tr.run(types.StageExtract, func() (err error) {
		text, err = a.Extractor.Extract(ctx, up)
		return err
	})
	if err != nil {
		log.Warn("assembly aborted", "stage", types.StageExtract, "error", err)
		return nil, err
	}

	var language string
	if err := tr.run(types.StageLanguage, func() (err error) {
		language, err = a.Language.Detect(ctx, text)
		return err
	}); err != nil {
		log.Warn("assembly aborted", "stage", types.StageLanguage, "error", err)
		return nil, err
	}

	var summary string
	if err := tr.run(types.StageSummary, func() (err error) {
		summary, err = a.Summarizer.Summarize(ctx, text)
		return err
	}); err != nil {
		log.Warn("assembly aborted", "stage", types.StageSummary, "error", err)
		return nil, err
	}

	// Step 4: independent artifacts. Each goroutine owns its result variable.
	var (
		flashcards []types.Flashcard
		mindMap    string
		quiz       []types.QuizQuestion
		links      []string
		g          errgroup.Group
	)
	g.Go(func() error {
		return tr.run(types.StageFlashcards, func() (err error) {
			flashcards, err = a.Flashcards.Generate(ctx, text)
			return err
		})
	})
	g.Go(func() error {
		return tr.run(types.StageMindMap, func() (err error) {
			mindMap, err = a.MindMaps.Generate(ctx, text)
			return err
		})
	})
	g.Go(func() error {
		return tr.run(types.StageQuiz, func() (err error) {
			quiz, err = a.Quizzes.Generate(ctx, text)
			return err
		})
	})
	g.Go(func() error {
		return tr.run(types.StageVideos, func() error {
			if a.Videos != nil {
				links = a.Videos.Link(ctx, summary, language)
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		log.Warn("assembly aborted", "error", err, "timings", tr.timings())
		return nil, err
	}

	kit := &types.StudyKit{
		ID:            a.newID(),
		Title:         Title(up.Name),
		CreatedAt:     a.now().UTC(),
		Summary:       summary,
		Transcription: text,
		Flashcards:    flashcards,
		MindMap:       mindMap,
		Quiz:          quiz,
		YouTubeLinks:  links,
		Language:      language,
	}
	kit.Normalize()

	log.Info("study kit assembled",
		"kit", kit.ID,
		"language", language,
		"flashcards", len(kit.Flashcards),
		"questions", len(kit.Quiz),
		"videos", len(kit.YouTubeLinks),
		"elapsed", a.now().Sub(start),
		"timings", tr.timings())
	return kit, nil
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Assembler) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

// Title derives a kit title from an upload's file name.
func Title(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || strings.TrimSpace(base) == "" {
		return "Untitled"
	}
	return base
}

// tracker times stages and attributes their errors. Safe for concurrent use.
type tracker struct {
	out io.Writer

	mu    sync.Mutex
	stats []string
}

func (t *tracker) run(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Round(time.Millisecond)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = append(t.stats, fmt.Sprintf("%s=%v", stage, elapsed))
	if t.out != nil {
		status := "done"
		if err != nil {
			status = "failed"
		}
		fmt.Fprintf(t.out, "  %-11s %-6s %v\n", stage, status, elapsed)
	}

	if err != nil {
		return &types.StageError{Stage: stage, Err: err}
	}
	return nil
}

func (t *tracker) timings() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.stats, " ")
}
