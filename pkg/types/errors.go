// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContentExtracted means the uploaded file yielded no usable text.
	ErrNoContentExtracted = errors.New("no content could be extracted from the file")

	// ErrMalformedGeneration means a generator reply did not match its declared schema.
	ErrMalformedGeneration = errors.New("generation output does not match schema")

	// ErrCollaboratorUnavailable means an LLM or search backend could not be reached
	// or answered with a failure status.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
)

// Pipeline stage names used in StageError.
const (
	StageExtract    = "extract"
	StageLanguage   = "language"
	StageSummary    = "summary"
	StageFlashcards = "flashcards"
	StageMindMap    = "mindmap"
	StageQuiz       = "quiz"
	StageVideos     = "videos"
)

// StageError attributes an assembly failure to the step that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
