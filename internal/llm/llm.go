// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides the language-model backends behind every generator.
// A Model takes one prompt, optionally with an attached media blob, and
// returns the raw text reply. Interpreting the reply is the caller's job.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/studykit/pkg/types"
)

// ErrUnsupportedMedia is returned when a backend cannot accept the attached media type.
var ErrUnsupportedMedia = errors.New("media type not supported by model")

// Request is one prompt/response round-trip.
type Request struct {
	Prompt string

	// Media is attached before the prompt when set.
	Media *types.MediaBlob
}

// Model is a text-generation backend.
type Model interface {
	// Generate sends req and returns the reply text. Transport and status
	// failures wrap types.ErrCollaboratorUnavailable.
	Generate(ctx context.Context, req Request) (string, error)

	// Close releases any client resources.
	Close() error
}

// New builds the Model selected by cfg.Provider.
func New(ctx context.Context, cfg types.AIConfig) (Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}
	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGeminiModel(ctx, cfg)
	case types.ProviderClaude:
		return NewClaudeModel(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q: use gemini or claude", cfg.Provider)
	}
}
