// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pdiddy/studykit/pkg/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiModel calls the Gemini API through the generative-ai-go client.
// Media of any type Gemini accepts (audio, video, image, PDF) is sent inline.
type GeminiModel struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiModel creates a Gemini client configured for JSON replies.
func NewGeminiModel(ctx context.Context, cfg types.AIConfig, opts ...option.ClientOption) (*GeminiModel, error) {
	name := cfg.Model
	if name == "" || strings.HasPrefix(name, "claude") {
		name = defaultGeminiModel
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	if cfg.UserAgent != "" {
		opts = append(opts, option.WithUserAgent(cfg.UserAgent))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &GeminiModel{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Generate sends the media blob (if any) followed by the prompt.
func (g *GeminiModel) Generate(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, parts(req)...)
	if err != nil {
		return "", fmt.Errorf("%w: Gemini API: %v", types.ErrCollaboratorUnavailable, err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: Gemini returned no text%s", types.ErrMalformedGeneration, finishReason(resp))
	}
	return text, nil
}

// Close releases the underlying client connection.
func (g *GeminiModel) Close() error {
	return g.client.Close()
}

func parts(req Request) []genai.Part {
	var p []genai.Part
	if req.Media != nil {
		p = append(p, genai.Blob{MIMEType: req.Media.MIMEType, Data: req.Media.Data})
	}
	return append(p, genai.Text(req.Prompt))
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	return fmt.Sprintf(" (finish reason %s)", resp.Candidates[0].FinishReason)
}
