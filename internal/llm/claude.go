// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/studykit/internal/httputil"
	"github.com/pdiddy/studykit/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	claudeAPIVersion       = "2023-06-01"
	defaultClaudeModel     = "claude-sonnet-4-5-20250929"
	defaultClaudeMaxTokens = 8192
)

// ClaudeModel calls the Claude Messages API over plain HTTP.
type ClaudeModel struct {
	APIKey    string
	Model     string
	MaxTokens int
	UserAgent string
	Client    *http.Client
}

// NewClaudeModel builds a ClaudeModel from cfg, filling defaults.
func NewClaudeModel(cfg types.AIConfig) *ClaudeModel {
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = defaultClaudeModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}
	return &ClaudeModel{
		APIKey:    cfg.APIKey,
		Model:     model,
		MaxTokens: maxTokens,
		UserAgent: cfg.UserAgent,
		Client:    httputil.NewClient(cfg.HTTPConfig),
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

// claudeBlock is a request content block: text, image or document.
type claudeBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *claudeSource `json:"source,omitempty"`
}

type claudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends one user message and returns the concatenated text blocks.
func (c *ClaudeModel) Generate(ctx context.Context, req Request) (string, error) {
	var blocks []claudeBlock
	if req.Media != nil {
		b, err := mediaBlock(*req.Media)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, b)
	}
	blocks = append(blocks, claudeBlock{Type: "text", Text: req.Prompt})

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("anthropic-version", claudeAPIVersion)
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.Do(ctx, c.Client, httpReq, "Claude API")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("%w: decoding Claude response: %v", types.ErrCollaboratorUnavailable, err)
	}

	var sb strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content in Claude API response", types.ErrMalformedGeneration)
	}
	return sb.String(), nil
}

// Close is a no-op; the HTTP client holds no per-model resources.
func (c *ClaudeModel) Close() error { return nil }

func mediaBlock(m types.MediaBlob) (claudeBlock, error) {
	src := &claudeSource{
		Type:      "base64",
		MediaType: m.MIMEType,
		Data:      base64.StdEncoding.EncodeToString(m.Data),
	}
	switch {
	case strings.HasPrefix(m.MIMEType, "image/"):
		return claudeBlock{Type: "image", Source: src}, nil
	case m.MIMEType == "application/pdf":
		return claudeBlock{Type: "document", Source: src}, nil
	default:
		return claudeBlock{}, fmt.Errorf("%w: claude cannot read %q", ErrUnsupportedMedia, m.MIMEType)
	}
}
