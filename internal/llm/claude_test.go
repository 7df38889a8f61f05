// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studykit/pkg/types"
)

func withClaudeServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = orig })
}

func TestClaudeGenerate(t *testing.T) {
	var got claudeRequest
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, claudeAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{
			{Type: "text", Text: `{"summary":`},
			{Type: "tool_use"},
			{Type: "text", Text: `"ok"}`},
		}})
	})

	m := NewClaudeModel(types.AIConfig{APIKey: "test-key"})
	out, err := m.Generate(context.Background(), Request{Prompt: "summarize"})
	require.NoError(t, err)

	assert.Equal(t, `{"summary":"ok"}`, out)
	assert.Equal(t, defaultClaudeModel, got.Model)
	assert.Equal(t, defaultClaudeMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 1)
	assert.Equal(t, "summarize", got.Messages[0].Content[0].Text)
}

func TestClaudeGenerateWithImage(t *testing.T) {
	var got claudeRequest
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{{Type: "text", Text: "{}"}}})
	})

	m := NewClaudeModel(types.AIConfig{APIKey: "k", Model: "claude-haiku"})
	_, err := m.Generate(context.Background(), Request{
		Prompt: "transcribe",
		Media:  &types.MediaBlob{MIMEType: "image/png", Data: []byte{1, 2, 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku", got.Model)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[0].Type)
	assert.Equal(t, "AQID", blocks[0].Source.Data)
	assert.Equal(t, "text", blocks[1].Type)
}

func TestClaudeGenerateUnsupportedMedia(t *testing.T) {
	m := NewClaudeModel(types.AIConfig{APIKey: "k"})
	_, err := m.Generate(context.Background(), Request{
		Prompt: "transcribe",
		Media:  &types.MediaBlob{MIMEType: "audio/mpeg", Data: []byte{0}},
	})
	assert.True(t, errors.Is(err, ErrUnsupportedMedia))
}

func TestClaudeGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			want: types.ErrCollaboratorUnavailable,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte("not json"))
			},
			want: types.ErrCollaboratorUnavailable,
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"content":[]}`))
			},
			want: types.ErrMalformedGeneration,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			withClaudeServer(t, tc.handler)
			m := NewClaudeModel(types.AIConfig{APIKey: "k"})
			_, err := m.Generate(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), types.AIConfig{Provider: types.ProviderClaude})
	assert.Error(t, err, "missing key")

	m, err := New(context.Background(), types.AIConfig{Provider: types.ProviderClaude, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeModel{}, m)

	_, err = New(context.Background(), types.AIConfig{Provider: "openai", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported AI provider")
}
