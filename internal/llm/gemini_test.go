// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studykit/pkg/types"
)

func TestGeminiParts(t *testing.T) {
	p := parts(Request{Prompt: "hello"})
	require.Len(t, p, 1)
	assert.Equal(t, genai.Text("hello"), p[0])

	p = parts(Request{Prompt: "transcribe", Media: &types.MediaBlob{MIMEType: "audio/mpeg", Data: []byte("mp3")}})
	require.Len(t, p, 2)
	assert.Equal(t, genai.Blob{MIMEType: "audio/mpeg", Data: []byte("mp3")}, p[0])
	assert.Equal(t, genai.Text("transcribe"), p[1])
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Blob{}, genai.Text(`1}`)}}},
		{Content: nil},
	}}
	assert.Equal(t, `{"a":1}`, extractText(resp))
	assert.Equal(t, "", extractText(nil))
	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))
}
