// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Output schemas for each generator. A reply that does not validate is
// reported as types.ErrMalformedGeneration.
var (
	transcriptionSchema = mustCompile("transcription.json", map[string]any{
		"type":     "object",
		"required": []string{"transcription"},
		"properties": map[string]any{
			"transcription": map[string]any{"type": "string"},
		},
	})

	languageSchema = mustCompile("language.json", map[string]any{
		"type":     "object",
		"required": []string{"language"},
		"properties": map[string]any{
			"language": map[string]any{"type": "string", "minLength": 1},
		},
	})

	summarySchema = mustCompile("summary.json", map[string]any{
		"type":     "object",
		"required": []string{"summary"},
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
		},
	})

	flashcardsSchema = mustCompile("flashcards.json", map[string]any{
		"type":     "object",
		"required": []string{"flashcards"},
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"term", "definition"},
					"properties": map[string]any{
						"term":       map[string]any{"type": "string"},
						"definition": map[string]any{"type": "string"},
					},
				},
			},
		},
	})

	mindMapSchema = mustCompile("mindmap.json", map[string]any{
		"type":     "object",
		"required": []string{"mindMap"},
		"properties": map[string]any{
			"mindMap": map[string]any{"type": "string"},
		},
	})

	quizSchema = mustCompile("quiz.json", map[string]any{
		"type":     "object",
		"required": []string{"quiz"},
		"properties": map[string]any{
			"quiz": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"question", "options", "correctAnswer"},
					"properties": map[string]any{
						"question":      map[string]any{"type": "string"},
						"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correctAnswer": map[string]any{"type": "string"},
					},
				},
			},
		},
	})

	videoLinksSchema = mustCompile("videolinks.json", map[string]any{
		"type":     "object",
		"required": []string{"videoLinks"},
		"properties": map[string]any{
			"videoLinks": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	})
)

func mustCompile(name string, schemaMap map[string]any) *jsonschema.Schema {
	s, err := compileSchema(name, schemaMap)
	if err != nil {
		panic(fmt.Sprintf("compiling %s: %v", name, err))
	}
	return s
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(name)
}

// validate checks data against schema.
func validate(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
