// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want []any
	}{
		{"empty", nil, nil},
		{"plain", []any{"stage", "quiz"}, []any{"stage", "quiz"}},
		{"api key", []any{"api_key", "abc"}, []any{"api_key", "[REDACTED]"}},
		{"mixed case", []any{"Youtube_API_Key", "abc"}, []any{"Youtube_API_Key", "[REDACTED]"}},
		{"token", []any{"AccessToken", "abc", "n", 1}, []any{"AccessToken", "[REDACTED]", "n", 1}},
		{"odd length", []any{"a", 1, "dangling"}, []any{"a", 1, "dangling"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitizeKVs(tc.in))
		})
	}
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("kit", "k1").Info("assembled", "secret", "s3cr3t", "flashcards", 4)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "assembled", entries[0].Message)
	assert.Equal(t, "k1", fields["kit"])
	assert.Equal(t, "[REDACTED]", fields["secret"])
	assert.Equal(t, int64(4), fields["flashcards"])
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
	Nop().Info("discarded")
}
