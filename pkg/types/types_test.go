// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudyKitJSONUsesEmptyArrays(t *testing.T) {
	k := StudyKit{ID: "k1", Title: "Biology"}
	k.Normalize()

	data, err := json.Marshal(k)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"flashcards":[]`)
	assert.Contains(t, s, `"quiz":[]`)
	assert.Contains(t, s, `"youtubeLinks":[]`)
	assert.Contains(t, s, `"mindMap":""`)
	assert.NotContains(t, s, `"language"`)
}

func TestPatchApply(t *testing.T) {
	k := StudyKit{ID: "k1", Title: "Old", Summary: "Keep", Quiz: []QuizQuestion{{Question: "q"}}}
	title := "New"
	var noCards []Flashcard
	p := StudyKitPatch{Title: &title, Flashcards: &noCards}
	assert.False(t, p.Empty())

	p.Apply(&k)
	assert.Equal(t, "k1", k.ID)
	assert.Equal(t, "New", k.Title)
	assert.Equal(t, "Keep", k.Summary)
	assert.Len(t, k.Quiz, 1)
	assert.NotNil(t, k.Flashcards)
	assert.Empty(t, k.Flashcards)

	assert.True(t, StudyKitPatch{}.Empty())
}

func TestQuizQuestionValid(t *testing.T) {
	q := QuizQuestion{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"}
	assert.True(t, q.Valid())
	q.CorrectAnswer = "5"
	assert.False(t, q.Valid())
}

func TestDataURI(t *testing.T) {
	b := MediaBlob{MIMEType: "audio/mpeg", Data: []byte{0x49, 0x44, 0x33, 0x00}}
	uri := b.DataURI()
	assert.Equal(t, "data:audio/mpeg;base64,SUQzAA==", uri)

	got, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	assert.Equal(t, "data:application/octet-stream;base64,", MediaBlob{}.DataURI())

	for _, bad := range []string{"audio/mpeg;base64,AA==", "data:audio/mpeg;base64", "data:text/plain,hello", "data:x;base64,!!"} {
		_, err := ParseDataURI(bad)
		assert.Error(t, err, bad)
	}
}

func TestStageErrorUnwraps(t *testing.T) {
	err := &StageError{Stage: StageQuiz, Err: ErrMalformedGeneration}
	assert.True(t, errors.Is(err, ErrMalformedGeneration))
	assert.Equal(t, "quiz: generation output does not match schema", err.Error())
}
