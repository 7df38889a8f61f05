// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Flashcard is a single term/definition pair generated from the source text.
type Flashcard struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer is expected to be
// one of Options; storage does not enforce it.
type QuizQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correct_answer"`
}

// Valid reports whether CorrectAnswer appears among Options.
func (q QuizQuestion) Valid() bool {
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// StudyKit is the persisted bundle of artifacts derived from one uploaded file.
// A kit is created whole by the assembler and only changed afterwards through
// an explicit StudyKitPatch.
type StudyKit struct {
	// ID is an opaque unique identifier assigned at creation. Immutable.
	ID string `json:"id" yaml:"id"`

	// Title is the uploaded file's display name unless edited later.
	Title string `json:"title" yaml:"title"`

	// CreatedAt is the creation time in UTC. Immutable.
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`

	// Summary is the generated summary of the source text.
	Summary string `json:"summary" yaml:"summary"`

	// Transcription is the extracted or transcribed source text.
	Transcription string `json:"transcription" yaml:"transcription"`

	Flashcards []Flashcard `json:"flashcards" yaml:"flashcards"`

	// MindMap is the indentation outline consumed by the mindmap package.
	MindMap string `json:"mindMap" yaml:"mind_map"`

	Quiz []QuizQuestion `json:"quiz" yaml:"quiz"`

	// YouTubeLinks holds at most three canonical watch URLs.
	YouTubeLinks []string `json:"youtubeLinks" yaml:"youtube_links"`

	// Language is the detected language name of the source text (e.g. "Spanish").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Normalize replaces nil collections with empty ones so a kit always
// serializes its lists as arrays.
func (k *StudyKit) Normalize() {
	if k.Flashcards == nil {
		k.Flashcards = []Flashcard{}
	}
	if k.Quiz == nil {
		k.Quiz = []QuizQuestion{}
	}
	if k.YouTubeLinks == nil {
		k.YouTubeLinks = []string{}
	}
}

// StudyKitPatch is a partial update. Nil fields are left untouched; the ID and
// CreatedAt of a kit can never be patched.
type StudyKitPatch struct {
	Title         *string         `json:"title,omitempty"`
	Summary       *string         `json:"summary,omitempty"`
	Transcription *string         `json:"transcription,omitempty"`
	Flashcards    *[]Flashcard    `json:"flashcards,omitempty"`
	MindMap       *string         `json:"mindMap,omitempty"`
	Quiz          *[]QuizQuestion `json:"quiz,omitempty"`
	YouTubeLinks  *[]string       `json:"youtubeLinks,omitempty"`
	Language      *string         `json:"language,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p StudyKitPatch) Empty() bool {
	return p.Title == nil && p.Summary == nil && p.Transcription == nil &&
		p.Flashcards == nil && p.MindMap == nil && p.Quiz == nil &&
		p.YouTubeLinks == nil && p.Language == nil
}

// Apply copies the set fields of p onto k.
func (p StudyKitPatch) Apply(k *StudyKit) {
	if p.Title != nil {
		k.Title = *p.Title
	}
	if p.Summary != nil {
		k.Summary = *p.Summary
	}
	if p.Transcription != nil {
		k.Transcription = *p.Transcription
	}
	if p.Flashcards != nil {
		k.Flashcards = *p.Flashcards
	}
	if p.MindMap != nil {
		k.MindMap = *p.MindMap
	}
	if p.Quiz != nil {
		k.Quiz = *p.Quiz
	}
	if p.YouTubeLinks != nil {
		k.YouTubeLinks = *p.YouTubeLinks
	}
	if p.Language != nil {
		k.Language = *p.Language
	}
	k.Normalize()
}

// KitNotes holds a user's free-form notes for one kit.
type KitNotes struct {
	KitID     string    `json:"kitId" yaml:"kit_id"`
	Content   string    `json:"content" yaml:"content"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}
