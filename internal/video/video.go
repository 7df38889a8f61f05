// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package video finds external videos for a study topic. A Searcher returns
// candidates, a Selector picks and formats links, and the Linker keeps only
// canonical watch URLs. Linking never fails the caller: any error yields an
// empty list.
package video

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/studykit/internal/generate"
	"github.com/pdiddy/studykit/internal/logger"
)

const (
	defaultMaxCandidates = 5

	// MaxLinks is the most links a kit ever carries.
	MaxLinks = 3

	// maxQueryWords bounds the search query derived from a topic.
	maxQueryWords = 12
)

var watchURL = regexp.MustCompile(`^https://www\.youtube\.com/watch\?v=[\w-]{11}$`)

// ValidURL reports whether u is a canonical YouTube watch URL with an
// 11-character video id. Short links, embeds and extra query parameters
// are rejected.
func ValidURL(u string) bool {
	return watchURL.MatchString(u)
}

// Searcher queries a video platform.
type Searcher interface {
	Search(ctx context.Context, query, language string, max int) ([]generate.Candidate, error)
}

// Selector chooses links among candidates.
type Selector interface {
	Select(ctx context.Context, topic string, candidates []generate.Candidate, language string) ([]string, error)
}

// Linker produces up to MaxLinks validated watch URLs for a topic.
type Linker struct {
	Searcher Searcher
	Selector Selector
	Log      *logger.Logger

	MaxCandidates int
	MaxLinks      int
}

// Link searches for topic, asks the selector to pick links, and returns the
// ones that pass ValidURL, capped at MaxLinks. It never returns nil.
func (l *Linker) Link(ctx context.Context, topic, language string) []string {
	log := l.Log
	if log == nil {
		log = logger.Nop()
	}
	links := []string{}
	if l.Searcher == nil || l.Selector == nil {
		log.Debug("video linking disabled")
		return links
	}

	start := time.Now()
	query := Query(topic)
	if query == "" {
		return links
	}

	candidates, err := l.Searcher.Search(ctx, query, language, orDefault(l.MaxCandidates, defaultMaxCandidates))
	if err != nil {
		log.Warn("video search failed", "query", query, "error", err)
		return links
	}
	if len(candidates) == 0 {
		log.Info("video search returned no candidates", "query", query)
		return links
	}

	picked, err := l.Selector.Select(ctx, topic, candidates, language)
	if err != nil {
		log.Warn("video selection failed", "candidates", len(candidates), "error", err)
		return links
	}

	links = Filter(picked, min(orDefault(l.MaxLinks, MaxLinks), MaxLinks))
	log.Debug("videos linked",
		"query", query,
		"candidates", len(candidates),
		"picked", len(picked),
		"kept", len(links),
		"elapsed", time.Since(start))
	return links
}

// Filter keeps the distinct valid URLs of picked in order, at most max.
func Filter(picked []string, max int) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, u := range picked {
		u = strings.TrimSpace(u)
		if !ValidURL(u) || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) == max {
			break
		}
	}
	return out
}

// Query derives a search query from a topic: its first sentence, limited to
// a dozen words.
func Query(topic string) string {
	s := strings.TrimSpace(topic)
	if i := strings.IndexAny(s, ".!?\n"); i > 0 {
		s = s[:i]
	}
	words := strings.Fields(s)
	if len(words) > maxQueryWords {
		words = words[:maxQueryWords]
	}
	return strings.Join(words, " ")
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
