// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package video

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/pdiddy/studykit/internal/generate"
	"github.com/pdiddy/studykit/pkg/types"
)

// YouTubeSearcher searches public videos with the YouTube Data API v3.
type YouTubeSearcher struct {
	svc     *youtube.Service
	timeout time.Duration
}

// NewYouTubeSearcher creates a searcher authenticated with cfg.APIKey.
// Extra options are appended (tests pass an endpoint and HTTP client).
func NewYouTubeSearcher(ctx context.Context, cfg types.VideoConfig, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	base := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.UserAgent != "" {
		base = append(base, option.WithUserAgent(cfg.UserAgent))
	}
	svc, err := youtube.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating YouTube client: %w", err)
	}
	return &YouTubeSearcher{svc: svc, timeout: cfg.Timeout}, nil
}

// Search returns up to max video candidates ordered by relevance.
func (y *YouTubeSearcher) Search(ctx context.Context, query, language string, max int) ([]generate.Candidate, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	call := y.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(max)).
		Order("relevance").
		SafeSearch("moderate").
		VideoEmbeddable("true")
	if code := LanguageCode(language); code != "" {
		call = call.RelevanceLanguage(code)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: YouTube search: %v", types.ErrCollaboratorUnavailable, err)
	}

	var out []generate.Candidate
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		c := generate.Candidate{ID: item.Id.VideoId}
		if item.Snippet != nil {
			c.Title = item.Snippet.Title
		}
		out = append(out, c)
	}
	return out, nil
}

// languageCodes maps common language names to ISO 639-1 codes.
var languageCodes = map[string]string{
	"arabic": "ar", "bengali": "bn", "chinese": "zh", "czech": "cs",
	"danish": "da", "dutch": "nl", "english": "en", "finnish": "fi",
	"french": "fr", "german": "de", "greek": "el", "hebrew": "he",
	"hindi": "hi", "hungarian": "hu", "indonesian": "id", "italian": "it",
	"japanese": "ja", "korean": "ko", "malay": "ms", "norwegian": "no",
	"persian": "fa", "polish": "pl", "portuguese": "pt", "romanian": "ro",
	"russian": "ru", "serbian": "sr", "spanish": "es", "swahili": "sw",
	"swedish": "sv", "tagalog": "tl", "thai": "th", "turkish": "tr",
	"ukrainian": "uk", "urdu": "ur", "vietnamese": "vi",
}

// LanguageCode returns the ISO 639-1 code for a language name, or "" when
// unknown. Two-letter inputs are treated as codes already.
func LanguageCode(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	if len(l) == 2 {
		return l
	}
	// "Spanish (Spain)" -> "spanish"
	if i := strings.IndexAny(l, " (,"); i > 0 {
		l = l[:i]
	}
	return languageCodes[l]
}
