// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/studykit/internal/assemble"
	"github.com/pdiddy/studykit/internal/container"
	"github.com/pdiddy/studykit/internal/extractor"
	"github.com/pdiddy/studykit/internal/generate"
	"github.com/pdiddy/studykit/internal/llm"
	"github.com/pdiddy/studykit/internal/logger"
	"github.com/pdiddy/studykit/internal/secrets"
	"github.com/pdiddy/studykit/internal/store"
	"github.com/pdiddy/studykit/internal/video"
	"github.com/pdiddy/studykit/pkg/types"
)

// envKeys lists config keys that may be set from the environment without
// appearing in a config file. AutomaticEnv only resolves keys viper knows.
var envKeys = []string{
	"log_mode",
	"ai.provider", "ai.model", "ai.api_key", "ai.max_tokens", "ai.timeout",
	"video.api_key", "video.max_candidates", "video.max_links",
	"extraction.markitdown", "extraction.markitdown_image",
	"store.driver", "store.dir", "store.dsn", "store.max_results",
	"server.addr", "server.max_upload_mb",
}

// loadConfig unmarshals viper settings over the defaults and fills API keys
// from loaded secrets when the config leaves them empty.
func loadConfig() (types.Config, error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = viper.BindEnv(k)
	}

	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	flags := rootCmd.PersistentFlags()
	if flags.Changed("log-mode") {
		cfg.LogMode, _ = flags.GetString("log-mode")
	}
	if flags.Changed("store-dir") {
		cfg.Store.Dir, _ = flags.GetString("store-dir")
	}

	switch cfg.AI.Provider {
	case types.ProviderClaude:
		cfg.AI.APIKey = secretDefault(secrets.KeyAnthropic, cfg.AI.APIKey)
	default:
		cfg.AI.APIKey = secretDefault(secrets.KeyGemini, cfg.AI.APIKey)
	}
	cfg.Video.APIKey = secretDefault(secrets.KeyYouTube, cfg.Video.APIKey)
	return cfg, nil
}

// app holds the wired collaborators for one CLI invocation.
type app struct {
	cfg   types.Config
	log   *logger.Logger
	store *store.Store

	model     llm.Model
	assembler *assemble.Assembler
}

// newApp loads config and opens the store. The pipeline is wired only when
// withPipeline is set, since most commands never call a model.
func newApp(ctx context.Context, withPipeline bool, out io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: st}
	if withPipeline {
		if err := a.wirePipeline(ctx, out); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) wirePipeline(ctx context.Context, out io.Writer) error {
	model, err := llm.New(ctx, a.cfg.AI)
	if err != nil {
		return err
	}
	a.model = model
	suite := generate.NewSuite(model)

	ext := &extractor.Extractor{Transcriber: suite.Transcriber, Log: a.log}
	if a.cfg.Extraction.Markitdown {
		conv, err := newConverter(ctx, a.cfg.Extraction.MarkitdownImage)
		if err != nil {
			a.log.Warn("markitdown unavailable, legacy documents will be transcribed", "error", err)
		} else {
			ext.Converter = conv
		}
	}

	linker := &video.Linker{
		Selector:      suite.Videos,
		Log:           a.log,
		MaxCandidates: a.cfg.Video.MaxCandidates,
		MaxLinks:      a.cfg.Video.MaxLinks,
	}
	if a.cfg.Video.APIKey != "" {
		searcher, err := video.NewYouTubeSearcher(ctx, a.cfg.Video)
		if err != nil {
			return err
		}
		linker.Searcher = searcher
	} else {
		a.log.Info("no YouTube API key configured, kits will have no video links")
	}

	a.assembler = &assemble.Assembler{
		Extractor:  ext,
		Language:   suite.Language,
		Summarizer: suite.Summarizer,
		Flashcards: suite.Flashcards,
		MindMaps:   suite.MindMaps,
		Quizzes:    suite.Quizzes,
		Videos:     linker,
		Log:        a.log,
		Out:        out,
	}
	return nil
}

func newConverter(ctx context.Context, image string) (*extractor.MarkitdownConverter, error) {
	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	return extractor.NewMarkitdownConverter(ctx, rt, image)
}

// Close releases the store and model.
func (a *app) Close() {
	if a.model != nil {
		_ = a.model.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Sync()
}

// readUpload loads a local file as an upload.
func readUpload(path string) (types.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Upload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return types.Upload{Name: name, MIMEType: extractor.DetectMIME(name, data), Data: data}, nil
}
