// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes study kits over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/pdiddy/studykit/internal/logger"
	"github.com/pdiddy/studykit/internal/store"
	"github.com/pdiddy/studykit/pkg/types"
)

// KitStore is the persistence surface used by the API.
type KitStore interface {
	Create(ctx context.Context, kit *types.StudyKit) error
	Get(ctx context.Context, id string) (*types.StudyKit, error)
	List(ctx context.Context, opts store.ListOptions) ([]types.StudyKit, error)
	Update(ctx context.Context, id string, patch types.StudyKitPatch) (*types.StudyKit, error)
	Delete(ctx context.Context, id string) error
	Notes(ctx context.Context, kitID string) (types.KitNotes, error)
	SaveNotes(ctx context.Context, kitID, content string) (types.KitNotes, error)
}

// Assembler builds a kit from an upload.
type Assembler interface {
	Assemble(ctx context.Context, up types.Upload) (*types.StudyKit, error)
}

// Server holds the API dependencies. Assembler may be nil, in which case
// the assemble endpoint answers 503.
type Server struct {
	Store     KitStore
	Assembler Assembler
	Log       *logger.Logger
	Config    types.ServerConfig
}

// Handler returns the API routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.health)

	mux.HandleFunc("GET /api/study-kits", s.listKits)
	mux.HandleFunc("POST /api/study-kits", s.createKit)
	mux.HandleFunc("POST /api/study-kits/assemble", s.assembleKit)
	mux.HandleFunc("GET /api/study-kits/{id}", s.getKit)
	mux.HandleFunc("PUT /api/study-kits/{id}", s.updateKit)
	mux.HandleFunc("DELETE /api/study-kits/{id}", s.deleteKit)

	mux.HandleFunc("GET /api/study-kits/{id}/notes", s.getNotes)
	mux.HandleFunc("PUT /api/study-kits/{id}/notes", s.saveNotes)
	mux.HandleFunc("GET /api/study-kits/{id}/mindmap", s.getMindMap)
	mux.HandleFunc("POST /api/study-kits/{id}/quiz/score", s.scoreQuiz)

	origins := s.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		MaxAge:         86400,
	}).Handler(s.logRequests(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log().Info("http server listening", "addr", s.Config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.log().Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) log() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log().Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start))
	})
}
