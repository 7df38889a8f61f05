// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/studykit/internal/extractor"
	"github.com/pdiddy/studykit/internal/llm"
	"github.com/pdiddy/studykit/internal/mindmap"
	"github.com/pdiddy/studykit/internal/quiz"
	"github.com/pdiddy/studykit/internal/store"
	"github.com/pdiddy/studykit/pkg/types"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 10 << 20

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline and store errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var badReq *badRequestError
	switch {
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrNoContentExtracted):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, llm.ErrUnsupportedMedia):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, types.ErrMalformedGeneration):
		status = http.StatusBadGateway
	case errors.Is(err, types.ErrCollaboratorUnavailable):
		status = http.StatusServiceUnavailable
	}

	resp := errorResponse{Error: err.Error()}
	var se *types.StageError
	if errors.As(err, &se) {
		resp.Stage = se.Stage
	}
	if status >= 500 {
		s.log().Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listKits(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{Query: r.URL.Query().Get("q")}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, r, badRequest("%s must be a non-negative integer", name))
			return
		}
		*dst = n
	}

	kits, err := s.Store.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kits)
}

// createKit stores a kit supplied by the client, as produced by an
// external assembler. The server assigns the id and creation time.
func (s *Server) createKit(w http.ResponseWriter, r *http.Request) {
	var kit types.StudyKit
	if err := decodeJSON(r, &kit); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.ID = ""
	kit.CreatedAt = time.Time{}
	if err := s.Store.Create(r.Context(), &kit); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, kit)
}

// assembleKit runs the pipeline on an uploaded file and persists the result.
func (s *Server) assembleKit(w http.ResponseWriter, r *http.Request) {
	if s.Assembler == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "assembly is not configured"})
		return
	}

	maxBytes := s.Config.MaxUploadMB << 20
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, r, badRequest("invalid upload: %v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, badRequest("missing form field \"file\""))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, badRequest("reading upload: %v", err))
		return
	}

	up := types.Upload{Name: header.Filename, MIMEType: header.Header.Get("Content-Type"), Data: data}
	if up.MIMEType == "" || up.MIMEType == "application/octet-stream" {
		up.MIMEType = extractor.DetectMIME(up.Name, up.Data)
	}

	kit, err := s.Assembler.Assemble(r.Context(), up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store.Create(r.Context(), kit); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, kit)
}

func (s *Server) getKit(w http.ResponseWriter, r *http.Request) {
	kit, err := s.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (s *Server) updateKit(w http.ResponseWriter, r *http.Request) {
	var patch types.StudyKitPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit, err := s.Store.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (s *Server) deleteKit(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Study kit deleted"})
}

func (s *Server) getNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.Store.Notes(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) saveNotes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	notes, err := s.Store.SaveNotes(r.Context(), r.PathValue("id"), body.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) getMindMap(w http.ResponseWriter, r *http.Request) {
	kit, err := s.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mindmap.Parse(kit.MindMap))
}

func (s *Server) scoreQuiz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answers []string `json:"answers"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit, err := s.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.Grade(kit.Quiz, body.Answers))
}
