// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/studykit/internal/mindmap"
	"github.com/pdiddy/studykit/internal/quiz"
	"github.com/pdiddy/studykit/internal/store"
	"github.com/pdiddy/studykit/pkg/types"
)

type fakeAssembler struct {
	got types.Upload
	err error
}

func (f *fakeAssembler) Assemble(_ context.Context, up types.Upload) (*types.StudyKit, error) {
	f.got = up
	if f.err != nil {
		return nil, f.err
	}
	return &types.StudyKit{
		ID:            "assembled-1",
		Title:         up.Name,
		CreatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Summary:       "About cells.",
		Transcription: string(up.Data),
		Flashcards:    []types.Flashcard{{Term: "Cell", Definition: "Unit of life"}},
		MindMap:       "- Cells\n  - Nucleus",
		Quiz:          []types.QuizQuestion{{Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "b"}},
		YouTubeLinks:  []string{},
		Language:      "English",
	}, nil
}

func newTestServer(t *testing.T, asm Assembler) (*httptest.Server, *store.Store) {
	t.Helper()
	st, err := store.NewStore(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := &Server{Store: st, Assembler: asm, Config: types.ServerConfig{MaxUploadMB: 1}}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func seedKit(t *testing.T, st *store.Store) *types.StudyKit {
	t.Helper()
	kit := &types.StudyKit{
		Title:      "Biology",
		Summary:    "Cells and more.",
		Flashcards: []types.Flashcard{{Term: "Cell", Definition: "Unit of life"}},
		MindMap:    "- Biology\n  - Cells\n  - Genetics",
		Quiz: []types.QuizQuestion{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
			{Question: "Sky?", Options: []string{"blue", "green"}, CorrectAnswer: "blue"},
		},
	}
	require.NoError(t, st.Create(context.Background(), kit))
	return kit
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestKitCRUD(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := do(t, http.MethodPost, ts.URL+"/api/study-kits", types.StudyKit{
		ID:      "client-chosen",
		Title:   "Chemistry",
		Summary: "Atoms.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[types.StudyKit](t, resp)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NotNil(t, created.Flashcards)

	resp = do(t, http.MethodGet, ts.URL+"/api/study-kits/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Chemistry", decode[types.StudyKit](t, resp).Title)

	title := "Organic Chemistry"
	resp = do(t, http.MethodPut, ts.URL+"/api/study-kits/"+created.ID, types.StudyKitPatch{Title: &title})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[types.StudyKit](t, resp)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Atoms.", updated.Summary)

	resp = do(t, http.MethodGet, ts.URL+"/api/study-kits", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.StudyKit](t, resp), 1)

	resp = do(t, http.MethodDelete, ts.URL+"/api/study-kits/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/study-kits/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, "not found")
}

func TestListQueryAndPaging(t *testing.T) {
	ts, st := newTestServer(t, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, st.Create(ctx, &types.StudyKit{
			Title:     fmt.Sprintf("Kit %d", i),
			CreatedAt: time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC),
		}))
	}

	resp := do(t, http.MethodGet, ts.URL+"/api/study-kits?limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	kits := decode[[]types.StudyKit](t, resp)
	require.Len(t, kits, 2)
	assert.Equal(t, "Kit 1", kits[0].Title)
	assert.Equal(t, "Kit 0", kits[1].Title)

	resp = do(t, http.MethodGet, ts.URL+"/api/study-kits?q=kit%202", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.StudyKit](t, resp), 1)

	resp = do(t, http.MethodGet, ts.URL+"/api/study-kits?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateMissingKit(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	title := "x"
	resp := do(t, http.MethodPut, ts.URL+"/api/study-kits/nope", types.StudyKitPatch{Title: &title})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/api/study-kits/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedJSON(t *testing.T) {
	ts, st := newTestServer(t, nil)
	kit := seedKit(t, st)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/study-kits/"+kit.ID, strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotes(t *testing.T) {
	ts, st := newTestServer(t, nil)
	kit := seedKit(t, st)
	url := ts.URL + "/api/study-kits/" + kit.ID + "/notes"

	resp := do(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[types.KitNotes](t, resp).Content)

	resp = do(t, http.MethodPut, url, map[string]string{"content": "remember mitosis"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, url, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes := decode[types.KitNotes](t, resp)
	assert.Equal(t, "remember mitosis", notes.Content)
	assert.Equal(t, kit.ID, notes.KitID)

	resp = do(t, http.MethodPut, ts.URL+"/api/study-kits/nope/notes", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMindMap(t *testing.T) {
	ts, st := newTestServer(t, nil)
	kit := seedKit(t, st)

	resp := do(t, http.MethodGet, ts.URL+"/api/study-kits/"+kit.ID+"/mindmap", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	forest := decode[[]*mindmap.Node](t, resp)
	require.Len(t, forest, 1)
	assert.Equal(t, "Biology", forest[0].Content)
	assert.Len(t, forest[0].Children, 2)
}

func TestScoreQuiz(t *testing.T) {
	ts, st := newTestServer(t, nil)
	kit := seedKit(t, st)

	resp := do(t, http.MethodPost, ts.URL+"/api/study-kits/"+kit.ID+"/quiz/score",
		map[string][]string{"answers": {"4", "green"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[quiz.Report](t, resp)
	assert.Equal(t, 1, report.Score)
	assert.Equal(t, 2, report.Total)
	assert.False(t, report.Results[1].Correct)
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAssemble(t *testing.T) {
	asm := &fakeAssembler{}
	ts, st := newTestServer(t, asm)

	body, ct := multipartBody(t, "file", "cells.txt", []byte("Cells are the unit of life."))
	resp, err := http.Post(ts.URL+"/api/study-kits/assemble", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	kit := decode[types.StudyKit](t, resp)
	assert.Equal(t, "cells.txt", kit.Title)
	assert.Equal(t, "cells.txt", asm.got.Name)
	assert.True(t, strings.HasPrefix(asm.got.MIMEType, "text/plain"))

	stored, err := st.Get(context.Background(), kit.ID)
	require.NoError(t, err)
	assert.Equal(t, "About cells.", stored.Summary)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		stage  string
	}{
		{"no content", &types.StageError{Stage: types.StageExtract, Err: types.ErrNoContentExtracted}, http.StatusUnprocessableEntity, types.StageExtract},
		{"malformed", &types.StageError{Stage: types.StageQuiz, Err: fmt.Errorf("quiz: %w", types.ErrMalformedGeneration)}, http.StatusBadGateway, types.StageQuiz},
		{"unavailable", &types.StageError{Stage: types.StageSummary, Err: types.ErrCollaboratorUnavailable}, http.StatusServiceUnavailable, types.StageSummary},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, st := newTestServer(t, &fakeAssembler{err: tc.err})

			body, ct := multipartBody(t, "file", "notes.txt", []byte("text"))
			resp, err := http.Post(ts.URL+"/api/study-kits/assemble", ct, body)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.stage, decode[errorResponse](t, resp).Stage)

			n, err := st.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n, "failed assembly must not persist anything")
		})
	}
}

func TestAssembleRequestValidation(t *testing.T) {
	ts, _ := newTestServer(t, &fakeAssembler{})

	body, ct := multipartBody(t, "document", "a.txt", []byte("x"))
	resp, err := http.Post(ts.URL+"/api/study-kits/assemble", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAssembleNotConfigured(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	body, ct := multipartBody(t, "file", "a.txt", []byte("x"))
	resp, err := http.Post(ts.URL+"/api/study-kits/assemble", ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	st, err := store.NewStore(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	defer st.Close()

	s := &Server{Store: st, Config: types.ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/study-kits", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
