// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists study kits and their notes in SQLite (default) or
// Postgres through database/sql. List-valued fields are stored as JSON text.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/studykit/internal/video"
	"github.com/pdiddy/studykit/pkg/types"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "pgx"
	dbFile         = "studykit.db"

	// timeLayout is fixed-width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when no kit has the requested id.
var ErrNotFound = errors.New("study kit not found")

// Store manages the study kit database.
type Store struct {
	db         *sql.DB
	driver     string
	maxResults int
	now        func() time.Time
}

// NewStore opens the database selected by cfg and creates the schema if it
// does not exist. For sqlite3 the file lives at cfg.Dir/studykit.db.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" || driver == "sqlite" {
		driver = driverSQLite
	}

	var dsn string
	switch driver {
	case driverSQLite:
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
		dsn = filepath.Join(cfg.Dir, dbFile) + "?_journal_mode=WAL&_foreign_keys=on"
	case driverPostgres, "postgres":
		driver = driverPostgres
		if cfg.DSN == "" {
			return nil, fmt.Errorf("store.dsn is required for driver %s", driver)
		}
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported store driver %q: use sqlite3 or pgx", cfg.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, driver: driver, maxResults: maxResults, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS study_kits (
			id TEXT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			created_at TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			transcription TEXT NOT NULL DEFAULT '',
			flashcards TEXT NOT NULL DEFAULT '[]',
			mind_map TEXT NOT NULL DEFAULT '',
			quiz TEXT NOT NULL DEFAULT '[]',
			youtube_links TEXT NOT NULL DEFAULT '[]',
			language TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_study_kits_created_at ON study_kits(created_at)`,
		`CREATE TABLE IF NOT EXISTS kit_notes (
			kit_id TEXT PRIMARY KEY REFERENCES study_kits(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Create inserts kit. An empty ID or zero CreatedAt is filled in; invalid
// video links are dropped. kit is updated in place with the stored values.
func (s *Store) Create(ctx context.Context, kit *types.StudyKit) error {
	if kit.ID == "" {
		kit.ID = uuid.NewString()
	}
	if kit.CreatedAt.IsZero() {
		kit.CreatedAt = s.now()
	}
	kit.CreatedAt = kit.CreatedAt.UTC()
	prepare(kit)

	cols, err := encode(kit)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO study_kits (id, title, created_at, summary, transcription, flashcards, mind_map, quiz, youtube_links, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		kit.ID, kit.Title, kit.CreatedAt.Format(timeLayout), kit.Summary, kit.Transcription,
		cols.flashcards, kit.MindMap, cols.quiz, cols.links, kit.Language,
	)
	if err != nil {
		return fmt.Errorf("inserting study kit %s: %w", kit.ID, err)
	}
	return nil
}

const selectKit = `SELECT id, title, created_at, summary, transcription, flashcards, mind_map, quiz, youtube_links, language FROM study_kits`

// Get returns the kit with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.StudyKit, error) {
	return s.get(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) get(ctx context.Context, q queryer, id string) (*types.StudyKit, error) {
	kit, err := scanKit(q.QueryRowContext(ctx, s.rebind(selectKit+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading study kit %s: %w", id, err)
	}
	return kit, nil
}

// ListOptions filters and pages List.
type ListOptions struct {
	// Query matches case-insensitively against title and summary.
	Query string

	// Limit caps the result count; 0 uses the store default, -1 means no limit.
	Limit int

	Offset int
}

// List returns kits newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.StudyKit, error) {
	query := selectKit
	var args []any
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query += ` WHERE LOWER(title) LIKE ? OR LOWER(summary) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC, id`

	limit := opts.Limit
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing study kits: %w", err)
	}
	defer rows.Close()

	kits := []types.StudyKit{}
	for rows.Next() {
		kit, err := scanKit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning study kit: %w", err)
		}
		kits = append(kits, *kit)
	}
	return kits, rows.Err()
}

// Update applies patch to the kit with the given id inside a transaction
// and returns the updated kit. The id and creation time never change.
func (s *Store) Update(ctx context.Context, id string, patch types.StudyKitPatch) (*types.StudyKit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	kit, err := s.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return kit, nil
	}

	patch.Apply(kit)
	prepare(kit)
	cols, err := encode(kit)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		`UPDATE study_kits SET title = ?, summary = ?, transcription = ?, flashcards = ?, mind_map = ?, quiz = ?, youtube_links = ?, language = ?
		WHERE id = ?`),
		kit.Title, kit.Summary, kit.Transcription, cols.flashcards, kit.MindMap, cols.quiz, cols.links, kit.Language, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating study kit %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}
	return kit, nil
}

// Delete removes the kit and its notes.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM study_kits WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting study kit %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting study kit %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of stored kits.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM study_kits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting study kits: %w", err)
	}
	return n, nil
}

// prepare enforces the stored shape of a kit.
func prepare(kit *types.StudyKit) {
	kit.Normalize()
	if strings.TrimSpace(kit.Title) == "" {
		kit.Title = "Untitled"
	}
	if r := []rune(kit.Title); len(r) > 255 {
		kit.Title = string(r[:255])
	}
	kit.YouTubeLinks = video.Filter(kit.YouTubeLinks, video.MaxLinks)
}

type encodedCols struct {
	flashcards, quiz, links string
}

func encode(kit *types.StudyKit) (encodedCols, error) {
	var c encodedCols
	for _, f := range []struct {
		dst *string
		v   any
	}{
		{&c.flashcards, kit.Flashcards},
		{&c.quiz, kit.Quiz},
		{&c.links, kit.YouTubeLinks},
	} {
		b, err := json.Marshal(f.v)
		if err != nil {
			return c, fmt.Errorf("encoding study kit %s: %w", kit.ID, err)
		}
		*f.dst = string(b)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanKit(row scanner) (*types.StudyKit, error) {
	var (
		kit                     types.StudyKit
		createdAt               string
		flashcards, quiz, links string
	)
	if err := row.Scan(&kit.ID, &kit.Title, &createdAt, &kit.Summary, &kit.Transcription,
		&flashcards, &kit.MindMap, &quiz, &links, &kit.Language); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", kit.ID, err)
	}
	kit.CreatedAt = t

	if err := json.Unmarshal([]byte(flashcards), &kit.Flashcards); err != nil {
		return nil, fmt.Errorf("decoding flashcards of %s: %w", kit.ID, err)
	}
	if err := json.Unmarshal([]byte(quiz), &kit.Quiz); err != nil {
		return nil, fmt.Errorf("decoding quiz of %s: %w", kit.ID, err)
	}
	if err := json.Unmarshal([]byte(links), &kit.YouTubeLinks); err != nil {
		return nil, fmt.Errorf("decoding youtube links of %s: %w", kit.ID, err)
	}
	kit.Normalize()
	return &kit, nil
}
