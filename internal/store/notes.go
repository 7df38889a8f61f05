// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/studykit/pkg/types"
)

// Notes returns the notes saved for a kit. A kit without notes yields empty
// content; a missing kit yields ErrNotFound.
func (s *Store) Notes(ctx context.Context, kitID string) (types.KitNotes, error) {
	if err := s.exists(ctx, kitID); err != nil {
		return types.KitNotes{}, err
	}

	notes := types.KitNotes{KitID: kitID}
	var updated string
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT content, updated_at FROM kit_notes WHERE kit_id = ?`), kitID,
	).Scan(&notes.Content, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return notes, nil
	}
	if err != nil {
		return types.KitNotes{}, fmt.Errorf("reading notes for %s: %w", kitID, err)
	}
	if notes.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return types.KitNotes{}, fmt.Errorf("parsing notes timestamp for %s: %w", kitID, err)
	}
	return notes, nil
}

// SaveNotes replaces the notes of a kit.
func (s *Store) SaveNotes(ctx context.Context, kitID, content string) (types.KitNotes, error) {
	if err := s.exists(ctx, kitID); err != nil {
		return types.KitNotes{}, err
	}

	notes := types.KitNotes{KitID: kitID, Content: content, UpdatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO kit_notes (kit_id, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (kit_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`),
		kitID, content, notes.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return types.KitNotes{}, fmt.Errorf("saving notes for %s: %w", kitID, err)
	}
	return notes, nil
}

func (s *Store) exists(ctx context.Context, kitID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM study_kits WHERE id = ?`), kitID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, kitID)
	}
	if err != nil {
		return fmt.Errorf("looking up study kit %s: %w", kitID, err)
	}
	return nil
}
