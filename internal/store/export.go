// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/studykit/pkg/types"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportYAMLFormat ExportFormat = "yaml"
	ExportJSONFormat ExportFormat = "json"
	ExportXLSXFormat ExportFormat = "xlsx"
)

// Export writes the kits matching opts to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format ExportFormat, opts ListOptions) error {
	switch format {
	case ExportYAMLFormat, "":
		return s.ExportYAML(ctx, w, opts)
	case ExportJSONFormat:
		return s.ExportJSON(ctx, w, opts)
	case ExportXLSXFormat:
		return s.ExportXLSX(ctx, w, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or xlsx", format)
	}
}

// ExportYAML writes the matching kits as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, opts ListOptions) error {
	kits, err := s.exportKits(ctx, opts)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(kits); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the matching kits as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, opts ListOptions) error {
	kits, err := s.exportKits(ctx, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kits); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

const (
	sheetKits       = "Kits"
	sheetFlashcards = "Flashcards"
	sheetQuiz       = "Quiz"
)

// ExportXLSX writes a workbook with one sheet for kits, one for all
// flashcards and one for all quiz questions, keyed by kit id.
func (s *Store) ExportXLSX(ctx context.Context, w io.Writer, opts ListOptions) error {
	kits, err := s.exportKits(ctx, opts)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetKits); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{sheetFlashcards, sheetQuiz} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	kitRows := [][]any{{"ID", "Title", "Created", "Language", "Summary", "Videos"}}
	cardRows := [][]any{{"Kit", "Term", "Definition"}}
	quizRows := [][]any{{"Kit", "Question", "Options", "Correct Answer"}}
	for _, k := range kits {
		kitRows = append(kitRows, []any{
			k.ID, k.Title, k.CreatedAt.Format("2006-01-02 15:04"), k.Language, k.Summary,
			strings.Join(k.YouTubeLinks, "\n"),
		})
		for _, c := range k.Flashcards {
			cardRows = append(cardRows, []any{k.ID, c.Term, c.Definition})
		}
		for _, q := range k.Quiz {
			quizRows = append(quizRows, []any{k.ID, q.Question, strings.Join(q.Options, " | "), q.CorrectAnswer})
		}
	}

	for _, sheet := range []struct {
		name   string
		rows   [][]any
		widths []float64
	}{
		{sheetKits, kitRows, []float64{38, 30, 18, 12, 80, 45}},
		{sheetFlashcards, cardRows, []float64{38, 30, 80}},
		{sheetQuiz, quizRows, []float64{38, 60, 60, 30}},
	} {
		if err := writeSheet(f, sheet.name, sheet.rows, sheet.widths); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encoding workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, widths []float64) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
			}
		}
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}

func (s *Store) exportKits(ctx context.Context, opts ListOptions) ([]types.StudyKit, error) {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	kits, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return kits, nil
}
