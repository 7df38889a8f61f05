// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractor turns an uploaded file into plain text. Text files pass
// through, office documents and PDFs with a text layer are read locally,
// legacy document formats optionally go through a converter container, and
// everything else is sent to a transcription service.
package extractor

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pdiddy/studykit/internal/logger"
	"github.com/pdiddy/studykit/pkg/types"
)

// Transcriber converts media into text.
type Transcriber interface {
	Transcribe(ctx context.Context, blob types.MediaBlob) (string, error)
}

// Converter converts a document in a format not read natively into text.
type Converter interface {
	Convert(ctx context.Context, name string, data []byte) (string, error)
}

// kind is the extraction path chosen for an upload.
type kind int

const (
	kindMedia kind = iota
	kindText
	kindOffice
	kindPDF
	kindLegacy
)

var officeExts = map[string]bool{".docx": true, ".pptx": true, ".xlsx": true}

var legacyExts = map[string]bool{
	".doc": true, ".ppt": true, ".xls": true, ".odt": true,
	".odp": true, ".ods": true, ".rtf": true, ".epub": true,
}

// Extractor selects an extraction path per upload. Converter is optional.
type Extractor struct {
	Transcriber Transcriber
	Converter   Converter
	Log         *logger.Logger
}

// Extract returns the text content of up. It fails with
// types.ErrNoContentExtracted when the result is empty or whitespace.
func (e *Extractor) Extract(ctx context.Context, up types.Upload) (string, error) {
	log := e.Log
	if log == nil {
		log = logger.Nop()
	}
	if up.MIMEType == "" {
		up.MIMEType = DetectMIME(up.Name, up.Data)
	}

	k := classify(up, e.Converter != nil)
	log.Debug("extracting", "file", up.Name, "mime", up.MIMEType, "bytes", len(up.Data), "path", k.String())

	text, err := e.extract(ctx, k, up, log)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", types.ErrNoContentExtracted, up.Name)
	}
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, k kind, up types.Upload, log *logger.Logger) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Name))

	switch k {
	case kindText:
		return string(up.Data), nil

	case kindOffice:
		text, err := extractOffice(ext, up.Data)
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", types.ErrNoContentExtracted, up.Name, err)
		}
		return text, nil

	case kindPDF:
		text, err := extractPDF(up.Data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		// Scanned PDFs have no text layer; the transcription model reads them.
		log.Info("pdf has no text layer, transcribing", "file", up.Name, "error", err)

	case kindLegacy:
		text, err := e.Converter.Convert(ctx, up.Name, up.Data)
		if err != nil {
			return "", fmt.Errorf("converting %s: %w", up.Name, err)
		}
		return text, nil
	}

	if e.Transcriber == nil {
		return "", fmt.Errorf("no transcriber configured for %s (%s)", up.Name, up.MIMEType)
	}
	text, err := e.Transcriber.Transcribe(ctx, types.MediaBlob{MIMEType: up.MIMEType, Data: up.Data})
	if err != nil {
		return "", fmt.Errorf("transcribing %s: %w", up.Name, err)
	}
	return text, nil
}

func classify(up types.Upload, haveConverter bool) kind {
	if strings.HasPrefix(up.MIMEType, "text/") {
		return kindText
	}
	ext := strings.ToLower(filepath.Ext(up.Name))
	switch {
	case officeExts[ext]:
		return kindOffice
	case ext == ".pdf" || up.MIMEType == "application/pdf":
		return kindPDF
	case legacyExts[ext] && haveConverter:
		return kindLegacy
	default:
		return kindMedia
	}
}

func (k kind) String() string {
	switch k {
	case kindText:
		return "text"
	case kindOffice:
		return "office"
	case kindPDF:
		return "pdf"
	case kindLegacy:
		return "converter"
	default:
		return "transcription"
	}
}

// extraTypes covers extensions missing from common system MIME tables.
var extraTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".srt":      "text/plain",
	".vtt":      "text/vtt",
	".m4a":      "audio/mp4",
	".mp3":      "audio/mpeg",
	".wav":      "audio/wav",
	".webm":     "video/webm",
	".mp4":      "video/mp4",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx":     "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx":     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".doc":      "application/msword",
	".ppt":      "application/vnd.ms-powerpoint",
	".xls":      "application/vnd.ms-excel",
	".odt":      "application/vnd.oasis.opendocument.text",
	".odp":      "application/vnd.oasis.opendocument.presentation",
	".ods":      "application/vnd.oasis.opendocument.spreadsheet",
	".rtf":      "application/rtf",
	".epub":     "application/epub+zip",
}

// DetectMIME infers a media type from the file name, falling back to
// content sniffing. Parameters such as charset are dropped.
func DetectMIME(name string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	t := extraTypes[ext]
	if t == "" {
		t = mime.TypeByExtension(ext)
	}
	if t == "" {
		t = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}
