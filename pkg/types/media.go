// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Upload is a file as received from a caller, before extraction.
type Upload struct {
	// Name is the display name, including extension (e.g. "lecture.docx").
	Name string

	// MIMEType is the declared media type. May be empty.
	MIMEType string

	Data []byte
}

// MediaBlob is a self-describing binary payload passed to the transcription
// service.
type MediaBlob struct {
	MIMEType string
	Data     []byte
}

// DataURI encodes the blob as data:<mime>;base64,<payload>.
func (b MediaBlob) DataURI() string {
	mime := b.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// ParseDataURI decodes a base64 data URI into a MediaBlob.
func ParseDataURI(uri string) (MediaBlob, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return MediaBlob{}, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return MediaBlob{}, fmt.Errorf("data URI has no payload separator")
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return MediaBlob{}, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return MediaBlob{}, fmt.Errorf("decoding data URI payload: %w", err)
	}
	return MediaBlob{MIMEType: mime, Data: data}, nil
}
