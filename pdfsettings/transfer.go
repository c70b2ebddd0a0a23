package pdfsettings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FileVersion is the current settings file format.
const FileVersion = 1

var ErrInvalidFile = errors.New("invalid settings file")

// File is the standalone settings file used for backup and sharing.
type File struct {
	Version      int          `json:"version"`
	DocumentType DocumentType `json:"documentType"`
	ExportedAt   time.Time    `json:"exportedAt"`
	Settings     PDFSettings  `json:"settings"`
}

// Export serializes one document type's settings.
func Export(t DocumentType, s PDFSettings, now time.Time) ([]byte, error) {
	f := File{
		Version:      FileVersion,
		DocumentType: t,
		ExportedAt:   now.UTC().Truncate(time.Second),
		Settings:     s,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings file: %w", err)
	}
	return data, nil
}

// Import decodes and validates a settings file. Unknown keys are rejected so
// a typo never silently falls back to a default.
func Import(data []byte) (File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if f.Version != FileVersion {
		return File{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidFile, f.Version)
	}
	if f.DocumentType != "" && !f.DocumentType.Valid() {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, f.DocumentType)
	}
	if err := f.Settings.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}
