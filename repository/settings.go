package repository

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"docportal/pdfsettings"
)

// SettingsRepository persists the DocumentPDFSettings blob as one
// app_settings row. Writes always replace the whole document.
type SettingsRepository struct {
	app core.App
	log logrus.FieldLogger
}

func (r *SettingsRepository) find() (*core.Record, error) {
	return r.app.FindFirstRecordByFilter(SettingsCollection, "key = {:key}", dbx.Params{"key": PDFSettingsKey})
}

// Load returns the stored blob. A missing row is an empty blob, not an error.
func (r *SettingsRepository) Load() (pdfsettings.DocumentPDFSettings, error) {
	var out pdfsettings.DocumentPDFSettings

	rec, err := r.find()
	if isNotFound(err) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to load pdf settings: %w", err)
	}
	if err := decodeJSON(rec, "value", &out); err != nil {
		return pdfsettings.DocumentPDFSettings{}, fmt.Errorf("failed to load pdf settings: %w", err)
	}
	return out, nil
}

// LoadOrDefault is the render-path read: any failure yields an empty blob so
// the resolver falls back to built-in defaults instead of a partial config.
func (r *SettingsRepository) LoadOrDefault() pdfsettings.DocumentPDFSettings {
	s, err := r.Load()
	if err != nil {
		r.log.WithError(err).Error("pdf settings unreadable, rendering with defaults")
		return pdfsettings.DocumentPDFSettings{}
	}
	return s
}

// Save validates and upserts the whole blob.
func (r *SettingsRepository) Save(s pdfsettings.DocumentPDFSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	rec, err := r.find()
	if isNotFound(err) {
		col, cerr := r.app.FindCollectionByNameOrId(SettingsCollection)
		if cerr != nil {
			return fmt.Errorf("failed to find %s collection: %w", SettingsCollection, cerr)
		}
		rec = core.NewRecord(col)
		rec.Set("key", PDFSettingsKey)
	} else if err != nil {
		return fmt.Errorf("failed to load pdf settings: %w", err)
	}

	if err := encodeJSON(rec, "value", s); err != nil {
		return err
	}
	if err := r.app.Save(rec); err != nil {
		return fmt.Errorf("failed to save pdf settings: %w", err)
	}
	return nil
}

// Update applies fn to the stored blob and saves the result. Callers that
// need atomicity with other writes run it inside Repos.Transaction.
func (r *SettingsRepository) Update(fn func(pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error)) (pdfsettings.DocumentPDFSettings, error) {
	current, err := r.Load()
	if err != nil {
		return pdfsettings.DocumentPDFSettings{}, err
	}
	next, err := fn(current)
	if err != nil {
		return pdfsettings.DocumentPDFSettings{}, err
	}
	if err := r.Save(next); err != nil {
		return pdfsettings.DocumentPDFSettings{}, err
	}
	return next, nil
}
