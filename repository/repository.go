// Package repository is the storage boundary for style settings, templates
// and the render log. Every type here works against a core.App so the same
// code runs inside and outside a transaction.
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/sirupsen/logrus"
)

const (
	SettingsCollection  = "app_settings"
	TemplatesCollection = "pdf_templates"
	RendersCollection   = "document_renders"

	// PDFSettingsKey is the app_settings key holding the DocumentPDFSettings blob.
	PDFSettingsKey = "pdf_settings"
)

var ErrNotFound = errors.New("record not found")

// Repos bundles the repositories bound to one core.App.
type Repos struct {
	app       core.App
	log       logrus.FieldLogger
	Settings  *SettingsRepository
	Templates *TemplateRepository
	Renders   *RenderRepository
}

func New(app core.App, log logrus.FieldLogger) *Repos {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Repos{
		app:       app,
		log:       log,
		Settings:  &SettingsRepository{app: app, log: log},
		Templates: &TemplateRepository{app: app},
		Renders:   &RenderRepository{app: app},
	}
}

// App is the app the repositories are bound to.
func (r *Repos) App() core.App { return r.app }

// Transaction runs fn with repositories bound to a single transaction. Any
// error returned by fn rolls every write back.
func (r *Repos) Transaction(fn func(tx *Repos) error) error {
	return r.app.RunInTransaction(func(txApp core.App) error {
		return fn(New(txApp, r.log))
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func decodeJSON(rec *core.Record, field string, out any) error {
	raw := rec.GetString(field)
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s: %w", field, err)
	}
	return nil
}

func encodeJSON(rec *core.Record, field string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	rec.Set(field, types.JSONRaw(data))
	return nil
}
