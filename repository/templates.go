package repository

import (
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"docportal/pdfsettings"
)

// TemplateRow is one pdf_templates record.
type TemplateRow struct {
	ID          string
	Name        string
	Description string
	Scope       string
	IsDefault   bool
	IsSystem    bool
	Settings    pdfsettings.PDFSettings
	Tags        []string
	UsageCount  int
	Created     time.Time
	Updated     time.Time
}

type TemplateRepository struct {
	app core.App
}

func (r *TemplateRepository) Get(id string) (TemplateRow, error) {
	rec, err := r.app.FindRecordById(TemplatesCollection, id)
	if isNotFound(err) {
		return TemplateRow{}, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return TemplateRow{}, fmt.Errorf("failed to load template %q: %w", id, err)
	}
	return rowFromRecord(rec)
}

// List returns every template, most used first, then by name.
func (r *TemplateRepository) List() ([]TemplateRow, error) {
	recs, err := r.app.FindRecordsByFilter(TemplatesCollection, "id != ''", "-usage_count,name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]TemplateRow, 0, len(recs))
	for _, rec := range recs {
		row, err := rowFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Insert creates a new row and returns it with its assigned id and timestamps.
func (r *TemplateRepository) Insert(row TemplateRow) (TemplateRow, error) {
	col, err := r.app.FindCollectionByNameOrId(TemplatesCollection)
	if err != nil {
		return TemplateRow{}, fmt.Errorf("failed to find %s collection: %w", TemplatesCollection, err)
	}
	rec := core.NewRecord(col)
	if row.ID != "" {
		rec.Set("id", row.ID)
	}
	if err := fillRecord(rec, row); err != nil {
		return TemplateRow{}, err
	}
	if err := r.app.Save(rec); err != nil {
		return TemplateRow{}, fmt.Errorf("failed to save template: %w", err)
	}
	return rowFromRecord(rec)
}

// Replace overwrites every mutable column of an existing row.
func (r *TemplateRepository) Replace(row TemplateRow) (TemplateRow, error) {
	rec, err := r.app.FindRecordById(TemplatesCollection, row.ID)
	if isNotFound(err) {
		return TemplateRow{}, fmt.Errorf("template %q: %w", row.ID, ErrNotFound)
	}
	if err != nil {
		return TemplateRow{}, fmt.Errorf("failed to load template %q: %w", row.ID, err)
	}
	if err := fillRecord(rec, row); err != nil {
		return TemplateRow{}, err
	}
	if err := r.app.Save(rec); err != nil {
		return TemplateRow{}, fmt.Errorf("failed to save template: %w", err)
	}
	return rowFromRecord(rec)
}

func (r *TemplateRepository) Delete(id string) error {
	rec, err := r.app.FindRecordById(TemplatesCollection, id)
	if isNotFound(err) {
		return fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load template %q: %w", id, err)
	}
	if err := r.app.Delete(rec); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// IncrementUsage bumps usage_count by one.
func (r *TemplateRepository) IncrementUsage(id string) error {
	rec, err := r.app.FindRecordById(TemplatesCollection, id)
	if isNotFound(err) {
		return fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load template %q: %w", id, err)
	}
	rec.Set("usage_count", rec.GetInt("usage_count")+1)
	if err := r.app.Save(rec); err != nil {
		return fmt.Errorf("failed to save template usage: %w", err)
	}
	return nil
}

// ClearDefaults unsets is_default on every row of scope except keepID.
func (r *TemplateRepository) ClearDefaults(scope, keepID string) error {
	recs, err := r.app.FindRecordsByFilter(TemplatesCollection,
		"scope = {:scope} && is_default = true && id != {:keep}", "", 0, 0,
		dbx.Params{"scope": scope, "keep": keepID})
	if err != nil {
		return fmt.Errorf("failed to query default templates: %w", err)
	}
	for _, rec := range recs {
		rec.Set("is_default", false)
		if err := r.app.Save(rec); err != nil {
			return fmt.Errorf("failed to clear default template %q: %w", rec.Id, err)
		}
	}
	return nil
}

func fillRecord(rec *core.Record, row TemplateRow) error {
	rec.Set("name", row.Name)
	rec.Set("description", row.Description)
	rec.Set("scope", row.Scope)
	rec.Set("is_default", row.IsDefault)
	rec.Set("is_system", row.IsSystem)
	rec.Set("usage_count", row.UsageCount)
	if err := encodeJSON(rec, "settings", row.Settings); err != nil {
		return err
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return encodeJSON(rec, "tags", tags)
}

func rowFromRecord(rec *core.Record) (TemplateRow, error) {
	row := TemplateRow{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Description: rec.GetString("description"),
		Scope:       rec.GetString("scope"),
		IsDefault:   rec.GetBool("is_default"),
		IsSystem:    rec.GetBool("is_system"),
		UsageCount:  rec.GetInt("usage_count"),
		Created:     rec.GetDateTime("created").Time(),
		Updated:     rec.GetDateTime("updated").Time(),
	}
	if err := decodeJSON(rec, "settings", &row.Settings); err != nil {
		return TemplateRow{}, fmt.Errorf("template %q: %w", rec.Id, err)
	}
	if err := decodeJSON(rec, "tags", &row.Tags); err != nil {
		return TemplateRow{}, fmt.Errorf("template %q: %w", rec.Id, err)
	}
	return row, nil
}
