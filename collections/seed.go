package collections

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"docportal/pdfsettings"
)

// SeedSystemTemplates writes every built-in preset as a read-only global
// template. Existing rows are overwritten so hand edits to system rows never
// survive a restart; usage counts are preserved.
func SeedSystemTemplates(app core.App) error {
	col, err := app.FindCollectionByNameOrId("pdf_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find pdf_templates collection: %w", err)
	}

	for _, p := range pdfsettings.Presets() {
		record, err := app.FindRecordById(col, p.ID)
		if err != nil {
			record = core.NewRecord(col)
			record.Set("id", p.ID)
			record.Set("usage_count", 0)
		}

		settings, err := json.Marshal(p.Settings)
		if err != nil {
			return fmt.Errorf("seed: encode %q: %w", p.Name, err)
		}
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("seed: encode %q tags: %w", p.Name, err)
		}

		record.Set("name", p.Name)
		record.Set("description", p.Description)
		record.Set("scope", "global")
		record.Set("is_default", false)
		record.Set("is_system", true)
		record.Set("settings", types.JSONRaw(settings))
		record.Set("tags", types.JSONRaw(tags))

		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: save %q: %w", p.Name, err)
		}
	}
	return nil
}
