package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"docportal/pdfsettings"
)

// Scopes lists the values a template scope may take: every document type
// plus "global".
func Scopes() []string {
	out := make([]string, 0, len(pdfsettings.DocumentTypes)+1)
	for _, t := range pdfsettings.DocumentTypes {
		out = append(out, string(t))
	}
	return append(out, "global")
}

// Setup programmatically creates/ensures the app_settings, pdf_templates and
// document_renders collections exist, then re-seeds the system templates.
func Setup(app core.App) {
	ensureCollection(app, "app_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true, Max: 100})
		c.Fields.Add(&core.JSONField{Name: "value", MaxSize: 2 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_app_settings_key", true, "`key`", "")
	})

	ensureCollection(app, "pdf_templates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 120})
		c.Fields.Add(&core.TextField{Name: "description", Max: 500})
		c.Fields.Add(&core.SelectField{
			Name:      "scope",
			Required:  true,
			Values:    Scopes(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_default"})
		c.Fields.Add(&core.BoolField{Name: "is_system"})
		c.Fields.Add(&core.JSONField{Name: "settings", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "tags", MaxSize: 10 << 10})
		c.Fields.Add(&core.NumberField{Name: "usage_count", OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_pdf_templates_scope", false, "`scope`", "")
	})

	ensureCollection(app, "document_renders", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "doc_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "record_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "number"})
		c.Fields.Add(&core.TextField{Name: "issued_at"})
		c.Fields.Add(&core.NumberField{Name: "rendered_at", OnlyInt: true})
		c.Fields.Add(&core.JSONField{Name: "payload", MaxSize: 10 << 10})
		c.Fields.Add(&core.TextField{Name: "signature"})
		c.Fields.Add(&core.NumberField{Name: "page_count", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "filename"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_document_renders_lookup", false, "`doc_type`, `record_id`", "")
	})

	if err := SeedSystemTemplates(app); err != nil {
		log.Fatalf("Failed to seed system templates: %v", err)
	}
}

// ensureCollection returns the named collection, creating it with the given
// fields when it does not exist yet.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
