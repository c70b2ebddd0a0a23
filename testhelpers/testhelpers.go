// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"docportal/collections"
	"docportal/document"
	"docportal/pdfsettings"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// QuietLogger discards all output.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// CreateTestTemplate inserts a user template with the given scope and returns it.
func CreateTestTemplate(t *testing.T, app core.App, name, scope string, s pdfsettings.PDFSettings, tags ...string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("pdf_templates")
	if err != nil {
		t.Fatalf("failed to find pdf_templates collection: %v", err)
	}

	settings, _ := json.Marshal(s)
	if tags == nil {
		tags = []string{}
	}
	tagJSON, _ := json.Marshal(tags)

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("scope", scope)
	record.Set("settings", types.JSONRaw(settings))
	record.Set("tags", types.JSONRaw(tagJSON))
	record.Set("usage_count", 0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// SampleRecord returns a small quote-shaped record with two line items and totals.
func SampleRecord() document.Record {
	d := decimal.RequireFromString
	return document.Record{
		ID:       "rec123",
		Number:   "Q-1001",
		Date:     "2026-03-14",
		Status:   "Sent",
		Currency: "SAR",
		Customer: document.Party{
			Name:    "Acme Trading",
			Phone:   "+966 11 555 0100",
			Email:   "buyer@acme.example",
			Address: "King Fahd Rd, Riyadh",
		},
		Items: []document.LineItem{
			{Location: "Lobby", Type: "Glass partition", Height: d("2.4"), Width: d("3"), Quantity: d("2"), Area: d("14.4"), UnitPrice: d("350"), Total: d("5040")},
			{Location: "Office 2", Type: "Sliding door", Height: d("2.1"), Width: d("1.2"), Quantity: d("1"), Area: d("2.52"), UnitPrice: d("900"), Total: d("900")},
		},
		Totals: &document.Totals{
			Subtotal:   d("5940"),
			Discount:   decimal.Zero,
			VATRate:    d("15"),
			VAT:        d("891"),
			GrandTotal: d("6831"),
		},
	}
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q", frag)
		}
	}
}
