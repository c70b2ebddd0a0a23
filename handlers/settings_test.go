package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"docportal/pdfsettings"
)

func settingsJSON(t *testing.T, s pdfsettings.PDFSettings) string {
	t.Helper()
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHandleSettingsEffective_Default(t *testing.T) {
	api := newTestAPI(t)

	rec := call(t, api, HandleSettingsEffective(api), http.MethodGet, "/api/pdf-settings/quotes", "", "type", "quotes")
	expectStatus(t, rec, http.StatusOK)

	got := decodeJSON[EffectiveSettings](t, rec)
	if got.Source != pdfsettings.SourceDefault {
		t.Errorf("source = %q, want default", got.Source)
	}
	if got.Settings.Footer.Text != pdfsettings.Default(pdfsettings.Quotes).Footer.Text {
		t.Errorf("footer text = %q", got.Settings.Footer.Text)
	}
}

func TestHandleSettingsEffective_AcceptsDashedSiteVisits(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, HandleSettingsEffective(api), http.MethodGet, "/", "", "type", "site-visits")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeJSON[EffectiveSettings](t, rec); got.DocumentType != pdfsettings.SiteVisits {
		t.Errorf("documentType = %q", got.DocumentType)
	}
}

func TestHandleSettingsEffective_UnknownType(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, HandleSettingsEffective(api), http.MethodGet, "/", "", "type", "receipts")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestHandleSettingsReplace(t *testing.T) {
	api := newTestAPI(t)
	s := pdfsettings.Default(pdfsettings.Invoices)
	s.Colors.Accent = "#112233"

	rec := call(t, api, HandleSettingsReplace(api), http.MethodPut, "/", settingsJSON(t, s), "type", "invoices")
	expectStatus(t, rec, http.StatusOK)
	got := decodeJSON[EffectiveSettings](t, rec)
	if got.Source != pdfsettings.SourceStored || got.Settings.Colors.Accent != "#112233" {
		t.Errorf("got source %q accent %q", got.Source, got.Settings.Colors.Accent)
	}

	blob, err := api.Repos.Settings.Load()
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := blob.Bucket(pdfsettings.Invoices); !ok || b.Colors.Accent != "#112233" {
		t.Error("invoice bucket not persisted")
	}
	if _, ok := blob.Bucket(pdfsettings.Quotes); ok {
		t.Error("other buckets must stay untouched")
	}
}

func TestHandleSettingsReplace_Invalid(t *testing.T) {
	api := newTestAPI(t)
	s := pdfsettings.Default(pdfsettings.Quotes)
	s.Fonts.BodySize = 99

	rec := call(t, api, HandleSettingsReplace(api), http.MethodPut, "/", settingsJSON(t, s), "type", "quotes")
	expectStatus(t, rec, http.StatusBadRequest)

	var body struct {
		Error  string                     `json:"error"`
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body.Fields["fonts"]; !ok {
		t.Errorf("expected a fonts field error, got %s", rec.Body.String())
	}

	blob, _ := api.Repos.Settings.Load()
	if _, ok := blob.Bucket(pdfsettings.Quotes); ok {
		t.Error("invalid settings must not be persisted")
	}
}

func TestHandleSettingsReplace_UnknownKey(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, HandleSettingsReplace(api), http.MethodPut, "/", `{"fonts":{},"colour":{}}`, "type", "quotes")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestHandleSettingsPatch(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"color", `{"path":"colors.accent","value":"#abcdef"}`, http.StatusOK},
		{"flag", `{"path":"table.showUnitPrice","value":false}`, http.StatusOK},
		{"unknown path", `{"path":"colors.nope","value":"#abcdef"}`, http.StatusBadRequest},
		{"wrong type", `{"path":"colors.accent","value":5}`, http.StatusBadRequest},
		{"out of range", `{"path":"fonts.bodySize","value":200}`, http.StatusBadRequest},
		{"missing value", `{"path":"colors.accent"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			rec := call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", tt.body, "type", "quotes")
			expectStatus(t, rec, tt.status)
		})
	}
}

func TestHandleSettingsPatch_StartsFromDefault(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"colors.accent","value":"#abcdef"}`, "type", "orders")
	expectStatus(t, rec, http.StatusOK)

	got := decodeJSON[EffectiveSettings](t, rec)
	want := pdfsettings.Default(pdfsettings.Orders)
	want.Colors.Accent = "#abcdef"
	if got.Settings.Colors != want.Colors || got.Settings.Footer.Text != want.Footer.Text {
		t.Errorf("patched settings diverged from default: %+v", got.Settings.Colors)
	}
}

func TestHandleSettingsGlobal(t *testing.T) {
	api := newTestAPI(t)
	g := pdfsettings.Default(pdfsettings.Quotes)
	g.Colors.Accent = "#010203"

	body := `{"useGlobalDefaults":true,"defaultSettings":` + settingsJSON(t, g) + `}`
	rec := call(t, api, HandleSettingsGlobal(api), http.MethodPut, "/", body)
	expectStatus(t, rec, http.StatusOK)

	rec = call(t, api, HandleSettingsEffective(api), http.MethodGet, "/", "", "type", "warranties")
	got := decodeJSON[EffectiveSettings](t, rec)
	if got.Source != pdfsettings.SourceGlobal || got.Settings.Colors.Accent != "#010203" {
		t.Errorf("got source %q accent %q", got.Source, got.Settings.Colors.Accent)
	}

	// Turning the override off keeps the stored global settings.
	rec = call(t, api, HandleSettingsGlobal(api), http.MethodPut, "/", `{"useGlobalDefaults":false}`)
	expectStatus(t, rec, http.StatusOK)
	gs := decodeJSON[pdfsettings.GlobalSettings](t, rec)
	if gs.UseGlobalDefaults || gs.DefaultSettings.Colors.Accent != "#010203" {
		t.Errorf("global = %+v", gs)
	}
}

func TestHandleSettingsCopy(t *testing.T) {
	api := newTestAPI(t)
	call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"colors.accent","value":"#445566"}`, "type", "quotes")

	rec := call(t, api, HandleSettingsCopy(api), http.MethodPost, "/", `{"source":"quotes","target":"invoices"}`)
	expectStatus(t, rec, http.StatusOK)
	got := decodeJSON[EffectiveSettings](t, rec)
	if got.DocumentType != pdfsettings.Invoices || got.Settings.Colors.Accent != "#445566" {
		t.Errorf("copy result = %q %q", got.DocumentType, got.Settings.Colors.Accent)
	}

	rec = call(t, api, HandleSettingsCopy(api), http.MethodPost, "/", `{"source":"quotes","target":"nope"}`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestHandleSettingsReset(t *testing.T) {
	api := newTestAPI(t)
	call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"colors.accent","value":"#445566"}`, "type", "quotes")

	rec := call(t, api, HandleSettingsReset(api), http.MethodPost, "/", "", "type", "quotes")
	expectStatus(t, rec, http.StatusOK)
	if got := decodeJSON[EffectiveSettings](t, rec); got.Source != pdfsettings.SourceDefault {
		t.Errorf("source after reset = %q", got.Source)
	}
}

func TestHandleSettingsExportImport(t *testing.T) {
	api := newTestAPI(t)
	call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"colors.accent","value":"#778899"}`, "type", "quotes")

	rec := call(t, api, HandleSettingsExport(api), http.MethodGet, "/", "", "type", "quotes")
	expectStatus(t, rec, http.StatusOK)
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "pdf-settings-quotes.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rec = call(t, api, HandleSettingsImport(api), http.MethodPost, "/", rec.Body.String(), "type", "orders")
	expectStatus(t, rec, http.StatusOK)
	got := decodeJSON[EffectiveSettings](t, rec)
	if got.DocumentType != pdfsettings.Orders || got.Settings.Colors.Accent != "#778899" {
		t.Errorf("imported = %q %q", got.DocumentType, got.Settings.Colors.Accent)
	}
}

func TestHandleSettingsImport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "hello"},
		{"wrong version", `{"version":7,"settings":{}}`},
		{"invalid settings", `{"version":1,"settings":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			rec := call(t, api, HandleSettingsImport(api), http.MethodPost, "/", tt.body, "type", "quotes")
			expectStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestHandleSettingsReplace_HTMXToast(t *testing.T) {
	api := newTestAPI(t)
	s := pdfsettings.Default(pdfsettings.Quotes)

	req := strings.NewReader(settingsJSON(t, s))
	r := newHTMXRequest(http.MethodPut, "/", req)
	r.SetPathValue("type", "quotes")
	rec := serve(t, api, HandleSettingsReplace(api), r)

	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "Settings saved") {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleSettingsGet(t *testing.T) {
	api := newTestAPI(t)
	rec := call(t, api, HandleSettingsGet(api), http.MethodGet, "/", "")
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Errorf("empty blob = %s", rec.Body.String())
	}
}

func TestHandleSettingsReplace_ConcurrentTypesAllPersist(t *testing.T) {
	api := newTestAPI(t)

	var wg sync.WaitGroup
	codes := make([]int, len(pdfsettings.DocumentTypes))
	errs := make([]error, len(pdfsettings.DocumentTypes))
	for i, dt := range pdfsettings.DocumentTypes {
		s := pdfsettings.Default(dt)
		s.Colors.Accent = "#0000aa"
		body := settingsJSON(t, s)
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
			req.SetPathValue("type", string(dt))
			rec := httptest.NewRecorder()
			errs[i] = HandleSettingsReplace(api)(newTestRequestEvent(api.Repos.App(), req, rec))
			codes[i] = rec.Code
		}()
	}
	wg.Wait()

	for i, dt := range pdfsettings.DocumentTypes {
		if errs[i] != nil || codes[i] != http.StatusOK {
			t.Errorf("%s: status %d, err %v", dt, codes[i], errs[i])
		}
	}
	blob, err := api.Repos.Settings.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, dt := range pdfsettings.DocumentTypes {
		if b, ok := blob.Bucket(dt); !ok || b.Colors.Accent != "#0000aa" {
			t.Errorf("bucket %s lost", dt)
		}
	}
}

func TestHandleSettingsPatch_InvalidLeavesBlobUntouched(t *testing.T) {
	api := newTestAPI(t)
	call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"colors.accent","value":"#123456"}`, "type", "quotes")

	rec := call(t, api, HandleSettingsPatch(api), http.MethodPatch, "/", `{"path":"fonts.bodySize","value":200}`, "type", "quotes")
	expectStatus(t, rec, http.StatusBadRequest)

	blob, err := api.Repos.Settings.Load()
	if err != nil {
		t.Fatal(err)
	}
	b, ok := blob.Bucket(pdfsettings.Quotes)
	if !ok || b.Colors.Accent != "#123456" || b.Fonts.BodySize == 200 {
		t.Errorf("stored quotes bucket = %+v", b.Fonts)
	}
}
