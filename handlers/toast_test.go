package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"docportal/pdfsettings"
	"docportal/pdftemplates"
	"docportal/testhelpers"
)

func showToast(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	var toast map[string]string
	if err := json.Unmarshal(parsed["showToast"], &toast); err != nil {
		t.Fatalf("showToast is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		name      string
		toastType string
		message   string
	}{
		{"success", "success", "Template saved"},
		{"error", "error", "Template not found"},
		{"quotes", "info", `Template "Ocean" applied`},
		{"markup", "info", `<script>alert("x")</script>`},
		{"unicode", "success", "Saved \u2714"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Response = rec

			SetToast(e, tt.toastType, tt.message)

			toast := showToast(t, rec)
			if toast["type"] != tt.toastType || toast["message"] != tt.message {
				t.Errorf("toast = %v", toast)
			}
		})
	}
}

func TestSetToast_MergesWithExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"settingsChanged":{"type":"quotes"}}`)

	SetToast(e, "success", "Copied settings")

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatal(err)
	}
	if string(parsed["settingsChanged"]) != `{"type":"quotes"}` {
		t.Errorf("existing event lost: %s", parsed["settingsChanged"])
	}
	if showToast(t, rec)["message"] != "Copied settings" {
		t.Error("toast missing after merge")
	}
}

func TestSetToast_OverwritesInvalidExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "settingsChanged")

	SetToast(e, "error", "Overwritten")

	if showToast(t, rec)["message"] != "Overwritten" {
		t.Error("expected toast after overwriting invalid header")
	}
}

func TestToastIfHTMX(t *testing.T) {
	tests := []struct {
		name string
		req  *http.Request
		want bool
	}{
		{"plain", httptest.NewRequest(http.MethodGet, "/", nil), false},
		{"htmx", newHTMXRequest(http.MethodGet, "/", nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Request = tt.req
			e.Response = rec

			toastIfHTMX(e, "Saved")

			if got := rec.Header().Get("HX-Trigger") != ""; got != tt.want {
				t.Errorf("toast set = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFail_HTMXRequestGetsErrorToast(t *testing.T) {
	api := &API{Log: testhelpers.QuietLogger()}
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = newHTMXRequest(http.MethodPut, "/", nil)
	e.Response = rec

	if err := api.fail(e, pdftemplates.ErrSystemTemplate); err != nil {
		t.Fatalf("fail returned error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected HX-Reswap: none")
	}
	var parsed map[string]map[string]string
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("failed to parse HX-Trigger JSON: %v", err)
	}
	if parsed["showToast"]["type"] != "error" {
		t.Errorf("expected error toast, got %v", parsed["showToast"])
	}
}

func TestFail_PlainRequestHasNoToast(t *testing.T) {
	api := &API{Log: testhelpers.QuietLogger()}
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	e.Response = rec

	api.fail(e, errors.New("disk on fire"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Trigger") != "" {
		t.Error("toast must only be set for HTMX requests")
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Error("internal error details must not leak")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", pdftemplates.ErrNotFound, http.StatusNotFound},
		{"system", pdftemplates.ErrSystemTemplate, http.StatusForbidden},
		{"scope mismatch", pdftemplates.ErrScopeMismatch, http.StatusBadRequest},
		{"wrapped type", fmt.Errorf("x: %w", pdfsettings.ErrUnknownDocumentType), http.StatusBadRequest},
		{"validation", validation.Errors{"name": errors.New("required")}, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
