package handlers

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"
)

// SetToast sets the HX-Trigger response header so the settings editor shows
// a toast. An existing HX-Trigger object is kept and the toast merged into it.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			logrus.WithError(err).Warn("toast: existing HX-Trigger is not valid JSON, overwriting")
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = map[string]string{
		"message": message,
		"type":    toastType,
	}

	data, err := json.Marshal(trigger)
	if err != nil {
		logrus.WithError(err).Error("toast: failed to marshal HX-Trigger JSON")
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))
}

// isHTMX reports whether the request came from the editor page.
func isHTMX(e *core.RequestEvent) bool {
	return e.Request != nil && e.Request.Header.Get("HX-Request") == "true"
}

// toastIfHTMX shows a success toast for editor requests only.
func toastIfHTMX(e *core.RequestEvent, message string) {
	if isHTMX(e) {
		SetToast(e, "success", message)
	}
}
