package handlers

import (
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"docportal/document"
	"docportal/services"
)

// HandleDocumentExport renders the posted record with the stored settings
// of the type in the path. ?format= selects pdf (default) or xlsx.
func HandleDocumentExport(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		format, err := services.ParseFormat(e.Request.URL.Query().Get("format"))
		if err != nil {
			return api.fail(e, err)
		}
		var rec document.Record
		if err := readJSON(e, &rec); err != nil {
			return api.fail(e, err)
		}

		art, err := api.Exporter.Export(e.Request.Context(), t, rec, format)
		if err != nil {
			return api.fail(e, err)
		}
		if art.Pages > 0 {
			e.Response.Header().Set("X-Page-Count", strconv.Itoa(art.Pages))
		}
		return download(e, art.ContentType, art.Filename, art.Data)
	}
}
