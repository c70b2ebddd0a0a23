package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"docportal/pdfsettings"
	"docportal/pdftemplates"
	"docportal/services"
)

func views[T pdftemplates.Template](ts []T) []pdftemplates.View {
	out := make([]pdftemplates.View, len(ts))
	for i, t := range ts {
		out[i] = pdftemplates.ToView(t)
	}
	return out
}

// HandleTemplateList lists templates, optionally narrowed by ?q= and ?scope=.
func HandleTemplateList(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		list, err := api.Templates.List(pdftemplates.Filter{
			Query: q.Get("q"),
			Scope: pdftemplates.Scope(q.Get("scope")),
		})
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusOK, views(list))
	}
}

// HandleTemplateSave creates a user template.
func HandleTemplateSave(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in pdftemplates.SaveInput
		if err := readJSON(e, &in); err != nil {
			return api.fail(e, err)
		}
		t, err := api.Templates.Save(in)
		if err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, fmt.Sprintf("Template %q saved", t.Info().Name))
		return e.JSON(http.StatusCreated, pdftemplates.ToView(t))
	}
}

// HandleTemplateUpdate applies a partial update to a user template.
func HandleTemplateUpdate(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p pdftemplates.Patch
		if err := readJSON(e, &p); err != nil {
			return api.fail(e, err)
		}
		t, err := api.Templates.Update(e.Request.PathValue("id"), p)
		if err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, "Template updated")
		return e.JSON(http.StatusOK, pdftemplates.ToView(t))
	}
}

func HandleTemplateDelete(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := api.Templates.Delete(e.Request.PathValue("id")); err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, "Template deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

type applyRequest struct {
	Target string `json:"target"`
}

// HandleTemplateApply copies a template's settings into the target type.
func HandleTemplateApply(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req applyRequest
		if err := readJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		target, err := pdfsettings.ParseDocumentType(req.Target)
		if err != nil {
			return api.fail(e, err)
		}
		blob, err := api.Templates.Apply(e.Request.PathValue("id"), target)
		if err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, fmt.Sprintf("Template applied to %s", target.Label()))
		return e.JSON(http.StatusOK, effective(target, blob))
	}
}

type duplicateRequest struct {
	Name string `json:"name"`
}

// HandleTemplateDuplicate copies any template, system ones included, into a
// new user template. The body is optional.
func HandleTemplateDuplicate(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req duplicateRequest
		if err := readOptionalJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		t, err := api.Templates.Duplicate(e.Request.PathValue("id"), req.Name)
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusCreated, pdftemplates.ToView(t))
	}
}

func HandleTemplateSetDefault(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := api.Templates.SetDefault(e.Request.PathValue("id"))
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusOK, pdftemplates.ToView(t))
	}
}

// HandleTemplateSheet downloads a one-page PDF summary of a template.
func HandleTemplateSheet(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := api.Templates.Get(e.Request.PathValue("id"))
		if err != nil {
			return api.fail(e, err)
		}
		info := t.Info()
		data, err := services.GenerateTemplateSheet(services.SheetInput{
			Name:        info.Name,
			Description: info.Description,
			Scope:       string(info.Scope),
			System:      pdftemplates.IsSystem(t),
			Settings:    info.Settings,
			GeneratedAt: api.now(),
		})
		if err != nil {
			return api.fail(e, err)
		}
		return download(e, "application/pdf", fmt.Sprintf("template-%s.pdf", info.ID), data)
	}
}

// HandleTemplateExport downloads templates as JSON. ?ids=a,b limits the
// export; without it every template is included.
func HandleTemplateExport(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var ids []string
		for _, id := range strings.Split(e.Request.URL.Query().Get("ids"), ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		data, err := api.Templates.Export(ids, api.now())
		if err != nil {
			return api.fail(e, err)
		}
		return download(e, "application/json", "pdf-templates.json", data)
	}
}

// HandleTemplateImport saves every template in an uploaded export file.
func HandleTemplateImport(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := readBody(e)
		if err != nil {
			return api.fail(e, err)
		}
		imported, err := api.Templates.Import(data)
		if err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, fmt.Sprintf("Imported %d templates", len(imported)))
		return e.JSON(http.StatusCreated, views(imported))
	}
}
