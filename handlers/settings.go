package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"docportal/pdfsettings"
	"docportal/repository"
)

// EffectiveSettings is what a document of one type renders with.
type EffectiveSettings struct {
	DocumentType pdfsettings.DocumentType `json:"documentType"`
	Source       pdfsettings.Source       `json:"source"`
	Settings     pdfsettings.PDFSettings  `json:"settings"`
}

func effective(t pdfsettings.DocumentType, blob pdfsettings.DocumentPDFSettings) EffectiveSettings {
	s, src := pdfsettings.ResolveWithSource(t, blob)
	return EffectiveSettings{DocumentType: t, Source: src, Settings: s}
}

func pathType(e *core.RequestEvent) (pdfsettings.DocumentType, error) {
	return pdfsettings.ParseDocumentType(e.Request.PathValue("type"))
}

// bucketOrDefault is the starting point for edits of one type: its stored
// bucket, or the built-in default when nothing is stored.
func bucketOrDefault(d pdfsettings.DocumentPDFSettings, t pdfsettings.DocumentType) pdfsettings.PDFSettings {
	if s, ok := d.Bucket(t); ok {
		return s
	}
	return pdfsettings.Default(t)
}

// updateSettings runs a read-modify-write of the settings blob in one
// transaction.
func (a *API) updateSettings(fn func(pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error)) (pdfsettings.DocumentPDFSettings, error) {
	var out pdfsettings.DocumentPDFSettings
	err := a.Repos.Transaction(func(tx *repository.Repos) error {
		var err error
		out, err = tx.Settings.Update(fn)
		return err
	})
	return out, err
}

// HandleSettingsGet returns the stored settings blob as saved.
func HandleSettingsGet(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		blob, err := api.Repos.Settings.Load()
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusOK, blob)
	}
}

// HandleSettingsEffective returns the resolved settings for one type.
func HandleSettingsEffective(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		blob, err := api.Repos.Settings.Load()
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusOK, effective(t, blob))
	}
}

// HandleSettingsReplace stores the posted settings as the bucket for a type.
func HandleSettingsReplace(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		var s pdfsettings.PDFSettings
		if err := readJSON(e, &s); err != nil {
			return api.fail(e, err)
		}
		if err := s.Validate(); err != nil {
			return api.fail(e, err)
		}

		blob, err := api.updateSettings(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			err := d.SetBucket(t, s)
			return d, err
		})
		if err != nil {
			return api.fail(e, err)
		}
		api.logger().WithField("doc_type", t).Info("pdf settings replaced")
		toastIfHTMX(e, "Settings saved")
		return e.JSON(http.StatusOK, effective(t, blob))
	}
}

type patchRequest struct {
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// HandleSettingsPatch changes one field of a type's settings, addressed by a
// dotted path such as "colors.accent".
func HandleSettingsPatch(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		var req patchRequest
		if err := readJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		if len(req.Value) == 0 {
			return api.fail(e, fmt.Errorf("%w: value is required", errInvalidInput))
		}

		blob, err := api.updateSettings(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			next, err := pdfsettings.SetPath(bucketOrDefault(d, t), req.Path, req.Value)
			if err != nil {
				return d, fmt.Errorf("%w: %w", errInvalidInput, err)
			}
			if err := next.Validate(); err != nil {
				return d, err
			}
			err = d.SetBucket(t, next)
			return d, err
		})
		if err != nil {
			return api.fail(e, err)
		}
		return e.JSON(http.StatusOK, effective(t, blob))
	}
}

type globalRequest struct {
	UseGlobalDefaults bool                     `json:"useGlobalDefaults"`
	DefaultSettings   *pdfsettings.PDFSettings `json:"defaultSettings"`
}

// HandleSettingsGlobal toggles the global override. Without defaultSettings
// the previously stored global settings are kept.
func HandleSettingsGlobal(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req globalRequest
		if err := readJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		if req.DefaultSettings != nil {
			if err := req.DefaultSettings.Validate(); err != nil {
				return api.fail(e, err)
			}
		}

		blob, err := api.updateSettings(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			g := pdfsettings.GlobalSettings{UseGlobalDefaults: req.UseGlobalDefaults}
			switch {
			case req.DefaultSettings != nil:
				g.DefaultSettings = req.DefaultSettings.Clone()
			case d.Global != nil:
				g.DefaultSettings = d.Global.DefaultSettings.Clone()
			default:
				g.DefaultSettings = pdfsettings.Default(pdfsettings.Quotes)
			}
			d.Global = &g
			return d, nil
		})
		if err != nil {
			return api.fail(e, err)
		}
		api.logger().WithField("enabled", req.UseGlobalDefaults).Info("global pdf settings updated")
		toastIfHTMX(e, "Global settings saved")
		return e.JSON(http.StatusOK, blob.Global)
	}
}

type copyRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// HandleSettingsCopy stores the effective settings of source as target's bucket.
func HandleSettingsCopy(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req copyRequest
		if err := readJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		source, err := pdfsettings.ParseDocumentType(req.Source)
		if err != nil {
			return api.fail(e, err)
		}
		target, err := pdfsettings.ParseDocumentType(req.Target)
		if err != nil {
			return api.fail(e, err)
		}

		blob, err := api.Templates.CopySettings(source, target)
		if err != nil {
			return api.fail(e, err)
		}
		toastIfHTMX(e, fmt.Sprintf("Copied %s settings to %s", source.Label(), target.Label()))
		return e.JSON(http.StatusOK, effective(target, blob))
	}
}

// HandleSettingsReset drops the stored bucket so the type renders with its
// built-in default again.
func HandleSettingsReset(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		blob, err := api.updateSettings(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			d.ClearBucket(t)
			return d, nil
		})
		if err != nil {
			return api.fail(e, err)
		}
		api.logger().WithField("doc_type", t).Info("pdf settings reset")
		toastIfHTMX(e, "Settings reset to default")
		return e.JSON(http.StatusOK, effective(t, blob))
	}
}

// HandleSettingsExport downloads the effective settings of a type as a file.
func HandleSettingsExport(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		blob, err := api.Repos.Settings.Load()
		if err != nil {
			return api.fail(e, err)
		}
		data, err := pdfsettings.Export(t, pdfsettings.Resolve(t, blob), api.now())
		if err != nil {
			return api.fail(e, err)
		}
		return download(e, "application/json", fmt.Sprintf("pdf-settings-%s.json", t), data)
	}
}

// HandleSettingsImport stores an uploaded settings file as the bucket for the
// type in the path. A file exported from another type may be imported.
func HandleSettingsImport(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		t, err := pathType(e)
		if err != nil {
			return api.fail(e, err)
		}
		data, err := readBody(e)
		if err != nil {
			return api.fail(e, err)
		}
		f, err := pdfsettings.Import(data)
		if err != nil {
			return api.fail(e, err)
		}

		blob, err := api.updateSettings(func(d pdfsettings.DocumentPDFSettings) (pdfsettings.DocumentPDFSettings, error) {
			err := d.SetBucket(t, f.Settings)
			return d, err
		})
		if err != nil {
			return api.fail(e, err)
		}
		api.logger().WithFields(logrus.Fields{"doc_type": t, "from": f.DocumentType}).Info("pdf settings imported")
		toastIfHTMX(e, "Settings imported")
		return e.JSON(http.StatusOK, effective(t, blob))
	}
}
