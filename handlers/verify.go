package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"docportal/pdfsettings"
	"docportal/repository"
	"docportal/verify"
)

// VerifyPage is the data shown on the public confirmation page.
type VerifyPage struct {
	Found     bool
	TypeLabel string
	Number    string
	Date      string
	Total     string
	Filename  string
	Pages     int
	Rendered  time.Time
	Signed    bool
}

// HandleVerifyPage shows whether a scanned document was issued by the portal.
func HandleVerifyPage(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		page := VerifyPage{}
		status := http.StatusNotFound

		t, err := pathType(e)
		if err == nil {
			page.TypeLabel = t.Label()
			entry, err := api.Repos.Renders.Latest(string(t), e.Request.PathValue("id"))
			switch {
			case err == nil:
				page = pageFromEntry(t, entry)
				status = http.StatusOK
			case !errors.Is(err, repository.ErrNotFound):
				api.logger().WithError(err).Error("verify: failed to load render log")
				status = http.StatusInternalServerError
			}
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(status)
		return verifyPageComponent(page).Render(e.Request.Context(), e.Response)
	}
}

func pageFromEntry(t pdfsettings.DocumentType, entry repository.RenderEntry) VerifyPage {
	page := VerifyPage{
		Found:     true,
		TypeLabel: t.Label(),
		Number:    entry.Number,
		Filename:  entry.Filename,
		Pages:     entry.PageCount,
		Rendered:  entry.Rendered,
		Signed:    entry.Signature != "",
	}
	var p verify.Payload
	if len(entry.Payload) > 0 && json.Unmarshal(entry.Payload, &p) == nil {
		page.Date = p.Date
		page.Total = p.Total
	}
	return page
}

func verifyPageComponent(p VerifyPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Document not found"
		if p.Found {
			title = p.TypeLabel + " " + p.Number
		}
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title></head><body class="verify">`,
			templ.EscapeString(title)); err != nil {
			return err
		}

		if !p.Found {
			_, err := io.WriteString(w, `<main><h1>Document not found</h1><p>No issued document matches this verification link.</p></main></body></html>`)
			return err
		}

		rows := [][2]string{
			{"Document", p.TypeLabel},
			{"Number", p.Number},
			{"Date", p.Date},
			{"Total", p.Total},
			{"Pages", fmt.Sprint(p.Pages)},
			{"Issued", p.Rendered.UTC().Format("2006-01-02 15:04 MST")},
		}
		if p.Signed {
			rows = append(rows, [2]string{"Signature", "present"})
		}

		if _, err := io.WriteString(w, `<main><h1>Verified document</h1><dl>`); err != nil {
			return err
		}
		for _, r := range rows {
			if r[1] == "" {
				continue
			}
			if _, err := fmt.Fprintf(w, `<dt>%s</dt><dd>%s</dd>`, templ.EscapeString(r[0]), templ.EscapeString(r[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</dl></main></body></html>`)
		return err
	})
}

type verifyRequest struct {
	Payload string `json:"payload"`
}

// VerifyResult is the answer to a scanned payload check.
type VerifyResult struct {
	Valid    bool                     `json:"valid"`
	Reason   string                   `json:"reason,omitempty"`
	Type     pdfsettings.DocumentType `json:"type"`
	Number   string                   `json:"number"`
	ID       string                   `json:"id"`
	Pages    int                      `json:"pages,omitempty"`
	Rendered *time.Time               `json:"rendered,omitempty"`
}

// HandleVerifyPayload checks scanned QR text: the signature when signing is
// enabled, then that the render log holds an identical payload.
func HandleVerifyPayload(api *API) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req verifyRequest
		if err := readJSON(e, &req); err != nil {
			return api.fail(e, err)
		}
		p, err := verify.Decode(req.Payload)
		if err != nil {
			return api.fail(e, err)
		}

		res := VerifyResult{Type: p.Type, Number: p.Number, ID: p.ID}
		log := api.logger().WithFields(logrus.Fields{"doc_type": p.Type, "number": p.Number})

		if err := api.Codec.Verify(p); err != nil {
			log.Warn("verify: signature mismatch")
			res.Reason = "signature mismatch"
			return e.JSON(http.StatusOK, res)
		}

		entry, err := api.Repos.Renders.FindIssued(string(p.Type), p.ID, p.Timestamp)
		if errors.Is(err, repository.ErrNotFound) {
			res.Reason = "not issued"
			return e.JSON(http.StatusOK, res)
		}
		if err != nil {
			return api.fail(e, err)
		}

		var issued verify.Payload
		if err := json.Unmarshal(entry.Payload, &issued); err != nil || issued != p {
			log.Warn("verify: payload differs from issued document")
			res.Reason = "payload does not match the issued document"
			return e.JSON(http.StatusOK, res)
		}

		res.Valid = true
		res.Pages = entry.PageCount
		res.Rendered = &entry.Rendered
		return e.JSON(http.StatusOK, res)
	}
}
