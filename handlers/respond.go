package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"docportal/pdfsettings"
	"docportal/pdftemplates"
	"docportal/repository"
	"docportal/services"
	"docportal/verify"
)

// maxBodyBytes bounds JSON bodies and uploaded files.
const maxBodyBytes = 4 << 20

var errInvalidInput = errors.New("invalid input")

// API holds what the JSON handlers need.
type API struct {
	Repos     *repository.Repos
	Templates *pdftemplates.Store
	Exporter  *services.Exporter
	Codec     *verify.Codec
	Log       logrus.FieldLogger
	Now       func() time.Time
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *API) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	return logrus.StandardLogger()
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields,omitempty"`
}

func decodeBody(e *core.RequestEvent, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(e.Response, e.Request.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// readJSON decodes the request body into dst. Unknown keys are rejected.
func readJSON(e *core.RequestEvent, dst any) error {
	if err := decodeBody(e, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return nil
}

// readOptionalJSON is readJSON that accepts an empty body.
func readOptionalJSON(e *core.RequestEvent, dst any) error {
	err := decodeBody(e, dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %v", errInvalidInput, err)
}

func readBody(e *core.RequestEvent) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(e.Response, e.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return data, nil
}

func statusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.Is(err, pdftemplates.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pdftemplates.ErrSystemTemplate):
		return http.StatusForbidden
	case errors.As(err, &verrs),
		errors.Is(err, errInvalidInput),
		errors.Is(err, pdftemplates.ErrEmptyName),
		errors.Is(err, pdftemplates.ErrScopeMismatch),
		errors.Is(err, pdftemplates.ErrImmutableField),
		errors.Is(err, pdftemplates.ErrUnknownScope),
		errors.Is(err, pdftemplates.ErrInvalidFile),
		errors.Is(err, pdfsettings.ErrUnknownDocumentType),
		errors.Is(err, pdfsettings.ErrUnknownPath),
		errors.Is(err, pdfsettings.ErrInvalidFile),
		errors.Is(err, services.ErrUnsupportedFormat),
		errors.Is(err, verify.ErrMalformed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body. Validation failures carry the
// per-field messages so the editor can show them inline.
func (a *API) fail(e *core.RequestEvent, err error) error {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Error = "validation failed"
		body.Fields = verrs
	}
	if status == http.StatusInternalServerError {
		a.logger().WithError(err).WithField("path", e.Request.URL.Path).Error("request failed")
		body.Error = "internal error"
	}
	if isHTMX(e) {
		SetToast(e, "error", body.Error)
		e.Response.Header().Set("HX-Reswap", "none")
	}
	return e.JSON(status, body)
}

// download writes data as an attachment.
func download(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(data)
	return err
}
