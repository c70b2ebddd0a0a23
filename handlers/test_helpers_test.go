package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"docportal/document"
	"docportal/pdftemplates"
	"docportal/repository"
	"docportal/services"
	"docportal/testhelpers"
	"docportal/verify"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// newTestAPI wires every handler dependency against a fresh test app.
// Payloads are signed so verification checks the signature path.
func newTestAPI(t *testing.T) *API {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	log := testhelpers.QuietLogger()
	repos := repository.New(app, log)
	codec := verify.NewCodec("https://portal.example", verify.WithSecret("test-secret"))
	company := document.Company{Name: "Gulf Glass Works", Currency: "SAR"}

	return &API{
		Repos:     repos,
		Templates: pdftemplates.NewStore(repos, log),
		Exporter: services.NewExporter(repos.Settings, codec, company,
			services.WithRenderLog(repos.Renders),
			services.WithLogger(log)),
		Codec: codec,
		Log:   log,
		Now:   func() time.Time { return testNow },
	}
}

// call runs handler with an optional body and path values given as
// alternating name, value pairs.
func call(t *testing.T, api *API, handler func(*core.RequestEvent) error, method, target, body string, path ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(path); i += 2 {
		req.SetPathValue(path[i], path[i+1])
	}
	return serve(t, api, handler, req)
}

func serve(t *testing.T, api *API, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(api.Repos.App(), req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// newHTMXRequest builds a request as sent by the settings editor page.
func newHTMXRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
