package services

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"docportal/document"
	"docportal/layout"
	"docportal/pdfsettings"
	"docportal/repository"
	"docportal/testhelpers"
	"docportal/verify"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

type staticSettings struct {
	blob pdfsettings.DocumentPDFSettings
}

func (s staticSettings) LoadOrDefault() pdfsettings.DocumentPDFSettings { return s.blob }

type failingLogos struct{}

func (failingLogos) Load(context.Context, string) (*layout.Image, error) {
	return nil, errors.New("connection refused")
}

// corruptLogos hands back bytes no PDF surface can decode.
type corruptLogos struct{}

func (corruptLogos) Load(context.Context, string) (*layout.Image, error) {
	return &layout.Image{Name: "logo", Data: []byte("<html>not found</html>"), Width: 40, Height: 20}, nil
}

// blockingLogos waits for the context to expire.
type blockingLogos struct{}

func (blockingLogos) Load(ctx context.Context, _ string) (*layout.Image, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type memoryRenderLog struct {
	mu      sync.Mutex
	entries []repository.RenderEntry
}

func (m *memoryRenderLog) Append(e repository.RenderEntry) (repository.RenderEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return e, nil
}

func testCompany() document.Company {
	return document.Company{
		Name:     "Glassworks Co.",
		Address:  "Industrial Area, Riyadh",
		Phone:    "+966 11 000 0000",
		Currency: "SAR",
		LogoURL:  "https://example.invalid/logo.png",
	}
}

func newTestExporter(opts ...Option) *Exporter {
	codec := verify.NewCodec("https://portal.example")
	opts = append([]Option{WithLogger(testhelpers.QuietLogger())}, opts...)
	return NewExporter(staticSettings{}, codec, testCompany(), opts...)
}
