// Package services turns document records into downloadable artifacts using
// the stored style settings.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"docportal/document"
	"docportal/layout"
	"docportal/pdfsettings"
	"docportal/render"
	"docportal/repository"
	"docportal/verify"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "pdf" (the default when empty) and "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Artifact is one exported file.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
	// Payload is the verification payload embedded in a PDF; nil for xlsx
	// or when the QR code could not be produced.
	Payload *verify.Payload
}

// SettingsSource supplies the stored settings blob. Implementations fall
// back to an empty blob on read failure.
type SettingsSource interface {
	LoadOrDefault() pdfsettings.DocumentPDFSettings
}

type LogoSource interface {
	Load(ctx context.Context, src string) (*layout.Image, error)
}

type RenderLog interface {
	Append(e repository.RenderEntry) (repository.RenderEntry, error)
}

const (
	DefaultAssetTimeout = 5 * time.Second
	DefaultConcurrency  = 4
	qrPixels            = verify.DefaultQRPixels
)

// Exporter renders records. It holds no per-render state; each call builds
// its own layout engine and measurer, so calls may run concurrently.
type Exporter struct {
	settings     SettingsSource
	codec        *verify.Codec
	company      document.Company
	logos        LogoSource
	renders      RenderLog
	log          logrus.FieldLogger
	assetTimeout time.Duration
	concurrency  int
	now          func() time.Time
}

type Option func(*Exporter)

func WithLogoSource(l LogoSource) Option { return func(x *Exporter) { x.logos = l } }

func WithRenderLog(r RenderLog) Option { return func(x *Exporter) { x.renders = r } }

func WithLogger(l logrus.FieldLogger) Option { return func(x *Exporter) { x.log = l } }

func WithAssetTimeout(d time.Duration) Option {
	return func(x *Exporter) {
		if d > 0 {
			x.assetTimeout = d
		}
	}
}

func WithConcurrency(n int) Option {
	return func(x *Exporter) {
		if n > 0 {
			x.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option { return func(x *Exporter) { x.now = now } }

func NewExporter(settings SettingsSource, codec *verify.Codec, company document.Company, opts ...Option) *Exporter {
	x := &Exporter{
		settings:     settings,
		codec:        codec,
		company:      company,
		log:          logrus.StandardLogger(),
		assetTimeout: DefaultAssetTimeout,
		concurrency:  DefaultConcurrency,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

func (x *Exporter) ExportQuote(ctx context.Context, rec document.Record) (Artifact, error) {
	return x.Export(ctx, pdfsettings.Quotes, rec, FormatPDF)
}

func (x *Exporter) ExportInvoice(ctx context.Context, rec document.Record) (Artifact, error) {
	return x.Export(ctx, pdfsettings.Invoices, rec, FormatPDF)
}

func (x *Exporter) ExportOrder(ctx context.Context, rec document.Record) (Artifact, error) {
	return x.Export(ctx, pdfsettings.Orders, rec, FormatPDF)
}

func (x *Exporter) ExportWarranty(ctx context.Context, rec document.Record) (Artifact, error) {
	return x.Export(ctx, pdfsettings.Warranties, rec, FormatPDF)
}

func (x *Exporter) ExportSiteVisit(ctx context.Context, rec document.Record) (Artifact, error) {
	return x.Export(ctx, pdfsettings.SiteVisits, rec, FormatPDF)
}

// Settings returns the effective settings for t from the current store.
func (x *Exporter) Settings(t pdfsettings.DocumentType) pdfsettings.PDFSettings {
	var stored pdfsettings.DocumentPDFSettings
	if x.settings != nil {
		stored = x.settings.LoadOrDefault()
	}
	return pdfsettings.Resolve(t, stored)
}

// Export resolves the effective settings for t and renders rec in format f.
func (x *Exporter) Export(ctx context.Context, t pdfsettings.DocumentType, rec document.Record, f Format) (Artifact, error) {
	if !t.Valid() {
		return Artifact{}, fmt.Errorf("%w: %q", pdfsettings.ErrUnknownDocumentType, t)
	}
	if err := rec.Validate(); err != nil {
		return Artifact{}, err
	}
	s := x.Settings(t)

	switch f {
	case FormatPDF:
		return x.exportPDF(ctx, t, rec, s)
	case FormatXLSX:
		data, err := GenerateXLSX(t, rec, s, x.company)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{
			Filename:    Filename(t, rec.Number, FormatXLSX),
			ContentType: FormatXLSX.ContentType(),
			Data:        data,
		}, nil
	}
	return Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func (x *Exporter) exportPDF(ctx context.Context, t pdfsettings.DocumentType, rec document.Record, s pdfsettings.PDFSettings) (Artifact, error) {
	log := x.log.WithFields(logrus.Fields{"doc_type": t, "number": rec.Number})
	k := kinds[t]
	now := x.now()

	res := x.prepareResources(ctx, t, rec, s, log)

	engine := layout.NewEngine(s, layout.NewMeasurer(), log)
	doc := engine.Render(layout.Input{
		Type:           t,
		Title:          k.title,
		DetailsLabel:   k.detailsLabel,
		PartyLabel:     k.partyLabel,
		Record:         rec,
		Company:        x.company,
		Logo:           res.logo,
		Verification:   res.qr,
		TermsOnNewPage: k.termsOnNewPage,
		GeneratedAt:    now,
	})

	data, err := render.PDF(doc, render.Meta{
		Title:     fmt.Sprintf("%s %s", t.Label(), rec.Number),
		Author:    x.company.Name,
		Subject:   Title(t, s),
		CreatedAt: now,
		Log:       log,
	})
	if err != nil {
		return Artifact{}, err
	}

	art := Artifact{
		Filename:    Filename(t, rec.Number, FormatPDF),
		ContentType: FormatPDF.ContentType(),
		Data:        data,
		Pages:       doc.PageCount(),
	}
	if res.qr != nil && doc.VerificationPlaced {
		art.Payload = res.payload
	}
	x.logRender(t, rec, art, log)
	return art, nil
}

type resources struct {
	logo    *layout.Image
	qr      *layout.Image
	payload *verify.Payload
}

// prepareResources fetches the logo and encodes the verification QR code
// concurrently. Either may fail or time out; the document is then rendered
// without that element.
func (x *Exporter) prepareResources(ctx context.Context, t pdfsettings.DocumentType, rec document.Record, s pdfsettings.PDFSettings, log logrus.FieldLogger) resources {
	var res resources

	ctx, cancel := context.WithTimeout(ctx, x.assetTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if s.Logo.ShowLogo && x.company.LogoURL != "" && x.logos != nil {
		g.Go(func() error {
			img, err := x.logos.Load(gctx, x.company.LogoURL)
			if err != nil {
				log.WithError(err).Warn("logo unavailable, rendering without it")
				return nil
			}
			res.logo = img
			return nil
		})
	}

	if x.codec != nil {
		g.Go(func() error {
			p := x.codec.Build(t, rec.Number, rec.ID, rec.Total(), rec.Date)
			png, err := verify.QRCode(p, qrPixels)
			if err != nil {
				log.WithError(err).Warn("verification code unavailable, rendering without it")
				return nil
			}
			res.payload = &p
			res.qr = &layout.Image{Name: "verification", Data: png, Width: qrPixels, Height: qrPixels}
			return nil
		})
	}

	_ = g.Wait()
	return res
}

// logRender appends the render log entry. A failure here does not undo the
// artifact; it only means the verification page cannot find it.
func (x *Exporter) logRender(t pdfsettings.DocumentType, rec document.Record, art Artifact, log logrus.FieldLogger) {
	if x.renders == nil {
		return
	}
	entry := repository.RenderEntry{
		DocType:   string(t),
		RecordID:  rec.ID,
		Number:    rec.Number,
		PageCount: art.Pages,
		Filename:  art.Filename,
	}
	if art.Payload != nil {
		canonical, err := verify.Canonical(*art.Payload)
		if err == nil {
			entry.Payload = json.RawMessage(canonical)
		}
		entry.IssuedAt = art.Payload.Timestamp
		entry.Signature = art.Payload.Sig
	}
	if _, err := x.renders.Append(entry); err != nil {
		log.WithError(err).Error("failed to record render")
	}
}
