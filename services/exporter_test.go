package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docportal/pdfsettings"
	"docportal/testhelpers"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{" xlsx ", FormatXLSX, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		docType pdfsettings.DocumentType
		number  string
		format  Format
		want    string
	}{
		{pdfsettings.Quotes, "Q-1001", FormatPDF, "QUO_Q-1001.pdf"},
		{pdfsettings.Invoices, "INV 2026/07", FormatXLSX, "INV_INV-2026-07.xlsx"},
		{pdfsettings.Orders, "  ", FormatPDF, "ORD_document.pdf"},
		{pdfsettings.Warranties, `W:"1"`, FormatPDF, "WAR_W--1-.pdf"},
		{pdfsettings.SiteVisits, "SV-9", FormatPDF, "SV_SV-9.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Filename(tt.docType, tt.number, tt.format); got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	s := pdfsettings.Default(pdfsettings.Invoices)
	if got := Title(pdfsettings.Invoices, s); got != "TAX INVOICE" {
		t.Errorf("Title = %q", got)
	}
	s.DocumentTitle.Text = "PRO FORMA"
	if got := Title(pdfsettings.Invoices, s); got != "PRO FORMA" {
		t.Errorf("override = %q", got)
	}
}

func TestExport_PDFPerType(t *testing.T) {
	renders := &memoryRenderLog{}
	x := newTestExporter(WithLogoSource(failingLogos{}), WithRenderLog(renders))
	ctx := context.Background()

	entry := []struct {
		name string
		fn   func() (Artifact, error)
		want string
	}{
		{"quote", func() (Artifact, error) { return x.ExportQuote(ctx, testhelpers.SampleRecord()) }, "QUO_Q-1001.pdf"},
		{"invoice", func() (Artifact, error) { return x.ExportInvoice(ctx, testhelpers.SampleRecord()) }, "INV_Q-1001.pdf"},
		{"order", func() (Artifact, error) { return x.ExportOrder(ctx, testhelpers.SampleRecord()) }, "ORD_Q-1001.pdf"},
		{"warranty", func() (Artifact, error) { return x.ExportWarranty(ctx, testhelpers.SampleRecord()) }, "WAR_Q-1001.pdf"},
		{"site visit", func() (Artifact, error) { return x.ExportSiteVisit(ctx, testhelpers.SampleRecord()) }, "SV_Q-1001.pdf"},
	}
	for _, tt := range entry {
		t.Run(tt.name, func(t *testing.T) {
			art, err := tt.fn()
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
				t.Error("artifact is not a PDF")
			}
			if art.Filename != tt.want {
				t.Errorf("filename = %q, want %q", art.Filename, tt.want)
			}
			if art.ContentType != "application/pdf" || art.Pages < 1 {
				t.Errorf("unexpected artifact %q / %d pages", art.ContentType, art.Pages)
			}
			if art.Payload == nil {
				t.Fatal("expected verification payload")
			}
		})
	}

	if len(renders.entries) != len(entry) {
		t.Fatalf("render log has %d entries, want %d", len(renders.entries), len(entry))
	}
	first := renders.entries[0]
	if first.DocType != "quotes" || first.RecordID != "rec123" || first.IssuedAt == "" || len(first.Payload) == 0 {
		t.Errorf("unexpected render entry %+v", first)
	}
}

func TestExport_PayloadMatchesRecord(t *testing.T) {
	x := newTestExporter()
	art, err := x.Export(context.Background(), pdfsettings.Invoices, testhelpers.SampleRecord(), FormatPDF)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	p := art.Payload
	if p.Type != pdfsettings.Invoices || p.Number != "Q-1001" || p.ID != "rec123" || p.Total != "6831.00" {
		t.Errorf("payload = %+v", p)
	}
	if p.URL != "https://portal.example/verify/invoices/rec123" {
		t.Errorf("url = %q", p.URL)
	}
}

func TestExport_CorruptLogoStillRenders(t *testing.T) {
	renders := &memoryRenderLog{}
	x := newTestExporter(WithLogoSource(corruptLogos{}), WithRenderLog(renders))
	art, err := x.ExportQuote(context.Background(), testhelpers.SampleRecord())
	if err != nil {
		t.Fatalf("ExportQuote: %v", err)
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
		t.Error("artifact is not a PDF")
	}
	if art.Payload == nil {
		t.Error("verification code should survive a broken logo")
	}
	if len(renders.entries) != 1 || len(renders.entries[0].Payload) == 0 {
		t.Errorf("render log = %+v", renders.entries)
	}
}

func TestExport_SlowLogoDoesNotBlock(t *testing.T) {
	x := newTestExporter(WithLogoSource(blockingLogos{}), WithAssetTimeout(50*time.Millisecond))

	start := time.Now()
	art, err := x.ExportQuote(context.Background(), testhelpers.SampleRecord())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("export waited too long for the logo")
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
		t.Error("artifact is not a PDF")
	}
}

func TestExport_Rejects(t *testing.T) {
	x := newTestExporter()
	ctx := context.Background()

	missing := testhelpers.SampleRecord()
	missing.Number = ""

	if _, err := x.Export(ctx, "receipts", testhelpers.SampleRecord(), FormatPDF); !errors.Is(err, pdfsettings.ErrUnknownDocumentType) {
		t.Errorf("unknown type: %v", err)
	}
	if _, err := x.Export(ctx, pdfsettings.Quotes, testhelpers.SampleRecord(), "docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown format: %v", err)
	}
	var verrs validation.Errors
	if _, err := x.Export(ctx, pdfsettings.Quotes, missing, FormatPDF); !errors.As(err, &verrs) {
		t.Errorf("invalid record: %v", err)
	}
}

func TestExporter_SettingsHonourGlobal(t *testing.T) {
	quotes := pdfsettings.Default(pdfsettings.Quotes)
	quotes.Colors.Accent = "#111111"
	global := pdfsettings.Default(pdfsettings.Quotes)
	global.Colors.Accent = "#222222"

	x := NewExporter(staticSettings{blob: pdfsettings.DocumentPDFSettings{
		Quotes: &quotes,
		Global: &pdfsettings.GlobalSettings{UseGlobalDefaults: true, DefaultSettings: global},
	}}, nil, testCompany(), WithLogger(testhelpers.QuietLogger()))

	if got := x.Settings(pdfsettings.Quotes).Colors.Accent; got != "#222222" {
		t.Errorf("accent = %q, want global", got)
	}
	if got := x.Settings(pdfsettings.Orders).Colors.Accent; got != "#222222" {
		t.Errorf("orders accent = %q, want global", got)
	}

	// without a codec the document renders without a verification block
	art, err := x.ExportQuote(context.Background(), testhelpers.SampleRecord())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if art.Payload != nil {
		t.Error("no codec means no payload")
	}
}

func TestBatchExport(t *testing.T) {
	x := newTestExporter(WithConcurrency(2))

	bad := testhelpers.SampleRecord()
	bad.ID = ""
	reqs := []BatchRequest{
		{Type: pdfsettings.Quotes, Record: testhelpers.SampleRecord()},
		{Type: pdfsettings.Invoices, Record: bad},
		{Type: pdfsettings.Orders, Record: testhelpers.SampleRecord(), Format: FormatXLSX},
		{Type: "nope", Record: testhelpers.SampleRecord()},
	}

	results := x.BatchExport(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
	if results[0].Err != nil || results[0].Artifact.Filename != "QUO_Q-1001.pdf" {
		t.Errorf("result 0: %+v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("result 1 should fail validation")
	}
	if results[2].Err != nil || !strings.HasSuffix(results[2].Artifact.Filename, ".xlsx") {
		t.Errorf("result 2: %v %q", results[2].Err, results[2].Artifact.Filename)
	}
	if !errors.Is(results[3].Err, pdfsettings.ErrUnknownDocumentType) {
		t.Errorf("result 3: %v", results[3].Err)
	}
}

func TestBatchExport_CancelledContext(t *testing.T) {
	x := newTestExporter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := x.BatchExport(ctx, []BatchRequest{{Type: pdfsettings.Quotes, Record: testhelpers.SampleRecord()}})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results[0].Err)
	}
}
