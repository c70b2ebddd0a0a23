package layout

import (
	"time"

	"github.com/sirupsen/logrus"

	"docportal/document"
	"docportal/pdfsettings"
)

// Input is everything one render needs besides the settings.
type Input struct {
	Type         pdfsettings.DocumentType
	Title        string
	DetailsLabel string
	PartyLabel   string
	Record       document.Record
	Company      document.Company
	// Logo and Verification are optional; nil omits the element.
	Logo                *Image
	Verification        *Image
	VerificationCaption string
	TermsOnNewPage      bool
	GeneratedAt         time.Time
}

type palette struct {
	headerBg   RGB
	headerText RGB
	altRow     RGB
	border     RGB
	accent     RGB
	text       RGB
	muted      RGB
}

// Engine lays out one document. It holds the page cursor, so every render
// needs its own instance.
type Engine struct {
	s   pdfsettings.PDFSettings
	m   Measurer
	log logrus.FieldLogger

	colors       palette
	headerFamily string
	bodyFamily   string

	doc    *Document
	page   *Page
	y      float64
	top    float64
	bottom float64
	left   float64
	width  float64
}

// NewEngine clamps s into its valid ranges and resolves fonts and colors,
// falling back to Helvetica and the built-in palette where needed.
func NewEngine(s pdfsettings.PDFSettings, m Measurer, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if m == nil {
		m = NewMeasurer()
	}
	s = s.Clamp()
	e := &Engine{s: s, m: m, log: log}

	var ok bool
	if e.headerFamily, ok = ResolveFamily(s.Fonts.HeaderFont); !ok {
		log.WithField("font", s.Fonts.HeaderFont).Debug("layout: unknown header font, using Helvetica")
	}
	if e.bodyFamily, ok = ResolveFamily(s.Fonts.BodyFont); !ok {
		log.WithField("font", s.Fonts.BodyFont).Debug("layout: unknown body font, using Helvetica")
	}

	c := s.Colors
	e.colors = palette{
		headerBg:   colorOr(c.TableHeaderBg, RGB{31, 58, 95}),
		headerText: colorOr(c.TableHeaderText, white),
		altRow:     colorOr(c.AlternateRow, RGB{243, 246, 250}),
		border:     colorOr(c.TableBorder, RGB{208, 215, 226}),
		accent:     colorOr(c.Accent, RGB{43, 108, 176}),
		text:       colorOr(c.PrimaryText, RGB{26, 32, 44}),
		muted:      colorOr(c.SecondaryText, RGB{74, 85, 104}),
	}

	l := s.Layout
	e.top = l.MarginTop
	e.bottom = min(PageHeight-l.FooterHeight-SafetyMargin, PageHeight-l.MarginBottom)
	e.left = l.MarginLeft
	e.width = PageWidth - l.MarginLeft - l.MarginRight
	return e
}

// Settings returns the clamped settings the engine lays out with.
func (e *Engine) Settings() pdfsettings.PDFSettings { return e.s.Clone() }

// Render lays out the whole document: flow content first, then the footer
// and watermark pass over every page, then the verification block on the
// final page.
func (e *Engine) Render(in Input) *Document {
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	e.doc = &Document{
		Title:         in.Title,
		ContentBottom: e.bottom,
		FooterTop:     PageHeight - e.s.Layout.FooterHeight,
	}
	e.newPage()

	e.drawHeader(in)
	e.drawTitle(in)
	e.drawInfoBoxes(in)
	if e.s.Sections.ShowItemsTable {
		e.drawTable(BuildTable(in.Record.Items, e.s.Table, e.s.Fonts))
	}
	if e.s.Sections.ShowTotals && in.Record.Totals != nil {
		e.drawTotals(TotalsLines(*in.Record.Totals, currencyOf(in)))
	}
	e.drawRemarks(in)
	e.drawTerms(in)

	verification := e.placeVerification(in)
	e.finalize(in)
	if len(verification) > 0 {
		for _, op := range verification {
			e.page.add(op)
		}
		e.doc.VerificationPlaced = true
	}
	return e.doc
}

func (e *Engine) newPage() {
	e.page = &Page{Number: len(e.doc.Pages) + 1}
	e.doc.Pages = append(e.doc.Pages, e.page)
	e.y = e.top
}

// ensure starts a new page when a block of height h would cross the content
// bottom. A fresh page is never abandoned.
func (e *Engine) ensure(h float64) {
	if e.y+h > e.bottom && e.y > e.top {
		e.newPage()
	}
}

func (e *Engine) gap() {
	e.y += e.s.Layout.SectionSpacing
}

func (e *Engine) bodyFont(style string, size float64) Font {
	return Font{Family: e.bodyFamily, Style: style, Size: size}
}

func (e *Engine) text(x, y, w float64, s string, f Font, c RGB, align pdfsettings.Alignment) {
	e.page.add(TextOp{
		Layer: LayerContent,
		X:     x, Y: y, W: w, H: LineHeight(f.Size),
		Text:  Fit(e.m, s, w, f),
		Font:  f,
		Color: c,
		Align: align,
	})
}

func currencyOf(in Input) string {
	if in.Record.Currency != "" {
		return in.Record.Currency
	}
	return in.Company.Currency
}
