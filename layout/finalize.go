package layout

import (
	"fmt"
	"strings"

	"docportal/pdfsettings"
)

const (
	// MaxWatermarkOpacity caps the configured watermark opacity.
	MaxWatermarkOpacity = 0.3

	footerInset     = 2.0
	verificationQR  = 24.0
	timestampLayout = "2006-01-02 15:04"
)

// finalize runs once every page exists: it stamps the watermark beneath the
// content of each page and draws the footer band with "Page X of Y".
func (e *Engine) finalize(in Input) {
	total := len(e.doc.Pages)
	for i, p := range e.doc.Pages {
		if wm, ok := e.watermark(); ok {
			p.Ops = append([]Op{wm}, p.Ops...)
		}
		if e.s.Footer.ShowFooter {
			e.drawFooter(p, i+1, total, in)
		}
	}
}

func (e *Engine) watermark() (TextOp, bool) {
	w := e.s.Watermark
	text := strings.TrimSpace(w.Text)
	if !w.EnableWatermark || text == "" || w.Opacity <= 0 {
		return TextOp{}, false
	}
	f := Font{Family: e.headerFamily, Style: "B", Size: w.FontSize}
	tw := e.m.Width(text, f) + 2
	th := LineHeight(w.FontSize)
	return TextOp{
		Layer:    LayerWatermark,
		X:        (PageWidth - tw) / 2,
		Y:        (PageHeight - th) / 2,
		W:        tw,
		H:        th,
		Text:     text,
		Font:     f,
		Color:    e.colors.muted,
		Align:    pdfsettings.AlignCenter,
		Rotation: w.Rotation,
		Opacity:  min(w.Opacity, MaxWatermarkOpacity),
	}, true
}

type footerRow struct {
	kind  int
	left  string
	mid   string
	right string
}

const (
	rowText = iota
	rowContact
	rowMeta
)

func (e *Engine) drawFooter(p *Page, number, total int, in Input) {
	ft := e.s.Footer
	top := PageHeight - e.s.Layout.FooterHeight
	bandBottom := PageHeight - footerInset

	switch ft.Style {
	case pdfsettings.FooterGradient:
		step := e.width / gradientSteps
		for i := 0; i < gradientSteps; i++ {
			c := Mix(e.colors.accent, white, 0.7*float64(i)/float64(gradientSteps-1))
			p.add(RectOp{Layer: LayerFooter, X: e.left + float64(i)*step, Y: top, W: step + 0.2, H: 1.2, Fill: ptr(c)})
		}
	case pdfsettings.FooterBordered:
		p.add(RectOp{Layer: LayerFooter, X: e.left, Y: top, W: e.width, H: bandBottom - top,
			Radius: 1.5, Stroke: ptr(e.colors.accent), LineWidth: 0.4})
	default:
		p.add(LineOp{Layer: LayerFooter, X1: e.left, Y1: top, X2: e.left + e.width, Y2: top,
			Color: e.colors.border, Width: 0.3})
	}

	var rows []footerRow
	if t := strings.TrimSpace(ft.Text); t != "" {
		rows = append(rows, footerRow{kind: rowText, mid: t})
	}
	if c := companyFooterLine(in); c != "" {
		rows = append(rows, footerRow{kind: rowContact, mid: c})
	}
	meta := footerRow{kind: rowMeta}
	if ft.ShowGeneratedDate {
		meta.left = "Generated " + in.GeneratedAt.Format(timestampLayout)
	}
	if ft.ShowPageNumbers {
		meta.right = fmt.Sprintf("Page %d of %d", number, total)
	}
	if meta.left != "" || meta.right != "" {
		rows = append(rows, meta)
	}

	f := e.bodyFont("", e.s.Fonts.FooterSize)
	lh := LineHeight(f.Size)
	y := top + footerInset
	capacity := int((bandBottom - y) / lh)
	for _, drop := range []int{rowContact, rowText, rowMeta} {
		if len(rows) <= capacity {
			break
		}
		rows = without(rows, drop)
	}

	inner := e.width - 2*footerInset
	x := e.left + footerInset
	for _, r := range rows {
		if r.mid != "" {
			p.add(e.footerText(x, y, inner, r.mid, f, pdfsettings.AlignCenter))
		}
		if r.left != "" {
			p.add(e.footerText(x, y, inner/2, r.left, f, pdfsettings.AlignLeft))
		}
		if r.right != "" {
			p.add(e.footerText(x+inner/2, y, inner/2, r.right, f, pdfsettings.AlignRight))
		}
		y += lh
	}
}

func (e *Engine) footerText(x, y, w float64, s string, f Font, align pdfsettings.Alignment) TextOp {
	return TextOp{Layer: LayerFooter, X: x, Y: y, W: w, H: LineHeight(f.Size),
		Text: Fit(e.m, s, w, f), Font: f, Color: e.colors.muted, Align: align}
}

func without(rows []footerRow, kind int) []footerRow {
	out := rows[:0:0]
	for _, r := range rows {
		if r.kind != kind {
			out = append(out, r)
		}
	}
	return out
}

func companyFooterLine(in Input) string {
	var parts []string
	if in.Company.Name != "" {
		parts = append(parts, in.Company.Name)
	}
	if c := contactLine(in.Company); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "  |  ")
}

// placeVerification reserves the verification block on the final page,
// anchored to the content bottom at the right margin. A new page is started
// when flow content already reaches into that area.
func (e *Engine) placeVerification(in Input) []Op {
	if in.Verification == nil {
		return nil
	}
	f := e.bodyFont("", e.s.Fonts.FooterSize)
	captionH := LineHeight(f.Size)
	blockH := verificationQR + 1 + captionH
	x := e.left + e.width - verificationQR
	y := e.bottom - blockH
	if e.y > y {
		e.log.Debug("layout: no room for verification block, adding a page")
		e.newPage()
	}

	caption := in.VerificationCaption
	if caption == "" {
		caption = "Scan to verify"
	}
	return []Op{
		ImageOp{Layer: LayerVerification, X: x, Y: y, W: verificationQR, H: verificationQR, Image: in.Verification},
		TextOp{Layer: LayerVerification, X: x - 6, Y: y + verificationQR + 1, W: verificationQR + 6, H: captionH,
			Text: Fit(e.m, caption, verificationQR+6, f), Font: f, Color: e.colors.muted, Align: pdfsettings.AlignRight},
	}
}
