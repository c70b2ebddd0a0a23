package layout

import (
	"docportal/document"
	"docportal/pdfsettings"
)

const (
	totalsWidth   = 85.0
	totalsPadding = 2.5
)

// TotalsLine is one row of the totals panel.
type TotalsLine struct {
	Label string
	Value string
	Grand bool
}

// TotalsLines lists the panel rows. Discount appears only when positive and
// shipping only when present and positive; the grand total is always last.
func TotalsLines(t document.Totals, currency string) []TotalsLine {
	lines := []TotalsLine{{Label: "Subtotal", Value: document.FormatMoney(t.Subtotal, currency)}}
	if t.Discount.IsPositive() {
		lines = append(lines, TotalsLine{Label: "Discount", Value: "-" + document.FormatMoney(t.Discount, currency)})
	}
	vat := "VAT"
	if t.VATRate.IsPositive() {
		vat = "VAT (" + document.FormatPercent(t.VATRate) + ")"
	}
	lines = append(lines, TotalsLine{Label: vat, Value: document.FormatMoney(t.VAT, currency)})
	if t.Shipping != nil && t.Shipping.IsPositive() {
		lines = append(lines, TotalsLine{Label: "Shipping", Value: document.FormatMoney(*t.Shipping, currency)})
	}
	lines = append(lines, TotalsLine{Label: "Total", Value: document.FormatMoney(t.GrandTotal, currency), Grand: true})
	return lines
}

func (e *Engine) drawTotals(lines []TotalsLine) {
	size := e.s.Fonts.BodySize
	rowH := LineHeight(size) + 1.6
	grandH := LineHeight(size+1) + 2.4

	h := 2*totalsPadding + 1.5
	for _, l := range lines {
		if l.Grand {
			h += grandH
		} else {
			h += rowH
		}
	}
	e.ensure(h)

	w := min(totalsWidth, e.width)
	x := e.left + e.width - w
	e.page.add(RectOp{Layer: LayerContent, X: x, Y: e.y, W: w, H: h, Radius: 1.5,
		Stroke: ptr(e.colors.border), LineWidth: 0.3})

	y := e.y + totalsPadding
	inner := w - 2*totalsPadding
	half := inner / 2
	label := e.bodyFont("", size)
	value := e.bodyFont("B", size)
	for _, l := range lines {
		if l.Grand {
			y += 1.5
			e.page.add(LineOp{Layer: LayerContent, X1: x + totalsPadding, Y1: y - 0.75, X2: x + w - totalsPadding, Y2: y - 0.75,
				Color: e.colors.accent, Width: 0.5})
			e.page.add(RectOp{Layer: LayerContent, X: x + totalsPadding, Y: y, W: inner, H: grandH, Radius: 1,
				Fill: ptr(e.colors.headerBg)})
			big := e.bodyFont("B", size+1)
			ty := y + (grandH-LineHeight(big.Size))/2
			e.text(x+totalsPadding+1.5, ty, half-1.5, l.Label, big, e.colors.headerText, pdfsettings.AlignLeft)
			e.text(x+totalsPadding+half, ty, half-1.5, l.Value, big, e.colors.headerText, pdfsettings.AlignRight)
			y += grandH
			continue
		}
		ty := y + (rowH-LineHeight(size))/2
		e.text(x+totalsPadding+1.5, ty, half-1.5, l.Label, label, e.colors.muted, pdfsettings.AlignLeft)
		e.text(x+totalsPadding+half, ty, half-1.5, l.Value, value, e.colors.text, pdfsettings.AlignRight)
		y += rowH
	}
	e.y += h
	e.gap()
}
