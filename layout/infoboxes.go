package layout

import (
	"strings"

	"docportal/document"
	"docportal/pdfsettings"
)

const (
	// InfoBoxRows is the fixed row capacity of an info box. Rows beyond it
	// are dropped and long values are ellipsized to the box width.
	InfoBoxRows = 5

	infoBoxPadding = 3.0
	iconSize       = 2.2
)

type infoBox struct {
	title string
	rows  []document.Field
}

func (e *Engine) drawInfoBoxes(in Input) {
	var boxes []infoBox
	if e.s.Sections.ShowQuoteDetails {
		boxes = append(boxes, e.detailsBox(in))
	}
	if e.s.Sections.ShowCustomerInfo {
		boxes = append(boxes, e.partyBox(in))
	}
	if len(boxes) == 0 {
		return
	}

	ib := e.s.InfoBoxes
	h := e.infoBoxHeight()
	if ib.Layout == pdfsettings.BoxesSideBySide && len(boxes) == 2 {
		w := (e.width - ib.BoxSpacing) / 2
		e.ensure(h)
		e.drawInfoBox(boxes[0], e.left, e.y, w, h)
		e.drawInfoBox(boxes[1], e.left+w+ib.BoxSpacing, e.y, w, h)
		e.y += h
	} else {
		for i, b := range boxes {
			if i > 0 {
				e.y += ib.BoxSpacing
			}
			e.ensure(h)
			e.drawInfoBox(b, e.left, e.y, e.width, h)
			e.y += h
		}
	}
	e.gap()
}

func (e *Engine) infoBoxHeight() float64 {
	return 2*infoBoxPadding + e.infoTitleHeight() + InfoBoxRows*e.infoRowHeight()
}

func (e *Engine) infoTitleHeight() float64 {
	return LineHeight(e.s.InfoBoxes.LabelSize) + 1.5
}

func (e *Engine) infoRowHeight() float64 {
	ib := e.s.InfoBoxes
	return LineHeight(max(ib.LabelSize, ib.ValueSize)) + 0.6
}

func (e *Engine) detailsBox(in Input) infoBox {
	label := in.DetailsLabel
	if label == "" {
		label = in.Type.Label() + " Details"
	}
	rec := in.Record
	rows := []document.Field{
		{Label: in.Type.Label() + " No.", Value: rec.Number},
		{Label: "Date", Value: rec.Date},
		{Label: "Status", Value: rec.Status},
	}
	rows = append(rows, rec.Details...)
	return infoBox{title: label, rows: e.capRows(label, rows)}
}

func (e *Engine) partyBox(in Input) infoBox {
	label := in.PartyLabel
	if label == "" {
		label = "Customer"
	}
	p := in.Record.Customer
	rows := []document.Field{
		{Label: "Name", Value: p.Name},
		{Label: "Phone", Value: p.Phone},
		{Label: "Email", Value: p.Email},
		{Label: "Address", Value: p.Address},
		{Label: "VAT No.", Value: p.TaxID},
	}
	return infoBox{title: label, rows: e.capRows(label, rows)}
}

// capRows drops empty values and everything past the box capacity.
func (e *Engine) capRows(box string, rows []document.Field) []document.Field {
	out := make([]document.Field, 0, InfoBoxRows)
	for _, r := range rows {
		if strings.TrimSpace(r.Value) == "" {
			continue
		}
		if len(out) == InfoBoxRows {
			e.log.WithField("box", box).Debug("layout: info box full, dropping extra rows")
			break
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) drawInfoBox(b infoBox, x, y, w, h float64) {
	ib := e.s.InfoBoxes
	frame := RectOp{Layer: LayerContent, X: x, Y: y, W: w, H: h, Radius: ib.BorderRadius}
	if ib.BorderWidth > 0 {
		frame.Stroke = ptr(colorOr(ib.BorderColor, e.colors.border))
		frame.LineWidth = ib.BorderWidth
	}
	if frame.Stroke != nil {
		e.page.add(frame)
	}

	labelFont := e.bodyFont(styleFor(ib.LabelWeight), ib.LabelSize)
	valueFont := e.bodyFont(styleFor(ib.ValueWeight), ib.ValueSize)
	labelColor := colorOr(ib.LabelColor, e.colors.muted)
	valueColor := colorOr(ib.ValueColor, e.colors.text)

	cx := x + infoBoxPadding
	cy := y + infoBoxPadding
	inner := w - 2*infoBoxPadding
	titleH := e.infoTitleHeight()

	titleX := cx
	if ib.ShowIcons {
		e.page.add(RectOp{Layer: LayerContent, X: cx, Y: cy + (titleH-1.5-iconSize)/2,
			W: iconSize, H: iconSize, Radius: 0.4, Fill: ptr(e.colors.accent)})
		titleX += iconSize + 1.4
	}
	e.text(titleX, cy, cx+inner-titleX, strings.ToUpper(b.title), e.bodyFont("B", ib.LabelSize), e.colors.accent, pdfsettings.AlignLeft)
	cy += titleH

	labelW := inner * 0.38
	rowH := e.infoRowHeight()
	for _, r := range b.rows {
		e.text(cx, cy, labelW-1, r.Label, labelFont, labelColor, pdfsettings.AlignLeft)
		e.text(cx+labelW, cy, inner-labelW, r.Value, valueFont, valueColor, pdfsettings.AlignLeft)
		cy += rowH
	}
}
