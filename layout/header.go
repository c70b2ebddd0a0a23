package layout

import (
	"strings"

	"docportal/document"
	"docportal/pdfsettings"
)

const (
	letterheadHeight = 28.0
	headerPadding    = 4.0
	gradientSteps    = 24
)

type headerLine struct {
	text string
	font Font
}

func (e *Engine) drawHeader(in Input) {
	if !e.s.Header.ShowHeader {
		return
	}
	if e.s.Header.Style == pdfsettings.HeaderLetterhead {
		e.drawLetterhead(in)
		return
	}
	e.drawBanner(in)
}

func (e *Engine) drawBanner(in Input) {
	h := e.s.Header
	band := Rect{e.left, e.y, e.width, e.s.Layout.HeaderHeight}

	switch h.Style {
	case pdfsettings.HeaderGradient:
		step := band.W / gradientSteps
		for i := 0; i < gradientSteps; i++ {
			c := Mix(e.colors.accent, white, 0.55*float64(i)/float64(gradientSteps-1))
			w := step
			if i < gradientSteps-1 {
				w += 0.2
			}
			e.page.add(RectOp{Layer: LayerContent, X: band.X + float64(i)*step, Y: band.Y, W: w, H: band.H, Fill: ptr(c)})
		}
	case pdfsettings.HeaderBordered:
		e.page.add(RectOp{Layer: LayerContent, X: band.X, Y: band.Y, W: band.W, H: band.H,
			Radius: 2, Stroke: ptr(e.colors.accent), LineWidth: 0.6})
	default:
		e.page.add(RectOp{Layer: LayerContent, X: band.X, Y: band.Y, W: band.W, H: band.H, Fill: ptr(e.colors.accent)})
	}

	fallback := white
	if h.Style == pdfsettings.HeaderBordered {
		fallback = e.colors.text
	}
	color := colorOr(h.TextColor, fallback)

	textX, textW := band.X+headerPadding, band.W-2*headerPadding
	infoX, infoW := textX, textW
	splitInfo := false

	if e.s.Logo.ShowLogo && in.Logo != nil {
		w, lh := fitImage(in.Logo, e.s.Logo.Width, min(e.s.Logo.Height, band.H-2*headerPadding))
		y := band.Y + (band.H-lh)/2
		var x float64
		switch e.s.Logo.Position {
		case pdfsettings.AlignRight:
			x = band.X + band.W - headerPadding - w
			textW = x - headerPadding - textX
		case pdfsettings.AlignCenter:
			x = band.X + (band.W-w)/2
			textW = x - headerPadding - textX
			infoX = x + w + headerPadding
			infoW = band.X + band.W - headerPadding - infoX
			splitInfo = true
		default:
			x = band.X + headerPadding
			textX = x + w + headerPadding
			textW = band.X + band.W - headerPadding - textX
		}
		e.page.add(ImageOp{Layer: LayerContent, X: x, Y: y, W: w, H: lh, Image: in.Logo})
		if !splitInfo {
			infoX, infoW = textX, textW
		}
	}

	lines := []headerLine{{in.Company.Name, Font{e.headerFamily, "B", e.s.Fonts.HeaderSize}}}
	if h.ShowTagline && in.Company.Tagline != "" {
		lines = append(lines, headerLine{in.Company.Tagline, e.bodyFont("I", e.s.Fonts.BodySize)})
	}
	var info []headerLine
	if h.ShowCompanyInfo {
		small := e.bodyFont("", e.s.Fonts.FooterSize)
		if in.Company.Address != "" {
			info = append(info, headerLine{in.Company.Address, small})
		}
		if c := contactLine(in.Company); c != "" {
			info = append(info, headerLine{c, small})
		}
	}

	maxY := band.Bottom() - headerPadding/2
	if splitInfo {
		e.stack(lines, textX, band.Y+headerPadding, textW, maxY, color, pdfsettings.AlignLeft)
		e.stack(info, infoX, band.Y+headerPadding, infoW, maxY, color, pdfsettings.AlignRight)
	} else {
		e.stack(append(lines, info...), textX, band.Y+headerPadding, textW, maxY, color, pdfsettings.AlignLeft)
	}

	e.y = band.Bottom()
	e.gap()
}

// drawLetterhead draws the compact two-column company block with a divider
// rule. It appears on the first page only.
func (e *Engine) drawLetterhead(in Input) {
	y0 := e.y
	x := e.left
	leftW := e.width * 0.55

	if e.s.Logo.ShowLogo && in.Logo != nil {
		w, h := fitImage(in.Logo, e.s.Logo.Width, min(e.s.Logo.Height, letterheadHeight-6))
		e.page.add(ImageOp{Layer: LayerContent, X: x, Y: y0, W: w, H: h, Image: in.Logo})
		x += w + headerPadding
		leftW -= w + headerPadding
	}

	left := []headerLine{{in.Company.Name, Font{e.headerFamily, "B", e.s.Fonts.HeaderSize}}}
	if e.s.Header.ShowTagline && in.Company.Tagline != "" {
		left = append(left, headerLine{in.Company.Tagline, e.bodyFont("I", e.s.Fonts.BodySize)})
	}
	e.stack(left, x, y0, leftW, y0+letterheadHeight-3, e.colors.accent, pdfsettings.AlignLeft)

	if e.s.Header.ShowCompanyInfo {
		small := e.bodyFont("", e.s.Fonts.FooterSize)
		var right []headerLine
		for _, s := range []string{in.Company.Address, in.Company.Phone, in.Company.Email, in.Company.Website} {
			if s != "" {
				right = append(right, headerLine{s, small})
			}
		}
		rx := e.left + e.width*0.55 + headerPadding
		e.stack(right, rx, y0, e.left+e.width-rx, y0+letterheadHeight-3, e.colors.muted, pdfsettings.AlignRight)
	}

	ruleY := y0 + letterheadHeight - 1.5
	e.page.add(LineOp{Layer: LayerContent, X1: e.left, Y1: ruleY, X2: e.left + e.width, Y2: ruleY,
		Color: e.colors.accent, Width: 0.8})
	e.y = y0 + letterheadHeight
	e.gap()
}

// stack draws lines top-down from y, skipping any that would pass maxY.
func (e *Engine) stack(lines []headerLine, x, y, w, maxY float64, c RGB, align pdfsettings.Alignment) {
	if w <= 0 {
		return
	}
	for _, l := range lines {
		lh := LineHeight(l.font.Size)
		if y+lh > maxY {
			return
		}
		e.text(x, y, w, l.text, l.font, c, align)
		y += lh
	}
}

func (e *Engine) drawTitle(in Input) {
	t := e.s.DocumentTitle
	title := in.Title
	if strings.TrimSpace(t.Text) != "" {
		title = t.Text
	}
	ref := ""
	if in.Record.Number != "" {
		ref = "No. " + in.Record.Number
	}

	titleFont := Font{e.headerFamily, styleFor(t.FontWeight), t.FontSize}
	refFont := e.bodyFont("B", e.s.Fonts.BodySize)
	barH := LineHeight(t.FontSize) + 2*t.Padding
	below := ref != "" && t.ReferencePosition == pdfsettings.ReferenceBelow

	total := barH
	if below {
		total += LineHeight(refFont.Size) + 1
	}
	e.ensure(total)

	if t.BackgroundOpacity > 0 {
		e.page.add(RectOp{
			Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: barH,
			Radius:  min(t.BorderRadius, barH/2),
			Fill:    ptr(colorOr(t.BackgroundColor, e.colors.accent)),
			Opacity: t.BackgroundOpacity,
		})
	}

	color := colorOr(t.Color, e.colors.text)
	pad := max(t.Padding, 2)
	titleW := e.width - 2*pad
	if ref != "" && !below {
		refW := e.m.Width(ref, refFont) + 1
		refW = min(refW, titleW/2)
		e.text(e.left+e.width-pad-refW, e.y+(barH-LineHeight(refFont.Size))/2, refW, ref, refFont, color, pdfsettings.AlignRight)
		titleW -= refW + 4
	}
	e.text(e.left+pad, e.y+(barH-LineHeight(t.FontSize))/2, titleW, title, titleFont, color, pdfsettings.AlignLeft)
	e.y += barH

	if below {
		e.y += 1
		e.text(e.left, e.y, e.width, ref, refFont, e.colors.muted, pdfsettings.AlignLeft)
		e.y += LineHeight(refFont.Size)
	}
	e.gap()
}

// fitImage scales the image into a w×h box, keeping its aspect ratio.
func fitImage(img *Image, w, h float64) (float64, float64) {
	if img.Width <= 0 || img.Height <= 0 || w <= 0 || h <= 0 {
		return max(w, 0), max(h, 0)
	}
	ratio := float64(img.Width) / float64(img.Height)
	if w/h > ratio {
		return h * ratio, h
	}
	return w, w / ratio
}

func contactLine(c document.Company) string {
	var parts []string
	for _, s := range []string{c.Phone, c.Email, c.Website} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "  |  ")
}
