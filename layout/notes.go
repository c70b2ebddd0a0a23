package layout

import (
	"math"
	"strconv"
	"strings"

	"docportal/pdfsettings"
)

const notesPadding = 3.0

type noteLine struct {
	indent float64
	text   string
}

type noteBlock struct {
	title string
	lines []string
	style pdfsettings.ListStyle
	boxed bool
}

func (e *Engine) drawRemarks(in Input) {
	r := e.s.Remarks
	if !e.s.Sections.ShowRemarks || !r.ShowRemarks {
		return
	}
	lines := nonEmpty(append(append([]string{}, r.Lines...), in.Record.Notes...))
	if len(lines) == 0 {
		return
	}
	e.drawNotes(noteBlock{title: r.Title, lines: lines, style: r.Style, boxed: true})
}

func (e *Engine) drawTerms(in Input) {
	t := e.s.Terms
	if !t.ShowTerms || !e.s.Sections.ShowTerms {
		return
	}
	lines := nonEmpty(t.Lines)
	if len(lines) == 0 {
		return
	}
	if in.TermsOnNewPage && e.y > e.top {
		e.newPage()
	}
	e.drawNotes(noteBlock{title: t.Title, lines: lines, style: t.Style})
}

// drawNotes moves the whole block to a new page when it does not fit below
// the cursor. A block taller than a full page then continues across pages,
// the title printed once.
func (e *Engine) drawNotes(b noteBlock) {
	size := e.s.Fonts.BodySize
	f := e.bodyFont("", size)
	titleFont := e.bodyFont("B", size+1)
	lh := LineHeight(size)
	titleH := LineHeight(titleFont.Size) + 1.5
	pad := 0.0
	if b.boxed {
		pad = notesPadding
	}
	inner := e.width - 2*pad - 2
	lines := e.layoutNoteLines(b, inner, f)

	e.ensure(2*pad + titleH + float64(len(lines))*lh)

	first := true
	for len(lines) > 0 {
		head := 0.0
		if first {
			head = titleH
		}
		fit := int(math.Floor((e.bottom - e.y - 2*pad - head) / lh))
		if fit < 1 {
			if e.y > e.top {
				e.newPage()
				continue
			}
			fit = 1
		}
		fit = min(fit, len(lines))
		h := 2*pad + head + float64(fit)*lh

		if b.boxed {
			e.page.add(RectOp{Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: h, Radius: 1.5,
				Fill: ptr(Mix(e.colors.accent, white, 0.93)), Stroke: ptr(e.colors.accent), LineWidth: 0.3})
		}
		y := e.y + pad
		x := e.left + pad + 1
		if first && b.title != "" {
			e.text(x, y, inner, b.title, titleFont, e.colors.text, pdfsettings.AlignLeft)
		}
		y += head
		for _, l := range lines[:fit] {
			e.text(x+l.indent, y, inner-l.indent, l.text, f, e.colors.text, pdfsettings.AlignLeft)
			y += lh
		}
		e.y += h
		lines = lines[fit:]
		first = false
		if len(lines) > 0 {
			e.newPage()
		}
	}
	e.gap()
}

// layoutNoteLines wraps every entry, prefixing bullets or numbers with a
// hanging indent for continuation lines.
func (e *Engine) layoutNoteLines(b noteBlock, width float64, f Font) []noteLine {
	var out []noteLine
	for i, text := range b.lines {
		prefix := ""
		switch b.style {
		case pdfsettings.ListBullet:
			prefix = "• "
		case pdfsettings.ListNumbered:
			prefix = strconv.Itoa(i+1) + ". "
		}
		indent := e.m.Width(prefix, f)
		for k, w := range Wrap(e.m, text, width-indent, f) {
			if k == 0 {
				out = append(out, noteLine{text: prefix + w})
				continue
			}
			out = append(out, noteLine{indent: indent, text: w})
		}
	}
	return out
}

func nonEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	return out
}
