package layout

import (
	"strings"

	"github.com/phpdave11/gofpdf"

	"docportal/pdfsettings"
)

const (
	ptToMM         = 25.4 / 72
	lineSpacing    = 1.35
	DefaultFamily  = "Helvetica"
	ellipsis       = "…"
	minWrapWidthMM = 2.0
)

var knownFamilies = map[string]string{
	"helvetica":       "Helvetica",
	"arial":           "Helvetica",
	"sans-serif":      "Helvetica",
	"sans":            "Helvetica",
	"inter":           "Helvetica",
	"roboto":          "Helvetica",
	"open sans":       "Helvetica",
	"times":           "Times",
	"times new roman": "Times",
	"times-roman":     "Times",
	"serif":           "Times",
	"georgia":         "Times",
	"courier":         "Courier",
	"courier new":     "Courier",
	"monospace":       "Courier",
}

// ResolveFamily maps a logical font name onto a core family. Unknown names
// fall back to Helvetica; ok is false in that case.
func ResolveFamily(name string) (family string, ok bool) {
	if f, found := knownFamilies[strings.ToLower(strings.TrimSpace(name))]; found {
		return f, true
	}
	return DefaultFamily, false
}

func styleFor(w pdfsettings.FontWeight) string {
	if w == pdfsettings.WeightBold {
		return "B"
	}
	return ""
}

// LineHeight is the vertical advance for one line at size points.
func LineHeight(size float64) float64 {
	return size * ptToMM * lineSpacing
}

// Measurer reports rendered text width in millimetres.
type Measurer interface {
	Width(text string, f Font) float64
}

// PDFMeasurer measures with the same core font metrics the PDF surface
// uses. It is not safe for concurrent use.
type PDFMeasurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	cur Font
}

func NewMeasurer() *PDFMeasurer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	return &PDFMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *PDFMeasurer) Width(text string, f Font) float64 {
	if f != m.cur {
		m.pdf.SetFont(f.Family, f.Style, f.Size)
		m.cur = f
	}
	return m.pdf.GetStringWidth(m.tr(text))
}

// Wrap breaks text into lines no wider than width. Explicit newlines are
// kept. Words longer than a line are split by rune.
func Wrap(m Measurer, text string, width float64, f Font) []string {
	if width < minWrapWidthMM {
		width = minWrapWidthMM
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.Width(candidate, f) <= width {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
				line = ""
			}
			for m.Width(w, f) > width {
				head, tail := splitToWidth(m, w, width, f)
				out = append(out, head)
				w = tail
			}
			line = w
		}
		out = append(out, line)
	}
	return out
}

// splitToWidth returns the longest prefix of word that fits, at least one rune.
func splitToWidth(m Measurer, word string, width float64, f Font) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.Width(string(runes[:n+1]), f) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Fit truncates text with an ellipsis so it is no wider than width.
func Fit(m Measurer, text string, width float64, f Font) string {
	if m.Width(text, f) <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if m.Width(s, f) <= width {
			return s
		}
	}
	return ellipsis
}
