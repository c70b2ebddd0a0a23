// Package render replays a layout.Document onto a gofpdf surface.
package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"docportal/layout"
	"docportal/pdfsettings"
)

// Meta is written into the PDF information dictionary.
type Meta struct {
	Title     string
	Author    string
	Subject   string
	CreatedAt time.Time
	Log       logrus.FieldLogger
}

// PDF draws every page of doc and returns the encoded file. An image the
// surface cannot read is left out; when that is the verification image its
// caption goes too and doc.VerificationPlaced is cleared.
func PDF(doc *layout.Document, meta Meta) ([]byte, error) {
	log := meta.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator("docportal", true)
	if !meta.CreatedAt.IsZero() {
		pdf.SetCreationDate(meta.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	s := &surface{pdf: pdf, tr: tr, skip: registerImages(pdf, doc, log)}
	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			if im, ok := op.(layout.ImageOp); ok && layout.LayerOf(op) == layout.LayerVerification && s.skip[im.Image] {
				s.noVerification = true
			}
		}
	}
	if s.noVerification {
		doc.VerificationPlaced = false
	}

	for _, p := range doc.Pages {
		pdf.AddPage()
		for _, op := range p.Ops {
			if s.noVerification && layout.LayerOf(op) == layout.LayerVerification {
				continue
			}
			s.draw(op)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("draw page %d: %w", p.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// registerImages loads every image once and returns the ones that failed.
// gofpdf errors are sticky, so each failure is cleared before the next.
func registerImages(pdf *gofpdf.Fpdf, doc *layout.Document, log logrus.FieldLogger) map[*layout.Image]bool {
	failed := map[*layout.Image]bool{}
	for _, img := range doc.Images() {
		if len(img.Data) == 0 {
			failed[img] = true
			continue
		}
		pdf.RegisterImageOptionsReader(img.Name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img.Data))
		if err := pdf.Error(); err != nil {
			log.WithError(err).WithField("image", img.Name).Warn("render: image unreadable, drawing without it")
			pdf.ClearError()
			failed[img] = true
		}
	}
	return failed
}

const kappa = 0.5523

type surface struct {
	pdf            *gofpdf.Fpdf
	tr             func(string) string
	skip           map[*layout.Image]bool
	noVerification bool
}

func (s *surface) draw(op layout.Op) {
	switch o := op.(type) {
	case layout.RectOp:
		s.rect(o)
	case layout.LineOp:
		s.pdf.SetDrawColor(int(o.Color.R), int(o.Color.G), int(o.Color.B))
		s.pdf.SetLineWidth(o.Width)
		s.pdf.Line(o.X1, o.Y1, o.X2, o.Y2)
	case layout.TextOp:
		s.text(o)
	case layout.ImageOp:
		if o.Image == nil || s.skip[o.Image] {
			return
		}
		s.pdf.ImageOptions(o.Image.Name, o.X, o.Y, o.W, o.H, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
}

func (s *surface) rect(o layout.RectOp) {
	style := ""
	if o.Fill != nil {
		s.pdf.SetFillColor(int(o.Fill.R), int(o.Fill.G), int(o.Fill.B))
		style += "F"
	}
	if o.Stroke != nil {
		s.pdf.SetDrawColor(int(o.Stroke.R), int(o.Stroke.G), int(o.Stroke.B))
		s.pdf.SetLineWidth(o.LineWidth)
		style += "D"
	}
	if style == "" {
		return
	}
	translucent := o.Opacity > 0 && o.Opacity < 1
	if translucent {
		s.pdf.SetAlpha(o.Opacity, "Normal")
	}
	if o.Radius > 0 {
		s.roundedRect(o.X, o.Y, o.W, o.H, o.Radius, style)
	} else {
		s.pdf.Rect(o.X, o.Y, o.W, o.H, style)
	}
	if translucent {
		s.pdf.SetAlpha(1, "Normal")
	}
}

// roundedRect traces the outline with quarter-circle bezier corners.
func (s *surface) roundedRect(x, y, w, h, r float64, style string) {
	r = min(r, w/2, h/2)
	k := kappa * r
	p := s.pdf
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CurveBezierCubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CurveBezierCubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CurveBezierCubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CurveBezierCubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.ClosePath()
	p.DrawPath(style)
}

func (s *surface) text(o layout.TextOp) {
	s.pdf.SetFont(o.Font.Family, o.Font.Style, o.Font.Size)
	s.pdf.SetTextColor(int(o.Color.R), int(o.Color.G), int(o.Color.B))
	translucent := o.Opacity > 0 && o.Opacity < 1
	if translucent {
		s.pdf.SetAlpha(o.Opacity, "Normal")
	}
	if o.Rotation != 0 {
		s.pdf.TransformBegin()
		s.pdf.TransformRotate(o.Rotation, o.X+o.W/2, o.Y+o.H/2)
	}
	s.pdf.SetXY(o.X, o.Y)
	s.pdf.CellFormat(o.W, o.H, s.tr(o.Text), "", 0, cellAlign(o.Align), false, 0, "")
	if o.Rotation != 0 {
		s.pdf.TransformEnd()
	}
	if translucent {
		s.pdf.SetAlpha(1, "Normal")
	}
}

func cellAlign(a pdfsettings.Alignment) string {
	switch a {
	case pdfsettings.AlignCenter:
		return "CM"
	case pdfsettings.AlignRight:
		return "RM"
	}
	return "LM"
}
