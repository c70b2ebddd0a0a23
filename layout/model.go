// Package layout turns a business record and its effective style settings
// into a page model: an ordered list of drawing operations per page. The
// model is independent of the output format; package render replays it onto
// a PDF surface.
package layout

import "docportal/pdfsettings"

// A4 portrait, millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	// SafetyMargin keeps flow content clear of the footer band.
	SafetyMargin = 5.0
)

// Layer tags an operation with the pass that produced it.
type Layer string

const (
	LayerContent      Layer = "content"
	LayerWatermark    Layer = "watermark"
	LayerFooter       Layer = "footer"
	LayerVerification Layer = "verification"
)

type RGB struct {
	R, G, B uint8
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Bottom() float64 { return r.Y + r.H }

// Font is a resolved core font: family is always one the surface knows.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Image is a decoded raster ready for placement. Data holds PNG bytes.
type Image struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// Op is one drawing instruction. The set of implementations is closed.
type Op interface {
	Bounds() Rect
	layer() Layer
}

// LayerOf reports which pass produced op.
func LayerOf(op Op) Layer { return op.layer() }

// TextOp draws a single line of text inside its box, vertically centred.
// Opacity in (0,1) draws translucent; 0 means opaque.
type TextOp struct {
	Layer    Layer
	X, Y     float64
	W, H     float64
	Text     string
	Font     Font
	Color    RGB
	Align    pdfsettings.Alignment
	Rotation float64
	Opacity  float64
}

func (o TextOp) Bounds() Rect { return Rect{o.X, o.Y, o.W, o.H} }
func (o TextOp) layer() Layer { return o.Layer }

// RectOp draws a rectangle; nil Fill or Stroke skips that part.
type RectOp struct {
	Layer     Layer
	X, Y      float64
	W, H      float64
	Radius    float64
	Fill      *RGB
	Stroke    *RGB
	LineWidth float64
	Opacity   float64
}

func (o RectOp) Bounds() Rect { return Rect{o.X, o.Y, o.W, o.H} }
func (o RectOp) layer() Layer { return o.Layer }

type LineOp struct {
	Layer  Layer
	X1, Y1 float64
	X2, Y2 float64
	Color  RGB
	Width  float64
}

func (o LineOp) Bounds() Rect {
	return Rect{min(o.X1, o.X2), min(o.Y1, o.Y2), abs(o.X2 - o.X1), abs(o.Y2 - o.Y1)}
}
func (o LineOp) layer() Layer { return o.Layer }

type ImageOp struct {
	Layer Layer
	X, Y  float64
	W, H  float64
	Image *Image
}

func (o ImageOp) Bounds() Rect { return Rect{o.X, o.Y, o.W, o.H} }
func (o ImageOp) layer() Layer { return o.Layer }

type Page struct {
	Number int
	Ops    []Op
}

func (p *Page) add(op Op) { p.Ops = append(p.Ops, op) }

// Document is the finished page model.
type Document struct {
	Title string
	Pages []*Page
	// ContentBottom is the lowest Y flow content may reach on any page.
	ContentBottom float64
	// FooterTop is the top edge of the reserved footer band.
	FooterTop float64
	// VerificationPlaced reports whether the verification image was drawn.
	VerificationPlaced bool
}

func (d *Document) PageCount() int { return len(d.Pages) }

// Images returns every distinct image referenced by the document.
func (d *Document) Images() []*Image {
	seen := map[*Image]bool{}
	var out []*Image
	for _, p := range d.Pages {
		for _, op := range p.Ops {
			if im, ok := op.(ImageOp); ok && im.Image != nil && !seen[im.Image] {
				seen[im.Image] = true
				out = append(out, im.Image)
			}
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
