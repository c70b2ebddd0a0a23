package verify

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/disintegration/imaging"
)

// DefaultQRPixels is the rendered QR edge length.
const DefaultQRPixels = 256

// QRCode encodes the canonical payload as a PNG QR code with medium error
// correction.
func QRCode(p Payload, px int) ([]byte, error) {
	text, err := Canonical(p)
	if err != nil {
		return nil, err
	}
	if px <= 0 {
		px = DefaultQRPixels
	}
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, px, px)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	// The scaled code is 16-bit gray; gofpdf only reads 8-bit samples.
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Clone(scaled)); err != nil {
		return nil, fmt.Errorf("write qr png: %w", err)
	}
	return buf.Bytes(), nil
}
