package verify

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"docportal/pdfsettings"
)

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(time.RFC3339, ts)
		return t
	}
}

func TestBuild_Fields(t *testing.T) {
	c := NewCodec("https://portal.example.com/", WithClock(fixedClock("2026-10-18T09:30:00Z")))
	p := c.Build(pdfsettings.Invoices, "INV-0007", "rec_9", decimal.RequireFromString("1150.5"), "2026-10-01")

	if p.URL != "https://portal.example.com/verify/invoices/rec_9" {
		t.Errorf("url = %q", p.URL)
	}
	if p.Total != "1150.50" {
		t.Errorf("total = %q", p.Total)
	}
	if p.Timestamp != "2026-10-18T09:30:00.000Z" {
		t.Errorf("timestamp = %q", p.Timestamp)
	}
	if p.Sig != "" {
		t.Error("unsigned codec produced a signature")
	}

	text, err := Canonical(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"invoices","number":"INV-0007","id":"rec_9","total":"1150.50","date":"2026-10-01",` +
		`"url":"https://portal.example.com/verify/invoices/rec_9","timestamp":"2026-10-18T09:30:00.000Z"}`
	if text != want {
		t.Errorf("canonical =\n%s\nwant\n%s", text, want)
	}
}

func TestBuild_DiffersOnlyInTimestamp(t *testing.T) {
	first := NewCodec("https://x.test", WithClock(fixedClock("2026-01-01T00:00:00Z")))
	second := NewCodec("https://x.test", WithClock(fixedClock("2026-01-01T00:05:00Z")))
	total := decimal.NewFromInt(99)

	a := first.Build(pdfsettings.Quotes, "Q-1", "id1", total, "2026-01-01")
	b := second.Build(pdfsettings.Quotes, "Q-1", "id1", total, "2026-01-01")
	if a.Timestamp == b.Timestamp {
		t.Fatal("timestamps should differ")
	}
	b.Timestamp = a.Timestamp
	if a != b {
		t.Errorf("payloads differ beyond the timestamp: %+v vs %+v", a, b)
	}
}

func TestBuild_TimestampHasMilliseconds(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	first := NewCodec("https://x.test", WithClock(func() time.Time { return base }))
	second := NewCodec("https://x.test", WithClock(func() time.Time { return base.Add(250 * time.Millisecond) }))

	a := first.Build(pdfsettings.Orders, "O-1", "o1", decimal.NewFromInt(5), "2026-03-14")
	b := second.Build(pdfsettings.Orders, "O-1", "o1", decimal.NewFromInt(5), "2026-03-14")
	if a.Timestamp != "2026-03-14T10:00:00.000Z" || b.Timestamp != "2026-03-14T10:00:00.250Z" {
		t.Errorf("timestamps = %q, %q", a.Timestamp, b.Timestamp)
	}
	if _, err := Decode(mustCanonical(t, b)); err != nil {
		t.Errorf("Decode: %v", err)
	}
}

func mustCanonical(t *testing.T, p Payload) string {
	t.Helper()
	text, err := Canonical(p)
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func TestURL_EscapesID(t *testing.T) {
	c := NewCodec("http://localhost:8090")
	if got := c.URL(pdfsettings.SiteVisits, "a/b c"); got != "http://localhost:8090/verify/siteVisits/a%2Fb%20c" {
		t.Errorf("url = %q", got)
	}
}

func TestSignAndVerify(t *testing.T) {
	c := NewCodec("https://x.test", WithSecret("s3cret"), WithClock(fixedClock("2026-02-02T10:00:00Z")))
	p := c.Build(pdfsettings.Orders, "ORD-5", "o5", decimal.NewFromInt(10), "2026-02-01")
	if len(p.Sig) != 64 {
		t.Fatalf("sig = %q", p.Sig)
	}
	if err := c.Verify(p); err != nil {
		t.Errorf("Verify: %v", err)
	}

	tampered := p
	tampered.Total = "1000.00"
	if err := c.Verify(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}

	other := NewCodec("https://x.test", WithSecret("different"))
	if err := other.Verify(p); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("wrong key accepted: %v", err)
	}
}

func TestDecode(t *testing.T) {
	c := NewCodec("https://x.test", WithClock(fixedClock("2026-02-02T10:00:00Z")))
	p := c.Build(pdfsettings.Warranties, "W-1", "w1", decimal.Zero, "2026-02-01")
	text, _ := Canonical(p)

	got, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != p {
		t.Errorf("decoded %+v, want %+v", got, p)
	}

	bad := []string{
		"not json",
		`{"type":"receipts","number":"1","id":"1","timestamp":"2026-01-01T00:00:00Z"}`,
		`{"type":"quotes","number":"","id":"1","timestamp":"2026-01-01T00:00:00Z"}`,
		`{"type":"quotes","number":"1","id":"1","timestamp":"yesterday"}`,
		`{"type":"quotes","number":"1","id":"1","timestamp":"2026-01-01T00:00:00Z"}`,
		strings.Replace(text, `"type"`, `"extra":1,"type"`, 1),
	}
	for _, b := range bad {
		if _, err := Decode(b); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", b, err)
		}
	}
}

func TestQRCode(t *testing.T) {
	c := NewCodec("https://portal.example.com", WithSecret("k"))
	p := c.Build(pdfsettings.Quotes, "Q-2026-0042", "rec_1", decimal.NewFromInt(11500), "2026-10-18")

	data, err := QRCode(p, 0)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != DefaultQRPixels || b.Dy() != DefaultQRPixels {
		t.Errorf("qr size = %v", b)
	}
	// IHDR bit depth sits right after the signature, chunk header and size.
	if depth := data[24]; depth != 8 {
		t.Errorf("png bit depth = %d, want 8", depth)
	}
}

func TestQRCode_TooSmall(t *testing.T) {
	c := NewCodec("https://portal.example.com")
	p := c.Build(pdfsettings.Quotes, "Q-1", "rec_1", decimal.NewFromInt(1), "2026-10-18")
	if _, err := QRCode(p, 5); err == nil {
		t.Error("expected an error for a QR smaller than its module count")
	}
}
