// Package verify builds the verification payload embedded in rendered
// documents and encodes it as a QR code. The payload is a canonical JSON
// projection of the record identity plus the time it was generated, and may
// carry an HMAC signature.
package verify

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"docportal/pdfsettings"
)

// TimestampLayout is ISO 8601 in UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrInvalidSignature = errors.New("invalid verification signature")
	ErrMalformed        = errors.New("malformed verification payload")
)

// Payload field order is fixed; it is the canonical encoding.
type Payload struct {
	Type      pdfsettings.DocumentType `json:"type"`
	Number    string                   `json:"number"`
	ID        string                   `json:"id"`
	Total     string                   `json:"total"`
	Date      string                   `json:"date"`
	URL       string                   `json:"url"`
	Timestamp string                   `json:"timestamp"`
	Sig       string                   `json:"sig,omitempty"`
}

// Codec is safe for concurrent use.
type Codec struct {
	origin string
	secret []byte
	now    func() time.Time
}

type Option func(*Codec)

// WithSecret enables HMAC-SHA256 signing.
func WithSecret(secret string) Option {
	return func(c *Codec) {
		if secret != "" {
			c.secret = []byte(secret)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a codec that builds URLs under origin, for example
// "https://portal.example.com".
func NewCodec(origin string, opts ...Option) *Codec {
	c := &Codec{origin: strings.TrimRight(origin, "/"), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// URL is the verification endpoint for one record.
func (c *Codec) URL(t pdfsettings.DocumentType, id string) string {
	return fmt.Sprintf("%s/verify/%s/%s", c.origin, url.PathEscape(string(t)), url.PathEscape(id))
}

// Build assembles the payload. The timestamp is taken now, so two builds of
// the same record at different times differ only in that field.
func (c *Codec) Build(t pdfsettings.DocumentType, number, id string, total decimal.Decimal, date string) Payload {
	p := Payload{
		Type:      t,
		Number:    number,
		ID:        id,
		Total:     total.StringFixed(2),
		Date:      date,
		URL:       c.URL(t, id),
		Timestamp: c.now().UTC().Format(TimestampLayout),
	}
	if c.secret != nil {
		p.Sig = c.sign(p)
	}
	return p
}

// Canonical returns the payload's canonical JSON text.
func Canonical(p Payload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses scanned payload text.
func Decode(text string) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.ID == "" || p.Number == "" || !p.Type.Valid() {
		return Payload{}, ErrMalformed
	}
	if _, err := time.Parse(TimestampLayout, p.Timestamp); err != nil {
		return Payload{}, fmt.Errorf("%w: timestamp: %v", ErrMalformed, err)
	}
	return p, nil
}

// Verify checks the signature when the codec has a secret. Without a secret
// every well-formed payload passes.
func (c *Codec) Verify(p Payload) error {
	if c.secret == nil {
		return nil
	}
	want := c.sign(p)
	if !hmac.Equal([]byte(want), []byte(p.Sig)) {
		return ErrInvalidSignature
	}
	return nil
}

// Signed reports whether the codec signs payloads.
func (c *Codec) Signed() bool { return c.secret != nil }

func (c *Codec) sign(p Payload) string {
	p.Sig = ""
	text, err := Canonical(p)
	if err != nil {
		return ""
	}
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(text))
	return hex.EncodeToString(mac.Sum(nil))
}
