package pdfsettings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDocumentType is returned when a document type tag is not one of
// the supported kinds.
var ErrUnknownDocumentType = errors.New("unknown document type")

// DocumentType identifies the kind of business record being rendered. It also
// selects the stored settings bucket.
type DocumentType string

const (
	Quotes     DocumentType = "quotes"
	Invoices   DocumentType = "invoices"
	Orders     DocumentType = "orders"
	Warranties DocumentType = "warranties"
	SiteVisits DocumentType = "siteVisits"
)

// DocumentTypes lists every supported type in display order.
var DocumentTypes = []DocumentType{Quotes, Invoices, Orders, Warranties, SiteVisits}

// ParseDocumentType accepts the canonical tag case-insensitively, plus the
// dashed and underscored spellings of siteVisits used in URLs.
func ParseDocumentType(s string) (DocumentType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "").Replace(norm)
	for _, t := range DocumentTypes {
		if strings.ToLower(string(t)) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
}

// Valid reports whether t is a supported document type.
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Prefix is the filename prefix for exported artifacts.
func (t DocumentType) Prefix() string {
	switch t {
	case Quotes:
		return "QUO"
	case Invoices:
		return "INV"
	case Orders:
		return "ORD"
	case Warranties:
		return "WAR"
	case SiteVisits:
		return "SV"
	}
	return "DOC"
}

// Label is the singular human-readable name.
func (t DocumentType) Label() string {
	switch t {
	case Quotes:
		return "Quote"
	case Invoices:
		return "Invoice"
	case Orders:
		return "Order"
	case Warranties:
		return "Warranty"
	case SiteVisits:
		return "Site Visit"
	}
	return "Document"
}
