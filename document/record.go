// Package document defines the read-only business record consumed by the
// rendering pipeline, plus the money and quantity formatting shared by the
// PDF and spreadsheet outputs.
package document

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Record is the generic shape of a quote, invoice, order, warranty or site
// visit as loaded by the calling application.
type Record struct {
	ID       string     `json:"id"`
	Number   string     `json:"number"`
	Date     string     `json:"date"`
	Status   string     `json:"status,omitempty"`
	Currency string     `json:"currency,omitempty"`
	Customer Party      `json:"customer"`
	Details  []Field    `json:"details,omitempty"`
	Items    []LineItem `json:"items,omitempty"`
	Totals   *Totals    `json:"totals,omitempty"`
	Notes    []string   `json:"notes,omitempty"`
}

// Party is the counterpart printed in the customer info box.
type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	TaxID   string `json:"taxId,omitempty"`
}

// Field is an extra label/value pair shown in the details box, such as
// "Valid Until" or "Warranty Period".
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type LineItem struct {
	Location       string          `json:"location"`
	Type           string          `json:"type"`
	Height         decimal.Decimal `json:"height"`
	Width          decimal.Decimal `json:"width"`
	Quantity       decimal.Decimal `json:"quantity"`
	Area           decimal.Decimal `json:"area"`
	ChargeableArea decimal.Decimal `json:"chargeableArea"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Total          decimal.Decimal `json:"total"`
}

// Totals are computed by the caller; the engine prints them as given.
type Totals struct {
	Subtotal   decimal.Decimal  `json:"subtotal"`
	Discount   decimal.Decimal  `json:"discount"`
	VATRate    decimal.Decimal  `json:"vatRate"`
	VAT        decimal.Decimal  `json:"vat"`
	Shipping   *decimal.Decimal `json:"shipping,omitempty"`
	GrandTotal decimal.Decimal  `json:"grandTotal"`
}

// Company is the issuing business printed in the header and footer.
type Company struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Website  string `json:"website,omitempty"`
	TaxID    string `json:"taxId,omitempty"`
	LogoURL  string `json:"logoUrl,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Total is the grand total, or zero when the record carries no totals.
func (r Record) Total() decimal.Decimal {
	if r.Totals == nil {
		return decimal.Zero
	}
	return r.Totals.GrandTotal
}

func (r Record) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Number, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Date, validation.Date("2006-01-02")),
		validation.Field(&r.Customer),
	)
}

func (p Party) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, is.EmailFormat),
	)
}
