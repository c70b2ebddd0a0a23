package services

import "docportal/pdfsettings"

// kind holds the per-type wording of a rendered document.
type kind struct {
	title          string
	detailsLabel   string
	partyLabel     string
	termsOnNewPage bool
}

var kinds = map[pdfsettings.DocumentType]kind{
	pdfsettings.Quotes:     {title: "QUOTATION", detailsLabel: "Quote Details", partyLabel: "Customer"},
	pdfsettings.Invoices:   {title: "TAX INVOICE", detailsLabel: "Invoice Details", partyLabel: "Bill To"},
	pdfsettings.Orders:     {title: "ORDER", detailsLabel: "Order Details", partyLabel: "Customer"},
	pdfsettings.Warranties: {title: "WARRANTY CERTIFICATE", detailsLabel: "Warranty Details", partyLabel: "Warranty Holder", termsOnNewPage: true},
	pdfsettings.SiteVisits: {title: "SITE VISIT REPORT", detailsLabel: "Visit Details", partyLabel: "Client"},
}

// Title is the printed heading for t. A non-empty documentTitle.text in the
// settings overrides it.
func Title(t pdfsettings.DocumentType, s pdfsettings.PDFSettings) string {
	if s.DocumentTitle.Text != "" {
		return s.DocumentTitle.Text
	}
	return kinds[t].title
}
