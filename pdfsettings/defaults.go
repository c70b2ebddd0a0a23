package pdfsettings

type typeDefaults struct {
	footerText    string
	watermarkText string
	terms         []string
}

var perType = map[DocumentType]typeDefaults{
	Quotes: {
		footerText:    "Thank you for your interest. This quotation is valid for 30 days from the date of issue.",
		watermarkText: "DRAFT",
		terms: []string{
			"Prices are valid for 30 days from the quotation date.",
			"A 50% advance payment is required to confirm the order.",
			"Final measurements are taken on site before fabrication.",
		},
	},
	Invoices: {
		footerText:    "Payment is due within 30 days of the invoice date.",
		watermarkText: "UNPAID",
		terms: []string{
			"Payment is due within 30 days of the invoice date.",
			"Late payments may be subject to additional charges.",
		},
	},
	Orders: {
		footerText:    "Thank you for your order.",
		watermarkText: "CONFIRMED",
		terms: []string{
			"Delivery dates are estimates and depend on site readiness.",
		},
	},
	Warranties: {
		footerText:    "Present this certificate with any warranty claim.",
		watermarkText: "WARRANTY",
		terms: []string{
			"The warranty covers manufacturing defects under normal use.",
			"Damage caused by misuse, accidents or unauthorised modification is not covered.",
			"Claims must be reported within the warranty period together with this certificate.",
		},
	},
	SiteVisits: {
		footerText:    "Site visit findings are subject to final measurement.",
		watermarkText: "SITE VISIT",
	},
}

// Default synthesizes the built-in settings for t. The base schema is shared;
// footer text, watermark word and default terms vary by type.
func Default(t DocumentType) PDFSettings {
	s := base()
	if d, ok := perType[t]; ok {
		s.Footer.Text = d.footerText
		s.Watermark.Text = d.watermarkText
		s.Terms.Lines = cloneLines(d.terms)
	}
	return s
}

func base() PDFSettings {
	return PDFSettings{
		Fonts: Fonts{
			HeaderFont: "Helvetica",
			BodyFont:   "Helvetica",
			HeaderSize: 18,
			BodySize:   10,
			TableSize:  9,
			FooterSize: 8,
		},
		Colors: Colors{
			TableHeaderBg:   "#1F3A5F",
			TableHeaderText: "#FFFFFF",
			AlternateRow:    "#F3F6FA",
			TableBorder:     "#D0D7E2",
			Accent:          "#2B6CB0",
			PrimaryText:     "#1A202C",
			SecondaryText:   "#4A5568",
		},
		Layout: Layout{
			MarginTop:      15,
			MarginRight:    15,
			MarginBottom:   15,
			MarginLeft:     15,
			HeaderHeight:   35,
			FooterHeight:   18,
			SectionSpacing: 6,
		},
		Logo: Logo{
			ShowLogo: true,
			Position: AlignLeft,
			Width:    30,
			Height:   20,
		},
		Header: Header{
			ShowHeader:      true,
			Style:           HeaderSimple,
			ShowCompanyInfo: true,
			ShowTagline:     true,
			TextColor:       "#FFFFFF",
		},
		Footer: Footer{
			ShowFooter:        true,
			ShowPageNumbers:   true,
			ShowGeneratedDate: true,
			Style:             FooterSimple,
		},
		Watermark: Watermark{
			EnableWatermark: false,
			Opacity:         0.1,
			Rotation:        45,
			FontSize:        60,
		},
		Remarks: Remarks{
			ShowRemarks: true,
			Title:       "Remarks",
			Style:       ListBullet,
		},
		Terms: Terms{
			ShowTerms: true,
			Title:     "Terms & Conditions",
			Style:     ListNumbered,
		},
		Sections: Sections{
			ShowQuoteDetails: true,
			ShowCustomerInfo: true,
			ShowItemsTable:   true,
			ShowTotals:       true,
			ShowRemarks:      true,
			ShowTerms:        true,
		},
		Table: Table{
			ShowItemNumber:     true,
			ShowLocation:       true,
			ShowType:           true,
			ShowHeight:         true,
			ShowWidth:          true,
			ShowQuantity:       true,
			ShowArea:           true,
			ShowChargeableArea: false,
			ShowUnitPrice:      true,
			ShowTotal:          true,
			HeaderAlignment:    AlignCenter,
			NumberAlignment:    AlignCenter,
			TextAlignment:      AlignLeft,
			AmountAlignment:    AlignRight,
			TableStyle:         TableStriped,
		},
		DocumentTitle: DocumentTitle{
			FontSize:          16,
			FontWeight:        WeightBold,
			Color:             "#1F3A5F",
			BackgroundColor:   "#2B6CB0",
			BackgroundOpacity: 0.12,
			BorderRadius:      2,
			Padding:           3,
			ReferencePosition: ReferenceInline,
		},
		InfoBoxes: InfoBoxes{
			Layout:       BoxesSideBySide,
			BoxSpacing:   6,
			ShowIcons:    true,
			LabelColor:   "#4A5568",
			LabelSize:    8,
			LabelWeight:  WeightBold,
			ValueColor:   "#1A202C",
			ValueSize:    9,
			ValueWeight:  WeightNormal,
			BorderColor:  "#D0D7E2",
			BorderWidth:  0.3,
			BorderRadius: 2,
		},
	}
}
