// Package pdfsettings holds the style configuration that drives document
// rendering: the nested PDFSettings schema, built-in defaults per document
// type, range validation, and the resolver that picks the effective settings
// for a render.
package pdfsettings

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type HeaderStyle string

const (
	HeaderSimple     HeaderStyle = "simple"
	HeaderGradient   HeaderStyle = "gradient"
	HeaderBordered   HeaderStyle = "bordered"
	HeaderLetterhead HeaderStyle = "letterhead"
)

type FooterStyle string

const (
	FooterSimple   FooterStyle = "simple"
	FooterGradient FooterStyle = "gradient"
	FooterBordered FooterStyle = "bordered"
)

type TableStyle string

const (
	TableStriped TableStyle = "striped"
	TableGrid    TableStyle = "grid"
	TablePlain   TableStyle = "plain"
)

// ListStyle controls how remarks and terms lines are prefixed.
type ListStyle string

const (
	ListBullet   ListStyle = "bullet"
	ListNumbered ListStyle = "numbered"
	ListPlain    ListStyle = "plain"
)

type BoxLayout string

const (
	BoxesSideBySide BoxLayout = "side-by-side"
	BoxesStacked    BoxLayout = "stacked"
)

// ReferencePosition places the document number relative to the title bar.
type ReferencePosition string

const (
	ReferenceInline ReferencePosition = "inline"
	ReferenceBelow  ReferencePosition = "below"
)

type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// Fonts holds logical font family names and point sizes.
type Fonts struct {
	HeaderFont string  `json:"headerFont"`
	BodyFont   string  `json:"bodyFont"`
	HeaderSize float64 `json:"headerSize"`
	BodySize   float64 `json:"bodySize"`
	TableSize  float64 `json:"tableSize"`
	FooterSize float64 `json:"footerSize"`
}

// Colors are hex strings such as "#1F3A5F".
type Colors struct {
	TableHeaderBg   string `json:"tableHeaderBg"`
	TableHeaderText string `json:"tableHeaderText"`
	AlternateRow    string `json:"alternateRow"`
	TableBorder     string `json:"tableBorder"`
	Accent          string `json:"accent"`
	PrimaryText     string `json:"primaryText"`
	SecondaryText   string `json:"secondaryText"`
}

// Layout dimensions are in millimetres.
type Layout struct {
	MarginTop      float64 `json:"marginTop"`
	MarginRight    float64 `json:"marginRight"`
	MarginBottom   float64 `json:"marginBottom"`
	MarginLeft     float64 `json:"marginLeft"`
	HeaderHeight   float64 `json:"headerHeight"`
	FooterHeight   float64 `json:"footerHeight"`
	SectionSpacing float64 `json:"sectionSpacing"`
}

type Logo struct {
	ShowLogo bool      `json:"showLogo"`
	Position Alignment `json:"position"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
}

type Header struct {
	ShowHeader      bool        `json:"showHeader"`
	Style           HeaderStyle `json:"style"`
	ShowCompanyInfo bool        `json:"showCompanyInfo"`
	ShowTagline     bool        `json:"showTagline"`
	TextColor       string      `json:"textColor"`
}

type Footer struct {
	ShowFooter        bool        `json:"showFooter"`
	Text              string      `json:"text"`
	ShowPageNumbers   bool        `json:"showPageNumbers"`
	ShowGeneratedDate bool        `json:"showGeneratedDate"`
	Style             FooterStyle `json:"style"`
}

type Watermark struct {
	EnableWatermark bool    `json:"enableWatermark"`
	Text            string  `json:"text"`
	Opacity         float64 `json:"opacity"`
	Rotation        float64 `json:"rotation"`
	FontSize        float64 `json:"fontSize"`
}

// Remarks and Terms lines are printed top to bottom in stored order.
type Remarks struct {
	ShowRemarks bool      `json:"showRemarks"`
	Title       string    `json:"title"`
	Lines       []string  `json:"lines"`
	Style       ListStyle `json:"style"`
}

type Terms struct {
	ShowTerms bool      `json:"showTerms"`
	Title     string    `json:"title"`
	Lines     []string  `json:"lines"`
	Style     ListStyle `json:"style"`
}

// Sections gate whole blocks of the document.
type Sections struct {
	ShowQuoteDetails bool `json:"showQuoteDetails"`
	ShowCustomerInfo bool `json:"showCustomerInfo"`
	ShowItemsTable   bool `json:"showItemsTable"`
	ShowTotals       bool `json:"showTotals"`
	ShowRemarks      bool `json:"showRemarks"`
	ShowTerms        bool `json:"showTerms"`
}

// Table holds one visibility flag per item column, in print order.
type Table struct {
	ShowItemNumber     bool       `json:"showItemNumber"`
	ShowLocation       bool       `json:"showLocation"`
	ShowType           bool       `json:"showType"`
	ShowHeight         bool       `json:"showHeight"`
	ShowWidth          bool       `json:"showWidth"`
	ShowQuantity       bool       `json:"showQuantity"`
	ShowArea           bool       `json:"showArea"`
	ShowChargeableArea bool       `json:"showChargeableArea"`
	ShowUnitPrice      bool       `json:"showUnitPrice"`
	ShowTotal          bool       `json:"showTotal"`
	HeaderAlignment    Alignment  `json:"headerAlignment"`
	NumberAlignment    Alignment  `json:"numberAlignment"`
	TextAlignment      Alignment  `json:"textAlignment"`
	AmountAlignment    Alignment  `json:"amountAlignment"`
	TableStyle         TableStyle `json:"tableStyle"`
}

type DocumentTitle struct {
	Text              string            `json:"text"`
	FontSize          float64           `json:"fontSize"`
	FontWeight        FontWeight        `json:"fontWeight"`
	Color             string            `json:"color"`
	BackgroundColor   string            `json:"backgroundColor"`
	BackgroundOpacity float64           `json:"backgroundOpacity"`
	BorderRadius      float64           `json:"borderRadius"`
	Padding           float64           `json:"padding"`
	ReferencePosition ReferencePosition `json:"referencePosition"`
}

type InfoBoxes struct {
	Layout       BoxLayout  `json:"layout"`
	BoxSpacing   float64    `json:"boxSpacing"`
	ShowIcons    bool       `json:"showIcons"`
	LabelColor   string     `json:"labelColor"`
	LabelSize    float64    `json:"labelSize"`
	LabelWeight  FontWeight `json:"labelWeight"`
	ValueColor   string     `json:"valueColor"`
	ValueSize    float64    `json:"valueSize"`
	ValueWeight  FontWeight `json:"valueWeight"`
	BorderColor  string     `json:"borderColor"`
	BorderWidth  float64    `json:"borderWidth"`
	BorderRadius float64    `json:"borderRadius"`
}

// PDFSettings is the full style configuration for one rendered document.
type PDFSettings struct {
	Fonts         Fonts         `json:"fonts"`
	Colors        Colors        `json:"colors"`
	Layout        Layout        `json:"layout"`
	Logo          Logo          `json:"logo"`
	Header        Header        `json:"header"`
	Footer        Footer        `json:"footer"`
	Watermark     Watermark     `json:"watermark"`
	Remarks       Remarks       `json:"remarks"`
	Terms         Terms         `json:"terms"`
	Sections      Sections      `json:"sections"`
	Table         Table         `json:"table"`
	DocumentTitle DocumentTitle `json:"documentTitle"`
	InfoBoxes     InfoBoxes     `json:"infoBoxes"`
}

// Clone returns a deep copy. Only the line lists are reference types.
func (s PDFSettings) Clone() PDFSettings {
	out := s
	out.Remarks.Lines = cloneLines(s.Remarks.Lines)
	out.Terms.Lines = cloneLines(s.Terms.Lines)
	return out
}

func cloneLines(lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// GlobalSettings overrides every per-type bucket while UseGlobalDefaults is set.
type GlobalSettings struct {
	UseGlobalDefaults bool        `json:"useGlobalDefaults"`
	DefaultSettings   PDFSettings `json:"defaultSettings"`
}

// DocumentPDFSettings is the persisted configuration blob: one optional
// bucket per document type plus the optional global entry.
type DocumentPDFSettings struct {
	Quotes     *PDFSettings    `json:"quotes,omitempty"`
	Invoices   *PDFSettings    `json:"invoices,omitempty"`
	Orders     *PDFSettings    `json:"orders,omitempty"`
	Warranties *PDFSettings    `json:"warranties,omitempty"`
	SiteVisits *PDFSettings    `json:"siteVisits,omitempty"`
	Global     *GlobalSettings `json:"global,omitempty"`
}

func (d *DocumentPDFSettings) slot(t DocumentType) **PDFSettings {
	switch t {
	case Quotes:
		return &d.Quotes
	case Invoices:
		return &d.Invoices
	case Orders:
		return &d.Orders
	case Warranties:
		return &d.Warranties
	case SiteVisits:
		return &d.SiteVisits
	}
	return nil
}

// Bucket returns a copy of the stored settings for t, if any.
func (d DocumentPDFSettings) Bucket(t DocumentType) (PDFSettings, bool) {
	p := d.slot(t)
	if p == nil || *p == nil {
		return PDFSettings{}, false
	}
	return (*p).Clone(), true
}

// SetBucket stores a copy of s as the bucket for t.
func (d *DocumentPDFSettings) SetBucket(t DocumentType, s PDFSettings) error {
	p := d.slot(t)
	if p == nil {
		return ErrUnknownDocumentType
	}
	c := s.Clone()
	*p = &c
	return nil
}

// ClearBucket removes the stored settings for t so it resolves to defaults.
func (d *DocumentPDFSettings) ClearBucket(t DocumentType) {
	if p := d.slot(t); p != nil {
		*p = nil
	}
}

// Clone returns a deep copy of the whole blob.
func (d DocumentPDFSettings) Clone() DocumentPDFSettings {
	var out DocumentPDFSettings
	for _, t := range DocumentTypes {
		if s, ok := d.Bucket(t); ok {
			_ = out.SetBucket(t, s)
		}
	}
	if d.Global != nil {
		g := GlobalSettings{
			UseGlobalDefaults: d.Global.UseGlobalDefaults,
			DefaultSettings:   d.Global.DefaultSettings.Clone(),
		}
		out.Global = &g
	}
	return out
}
