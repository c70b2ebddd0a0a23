package pdfsettings

import (
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

var (
	FontSizeRange       = Range{6, 40}
	OpacityRange        = Range{0, 1}
	MarginRange         = Range{0, 50}
	HeaderHeightRange   = Range{15, 80}
	FooterHeightRange   = Range{10, 40}
	SpacingRange        = Range{0, 30}
	LogoSizeRange       = Range{5, 100}
	RotationRange       = Range{-180, 180}
	WatermarkSizeRange  = Range{20, 150}
	PaddingRange        = Range{0, 20}
	RadiusRange         = Range{0, 10}
	BorderWidthRange    = Range{0, 3}
	maxListLines        = 200
	maxLineLength       = 2000
	maxWatermarkLength  = 40
	maxTitleLength      = 120
	maxFooterTextLength = 500
)

// Clamp pulls v into the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Rule rejects values outside the range, including zero.
func (r Range) Rule() validation.Rule {
	return validation.By(func(value interface{}) error {
		v, ok := value.(float64)
		if !ok {
			return validation.NewError("validation_not_number", "must be a number")
		}
		if math.IsNaN(v) || v < r.Min || v > r.Max {
			return validation.NewError("validation_out_of_range",
				fmt.Sprintf("must be between %g and %g", r.Min, r.Max))
		}
		return nil
	})
}

func colorRules() []validation.Rule {
	return []validation.Rule{validation.Required, is.HexColor}
}

func alignmentRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.In(AlignLeft, AlignCenter, AlignRight)}
}

func weightRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.In(WeightNormal, WeightBold)}
}

func linesRule() validation.Rule {
	return validation.Each(validation.Length(0, maxLineLength))
}

// Validate reports every out-of-range number, unknown enum value and
// malformed color. It is applied before any settings are persisted.
func (s PDFSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Fonts),
		validation.Field(&s.Colors),
		validation.Field(&s.Layout),
		validation.Field(&s.Logo),
		validation.Field(&s.Header),
		validation.Field(&s.Footer),
		validation.Field(&s.Watermark),
		validation.Field(&s.Remarks),
		validation.Field(&s.Terms),
		validation.Field(&s.Table),
		validation.Field(&s.DocumentTitle),
		validation.Field(&s.InfoBoxes),
	)
}

func (f Fonts) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.HeaderFont, validation.Length(0, 64)),
		validation.Field(&f.BodyFont, validation.Length(0, 64)),
		validation.Field(&f.HeaderSize, FontSizeRange.Rule()),
		validation.Field(&f.BodySize, FontSizeRange.Rule()),
		validation.Field(&f.TableSize, FontSizeRange.Rule()),
		validation.Field(&f.FooterSize, FontSizeRange.Rule()),
	)
}

func (c Colors) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TableHeaderBg, colorRules()...),
		validation.Field(&c.TableHeaderText, colorRules()...),
		validation.Field(&c.AlternateRow, colorRules()...),
		validation.Field(&c.TableBorder, colorRules()...),
		validation.Field(&c.Accent, colorRules()...),
		validation.Field(&c.PrimaryText, colorRules()...),
		validation.Field(&c.SecondaryText, colorRules()...),
	)
}

func (l Layout) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.MarginTop, MarginRange.Rule()),
		validation.Field(&l.MarginRight, MarginRange.Rule()),
		validation.Field(&l.MarginBottom, MarginRange.Rule()),
		validation.Field(&l.MarginLeft, MarginRange.Rule()),
		validation.Field(&l.HeaderHeight, HeaderHeightRange.Rule()),
		validation.Field(&l.FooterHeight, FooterHeightRange.Rule()),
		validation.Field(&l.SectionSpacing, SpacingRange.Rule()),
	)
}

func (l Logo) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Position, alignmentRules()...),
		validation.Field(&l.Width, LogoSizeRange.Rule()),
		validation.Field(&l.Height, LogoSizeRange.Rule()),
	)
}

func (h Header) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Style, validation.Required,
			validation.In(HeaderSimple, HeaderGradient, HeaderBordered, HeaderLetterhead)),
		validation.Field(&h.TextColor, colorRules()...),
	)
}

func (f Footer) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Text, validation.Length(0, maxFooterTextLength)),
		validation.Field(&f.Style, validation.Required,
			validation.In(FooterSimple, FooterGradient, FooterBordered)),
	)
}

func (w Watermark) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Text, validation.When(w.EnableWatermark, validation.Required),
			validation.Length(0, maxWatermarkLength)),
		validation.Field(&w.Opacity, OpacityRange.Rule()),
		validation.Field(&w.Rotation, RotationRange.Rule()),
		validation.Field(&w.FontSize, WatermarkSizeRange.Rule()),
	)
}

func listStyleRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.In(ListBullet, ListNumbered, ListPlain)}
}

func (r Remarks) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.Lines, validation.Length(0, maxListLines), linesRule()),
		validation.Field(&r.Style, listStyleRules()...),
	)
}

func (t Terms) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&t.Lines, validation.Length(0, maxListLines), linesRule()),
		validation.Field(&t.Style, listStyleRules()...),
	)
}

func (t Table) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.HeaderAlignment, alignmentRules()...),
		validation.Field(&t.NumberAlignment, alignmentRules()...),
		validation.Field(&t.TextAlignment, alignmentRules()...),
		validation.Field(&t.AmountAlignment, alignmentRules()...),
		validation.Field(&t.TableStyle, validation.Required,
			validation.In(TableStriped, TableGrid, TablePlain)),
	)
}

func (d DocumentTitle) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Text, validation.Length(0, maxTitleLength)),
		validation.Field(&d.FontSize, FontSizeRange.Rule()),
		validation.Field(&d.FontWeight, weightRules()...),
		validation.Field(&d.Color, colorRules()...),
		validation.Field(&d.BackgroundColor, colorRules()...),
		validation.Field(&d.BackgroundOpacity, OpacityRange.Rule()),
		validation.Field(&d.BorderRadius, RadiusRange.Rule()),
		validation.Field(&d.Padding, PaddingRange.Rule()),
		validation.Field(&d.ReferencePosition, validation.Required,
			validation.In(ReferenceInline, ReferenceBelow)),
	)
}

func (b InfoBoxes) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Layout, validation.Required, validation.In(BoxesSideBySide, BoxesStacked)),
		validation.Field(&b.BoxSpacing, SpacingRange.Rule()),
		validation.Field(&b.LabelColor, colorRules()...),
		validation.Field(&b.LabelSize, FontSizeRange.Rule()),
		validation.Field(&b.LabelWeight, weightRules()...),
		validation.Field(&b.ValueColor, colorRules()...),
		validation.Field(&b.ValueSize, FontSizeRange.Rule()),
		validation.Field(&b.ValueWeight, weightRules()...),
		validation.Field(&b.BorderColor, colorRules()...),
		validation.Field(&b.BorderWidth, BorderWidthRange.Rule()),
		validation.Field(&b.BorderRadius, RadiusRange.Rule()),
	)
}

// Validate checks every stored bucket and the global defaults.
func (d DocumentPDFSettings) Validate() error {
	errs := validation.Errors{}
	for _, t := range DocumentTypes {
		if s, ok := d.Bucket(t); ok {
			if err := s.Validate(); err != nil {
				errs[string(t)] = err
			}
		}
	}
	if d.Global != nil {
		if err := d.Global.DefaultSettings.Validate(); err != nil {
			errs["global"] = err
		}
	}
	return errs.Filter()
}

// Clamp returns a copy that is safe to lay out: numbers are pulled into range
// and unknown enum values are replaced by the built-in default. Colors and
// font names are left alone; the layout engine resolves those with fallbacks.
func (s PDFSettings) Clamp() PDFSettings {
	def := base()
	out := s.Clone()

	out.Fonts.HeaderSize = FontSizeRange.Clamp(s.Fonts.HeaderSize)
	out.Fonts.BodySize = FontSizeRange.Clamp(s.Fonts.BodySize)
	out.Fonts.TableSize = FontSizeRange.Clamp(s.Fonts.TableSize)
	out.Fonts.FooterSize = FontSizeRange.Clamp(s.Fonts.FooterSize)

	out.Layout.MarginTop = MarginRange.Clamp(s.Layout.MarginTop)
	out.Layout.MarginRight = MarginRange.Clamp(s.Layout.MarginRight)
	out.Layout.MarginBottom = MarginRange.Clamp(s.Layout.MarginBottom)
	out.Layout.MarginLeft = MarginRange.Clamp(s.Layout.MarginLeft)
	out.Layout.HeaderHeight = HeaderHeightRange.Clamp(s.Layout.HeaderHeight)
	out.Layout.FooterHeight = FooterHeightRange.Clamp(s.Layout.FooterHeight)
	out.Layout.SectionSpacing = SpacingRange.Clamp(s.Layout.SectionSpacing)

	out.Logo.Width = LogoSizeRange.Clamp(s.Logo.Width)
	out.Logo.Height = LogoSizeRange.Clamp(s.Logo.Height)
	out.Logo.Position = oneOf(s.Logo.Position, def.Logo.Position, AlignLeft, AlignCenter, AlignRight)

	out.Header.Style = oneOf(s.Header.Style, def.Header.Style,
		HeaderSimple, HeaderGradient, HeaderBordered, HeaderLetterhead)
	out.Footer.Style = oneOf(s.Footer.Style, def.Footer.Style, FooterSimple, FooterGradient, FooterBordered)

	out.Watermark.Opacity = OpacityRange.Clamp(s.Watermark.Opacity)
	out.Watermark.Rotation = RotationRange.Clamp(s.Watermark.Rotation)
	out.Watermark.FontSize = WatermarkSizeRange.Clamp(s.Watermark.FontSize)

	out.Remarks.Style = oneOf(s.Remarks.Style, def.Remarks.Style, ListBullet, ListNumbered, ListPlain)
	out.Terms.Style = oneOf(s.Terms.Style, def.Terms.Style, ListBullet, ListNumbered, ListPlain)

	align := []Alignment{AlignLeft, AlignCenter, AlignRight}
	out.Table.HeaderAlignment = oneOf(s.Table.HeaderAlignment, def.Table.HeaderAlignment, align...)
	out.Table.NumberAlignment = oneOf(s.Table.NumberAlignment, def.Table.NumberAlignment, align...)
	out.Table.TextAlignment = oneOf(s.Table.TextAlignment, def.Table.TextAlignment, align...)
	out.Table.AmountAlignment = oneOf(s.Table.AmountAlignment, def.Table.AmountAlignment, align...)
	out.Table.TableStyle = oneOf(s.Table.TableStyle, def.Table.TableStyle, TableStriped, TableGrid, TablePlain)

	out.DocumentTitle.FontSize = FontSizeRange.Clamp(s.DocumentTitle.FontSize)
	out.DocumentTitle.FontWeight = oneOf(s.DocumentTitle.FontWeight, def.DocumentTitle.FontWeight, WeightNormal, WeightBold)
	out.DocumentTitle.BackgroundOpacity = OpacityRange.Clamp(s.DocumentTitle.BackgroundOpacity)
	out.DocumentTitle.BorderRadius = RadiusRange.Clamp(s.DocumentTitle.BorderRadius)
	out.DocumentTitle.Padding = PaddingRange.Clamp(s.DocumentTitle.Padding)
	out.DocumentTitle.ReferencePosition = oneOf(s.DocumentTitle.ReferencePosition,
		def.DocumentTitle.ReferencePosition, ReferenceInline, ReferenceBelow)

	out.InfoBoxes.Layout = oneOf(s.InfoBoxes.Layout, def.InfoBoxes.Layout, BoxesSideBySide, BoxesStacked)
	out.InfoBoxes.BoxSpacing = SpacingRange.Clamp(s.InfoBoxes.BoxSpacing)
	out.InfoBoxes.LabelSize = FontSizeRange.Clamp(s.InfoBoxes.LabelSize)
	out.InfoBoxes.ValueSize = FontSizeRange.Clamp(s.InfoBoxes.ValueSize)
	out.InfoBoxes.LabelWeight = oneOf(s.InfoBoxes.LabelWeight, def.InfoBoxes.LabelWeight, WeightNormal, WeightBold)
	out.InfoBoxes.ValueWeight = oneOf(s.InfoBoxes.ValueWeight, def.InfoBoxes.ValueWeight, WeightNormal, WeightBold)
	out.InfoBoxes.BorderWidth = BorderWidthRange.Clamp(s.InfoBoxes.BorderWidth)
	out.InfoBoxes.BorderRadius = RadiusRange.Clamp(s.InfoBoxes.BorderRadius)

	return out
}

func oneOf[T comparable](v, fallback T, allowed ...T) T {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
