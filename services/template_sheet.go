package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"docportal/layout"
	"docportal/pdfsettings"
)

// SheetInput describes the template summarized by GenerateTemplateSheet.
type SheetInput struct {
	Name        string
	Description string
	Scope       string
	System      bool
	Settings    pdfsettings.PDFSettings
	GeneratedAt time.Time
}

// GenerateTemplateSheet renders a one-page review of a template's colors,
// fonts, layout numbers, sections and table columns.
func GenerateTemplateSheet(in SheetInput) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	addSheetHeader(m, in)
	addSheetColors(m, in.Settings.Colors)
	addSheetFonts(m, in.Settings.Fonts)
	addSheetLayout(m, in.Settings)
	addSheetSections(m, in.Settings)
	addSheetColumns(m, in.Settings.Table)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate template sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

var (
	sheetMuted   = &props.Color{Red: 100, Green: 100, Blue: 100}
	sheetLabel   = props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: sheetMuted}
	sheetValue   = props.Text{Size: 9, Align: align.Left}
	sheetSection = props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}
)

func addSheetHeader(m core.Maroto, in SheetInput) {
	kind := "User template"
	if in.System {
		kind = "System template"
	}
	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(text.New(in.Name, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left})),
			col.New(4).Add(text.New(kind, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: sheetMuted})),
		),
	)
	meta := []string{"Scope: " + in.Scope}
	if !in.GeneratedAt.IsZero() {
		meta = append(meta, "Generated "+in.GeneratedAt.Format("2006-01-02 15:04"))
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(strings.Join(meta, " | "), props.Text{Size: 8, Align: align.Left, Color: sheetMuted})),
		),
	)
	if in.Description != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New(in.Description, sheetValue))))
	}
	m.AddRows(row.New(4))
}

func addSheetColors(m core.Maroto, c pdfsettings.Colors) {
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Colors", sheetSection))))

	swatches := []struct {
		label, hex string
	}{
		{"Table header", c.TableHeaderBg},
		{"Header text", c.TableHeaderText},
		{"Alternate row", c.AlternateRow},
		{"Table border", c.TableBorder},
		{"Accent", c.Accent},
		{"Primary text", c.PrimaryText},
		{"Secondary text", c.SecondaryText},
	}
	for _, sw := range swatches {
		swatch := col.New(2)
		if rgb, ok := layout.ParseHex(sw.hex); ok {
			swatch = swatch.WithStyle(&props.Cell{
				BackgroundColor: &props.Color{Red: int(rgb.R), Green: int(rgb.G), Blue: int(rgb.B)},
			})
		}
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(sw.label, sheetLabel)),
				col.New(3).Add(text.New(sw.hex, sheetValue)),
				swatch,
				col.New(3),
			),
		)
	}
	m.AddRows(row.New(4))
}

func addSheetFonts(m core.Maroto, f pdfsettings.Fonts) {
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Fonts", sheetSection))))
	addSheetPairs(m, [][2]string{
		{"Header font", fmt.Sprintf("%s %gpt", f.HeaderFont, f.HeaderSize)},
		{"Body font", fmt.Sprintf("%s %gpt", f.BodyFont, f.BodySize)},
		{"Table size", fmt.Sprintf("%gpt", f.TableSize)},
		{"Footer size", fmt.Sprintf("%gpt", f.FooterSize)},
	})
}

func addSheetLayout(m core.Maroto, s pdfsettings.PDFSettings) {
	l := s.Layout
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Layout", sheetSection))))
	addSheetPairs(m, [][2]string{
		{"Margins (T/R/B/L)", fmt.Sprintf("%g / %g / %g / %g mm", l.MarginTop, l.MarginRight, l.MarginBottom, l.MarginLeft)},
		{"Header / footer height", fmt.Sprintf("%g / %g mm", l.HeaderHeight, l.FooterHeight)},
		{"Section spacing", fmt.Sprintf("%g mm", l.SectionSpacing)},
		{"Header style", string(s.Header.Style)},
		{"Footer style", string(s.Footer.Style)},
		{"Table style", string(s.Table.TableStyle)},
		{"Info boxes", string(s.InfoBoxes.Layout)},
		{"Watermark", watermarkSummary(s.Watermark)},
	})
}

func watermarkSummary(w pdfsettings.Watermark) string {
	if !w.EnableWatermark || w.Text == "" {
		return "off"
	}
	return fmt.Sprintf("%q at %g%% opacity, %g°", w.Text, w.Opacity*100, w.Rotation)
}

func addSheetSections(m core.Maroto, s pdfsettings.PDFSettings) {
	sec := s.Sections
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Sections", sheetSection))))
	addSheetPairs(m, [][2]string{
		{"Details box", onOff(sec.ShowQuoteDetails)},
		{"Customer box", onOff(sec.ShowCustomerInfo)},
		{"Items table", onOff(sec.ShowItemsTable)},
		{"Totals", onOff(sec.ShowTotals)},
		{"Remarks", onOff(sec.ShowRemarks && s.Remarks.ShowRemarks)},
		{"Terms", onOff(sec.ShowTerms && s.Terms.ShowTerms)},
	})
}

func addSheetColumns(m core.Maroto, t pdfsettings.Table) {
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Table columns", sheetSection))))

	cols := layout.Columns(t)
	if len(cols) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("No columns enabled", sheetValue))))
		return
	}
	labels := make([]string, len(cols))
	for i, c := range cols {
		labels[i] = c.Label
	}
	m.AddRows(row.New(10).Add(col.New(12).Add(text.New(strings.Join(labels, "  ·  "), sheetValue))))
}

func addSheetPairs(m core.Maroto, pairs [][2]string) {
	for _, p := range pairs {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(p[0], sheetLabel)),
				col.New(8).Add(text.New(p[1], sheetValue)),
			),
		)
	}
	m.AddRows(row.New(4))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
