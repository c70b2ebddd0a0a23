package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"docportal/document"
	"docportal/layout"
	"docportal/pdfsettings"
)

const (
	numFmtGeneral = 0
	numFmtFixed2  = 2
	numFmtAmount  = 4
)

// GenerateXLSX writes the record as a spreadsheet with the same visible
// columns, labels and totals as the PDF.
func GenerateXLSX(t pdfsettings.DocumentType, rec document.Record, s pdfsettings.PDFSettings, company document.Company) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 characters and may not contain brackets.
	sheetName := t.Label() + " " + strings.NewReplacer("[", "(", "]", ")").Replace(sanitizeFilename(rec.Number))
	if len([]rune(sheetName)) > 31 {
		sheetName = string([]rune(sheetName)[:31])
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	cols := layout.Columns(s.Table)
	lastCol := "A"
	if len(cols) > 0 {
		lastCol, _ = excelize.ColumnNumberToName(len(cols))
	}
	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, 6+c.Weight*8); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	st, err := newSheetStyles(f, s)
	if err != nil {
		return nil, err
	}

	// ── Heading ─────────────────────────────────────────────────────────

	row := 1
	heading := []headingLine{
		{Title(t, s), st.title},
		{company.Name, st.subtitle},
		{fmt.Sprintf("%s No. %s", t.Label(), rec.Number), st.subtitle},
		{fmtField("Date", rec.Date), st.subtitle},
		{fmtField(kinds[t].partyLabel, rec.Customer.Name), st.subtitle},
	}
	for _, h := range heading {
		if h.text == "" {
			continue
		}
		cell := fmt.Sprintf("A%d", row)
		if lastCol != "A" {
			if err := f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row)); err != nil {
				return nil, fmt.Errorf("merge heading: %w", err)
			}
		}
		f.SetCellValue(sheetName, cell, sanitizeExcelCell(h.text))
		f.SetCellStyle(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row), h.style)
		row++
	}
	row++

	// ── Items ───────────────────────────────────────────────────────────

	if s.Sections.ShowItemsTable && len(cols) > 0 {
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, c.Label)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.header)
		row++

		for n, it := range rec.Items {
			striped := s.Table.TableStyle == pdfsettings.TableStriped && n%2 == 1
			for i, c := range cols {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if v, ok := layout.CellNumber(c.Key, n, it); ok {
					f.SetCellValue(sheetName, cell, v.InexactFloat64())
				} else {
					f.SetCellValue(sheetName, cell, sanitizeExcelCell(layout.CellValue(c.Key, n, it)))
				}
				f.SetCellStyle(sheetName, cell, cell, st.cell(c, striped))
			}
			row++
		}
		row++
	}

	// ── Totals ──────────────────────────────────────────────────────────

	if s.Sections.ShowTotals && rec.Totals != nil {
		currency := rec.Currency
		if currency == "" {
			currency = company.Currency
		}
		labelCol, valueCol := "A", "B"
		if len(cols) >= 2 {
			labelCol, _ = excelize.ColumnNumberToName(len(cols) - 1)
			valueCol = lastCol
		}
		for _, line := range layout.TotalsLines(*rec.Totals, currency) {
			label := fmt.Sprintf("%s%d", labelCol, row)
			value := fmt.Sprintf("%s%d", valueCol, row)
			f.SetCellValue(sheetName, label, line.Label)
			f.SetCellValue(sheetName, value, line.Value)
			style := st.summaryLabel
			if line.Grand {
				style = st.grand
			}
			f.SetCellStyle(sheetName, label, label, style)
			f.SetCellStyle(sheetName, value, value, style)
			row++
		}
		row++
	}

	// ── Remarks and terms ───────────────────────────────────────────────

	if s.Sections.ShowRemarks && s.Remarks.ShowRemarks {
		row = writeNotes(f, sheetName, row, s.Remarks.Title, append(append([]string(nil), s.Remarks.Lines...), rec.Notes...), st)
	}
	if s.Sections.ShowTerms && s.Terms.ShowTerms {
		writeNotes(f, sheetName, row, s.Terms.Title, s.Terms.Lines, st)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeNotes(f *excelize.File, sheet string, row int, title string, lines []string, st sheetStyles) int {
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return row
	}
	cell := fmt.Sprintf("A%d", row)
	f.SetCellValue(sheet, cell, sanitizeExcelCell(title))
	f.SetCellStyle(sheet, cell, cell, st.summaryLabel)
	row++
	for _, l := range kept {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(l))
		row++
	}
	return row + 1
}

type headingLine struct {
	text  string
	style int
}

type sheetStyles struct {
	title, subtitle, header int
	summaryLabel, grand     int
	text, number, amount    [2]int
}

func (st sheetStyles) cell(c layout.Column, striped bool) int {
	i := 0
	if striped {
		i = 1
	}
	switch c.Kind {
	case layout.KindAmount:
		return st.amount[i]
	case layout.KindNumber:
		return st.number[i]
	}
	return st.text[i]
}

func newSheetStyles(f *excelize.File, s pdfsettings.PDFSettings) (sheetStyles, error) {
	var st sheetStyles
	var err error
	c := s.Colors

	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: hexOr(c.PrimaryText, "#1A202C")},
	}); err != nil {
		return st, fmt.Errorf("create title style: %w", err)
	}
	if st.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11, Color: hexOr(c.SecondaryText, "#4A5568")},
	}); err != nil {
		return st, fmt.Errorf("create subtitle style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: hexOr(c.TableHeaderText, "#FFFFFF"), Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{hexOr(c.TableHeaderBg, "#1F3A5F")}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: string(s.Table.HeaderAlignment), Vertical: "center"},
		Border:    thinBorders(hexOr(c.TableBorder, "#D0D7E2")),
	}); err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}
	if st.summaryLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return st, fmt.Errorf("create summary style: %w", err)
	}
	if st.grand, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: hexOr(c.Accent, "#2B6CB0")},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    []excelize.Border{{Type: "top", Color: hexOr(c.Accent, "#2B6CB0"), Style: 2}},
	}); err != nil {
		return st, fmt.Errorf("create grand total style: %w", err)
	}

	body := func(align string, numFmt int, striped bool) (int, error) {
		style := &excelize.Style{
			Font:      &excelize.Font{Size: 10, Color: hexOr(c.PrimaryText, "#1A202C")},
			Alignment: &excelize.Alignment{Horizontal: align},
			Border:    thinBorders(hexOr(c.TableBorder, "#D0D7E2")),
			NumFmt:    numFmt,
		}
		if striped {
			style.Fill = excelize.Fill{Type: "pattern", Color: []string{hexOr(c.AlternateRow, "#F3F6FA")}, Pattern: 1}
		}
		return f.NewStyle(style)
	}
	for i, striped := range []bool{false, true} {
		if st.text[i], err = body(string(s.Table.TextAlignment), numFmtGeneral, striped); err != nil {
			return st, fmt.Errorf("create text style: %w", err)
		}
		if st.number[i], err = body(string(s.Table.NumberAlignment), numFmtFixed2, striped); err != nil {
			return st, fmt.Errorf("create number style: %w", err)
		}
		if st.amount[i], err = body(string(s.Table.AmountAlignment), numFmtAmount, striped); err != nil {
			return st, fmt.Errorf("create amount style: %w", err)
		}
	}
	return st, nil
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}

// hexOr normalizes a settings color to #RRGGBB for excelize.
func hexOr(s, fallback string) string {
	rgb, ok := layout.ParseHex(s)
	if !ok {
		return fallback
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides in the given color.
func thinBorders(color string) []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: color,
			Style: 1, // thin
		}
	}
	return borders
}
