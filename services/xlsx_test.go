package services

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"docportal/layout"
	"docportal/pdfsettings"
	"docportal/testhelpers"
)

func openSheet(t *testing.T, data []byte) (*excelize.File, string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	sheet := f.GetSheetList()[0]
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return f, sheet, rows
}

func findRow(rows [][]string, first string) int {
	for i, r := range rows {
		if len(r) > 0 && r[0] == first {
			return i
		}
	}
	return -1
}

func TestGenerateXLSX_Basic(t *testing.T) {
	s := pdfsettings.Default(pdfsettings.Quotes)
	data, err := GenerateXLSX(pdfsettings.Quotes, testhelpers.SampleRecord(), s, testCompany())
	if err != nil {
		t.Fatalf("GenerateXLSX() error = %v", err)
	}

	_, sheet, rows := openSheet(t, data)
	if sheet != "Quote Q-1001" {
		t.Errorf("sheet name = %q", sheet)
	}
	if rows[0][0] != "QUOTATION" {
		t.Errorf("title = %q", rows[0][0])
	}

	header := findRow(rows, "#")
	if header < 0 {
		t.Fatal("header row not found")
	}
	cols := layout.Columns(s.Table)
	if len(rows[header]) != len(cols) {
		t.Fatalf("header has %d cells, want %d", len(rows[header]), len(cols))
	}
	for i, c := range cols {
		if rows[header][i] != c.Label {
			t.Errorf("header[%d] = %q, want %q", i, rows[header][i], c.Label)
		}
	}
	if rows[header+1][1] != "Lobby" || rows[header+2][1] != "Office 2" {
		t.Errorf("item rows = %v / %v", rows[header+1], rows[header+2])
	}

	if findRow(rows, s.Terms.Title) < 0 {
		t.Error("terms block missing")
	}
}

func TestGenerateXLSX_TotalsWithoutDiscount(t *testing.T) {
	s := pdfsettings.Default(pdfsettings.Quotes)
	data, err := GenerateXLSX(pdfsettings.Quotes, testhelpers.SampleRecord(), s, testCompany())
	if err != nil {
		t.Fatal(err)
	}
	_, _, rows := openSheet(t, data)
	header := findRow(rows, "#")
	if header < 0 {
		t.Fatal("header row not found")
	}

	// Skip the header and both item rows, whose labels include "Total".
	var labels []string
	for _, r := range rows[header+3:] {
		for _, cell := range r {
			switch {
			case cell == "Subtotal", cell == "Discount", cell == "Total", len(cell) > 3 && cell[:3] == "VAT":
				labels = append(labels, cell)
			}
		}
	}
	if len(labels) != 3 {
		t.Errorf("totals labels = %v, want subtotal, VAT and total only", labels)
	}
}

func TestGenerateXLSX_AllColumnsOff(t *testing.T) {
	s := pdfsettings.Default(pdfsettings.Orders)
	s.Table = pdfsettings.Table{HeaderAlignment: pdfsettings.AlignCenter, TableStyle: pdfsettings.TablePlain}

	data, err := GenerateXLSX(pdfsettings.Orders, testhelpers.SampleRecord(), s, testCompany())
	if err != nil {
		t.Fatalf("GenerateXLSX() error = %v", err)
	}
	_, _, rows := openSheet(t, data)
	if findRow(rows, "Lobby") >= 0 || findRow(rows, "#") >= 0 {
		t.Error("no item cells expected without columns")
	}
	if findRow(rows, "Subtotal") < 0 {
		t.Error("totals should still be written")
	}
}

func TestGenerateXLSX_SanitizesCells(t *testing.T) {
	rec := testhelpers.SampleRecord()
	rec.Items[0].Location = "=HYPERLINK(\"x\")"

	data, err := GenerateXLSX(pdfsettings.Quotes, rec, pdfsettings.Default(pdfsettings.Quotes), testCompany())
	if err != nil {
		t.Fatal(err)
	}
	f, sheet, rows := openSheet(t, data)
	header := findRow(rows, "#")
	cell, _ := excelize.CoordinatesToCellName(2, header+2)
	formula, _ := f.GetCellFormula(sheet, cell)
	if formula != "" {
		t.Errorf("cell %s became a formula: %q", cell, formula)
	}
	if rows[header+1][1][0] != '\'' {
		t.Errorf("expected quoted value, got %q", rows[header+1][1])
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"plain", "plain"},
		{"=1+1", "'=1+1"},
		{"-5", "'-5"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexOr(t *testing.T) {
	if got := hexOr("#abc", "#000000"); got != "#AABBCC" {
		t.Errorf("short hex = %q", got)
	}
	if got := hexOr("bogus", "#000000"); got != "#000000" {
		t.Errorf("fallback = %q", got)
	}
}
