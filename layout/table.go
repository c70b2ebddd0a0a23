package layout

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"docportal/document"
	"docportal/pdfsettings"
)

type ColumnKey string

const (
	ColItemNumber     ColumnKey = "itemNumber"
	ColLocation       ColumnKey = "location"
	ColType           ColumnKey = "type"
	ColHeight         ColumnKey = "height"
	ColWidth          ColumnKey = "width"
	ColQuantity       ColumnKey = "quantity"
	ColArea           ColumnKey = "area"
	ColChargeableArea ColumnKey = "chargeableArea"
	ColUnitPrice      ColumnKey = "unitPrice"
	ColTotal          ColumnKey = "total"
)

// ColumnKind decides which alignment setting a body cell uses.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindAmount
)

type Column struct {
	Key    ColumnKey
	Label  string
	Kind   ColumnKind
	Weight float64
	Align  pdfsettings.Alignment
}

type columnDef struct {
	key    ColumnKey
	label  string
	kind   ColumnKind
	weight float64
	shown  func(pdfsettings.Table) bool
}

// columnDefs is the fixed print order.
var columnDefs = []columnDef{
	{ColItemNumber, "#", KindNumber, 0.6, func(t pdfsettings.Table) bool { return t.ShowItemNumber }},
	{ColLocation, "Location", KindText, 1.8, func(t pdfsettings.Table) bool { return t.ShowLocation }},
	{ColType, "Type", KindText, 1.6, func(t pdfsettings.Table) bool { return t.ShowType }},
	{ColHeight, "Height", KindNumber, 0.9, func(t pdfsettings.Table) bool { return t.ShowHeight }},
	{ColWidth, "Width", KindNumber, 0.9, func(t pdfsettings.Table) bool { return t.ShowWidth }},
	{ColQuantity, "Qty", KindNumber, 0.7, func(t pdfsettings.Table) bool { return t.ShowQuantity }},
	{ColArea, "Area (m²)", KindNumber, 1.0, func(t pdfsettings.Table) bool { return t.ShowArea }},
	{ColChargeableArea, "Chargeable (m²)", KindNumber, 1.2, func(t pdfsettings.Table) bool { return t.ShowChargeableArea }},
	{ColUnitPrice, "Unit Price", KindAmount, 1.2, func(t pdfsettings.Table) bool { return t.ShowUnitPrice }},
	{ColTotal, "Total", KindAmount, 1.3, func(t pdfsettings.Table) bool { return t.ShowTotal }},
}

// Columns returns the visible columns in print order. Any subset of flags is
// valid, including none.
func Columns(t pdfsettings.Table) []Column {
	var cols []Column
	for _, d := range columnDefs {
		if !d.shown(t) {
			continue
		}
		align := t.TextAlignment
		switch d.kind {
		case KindNumber:
			align = t.NumberAlignment
		case KindAmount:
			align = t.AmountAlignment
		}
		cols = append(cols, Column{Key: d.key, Label: d.label, Kind: d.kind, Weight: d.weight, Align: align})
	}
	return cols
}

// Table is the header and body cell text of the item table.
type Table struct {
	Columns     []Column
	HeaderAlign pdfsettings.Alignment
	Style       pdfsettings.TableStyle
	FontSize    float64
	Rows        [][]string
}

// BuildTable converts items into cell text for the visible columns. With no
// visible columns the table has a header band and no rows.
func BuildTable(items []document.LineItem, t pdfsettings.Table, f pdfsettings.Fonts) Table {
	tb := Table{
		Columns:     Columns(t),
		HeaderAlign: t.HeaderAlignment,
		Style:       t.TableStyle,
		FontSize:    f.TableSize,
	}
	if len(tb.Columns) == 0 {
		return tb
	}
	for i, it := range items {
		row := make([]string, len(tb.Columns))
		for j, c := range tb.Columns {
			row[j] = CellValue(c.Key, i, it)
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb
}

// CellValue formats one item field. index is zero-based.
func CellValue(key ColumnKey, index int, it document.LineItem) string {
	switch key {
	case ColItemNumber:
		return strconv.Itoa(index + 1)
	case ColLocation:
		return it.Location
	case ColType:
		return it.Type
	case ColHeight:
		return document.FormatDimension(it.Height)
	case ColWidth:
		return document.FormatDimension(it.Width)
	case ColQuantity:
		return document.FormatQuantity(it.Quantity)
	case ColArea:
		return document.FormatDimension(it.Area)
	case ColChargeableArea:
		return document.FormatDimension(it.ChargeableArea)
	case ColUnitPrice:
		return document.FormatAmount(it.UnitPrice)
	case ColTotal:
		return document.FormatAmount(it.Total)
	}
	return ""
}

// CellNumber returns the numeric value behind a number or amount column.
// Text columns report false.
func CellNumber(key ColumnKey, index int, it document.LineItem) (decimal.Decimal, bool) {
	switch key {
	case ColItemNumber:
		return decimal.NewFromInt(int64(index + 1)), true
	case ColHeight:
		return it.Height, true
	case ColWidth:
		return it.Width, true
	case ColQuantity:
		return it.Quantity, true
	case ColArea:
		return it.Area, true
	case ColChargeableArea:
		return it.ChargeableArea, true
	case ColUnitPrice:
		return it.UnitPrice, true
	case ColTotal:
		return it.Total, true
	}
	return decimal.Zero, false
}

const (
	cellPadding        = 1.5
	rowPadding         = 2.5
	tableHeaderPadding = 3.0
)

// drawTable flows rows down the page, repeating the header band at the top
// of every continuation page.
func (e *Engine) drawTable(tb Table) {
	lh := LineHeight(tb.FontSize)
	headerH := lh + tableHeaderPadding

	if len(tb.Columns) == 0 {
		e.ensure(headerH)
		e.page.add(RectOp{Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: headerH,
			Fill: ptr(e.colors.headerBg), Stroke: ptr(e.colors.border), LineWidth: 0.2})
		e.y += headerH
		e.gap()
		return
	}

	widths := e.columnWidths(tb.Columns)
	bodyFont := e.bodyFont("", tb.FontSize)

	maxLines := int(math.Floor((e.bottom - e.top - headerH - rowPadding) / lh))
	if maxLines < 1 {
		maxLines = 1
	}
	cells := make([][][]string, len(tb.Rows))
	heights := make([]float64, len(tb.Rows))
	for i, row := range tb.Rows {
		lines := 1
		cells[i] = make([][]string, len(row))
		for j, v := range row {
			wrapped := Wrap(e.m, v, widths[j]-2*cellPadding, bodyFont)
			if len(wrapped) > maxLines {
				wrapped = wrapped[:maxLines]
				last := wrapped[maxLines-1] + ellipsis
				wrapped[maxLines-1] = Fit(e.m, last, widths[j]-2*cellPadding, bodyFont)
			}
			cells[i][j] = wrapped
			lines = max(lines, len(wrapped))
		}
		heights[i] = float64(lines)*lh + rowPadding
	}

	first := headerH
	if len(heights) > 0 {
		first += heights[0]
	}
	e.ensure(first)
	e.drawTableHeader(tb, widths)

	for i := range tb.Rows {
		if e.y+heights[i] > e.bottom {
			e.newPage()
			e.drawTableHeader(tb, widths)
		}
		e.drawTableRow(tb, widths, cells[i], heights[i], i, bodyFont)
	}
	e.gap()
}

func (e *Engine) columnWidths(cols []Column) []float64 {
	total := 0.0
	for _, c := range cols {
		total += c.Weight
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = e.width * c.Weight / total
	}
	return widths
}

func (e *Engine) drawTableHeader(tb Table, widths []float64) {
	lh := LineHeight(tb.FontSize)
	h := lh + tableHeaderPadding
	e.page.add(RectOp{Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: h,
		Fill: ptr(e.colors.headerBg), Stroke: ptr(e.colors.border), LineWidth: 0.2})
	f := e.bodyFont("B", tb.FontSize)
	x := e.left
	for i, c := range tb.Columns {
		e.text(x+cellPadding, e.y+tableHeaderPadding/2, widths[i]-2*cellPadding, c.Label, f, e.colors.headerText, tb.HeaderAlign)
		x += widths[i]
	}
	e.y += h
}

func (e *Engine) drawTableRow(tb Table, widths []float64, cells [][]string, h float64, index int, f Font) {
	if tb.Style == pdfsettings.TableStriped && index%2 == 1 {
		e.page.add(RectOp{Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: h, Fill: ptr(e.colors.altRow)})
	}
	lh := LineHeight(tb.FontSize)
	x := e.left
	for i, c := range tb.Columns {
		if tb.Style == pdfsettings.TableGrid {
			e.page.add(RectOp{Layer: LayerContent, X: x, Y: e.y, W: widths[i], H: h,
				Stroke: ptr(e.colors.border), LineWidth: 0.2})
		}
		for k, line := range cells[i] {
			e.text(x+cellPadding, e.y+rowPadding/2+float64(k)*lh, widths[i]-2*cellPadding, line, f, e.colors.text, c.Align)
		}
		x += widths[i]
	}
	if tb.Style != pdfsettings.TableGrid {
		e.page.add(RectOp{Layer: LayerContent, X: e.left, Y: e.y, W: e.width, H: h,
			Stroke: ptr(e.colors.border), LineWidth: 0.2})
	}
	e.y += h
}
