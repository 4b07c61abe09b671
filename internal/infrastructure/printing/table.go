package printing

import (
	"fmt"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// Table geometry, in millimetres.
const (
	tableHeaderMM = 8.0
	tableRowMM    = 7.0
	tableFooterMM = 8.0
	tableGapMM    = 4.0
	tableCellPad  = 2.0
	tableFontSize = 9.0
)

// Column describes one table column. Width is a fraction of the content
// width; zero on the last column makes it absorb the remaining width.
type Column struct {
	Label string
	Width float64
	Align Align
}

// HighlightRule selects body rows, by position, to be redrawn with an
// overriding fill and text color after the normal pass.
type HighlightRule struct {
	Rows []int
	Fill printing.Color
	Text printing.Color
}

// HighlightFirstRow emphasizes row 0 with the palette highlight colors
func HighlightFirstRow(p printing.Palette) *HighlightRule {
	return &HighlightRule{Rows: []int{0}, Fill: p.HighlightFill, Text: p.HighlightText}
}

// TableSpec is a column based block. Cells are display strings; the table
// does not interpret their content.
type TableSpec struct {
	Columns      []Column
	Rows         [][]string
	Footer       []string
	Zebra        bool
	Highlight    *HighlightRule
	EmptyMessage string
}

// tableHeightMM is the height of an unbroken table with rows body rows
func tableHeightMM(rows int, withFooter bool) float64 {
	h := tableHeaderMM + float64(rows)*tableRowMM + tableGapMM
	if withFooter {
		h += tableFooterMM
	}
	return h
}

// resolveWidths turns column fractions into widths. Only the last column
// may absorb; anything else is a caller bug.
func resolveWidths(total float64, cols []Column) []float64 {
	widths := make([]float64, len(cols))
	used := 0.0
	for i, c := range cols {
		if c.Width < 0 {
			panic(fmt.Sprintf("printing: column %q has negative width", c.Label))
		}
		if c.Width == 0 {
			if i != len(cols)-1 {
				panic(fmt.Sprintf("printing: only the last column may absorb width, got %q", c.Label))
			}
			continue
		}
		widths[i] = total * c.Width
		used += widths[i]
	}
	if last := len(cols) - 1; cols[last].Width == 0 {
		widths[last] = max(0, total-used)
	}
	return widths
}

type rowPlacement struct {
	page int
	y    float64
}

type rowStyle struct {
	fill    printing.Color
	hasFill bool
	text    printing.Color
	bold    bool
	height  float64
}

type tableLayout struct {
	d      *DocumentContext
	spec   TableSpec
	widths []float64
}

func (t *tableLayout) drawCells(cells []string, y float64, st rowStyle) {
	d := t.d
	x := d.Left()
	if st.hasFill {
		d.fillRect(x, y, d.ContentWidth(), d.mm(st.height), st.fill)
	}
	pad := d.mm(tableCellPad)
	for i, w := range t.widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		align := t.spec.Columns[i].Align
		if align == "" {
			align = AlignLeft
		}
		wMM := d.profile.ToMillimeters(w) - 2*tableCellPad
		d.text(fitText(cell, wMM, tableFontSize), x+pad, y, w-2*pad, st.height, font(tableFontSize, st.bold, false), st.text, align)
		x += w
	}
	d.canvas.DrawLine(d.Left(), y+d.mm(st.height), d.Left()+d.ContentWidth(), y+d.mm(st.height),
		LineStyle{Color: d.palette.Border, Width: d.mm(hairlineMM)})
}

func (t *tableLayout) drawHeader() {
	p := t.d.palette
	labels := make([]string, len(t.spec.Columns))
	for i, c := range t.spec.Columns {
		labels[i] = c.Label
	}
	t.drawCells(labels, t.d.y, rowStyle{fill: p.HeaderFill, hasFill: true, text: p.HeaderText, bold: true, height: tableHeaderMM})
	t.d.Advance(t.d.mm(tableHeaderMM))
}

func (t *tableLayout) bodyStyle(i int) rowStyle {
	p := t.d.palette
	st := rowStyle{text: p.Text, height: tableRowMM}
	if t.spec.Zebra && i%2 == 1 {
		st.fill, st.hasFill = p.ZebraFill, true
	}
	return st
}

// breakIfNeeded opens a continuation page with the header repeated when a
// row of height h does not fit.
func (t *tableLayout) breakIfNeeded(h float64) {
	if t.d.Overflows(t.d.mm(h)) && !t.d.AtTop() {
		t.d.NewPage()
		t.drawHeader()
	}
}

// drawTable draws the header, the body rows and the optional footer row,
// breaking pages between rows and repeating the header on every page the
// table touches. Highlighted rows are repainted afterwards on the page they
// landed on. Returns the cursor after the table.
func drawTable(d *DocumentContext, spec TableSpec) float64 {
	if len(spec.Columns) == 0 {
		panic("printing: table without columns")
	}
	if len(spec.Rows) == 0 && len(spec.Footer) == 0 {
		if spec.EmptyMessage != "" {
			return drawEmptyState(d, spec.EmptyMessage)
		}
		return d.y
	}

	t := &tableLayout{d: d, spec: spec, widths: resolveWidths(d.ContentWidth(), spec.Columns)}

	first := tableRowMM
	if len(spec.Rows) == 0 {
		first = tableFooterMM
	}
	d.EnsureRoom(d.mm(tableHeaderMM + first))
	t.drawHeader()

	placed := make([]rowPlacement, len(spec.Rows))
	for i, row := range spec.Rows {
		t.breakIfNeeded(tableRowMM)
		placed[i] = rowPlacement{page: d.pages, y: d.y}
		t.drawCells(row, d.y, t.bodyStyle(i))
		d.Advance(d.mm(tableRowMM))
	}

	if len(spec.Footer) > 0 {
		t.breakIfNeeded(tableFooterMM)
		p := d.palette
		t.drawCells(spec.Footer, d.y, rowStyle{fill: p.FooterFill, hasFill: true, text: p.Text, bold: true, height: tableFooterMM})
		d.Advance(d.mm(tableFooterMM))
	}

	if spec.Highlight != nil {
		t.highlight(placed, *spec.Highlight)
	}
	return d.Advance(d.mm(tableGapMM))
}

// highlight repaints the selected rows in place and returns to the last page
func (t *tableLayout) highlight(placed []rowPlacement, rule HighlightRule) {
	d := t.d
	current := d.pages
	for _, i := range rule.Rows {
		if i < 0 || i >= len(placed) {
			continue
		}
		at := placed[i]
		d.canvas.SetPage(at.page)
		t.drawCells(t.spec.Rows[i], at.y, rowStyle{fill: rule.Fill, hasFill: true, text: rule.Text, bold: true, height: tableRowMM})
	}
	d.canvas.SetPage(current)
}
