package printing

import (
	"strings"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// Block geometry, in millimetres.
const (
	headerBandMM        = 26.0
	headerTitleRowMM    = 10.0
	headerSubtitleRowMM = 6.0
	headerGapMM         = 4.0

	entityCardMM    = 26.0
	blockGapMM      = 5.0
	sectionBannerMM = 9.0
	statCardMM      = 22.0
	statGapMM       = 4.0
	maxStatsPerRow  = 4
	infoStripMM     = 13.0
	emptyStateMM    = 10.0
	dayBannerMM     = 8.0
	dayBannerGapMM  = 2.0
	separatorMM     = 3.0

	kvTitleMM    = 7.0
	kvRowMM      = 6.0
	kvEmphasisMM = 8.0
	kvPadMM      = 2.0

	hairlineMM = 0.3
)

func font(size float64, bold, italic bool) Font {
	return Font{Family: defaultFontFamily, Bold: bold, Italic: italic, Size: size}
}

// text draws one line of text in a box of width w and height hMM
func (d *DocumentContext) text(s string, x, y, w, hMM float64, f Font, color printing.Color, align Align) {
	d.canvas.DrawText(s, x, y, TextStyle{Font: f, Color: color, Align: align, Width: w, Height: d.mm(hMM)})
}

func (d *DocumentContext) fillRect(x, y, w, h float64, fill printing.Color) {
	d.canvas.DrawRect(x, y, w, h, RectStyle{Fill: true, FillColor: fill})
}

func (d *DocumentContext) boxRect(x, y, w, h float64, fill, border printing.Color) {
	d.canvas.DrawRect(x, y, w, h, RectStyle{
		Fill: true, FillColor: fill, Stroke: true, Color: border, LineWidth: d.mm(hairlineMM),
	})
}

func (d *DocumentContext) hline(y float64, color printing.Color, widthMM float64, dashed bool) {
	d.canvas.DrawLine(d.Left(), y, d.Left()+d.ContentWidth(), y, LineStyle{
		Color: color, Width: d.mm(widthMM), Dashed: dashed,
	})
}

// ============================================================================
// Header
// ============================================================================

// HeaderBlock is the document title shown under the brand band
type HeaderBlock struct {
	Title    string
	Subtitle string
}

func headerHeightMM(h HeaderBlock) float64 {
	height := headerBandMM + headerGapMM
	if h.Title != "" {
		height += headerTitleRowMM
	}
	if h.Subtitle != "" {
		height += headerSubtitleRowMM
	}
	return height
}

// drawHeader draws the brand band (name, tagline, right aligned contact
// lines) and the centered document title. It always starts at the top of a
// page, opening a new one when the cursor has moved.
func drawHeader(d *DocumentContext, h HeaderBlock) float64 {
	if !d.AtTop() {
		d.NewPage()
	}
	b, p := d.brand, d.palette
	x, y, w := d.Left(), d.y, d.ContentWidth()
	wMM := d.ContentWidthMM()

	d.text(fitText(b.Name, wMM*0.55, 18), x, y, w*0.55, 9, font(18, true, false), p.Primary, AlignLeft)
	if b.Tagline != "" {
		d.text(fitText(b.Tagline, wMM*0.55, 9.5), x, y+d.mm(9), w*0.55, 5, font(9.5, false, true), p.Muted, AlignLeft)
	}
	for i, line := range b.ContactLines {
		if i == 4 {
			break
		}
		d.text(fitText(line, wMM*0.42, 8.5), x, y+d.mm(1+4.5*float64(i)), w, 4.5, font(8.5, false, false), p.Muted, AlignRight)
	}
	d.hline(y+d.mm(headerBandMM-3), p.Primary, 0.8, false)

	row := y + d.mm(headerBandMM)
	if h.Title != "" {
		d.text(fitText(h.Title, wMM, 15), x, row, w, headerTitleRowMM, font(15, true, false), p.Text, AlignCenter)
		row += d.mm(headerTitleRowMM)
	}
	if h.Subtitle != "" {
		d.text(fitText(h.Subtitle, wMM, 10), x, row, w, headerSubtitleRowMM, font(10, false, false), p.Muted, AlignCenter)
	}

	return d.Advance(d.mm(headerHeightMM(h)))
}

// drawCompactHeader is the point-of-sale variant: everything centered,
// closed by a dashed rule.
func drawCompactHeader(d *DocumentContext, title string) float64 {
	b, p := d.brand, d.palette
	x, w, wMM := d.Left(), d.ContentWidth(), d.ContentWidthMM()

	d.text(fitText(b.Name, wMM, 12), x, d.y, w, 6, font(12, true, false), p.Text, AlignCenter)
	d.Advance(d.mm(6))
	if b.Tagline != "" {
		d.text(fitText(b.Tagline, wMM, 7.5), x, d.y, w, 4, font(7.5, false, true), p.Muted, AlignCenter)
		d.Advance(d.mm(4))
	}
	for _, line := range b.ContactLines {
		d.text(fitText(line, wMM, 7), x, d.y, w, 3.5, font(7, false, false), p.Text, AlignCenter)
		d.Advance(d.mm(3.5))
	}
	drawSeparator(d, true)
	if title != "" {
		d.text(title, x, d.y, w, 5, font(10, true, false), p.Text, AlignCenter)
		d.Advance(d.mm(5))
	}
	return d.y
}

// drawSeparator draws a full width rule in the middle of a short gap
func drawSeparator(d *DocumentContext, dashed bool) float64 {
	d.hline(d.y+d.mm(separatorMM/2), d.palette.Border, hairlineMM, dashed)
	return d.Advance(d.mm(separatorMM))
}

// ============================================================================
// Entity card
// ============================================================================

// CardField is an optional labeled value on an entity card
type CardField struct {
	Label string
	Value string
}

// EntityCard is a bordered box naming a person with up to four fields
type EntityCard struct {
	Caption string
	Name    string
	Fields  []CardField
}

// presentFields drops fields without a value and keeps at most four
func presentFields(fields []CardField) []CardField {
	kept := make([]CardField, 0, 4)
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		kept = append(kept, f)
		if len(kept) == 4 {
			break
		}
	}
	return kept
}

// drawEntityCard draws a fixed height card: caption, bold name and the
// present fields in two columns.
func drawEntityCard(d *DocumentContext, card EntityCard) float64 {
	p := d.palette
	x, y, w := d.Left(), d.y, d.ContentWidth()
	h := d.mm(entityCardMM)
	pad := d.mm(5)

	d.boxRect(x, y, w, h, p.CardFill, p.Border)
	d.fillRect(x, y, d.mm(1.5), h, p.Primary)

	if card.Caption != "" {
		d.text(strings.ToUpper(card.Caption), x+pad, y+d.mm(2.5), w-2*pad, 4, font(7.5, true, false), p.Muted, AlignLeft)
	}
	d.text(fitText(card.Name, d.ContentWidthMM()-10, 13), x+pad, y+d.mm(6.5), w-2*pad, 6.5, font(13, true, false), p.Text, AlignLeft)

	colW := (w - 2*pad) / 2
	labelW := d.mm(22)
	valueWMM := d.profile.ToMillimeters(colW-labelW) - 2
	for i, f := range presentFields(card.Fields) {
		fx := x + pad + float64(i%2)*colW
		fy := y + d.mm(14) + float64(i/2)*d.mm(5.5)
		d.text(f.Label+":", fx, fy, labelW, 5, font(8.5, true, false), p.Muted, AlignLeft)
		d.text(fitText(f.Value, valueWMM, 8.5), fx+labelW, fy, colW-labelW, 5, font(8.5, false, false), p.Text, AlignLeft)
	}

	return d.Advance(h + d.mm(blockGapMM))
}

// ============================================================================
// Section banner
// ============================================================================

// drawSectionBanner draws an accent bar and a bold heading. The color tells
// report sections apart.
func drawSectionBanner(d *DocumentContext, title string, color printing.Color) float64 {
	x, y, w := d.Left(), d.y, d.ContentWidth()
	d.fillRect(x, y+d.mm(1), d.mm(2.5), d.mm(6.5), color)
	d.text(title, x+d.mm(5), y+d.mm(1), w-d.mm(5), 6.5, font(12.5, true, false), d.palette.Text, AlignLeft)
	d.canvas.DrawLine(x, y+d.mm(8.2), x+w, y+d.mm(8.2), LineStyle{Color: color.Tint(0.6), Width: d.mm(hairlineMM)})
	return d.Advance(d.mm(sectionBannerMM))
}

// ============================================================================
// Stat cards
// ============================================================================

func trendColor(p printing.Palette, t printing.Trend) printing.Color {
	switch t {
	case printing.TrendFavorable:
		return p.Favorable
	case printing.TrendUnfavorable:
		return p.Unfavorable
	}
	return p.Neutral
}

// statRowHeightMM is the height one row of stat cards consumes
func statRowHeightMM() float64 {
	return statCardMM + blockGapMM
}

// drawStatRow draws the cards side by side in equal widths. Each card's
// accent and value color come from the payload's favorable direction.
func drawStatRow(d *DocumentContext, cards []printing.StatDelta) float64 {
	if len(cards) == 0 {
		return d.y
	}
	p := d.palette
	x, y, w := d.Left(), d.y, d.ContentWidth()
	n := float64(len(cards))
	gap := d.mm(statGapMM)
	cw := (w - gap*(n-1)) / n
	cwMM := d.profile.ToMillimeters(cw)

	for i, c := range cards {
		cx := x + float64(i)*(cw+gap)
		accent := trendColor(p, c.Trend())
		d.boxRect(cx, y, cw, d.mm(statCardMM), p.CardFill, p.Border)
		d.fillRect(cx, y, cw, d.mm(1.8), accent)
		d.text(fitText(c.Label, cwMM-2, 8), cx, y+d.mm(4), cw, 5, font(8, false, false), p.Muted, AlignCenter)
		d.text(formatDelta(c.Delta, c.Unit), cx, y+d.mm(10), cw, 8, font(15, true, false), accent, AlignCenter)
	}

	return d.Advance(d.mm(statRowHeightMM()))
}

// ============================================================================
// Key/value box
// ============================================================================

// KVRow is one label/value line of a key/value box
type KVRow struct {
	Label string
	Value string
}

// KeyValueBox is a titled, bordered list of label/value rows. With
// EmphasizeLast the final row is drawn as a filled total line.
type KeyValueBox struct {
	Title         string
	Rows          []KVRow
	EmphasizeLast bool
}

func keyValueBoxHeightMM(box KeyValueBox) float64 {
	h := kvTitleMM + float64(len(box.Rows))*kvRowMM + kvPadMM
	if box.EmphasizeLast && len(box.Rows) > 0 {
		h += kvEmphasisMM - kvRowMM
	}
	return h
}

// paintKeyValueBox draws the box at (x, y) without moving the cursor and
// returns its height.
func paintKeyValueBox(d *DocumentContext, box KeyValueBox, x, y, w float64) float64 {
	p := d.palette
	h := d.mm(keyValueBoxHeightMM(box))
	pad := d.mm(3)
	innerMM := d.profile.ToMillimeters(w - 2*pad)

	d.boxRect(x, y, w, h, printing.Color{R: 255, G: 255, B: 255}, p.Border)
	d.fillRect(x, y, w, d.mm(kvTitleMM), p.Primary.Tint(0.85))
	d.text(box.Title, x+pad, y, w-2*pad, kvTitleMM, font(10, true, false), p.Text, AlignLeft)

	row := y + d.mm(kvTitleMM)
	for i, r := range box.Rows {
		if box.EmphasizeLast && i == len(box.Rows)-1 {
			d.fillRect(x, row+d.mm(kvPadMM/2), w, d.mm(kvEmphasisMM), p.Primary)
			white := printing.Color{R: 255, G: 255, B: 255}
			d.text(r.Label, x+pad, row+d.mm(kvPadMM/2), w-2*pad, kvEmphasisMM, font(11, true, false), white, AlignLeft)
			d.text(r.Value, x+pad, row+d.mm(kvPadMM/2), w-2*pad, kvEmphasisMM, font(11, true, false), white, AlignRight)
			row += d.mm(kvEmphasisMM)
			continue
		}
		d.text(fitText(r.Label, innerMM*0.5, 9), x+pad, row, w-2*pad, kvRowMM, font(9, false, false), p.Muted, AlignLeft)
		d.text(fitText(r.Value, innerMM*0.5, 9), x+pad, row, w-2*pad, kvRowMM, font(9, true, false), p.Text, AlignRight)
		row += d.mm(kvRowMM)
	}
	return h
}

// drawKeyValueBox draws the box at x with width w and moves below it
func drawKeyValueBox(d *DocumentContext, box KeyValueBox, x, w float64) float64 {
	h := paintKeyValueBox(d, box, x, d.y, w)
	return d.Advance(h + d.mm(blockGapMM))
}

// ============================================================================
// Text blocks
// ============================================================================

// drawParagraph draws wrapped body text, breaking pages between lines
func drawParagraph(d *DocumentContext, body string, size float64) float64 {
	lines := wrapText(body, d.ContentWidthMM(), size)
	if len(lines) == 0 {
		return d.y
	}
	lineMM := size * 0.5
	for _, line := range lines {
		if d.Overflows(d.mm(lineMM)) {
			d.NewPage()
		}
		d.text(line, d.Left(), d.y, d.ContentWidth(), lineMM, font(size, false, false), d.palette.Text, AlignLeft)
		d.Advance(d.mm(lineMM))
	}
	return d.Advance(d.mm(3))
}

// InfoItem is one cell of an info strip
type InfoItem struct {
	Label string
	Value string
}

// drawInfoStrip draws the present items as equal cells of one bordered row
func drawInfoStrip(d *DocumentContext, items []InfoItem) float64 {
	kept := make([]InfoItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Value) != "" {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return d.y
	}

	p := d.palette
	x, y, w := d.Left(), d.y, d.ContentWidth()
	h := d.mm(infoStripMM)
	cw := w / float64(len(kept))
	cwMM := d.profile.ToMillimeters(cw) - 2

	d.boxRect(x, y, w, h, p.CardFill, p.Border)
	for i, it := range kept {
		cx := x + float64(i)*cw
		if i > 0 {
			d.canvas.DrawLine(cx, y+d.mm(2), cx, y+h-d.mm(2), LineStyle{Color: p.Border, Width: d.mm(hairlineMM)})
		}
		d.text(strings.ToUpper(it.Label), cx, y+d.mm(1.5), cw, 4.5, font(7, true, false), p.Muted, AlignCenter)
		d.text(fitText(it.Value, cwMM, 9.5), cx, y+d.mm(6.5), cw, 5, font(9.5, true, false), p.Text, AlignCenter)
	}
	return d.Advance(h + d.mm(blockGapMM))
}

// drawEmptyState replaces a block that has nothing to show
func drawEmptyState(d *DocumentContext, message string) float64 {
	d.text(message, d.Left(), d.y, d.ContentWidth(), emptyStateMM, font(9.5, false, true), d.palette.Muted, AlignCenter)
	return d.Advance(d.mm(emptyStateMM))
}

// drawDayBanner draws a filled bar with a caption on each side
func drawDayBanner(d *DocumentContext, left, right string, color printing.Color) float64 {
	x, y, w := d.Left(), d.y, d.ContentWidth()
	white := printing.Color{R: 255, G: 255, B: 255}
	pad := d.mm(3)
	d.fillRect(x, y, w, d.mm(dayBannerMM), color)
	d.text(fitText(left, d.ContentWidthMM()*0.62, 11), x+pad, y, w*0.65, dayBannerMM, font(11, true, false), white, AlignLeft)
	d.text(right, x+w*0.5, y, w*0.5-pad, dayBannerMM, font(9.5, false, false), white, AlignRight)
	return d.Advance(d.mm(dayBannerMM + dayBannerGapMM))
}
