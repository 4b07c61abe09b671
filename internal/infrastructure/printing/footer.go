package printing

import (
	"fmt"
	"time"
)

const footerTimeLayout = "2006-01-02 15:04"

// pageStamp is the right hand pagination label
func pageStamp(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}

// stampFooters is the second composition phase. It runs once after every
// block has been drawn, when the final page count is known, and stamps each
// page from the last back to the first. The canvas is left on the last page.
func stampFooters(d *DocumentContext, generatedAt time.Time) {
	total := d.canvas.PageCount()
	if total == 0 {
		return
	}
	p := d.palette
	x, w := d.Left(), d.ContentWidth()
	band := d.mm(footerBandMM)
	top := d.pageHeight - d.profile.Margin - band
	generated := "Generated: " + generatedAt.Format(footerTimeLayout)

	for page := total; page >= 1; page-- {
		d.canvas.SetPage(page)
		d.canvas.DrawLine(x, top+d.mm(2), x+w, top+d.mm(2), LineStyle{Color: p.Border, Width: d.mm(hairlineMM)})
		if note := d.brand.ClosingNote; note != "" {
			d.text(fitText(note, d.ContentWidthMM(), 8), x, top+d.mm(3), w, 4.5, font(8, false, true), p.Muted, AlignCenter)
		}
		d.text(generated, x, top+d.mm(7), w, 4.5, font(7.5, false, false), p.Muted, AlignLeft)
		d.text(pageStamp(page, total), x, top+d.mm(7), w, 4.5, font(7.5, true, false), p.Muted, AlignRight)
	}
	d.canvas.SetPage(total)
}
