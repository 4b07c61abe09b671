package printing

import (
	"fmt"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// footerBandMM is reserved at the bottom of every full-page sheet for the
// pagination stamp.
const footerBandMM = 12.0

// DocumentContext is the per-document layout state: the canvas, the page
// geometry, the brand and a vertical cursor on the current page. One
// context is created per composition and never shared.
//
// Every block renderer moves the cursor strictly downward. The only way the
// cursor goes up is NewPage, which resets it to the top margin.
type DocumentContext struct {
	canvas  Canvas
	profile printing.PageProfile
	brand   *printing.Brand
	palette printing.Palette

	y          float64
	pages      int
	pageHeight float64
	footer     bool

	tiles []TileResult
}

// newDocumentContext opens page 1 and places the cursor at the top margin.
// withFooter reserves the footer band on every page.
func newDocumentContext(canvas Canvas, profile printing.PageProfile, brand *printing.Brand, withFooter bool) *DocumentContext {
	canvas.AddPage()
	_, h := canvas.PageSize()
	return &DocumentContext{
		canvas:     canvas,
		profile:    profile,
		brand:      brand,
		palette:    brand.Palette,
		y:          profile.Margin,
		pages:      1,
		pageHeight: h,
		footer:     withFooter,
	}
}

// mm converts a layout constant in millimetres to the profile unit
func (d *DocumentContext) mm(v float64) float64 {
	return d.profile.FromMillimeters(v)
}

// Y returns the cursor position
func (d *DocumentContext) Y() float64 {
	return d.y
}

// Page returns the current page number
func (d *DocumentContext) Page() int {
	return d.pages
}

// Top is the cursor value at the start of a page
func (d *DocumentContext) Top() float64 {
	return d.profile.Margin
}

// Left is the x of the content area
func (d *DocumentContext) Left() float64 {
	return d.profile.Margin
}

// ContentWidth is the page width minus both side margins
func (d *DocumentContext) ContentWidth() float64 {
	return d.profile.Width - 2*d.profile.Margin
}

// ContentWidthMM is ContentWidth in millimetres
func (d *DocumentContext) ContentWidthMM() float64 {
	return d.profile.ToMillimeters(d.ContentWidth())
}

// AtTop reports whether nothing has been drawn on the current page yet
func (d *DocumentContext) AtTop() bool {
	return d.y == d.Top()
}

// Advance moves the cursor down by height and returns the new position.
// Heights are computed by the renderers; a negative one is a bug.
func (d *DocumentContext) Advance(height float64) float64 {
	if height < 0 {
		panic(fmt.Sprintf("printing: negative advance %.3f", height))
	}
	d.y += height
	return d.y
}

// WouldOverflow reports whether a block of height starting at the cursor
// would pass pageHeight - bottomMargin.
func (d *DocumentContext) WouldOverflow(height, bottomMargin float64) bool {
	return d.y+height > d.pageHeight-bottomMargin
}

// bottomReserve is the distance from the page bottom content must keep clear
func (d *DocumentContext) bottomReserve() float64 {
	reserve := d.profile.Margin
	if d.footer {
		reserve += d.mm(footerBandMM)
	}
	return reserve
}

// PrintableBottom is the lowest y content may reach on a page
func (d *DocumentContext) PrintableBottom() float64 {
	return d.pageHeight - d.bottomReserve()
}

// Overflows is WouldOverflow against the printable bottom
func (d *DocumentContext) Overflows(height float64) bool {
	return d.WouldOverflow(height, d.bottomReserve())
}

// NewPage starts a fresh page and resets the cursor to the top margin
func (d *DocumentContext) NewPage() float64 {
	d.canvas.AddPage()
	d.pages++
	d.y = d.Top()
	return d.y
}

// EnsureRoom breaks the page when a block of height does not fit below the
// cursor. A block taller than a whole page is drawn from the top of the
// current page rather than breaking forever. Reports whether a break happened.
func (d *DocumentContext) EnsureRoom(height float64) bool {
	if !d.Overflows(height) || d.AtTop() {
		return false
	}
	d.NewPage()
	return true
}

// record keeps the outcome of one image draw
func (d *DocumentContext) record(t TileResult) {
	d.tiles = append(d.tiles, t)
}
