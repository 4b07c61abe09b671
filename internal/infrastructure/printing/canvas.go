package printing

import (
	"io"
	"time"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// Align is the horizontal alignment of text inside its box
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Font selects a core font face. Size is in points.
type Font struct {
	Family string
	Bold   bool
	Italic bool
	Size   float64
}

// Style returns the gofpdf style string ("", "B", "I", "BI")
func (f Font) Style() string {
	s := ""
	if f.Bold {
		s += "B"
	}
	if f.Italic {
		s += "I"
	}
	return s
}

// TextStyle positions a single line of text. The text is drawn inside a box
// starting at (x, y) that is Width wide and Height tall, vertically centered.
// A zero Width means the box is as wide as the text (left aligned).
type TextStyle struct {
	Font   Font
	Color  printing.Color
	Align  Align
	Width  float64
	Height float64
}

// RectStyle describes how a rectangle is painted
type RectStyle struct {
	Fill      bool
	FillColor printing.Color
	Stroke    bool
	Color     printing.Color
	LineWidth float64
}

// LineStyle describes a straight line
type LineStyle struct {
	Color  printing.Color
	Width  float64
	Dashed bool
}

// Canvas is the drawing surface the composition engine draws on. All
// coordinates are in the page profile unit with the origin at the top left.
// Pages are numbered from 1.
type Canvas interface {
	DrawText(text string, x, y float64, style TextStyle)
	DrawRect(x, y, w, h float64, style RectStyle)
	DrawLine(x1, y1, x2, y2 float64, style LineStyle)
	// DrawImage places PNG encoded image data scaled to w by h.
	DrawImage(png []byte, x, y, w, h float64) error
	// AddPage appends a page and makes it current
	AddPage()
	// SetPage makes an existing page current again
	SetPage(n int)
	PageCount() int
	PageSize() (w, h float64)
}

// Host is a Canvas that can serialize the finished document
type Host interface {
	Canvas
	// Finish writes the document. It is called once, after composition.
	Finish(w io.Writer) error
}

// HostFactory opens a fresh Host for one document
type HostFactory func(profile printing.PageProfile, brand *printing.Brand, opts HostOptions) (Host, error)

// HostOptions carries per-document metadata to the host
type HostOptions struct {
	Title     string
	Subject   string
	Author    string
	CreatedAt time.Time
}
