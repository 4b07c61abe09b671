package printing

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

const defaultFontFamily = "Helvetica"

// FpdfCanvas is the gofpdf backed Host. Core fonts are used, so text is
// translated from UTF-8 to cp1252 before it reaches the PDF.
type FpdfCanvas struct {
	pdf           *gofpdf.Fpdf
	tr            func(string) string
	importer      *gofpdi.Importer
	letterhead    int
	hasBackground bool
	imageSeq      int
	fontSet       bool
}

// NewFpdfCanvas is the default HostFactory
func NewFpdfCanvas(profile printing.PageProfile, brand *printing.Brand, opts HostOptions) (Host, error) {
	if err := profile.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid page profile", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        string(profile.Unit),
		Size:           gofpdf.SizeType{Wd: profile.Width, Ht: profile.Height},
	})
	// The engine positions everything itself.
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
	}
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Subject != "" {
		pdf.SetSubject(opts.Subject, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	pdf.SetCreator("fitrobit print service", true)

	c := &FpdfCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}

	if brand != nil && brand.LetterheadPath != "" {
		if err := c.loadLetterhead(brand.LetterheadPath); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// loadLetterhead imports page 1 of a PDF to be used as every page's background
func (c *FpdfCanvas) loadLetterhead(path string) (err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return NewRenderError(ErrCodeRenderFailed, "letterhead not readable: "+path, statErr)
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewRenderError(ErrCodeRenderFailed, "letterhead import failed", fmt.Errorf("%v", r))
		}
	}()

	c.importer = gofpdi.NewImporter()
	c.letterhead = c.importer.ImportPage(c.pdf, path, 1, "/MediaBox")
	if c.pdf.Err() {
		return NewRenderError(ErrCodeRenderFailed, "letterhead import failed", c.pdf.Error())
	}
	c.hasBackground = true
	return nil
}

// DrawText implements Canvas
func (c *FpdfCanvas) DrawText(text string, x, y float64, style TextStyle) {
	family := style.Font.Family
	if family == "" {
		family = defaultFontFamily
	}
	c.pdf.SetFont(family, style.Font.Style(), style.Font.Size)
	c.fontSet = true
	c.pdf.SetTextColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))

	s := c.tr(text)
	w := style.Width
	if w <= 0 {
		w = c.pdf.GetStringWidth(s)
	}
	align := style.Align
	if align == "" {
		align = AlignLeft
	}
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(w, style.Height, s, "", 0, string(align)+"M", false, 0, "")
}

// DrawRect implements Canvas
func (c *FpdfCanvas) DrawRect(x, y, w, h float64, style RectStyle) {
	mode := ""
	if style.Fill {
		c.pdf.SetFillColor(int(style.FillColor.R), int(style.FillColor.G), int(style.FillColor.B))
		mode += "F"
	}
	if style.Stroke {
		c.pdf.SetDrawColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
		if style.LineWidth > 0 {
			c.pdf.SetLineWidth(style.LineWidth)
		}
		mode += "D"
	}
	if mode == "" {
		return
	}
	c.pdf.Rect(x, y, w, h, mode)
}

// DrawLine implements Canvas
func (c *FpdfCanvas) DrawLine(x1, y1, x2, y2 float64, style LineStyle) {
	c.pdf.SetDrawColor(int(style.Color.R), int(style.Color.G), int(style.Color.B))
	if style.Width > 0 {
		c.pdf.SetLineWidth(style.Width)
	}
	if style.Dashed {
		unit := style.Width * 4
		if unit <= 0 {
			unit = 1
		}
		c.pdf.SetDashPattern([]float64{unit, unit}, 0)
	}
	c.pdf.Line(x1, y1, x2, y2)
	if style.Dashed {
		c.pdf.SetDashPattern([]float64{}, 0)
	}
}

// DrawImage implements Canvas. A failed embed leaves the document usable.
func (c *FpdfCanvas) DrawImage(png []byte, x, y, w, h float64) error {
	c.imageSeq++
	name := fmt.Sprintf("img-%d", c.imageSeq)
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

	c.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(png))
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return err
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return err
	}
	return nil
}

// AddPage implements Canvas
func (c *FpdfCanvas) AddPage() {
	c.pdf.AddPage()
	if c.hasBackground {
		w, h := c.pdf.GetPageSize()
		c.importer.UseImportedTemplate(c.pdf, c.letterhead, 0, 0, w, h)
	}
}

// SetPage implements Canvas. gofpdf caches the current font, colors and
// line width, but each page has its own content stream, so they are written
// again for the page being revisited. The font goes through SetFontSize
// because it always emits Tf; SetFont returns early when the family, style
// and size match the cached ones and would leave the page without a font.
func (c *FpdfCanvas) SetPage(n int) {
	c.pdf.SetPage(n)
	c.pdf.SetFillColor(c.pdf.GetFillColor())
	c.pdf.SetDrawColor(c.pdf.GetDrawColor())
	c.pdf.SetLineWidth(c.pdf.GetLineWidth())
	if c.fontSet {
		pt, _ := c.pdf.GetFontSize()
		c.pdf.SetFontSize(pt)
	}
}

// PageCount implements Canvas
func (c *FpdfCanvas) PageCount() int {
	return c.pdf.PageCount()
}

// PageSize implements Canvas
func (c *FpdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

// Finish implements Host
func (c *FpdfCanvas) Finish(w io.Writer) error {
	if c.pdf.Err() {
		return NewRenderError(ErrCodeRenderFailed, "pdf composition failed", c.pdf.Error())
	}
	if err := c.pdf.Output(w); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "pdf output failed", err)
	}
	return nil
}

var _ Host = (*FpdfCanvas)(nil)
