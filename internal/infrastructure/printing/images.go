package printing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// SkipReason explains why an image was replaced by a placeholder
type SkipReason string

const (
	SkipNone              SkipReason = ""
	SkipEmptyData         SkipReason = "EMPTY_DATA"
	SkipUnsupportedFormat SkipReason = "UNSUPPORTED_FORMAT"
	SkipDecodeFailed      SkipReason = "DECODE_FAILED"
	SkipEmbedFailed       SkipReason = "EMBED_FAILED"
)

// Image sections a TileResult can belong to
const (
	SectionPhotos = "photos"
	SectionChart  = "chart"
)

// TileResult is the outcome of drawing one image. A skipped image never
// aborts the document; it is drawn as a placeholder and reported here.
type TileResult struct {
	Section string
	Index   int
	Label   string
	Drawn   bool
	Reason  SkipReason
	Err     error
}

// Skipped reports whether the image was replaced by a placeholder
func (t TileResult) Skipped() bool {
	return !t.Drawn
}

// Image geometry, in millimetres.
const (
	tileGapMM   = 4.0
	tileLabelMM = 5.0
	tileInsetMM = 1.0
	// tileAspect is tile height over width (portrait photos)
	tileAspect = 4.0 / 3.0

	chartMM    = 70.0
	chartGapMM = 6.0

	// maxImageEdge bounds the pixel size embedded in the PDF
	maxImageEdge = 1600
)

var supportedImageTypes = []string{
	"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp", "image/tiff",
}

var errEmptyImage = errors.New("image data is empty")

type preparedImage struct {
	png    []byte
	width  int
	height int
}

// prepareImage sniffs, decodes and normalizes image bytes to an opaque PNG
// no larger than maxImageEdge on its longest side.
func prepareImage(data []byte) (*preparedImage, SkipReason, error) {
	if len(data) == 0 {
		return nil, SkipEmptyData, errEmptyImage
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), supportedImageTypes...) {
		return nil, SkipUnsupportedFormat, fmt.Errorf("unsupported image type %s", mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, SkipDecodeFailed, fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, SkipDecodeFailed, fmt.Errorf("decode %s: image has no pixels", mt.String())
	}

	w, h := sb.Dx(), sb.Dy()
	if w > maxImageEdge || h > maxImageEdge {
		if w >= h {
			h = max(1, h*maxImageEdge/w)
			w = maxImageEdge
		} else {
			w = max(1, w*maxImageEdge/h)
			h = maxImageEdge
		}
	}

	// Flatten onto white so the PDF gets a plain RGB image.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, SkipDecodeFailed, fmt.Errorf("re-encode: %w", err)
	}
	return &preparedImage{png: buf.Bytes(), width: w, height: h}, SkipNone, nil
}

// fitContain scales an iw x ih image to fit inside bw x bh keeping its aspect
func fitContain(iw, ih int, bw, bh float64) (float64, float64) {
	if iw <= 0 || ih <= 0 {
		return bw, bh
	}
	scale := min(bw/float64(iw), bh/float64(ih))
	return float64(iw) * scale, float64(ih) * scale
}

// drawImageInBox draws data centered in the box, or a placeholder when the
// image cannot be used. The outcome is recorded on the context.
func drawImageInBox(d *DocumentContext, data []byte, x, y, w, h float64, section string, index int, label string) TileResult {
	res := TileResult{Section: section, Index: index, Label: label}

	img, reason, err := prepareImage(data)
	if err == nil {
		fw, fh := fitContain(img.width, img.height, w, h)
		if embedErr := d.canvas.DrawImage(img.png, x+(w-fw)/2, y+(h-fh)/2, fw, fh); embedErr != nil {
			reason, err = SkipEmbedFailed, embedErr
		}
	}

	if err != nil {
		res.Reason, res.Err = reason, err
		drawImagePlaceholder(d, x, y, w, h)
	} else {
		res.Drawn = true
	}
	d.record(res)
	return res
}

func drawImagePlaceholder(d *DocumentContext, x, y, w, h float64) {
	p := d.palette
	d.fillRect(x, y, w, h, p.CardFill)
	d.canvas.DrawText("Image unavailable", x, y+h/2-d.mm(3), TextStyle{
		Font: font(8.5, false, true), Color: p.Muted, Align: AlignCenter, Width: w, Height: d.mm(6),
	})
}

// photoRowHeight is the height of one grid row for cols columns
func photoRowHeight(d *DocumentContext, cols int) float64 {
	gap := d.mm(tileGapMM)
	tileW := (d.ContentWidth() - gap*float64(cols-1)) / float64(cols)
	return tileW*tileAspect + d.mm(tileLabelMM) + gap
}

// drawImageGrid lays photos out cols per row in equal bordered cells of one
// aspect ratio. Rows never split: a row that does not fit opens a new page.
func drawImageGrid(d *DocumentContext, photos []printing.Photo, cols int) float64 {
	if len(photos) == 0 {
		return d.y
	}
	if cols < 1 {
		cols = 1
	}
	p := d.palette
	gap := d.mm(tileGapMM)
	inset := d.mm(tileInsetMM)
	tileW := (d.ContentWidth() - gap*float64(cols-1)) / float64(cols)
	tileH := tileW * tileAspect
	rowH := photoRowHeight(d, cols)
	tileWMM := d.profile.ToMillimeters(tileW)

	for start := 0; start < len(photos); start += cols {
		d.EnsureRoom(rowH)
		y := d.y
		for j := 0; j < cols && start+j < len(photos); j++ {
			i := start + j
			photo := photos[i]
			x := d.Left() + float64(j)*(tileW+gap)
			label := photo.Label
			if label == "" {
				label = fmt.Sprintf("Photo %d", i+1)
			}

			drawImageInBox(d, photo.Data, x+inset, y+inset, tileW-2*inset, tileH-2*inset, SectionPhotos, i, label)
			d.canvas.DrawRect(x, y, tileW, tileH, RectStyle{Stroke: true, Color: p.Border, LineWidth: d.mm(hairlineMM)})
			d.text(fitText(label, tileWMM-2, 8), x, y+tileH, tileW, tileLabelMM, font(8, false, false), p.Muted, AlignCenter)
		}
		d.Advance(rowH)
	}
	return d.y
}

// chartHeightMM is the chart frame plus its trailing gap
func chartHeightMM() float64 {
	return chartMM + chartGapMM
}

// drawChart draws a full width framed chart image
func drawChart(d *DocumentContext, data []byte) float64 {
	x, y, w := d.Left(), d.y, d.ContentWidth()
	h := d.mm(chartMM)
	inset := d.mm(tileInsetMM)
	drawImageInBox(d, data, x+inset, y+inset, w-2*inset, h-2*inset, SectionChart, 0, "Progress chart")
	d.canvas.DrawRect(x, y, w, h, RectStyle{Stroke: true, Color: d.palette.Border, LineWidth: d.mm(hairlineMM)})
	return d.Advance(d.mm(chartHeightMM()))
}
