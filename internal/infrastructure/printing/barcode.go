package printing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	xdraw "golang.org/x/image/draw"
)

const (
	barcodeModulePx = 3
	barcodeHeightPx = 80
	barcodeMM       = 12.0
	barcodeTextMM   = 4.0
)

// encodeBarcode renders content as a Code 128 symbol PNG
func encodeBarcode(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("barcode: empty content")
	}
	code, err := code128.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("barcode: encode %q: %w", content, err)
	}
	scaled, err := barcode.Scale(code, code.Bounds().Dx()*barcodeModulePx, barcodeHeightPx)
	if err != nil {
		return nil, fmt.Errorf("barcode: scale: %w", err)
	}
	// Symbols are 16-bit gray; the PDF writer only embeds 8-bit PNGs.
	gray := image.NewGray(scaled.Bounds())
	xdraw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, xdraw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("barcode: png: %w", err)
	}
	return buf.Bytes(), nil
}

// barcodeBlockMM is the height of a barcode with its caption
func barcodeBlockMM() float64 {
	return barcodeMM + barcodeTextMM
}

// paintBarcode draws the receipt number as a barcode centered in a box of
// width w at (x, y), with the number printed underneath. When the number
// cannot be encoded only the caption is printed. Returns the height used.
func paintBarcode(d *DocumentContext, content string, x, y, w float64) float64 {
	if content == "" {
		return 0
	}
	h := d.mm(barcodeMM)
	if img, err := encodeBarcode(content); err == nil {
		bw := min(w, d.mm(60))
		if err := d.canvas.DrawImage(img, x+(w-bw)/2, y, bw, h); err == nil {
			d.text(content, x, y+h, w, barcodeTextMM, font(7.5, false, false), d.palette.Muted, AlignCenter)
			return d.mm(barcodeBlockMM())
		}
	}
	d.text(content, x, y, w, barcodeTextMM, font(9, true, false), d.palette.Text, AlignCenter)
	return d.mm(barcodeTextMM)
}
