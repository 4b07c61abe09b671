package printing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

func encoded(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	switch format {
	case "png":
		require.NoError(t, png.Encode(&buf, img))
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	case "gif":
		require.NoError(t, gif.Encode(&buf, img, nil))
	default:
		t.Fatalf("unknown format %s", format)
	}
	return buf.Bytes()
}

func TestPrepareImage_Formats(t *testing.T) {
	for _, format := range []string{"png", "jpeg", "gif"} {
		t.Run(format, func(t *testing.T) {
			img, reason, err := prepareImage(encoded(t, format))
			require.NoError(t, err)
			assert.Equal(t, SkipNone, reason)
			assert.Equal(t, 40, img.width)
			assert.Equal(t, 30, img.height)

			decoded, err := png.Decode(bytes.NewReader(img.png))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 40, 30), decoded.Bounds())
		})
	}
}

func TestPrepareImage_Failures(t *testing.T) {
	valid := encoded(t, "png")

	tests := []struct {
		name   string
		data   []byte
		reason SkipReason
	}{
		{name: "nil", data: nil, reason: SkipEmptyData},
		{name: "empty", data: []byte{}, reason: SkipEmptyData},
		{name: "pdf", data: []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"), reason: SkipUnsupportedFormat},
		{name: "plain text", data: []byte("definitely not an image"), reason: SkipUnsupportedFormat},
		{name: "truncated png", data: valid[:40], reason: SkipDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, reason, err := prepareImage(tt.data)
			assert.Error(t, err)
			assert.Nil(t, img)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestPrepareImage_DownscalesLargeImages(t *testing.T) {
	img, _, err := prepareImage(pngBytes(t, 3200, 400))
	require.NoError(t, err)

	assert.Equal(t, maxImageEdge, img.width)
	assert.Equal(t, 200, img.height)
}

func TestFitContain(t *testing.T) {
	w, h := fitContain(400, 300, 80, 80)
	assert.InDelta(t, 80.0, w, 1e-9)
	assert.InDelta(t, 60.0, h, 1e-9)

	w, h = fitContain(300, 600, 80, 80)
	assert.InDelta(t, 40.0, w, 1e-9)
	assert.InDelta(t, 80.0, h, 1e-9)
}

func TestDrawImageGrid_RowsStayTogether(t *testing.T) {
	d, host := newTestContext(t, printing.PaperSizeA4, true)
	photos := make([]printing.Photo, 7)
	for i := range photos {
		photos[i] = printing.Photo{Label: fmt.Sprintf("Week %d", i+1), Data: pngBytes(t, 30, 40)}
	}

	drawImageGrid(d, photos, 3)

	require.Len(t, d.tiles, 7)
	var images []drawOp
	for _, op := range host.ops {
		if op.Kind == "image" {
			images = append(images, op)
		}
	}
	require.Len(t, images, 7)
	for i, op := range images {
		first := images[(i/3)*3]
		assert.Equal(t, first.Page, op.Page, "tile %d left its row's page", i)
		assert.Equal(t, first.Y, op.Y, "tile %d is not aligned with its row", i)
	}
	assert.Equal(t, 2, d.Page())
	for i := range photos {
		assert.True(t, host.hasText(fmt.Sprintf("Week %d", i+1)))
	}
}

func TestDrawImageGrid_BreaksBeforeRowThatDoesNotFit(t *testing.T) {
	d, host := newTestContext(t, printing.PaperSizeA4, true)
	d.Advance(d.PrintableBottom() - d.Y() - 10)

	drawImageGrid(d, []printing.Photo{{Data: pngBytes(t, 10, 10)}}, 3)

	assert.Equal(t, 2, d.Page())
	require.True(t, host.hasText("Photo 1"))
	assert.Equal(t, 2, host.texts("Photo 1")[0].Page)
}

func TestDrawImageGrid_SkipsBadTilesAndContinues(t *testing.T) {
	d, host := newTestContext(t, printing.PaperSizeA4, true)
	photos := []printing.Photo{
		{Label: "Front", Data: pngBytes(t, 30, 40)},
		{Label: "Side", Data: []byte("corrupt")},
		{Label: "Back"},
	}

	drawImageGrid(d, photos, 3)

	require.Len(t, d.tiles, 3)
	assert.True(t, d.tiles[0].Drawn)
	assert.Equal(t, SkipUnsupportedFormat, d.tiles[1].Reason)
	assert.Equal(t, SkipEmptyData, d.tiles[2].Reason)
	assert.True(t, d.tiles[2].Skipped())
	assert.Equal(t, SectionPhotos, d.tiles[1].Section)
	assert.Equal(t, "Side", d.tiles[1].Label)

	assert.Len(t, host.texts("Image unavailable"), 2)
	assert.Equal(t, 1, host.count("image"))
}

func TestDrawChart_EmbedFailureIsRecorded(t *testing.T) {
	d, host := newTestContext(t, printing.PaperSizeA4, true)
	host.imageErr = errors.New("embed refused")
	before := d.Y()

	drawChart(d, pngBytes(t, 60, 30))

	require.Len(t, d.tiles, 1)
	tile := d.tiles[0]
	assert.Equal(t, SectionChart, tile.Section)
	assert.Equal(t, SkipEmbedFailed, tile.Reason)
	assert.EqualError(t, tile.Err, "embed refused")
	assert.True(t, host.hasText("Image unavailable"))
	assert.InDelta(t, before+chartHeightMM(), d.Y(), 1e-9)
}
