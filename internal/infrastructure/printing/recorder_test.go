package printing

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// drawOp is one call recorded by recordingHost
type drawOp struct {
	Kind string
	Page int
	Text string
	X, Y float64
	W, H float64
	Bold bool
	Fill *printing.Color
}

// recordingHost is a Host that keeps every drawing call in order
type recordingHost struct {
	width, height float64
	pages         int
	current       int
	ops           []drawOp
	imageErr      error
	finishes      int
}

func newRecordingHost(profile printing.PageProfile) *recordingHost {
	return &recordingHost{width: profile.Width, height: profile.Height}
}

func (r *recordingHost) DrawText(text string, x, y float64, style TextStyle) {
	r.ops = append(r.ops, drawOp{Kind: "text", Page: r.current, Text: text, X: x, Y: y, W: style.Width, H: style.Height, Bold: style.Font.Bold})
}

func (r *recordingHost) DrawRect(x, y, w, h float64, style RectStyle) {
	op := drawOp{Kind: "rect", Page: r.current, X: x, Y: y, W: w, H: h}
	if style.Fill {
		fill := style.FillColor
		op.Fill = &fill
	}
	r.ops = append(r.ops, op)
}

func (r *recordingHost) DrawLine(x1, y1, x2, y2 float64, _ LineStyle) {
	r.ops = append(r.ops, drawOp{Kind: "line", Page: r.current, X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (r *recordingHost) DrawImage(_ []byte, x, y, w, h float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.ops = append(r.ops, drawOp{Kind: "image", Page: r.current, X: x, Y: y, W: w, H: h})
	return nil
}

func (r *recordingHost) AddPage() {
	r.pages++
	r.current = r.pages
	r.ops = append(r.ops, drawOp{Kind: "page", Page: r.current})
}

func (r *recordingHost) SetPage(n int) {
	if n < 1 || n > r.pages {
		panic(fmt.Sprintf("recordingHost: page %d out of range", n))
	}
	r.current = n
}

func (r *recordingHost) PageCount() int {
	return r.pages
}

func (r *recordingHost) PageSize() (float64, float64) {
	return r.width, r.height
}

func (r *recordingHost) Finish(w io.Writer) error {
	r.finishes++
	_, err := fmt.Fprintf(w, "%%PDF-recorded %d ops", len(r.ops))
	return err
}

// texts returns the text ops equal to s
func (r *recordingHost) texts(s string) []drawOp {
	var found []drawOp
	for _, op := range r.ops {
		if op.Kind == "text" && op.Text == s {
			found = append(found, op)
		}
	}
	return found
}

func (r *recordingHost) hasText(s string) bool {
	return len(r.texts(s)) > 0
}

// rowTexts returns the texts drawn on page at exactly y, in drawing order
func (r *recordingHost) rowTexts(page int, y float64) []string {
	var row []string
	for _, op := range r.ops {
		if op.Kind == "text" && op.Page == page && op.Y == y {
			row = append(row, op.Text)
		}
	}
	return row
}

// filledRects returns the rects painted with fill
func (r *recordingHost) filledRects(fill printing.Color) []drawOp {
	var found []drawOp
	for _, op := range r.ops {
		if op.Kind == "rect" && op.Fill != nil && *op.Fill == fill {
			found = append(found, op)
		}
	}
	return found
}

func (r *recordingHost) count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// recordingEngine returns an engine whose hosts are appended to hosts
func recordingEngine(hosts *[]*recordingHost) *Engine {
	return NewEngine(&EngineConfig{
		HostFactory: func(profile printing.PageProfile, _ *printing.Brand, _ HostOptions) (Host, error) {
			h := newRecordingHost(profile)
			*hosts = append(*hosts, h)
			return h, nil
		},
		Clock: func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) },
	})
}

// newTestContext opens a context over a fresh recording host
func newTestContext(t *testing.T, size printing.PaperSize, withFooter bool) (*DocumentContext, *recordingHost) {
	t.Helper()
	profile, err := printing.LookupProfile(size)
	require.NoError(t, err)
	host := newRecordingHost(profile)
	return newDocumentContext(host, profile, printing.DefaultBrand(), withFooter), host
}

// pngBytes encodes a solid w x h image
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
