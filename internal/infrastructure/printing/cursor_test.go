package printing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

func TestDocumentContext_StartsAtTopMargin(t *testing.T) {
	d, host := newTestContext(t, printing.PaperSizeA4, true)

	assert.Equal(t, 1, d.Page())
	assert.Equal(t, 1, host.PageCount())
	assert.Equal(t, 15.0, d.Y())
	assert.True(t, d.AtTop())
	assert.InDelta(t, 180.0, d.ContentWidth(), 1e-9)
}

func TestDocumentContext_PrintableBottom(t *testing.T) {
	withFooter, _ := newTestContext(t, printing.PaperSizeA4, true)
	without, _ := newTestContext(t, printing.PaperSizeA4, false)

	assert.InDelta(t, 270.0, withFooter.PrintableBottom(), 1e-9)
	assert.InDelta(t, 282.0, without.PrintableBottom(), 1e-9)
}

func TestDocumentContext_AdvanceRejectsNegativeHeight(t *testing.T) {
	d, _ := newTestContext(t, printing.PaperSizeA4, true)
	assert.Panics(t, func() { d.Advance(-1) })
}

func TestDocumentContext_WouldOverflow(t *testing.T) {
	d, _ := newTestContext(t, printing.PaperSizeA4, true)
	d.Advance(240) // y = 255

	assert.False(t, d.WouldOverflow(15, 27))
	assert.True(t, d.WouldOverflow(15.1, 27))
	assert.False(t, d.Overflows(15))
	assert.True(t, d.Overflows(16))
}

func TestDocumentContext_EnsureRoom(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		d, _ := newTestContext(t, printing.PaperSizeA4, true)
		d.Advance(100)
		assert.False(t, d.EnsureRoom(50))
		assert.Equal(t, 1, d.Page())
		assert.Equal(t, 115.0, d.Y())
	})

	t.Run("breaks and resets to top margin", func(t *testing.T) {
		d, host := newTestContext(t, printing.PaperSizeA4, true)
		d.Advance(230)
		assert.True(t, d.EnsureRoom(50))
		assert.Equal(t, 2, d.Page())
		assert.Equal(t, 2, host.PageCount())
		assert.Equal(t, d.Top(), d.Y())
	})

	t.Run("block taller than a page does not break at top", func(t *testing.T) {
		d, _ := newTestContext(t, printing.PaperSizeA4, true)
		assert.False(t, d.EnsureRoom(400))
		assert.Equal(t, 1, d.Page())
	})
}

func TestDocumentContext_CursorMonotonic(t *testing.T) {
	d, _ := newTestContext(t, printing.PaperSizeA4, true)

	rows := make([][]string, 60)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row %d", i), "x"}
	}
	steps := []func(){
		func() { drawHeader(d, HeaderBlock{Title: "Title", Subtitle: "Sub"}) },
		func() { drawEntityCard(d, EntityCard{Name: "Nimal Perera", Fields: []CardField{{Label: "Plan", Value: "Gold"}}}) },
		func() { drawInfoStrip(d, []InfoItem{{Label: "Start", Value: "2026-01-01"}}) },
		func() { drawSectionBanner(d, "Section", d.palette.Primary) },
		func() { drawStatRow(d, []printing.StatDelta{{Label: "Weight", Delta: -1.5, Unit: "kg"}}) },
		func() { drawTable(d, TableSpec{Columns: []Column{{Label: "A", Width: 0.5}, {Label: "B"}}, Rows: rows}) },
		func() { drawParagraph(d, "Stay consistent and hydrate.", 9.5) },
		func() { drawEmptyState(d, "Nothing here.") },
		func() { drawDayBanner(d, "Day 1", "2 exercises", d.palette.DayBanner(0)) },
		func() { drawKeyValueBox(d, KeyValueBox{Title: "Box", Rows: []KVRow{{Label: "a", Value: "b"}}}, d.Left(), d.ContentWidth()) },
		func() { drawSeparator(d, true) },
	}

	prevPage, prevY := d.Page(), d.Y()
	for i, step := range steps {
		step()
		if d.Page() == prevPage {
			assert.Greater(t, d.Y(), prevY, "step %d did not advance", i)
		} else {
			assert.Greater(t, d.Page(), prevPage, "step %d went back a page", i)
			assert.Greater(t, d.Y(), d.Top(), "step %d drew nothing after its break", i)
		}
		prevPage, prevY = d.Page(), d.Y()
	}
	require.Greater(t, d.Page(), 1)

	d.NewPage()
	assert.Equal(t, d.Top(), d.Y())
}

func TestDocumentContext_UnitConversion(t *testing.T) {
	profile := printing.MustProfile(printing.PaperSizeLetter)
	d := newDocumentContext(newRecordingHost(profile), profile, printing.DefaultBrand(), true)

	assert.InDelta(t, 1.0, d.mm(25.4), 1e-9)
	assert.InDelta(t, 0.6, d.Y(), 1e-9)
	assert.InDelta(t, 11-0.6-12/25.4, d.PrintableBottom(), 1e-9)
}
