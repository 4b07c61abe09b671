package printing

import (
	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// Report section headings
const (
	sectionSummary       = "Progress Summary"
	sectionVisualization = "Progress Visualization"
	sectionPhotos        = "Progress Photos"
	sectionHistory       = "Measurement History"
)

// composeProgressReport draws the member card and then each report section
// that has data. A section without data takes no space at all.
func composeProgressReport(d *DocumentContext, r *printing.ProgressReport) {
	period := ""
	switch {
	case r.PeriodStart != "" && r.PeriodEnd != "":
		period = r.PeriodStart + " to " + r.PeriodEnd
	case r.PeriodStart != "":
		period = "Since " + r.PeriodStart
	case r.PeriodEnd != "":
		period = "Until " + r.PeriodEnd
	}
	drawHeader(d, HeaderBlock{Title: "Progress Report", Subtitle: period})
	drawEntityCard(d, EntityCard{
		Caption: "Member",
		Name:    r.Member.Name,
		Fields: []CardField{
			{Label: "Member ID", Value: r.Member.MemberID},
			{Label: "Plan", Value: r.Member.Plan},
			{Label: "Trainer", Value: r.Member.Trainer},
			{Label: "Email", Value: r.Member.Email},
			{Label: "Phone", Value: r.Member.Phone},
		},
	})

	sections := d.palette.Sections
	drawSummarySection(d, r.SummaryDeltas(), sections.Summary)
	if len(r.Chart) > 0 {
		d.EnsureRoom(d.mm(sectionBannerMM + chartHeightMM()))
		drawSectionBanner(d, sectionVisualization, sections.Visualization)
		drawChart(d, r.Chart)
	}
	if len(r.Photos) > 0 {
		d.EnsureRoom(d.mm(sectionBannerMM) + photoRowHeight(d, r.PhotoColumns()))
		drawSectionBanner(d, sectionPhotos, sections.Photos)
		drawImageGrid(d, r.Photos, r.PhotoColumns())
		d.Advance(d.mm(blockGapMM - tileGapMM))
	}
	drawHistorySection(d, r, sections.History)
}

func drawSummarySection(d *DocumentContext, deltas []printing.StatDelta, color printing.Color) {
	if len(deltas) == 0 {
		return
	}
	rows := (len(deltas) + maxStatsPerRow - 1) / maxStatsPerRow
	d.EnsureRoom(d.mm(sectionBannerMM + float64(rows)*statRowHeightMM()))
	drawSectionBanner(d, sectionSummary, color)
	for start := 0; start < len(deltas); start += maxStatsPerRow {
		end := min(start+maxStatsPerRow, len(deltas))
		drawStatRow(d, deltas[start:end])
	}
}

// historyTable lays measurements out newest first, one column per metric
func historyTable(d *DocumentContext, r *printing.ProgressReport) TableSpec {
	metrics := r.Columns()
	cols := make([]Column, 0, len(metrics)+1)
	cols = append(cols, Column{Label: "Date", Width: 0.2, Align: AlignLeft})
	share := 0.8 / float64(len(metrics))
	for i, m := range metrics {
		c := Column{Label: m.Label, Width: share, Align: AlignCenter}
		if i == len(metrics)-1 {
			c.Width = 0
		}
		cols = append(cols, c)
	}

	rows := make([][]string, len(r.Measurements))
	for i, m := range r.Measurements {
		row := make([]string, 0, len(cols))
		row = append(row, m.Date)
		for _, metric := range metrics {
			v, ok := m.Values[metric.Key]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatMetric(v, metric.Unit))
		}
		rows[i] = row
	}

	return TableSpec{
		Columns:      cols,
		Rows:         rows,
		Zebra:        true,
		Highlight:    HighlightFirstRow(d.palette),
		EmptyMessage: "No measurements recorded.",
	}
}

func drawHistorySection(d *DocumentContext, r *printing.ProgressReport, color printing.Color) {
	d.EnsureRoom(d.mm(sectionBannerMM + tableHeaderMM + tableRowMM))
	drawSectionBanner(d, sectionHistory, color)
	drawTable(d, historyTable(d, r))
}
