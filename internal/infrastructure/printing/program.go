package printing

import (
	"strconv"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

var workoutColumns = []Column{
	{Label: "#", Width: 0.06, Align: AlignCenter},
	{Label: "Exercise", Width: 0.30, Align: AlignLeft},
	{Label: "Sets", Width: 0.09, Align: AlignCenter},
	{Label: "Reps", Width: 0.10, Align: AlignCenter},
	{Label: "Weight", Width: 0.11, Align: AlignCenter},
	{Label: "Rest", Width: 0.10, Align: AlignCenter},
	{Label: "Notes", Align: AlignLeft},
}

var nutritionColumns = []Column{
	{Label: "Meal", Width: 0.18, Align: AlignLeft},
	{Label: "Time", Width: 0.10, Align: AlignCenter},
	{Label: "Kcal", Width: 0.10, Align: AlignRight},
	{Label: "Protein", Width: 0.11, Align: AlignRight},
	{Label: "Carbs", Width: 0.11, Align: AlignRight},
	{Label: "Fat", Width: 0.10, Align: AlignRight},
	{Label: "Foods", Align: AlignLeft},
}

// programDay is one day section of a program, ready to draw
type programDay struct {
	title string
	count string
	table TableSpec
}

// heightMM is the banner plus the unbroken table, or the empty state
func (p programDay) heightMM() float64 {
	h := dayBannerMM + dayBannerGapMM
	if len(p.table.Rows) == 0 {
		return h + emptyStateMM
	}
	return h + tableHeightMM(len(p.table.Rows), len(p.table.Footer) > 0)
}

// drawProgramDays draws each day as banner plus table. A day that fits on a
// page is never split: when it would overflow, it moves to a new page. A day
// longer than a page keeps at least its banner, the table header and the
// first row together and lets the table paginate the rest.
func drawProgramDays(d *DocumentContext, days []programDay, noDays string) {
	if len(days) == 0 {
		drawEmptyState(d, noDays)
		return
	}
	capacity := d.PrintableBottom() - d.Top()
	for i, day := range days {
		need := d.mm(day.heightMM())
		if need > capacity {
			need = d.mm(dayBannerMM + dayBannerGapMM + tableHeaderMM + tableRowMM)
		}
		d.EnsureRoom(need)
		drawDayBanner(d, day.title, day.count, d.palette.DayBanner(i))
		drawTable(d, day.table)
	}
}

func composeWorkoutProgram(d *DocumentContext, p *printing.WorkoutProgram) {
	drawHeader(d, HeaderBlock{
		Title:    p.Name,
		Subtitle: joinNonEmpty(" • ", p.Category, p.Goal, p.Level),
	})
	if p.Description != "" {
		drawParagraph(d, p.Description, 9.5)
	}
	drawInfoStrip(d, []InfoItem{
		{Label: "Client", Value: p.ClientName},
		{Label: "Start", Value: p.StartDate},
		{Label: "End", Value: p.EndDate},
		{Label: "Assigned by", Value: p.AssignedBy},
	})

	days := make([]programDay, len(p.Days))
	for i, day := range p.Days {
		rows := make([][]string, len(day.Exercises))
		for j, ex := range day.Exercises {
			rows[j] = []string{strconv.Itoa(j + 1), ex.Name, ex.Sets, ex.Reps, ex.Weight, ex.Rest, ex.Notes}
		}
		days[i] = programDay{
			title: joinNonEmpty(" - ", day.Name, day.Focus),
			count: plural(len(day.Exercises), "exercise", "exercises"),
			table: TableSpec{
				Columns:      workoutColumns,
				Rows:         rows,
				Zebra:        true,
				EmptyMessage: "No exercises recorded.",
			},
		}
	}
	drawProgramDays(d, days, "No training days recorded.")
}

func composeNutritionProgram(d *DocumentContext, p *printing.NutritionProgram) {
	drawHeader(d, HeaderBlock{Title: p.Name, Subtitle: p.Goal})
	if p.Description != "" {
		drawParagraph(d, p.Description, 9.5)
	}
	target := ""
	if p.DailyCalorieTarget > 0 {
		target = formatKcal(p.DailyCalorieTarget) + " kcal"
	}
	drawInfoStrip(d, []InfoItem{
		{Label: "Client", Value: p.ClientName},
		{Label: "Start", Value: p.StartDate},
		{Label: "End", Value: p.EndDate},
		{Label: "Assigned by", Value: p.AssignedBy},
		{Label: "Daily target", Value: target},
	})

	days := make([]programDay, len(p.Days))
	for i, day := range p.Days {
		rows := make([][]string, len(day.Meals))
		for j, m := range day.Meals {
			rows[j] = []string{
				m.Name, m.Time, formatKcal(m.Calories),
				formatGrams(m.Protein), formatGrams(m.Carbs), formatGrams(m.Fat), m.Foods,
			}
		}
		spec := TableSpec{
			Columns:      nutritionColumns,
			Rows:         rows,
			Zebra:        true,
			EmptyMessage: "No meals recorded.",
		}
		t := day.Totals()
		if len(rows) > 0 {
			spec.Footer = []string{
				"Day total", "", formatKcal(t.Calories),
				formatGrams(t.Protein), formatGrams(t.Carbs), formatGrams(t.Fat), "",
			}
		}
		days[i] = programDay{
			title: day.Name,
			count: plural(len(day.Meals), "meal", "meals") + " • " + formatKcal(t.Calories) + " kcal",
			table: spec,
		}
	}
	drawProgramDays(d, days, "No meal days recorded.")
}
