package printing

import (
	"github.com/shopspring/decimal"
)

// DocumentPayload is the closed set of inputs the engine can compose.
// Each variant is one of Receipt, WorkoutProgram, NutritionProgram or ProgressReport.
type DocumentPayload interface {
	// DocType selects the recipe
	DocType() DocType
	// Reference is the human facing identifier recorded on the print job
	Reference() string

	isDocumentPayload()
}

var (
	_ DocumentPayload = (*Receipt)(nil)
	_ DocumentPayload = (*WorkoutProgram)(nil)
	_ DocumentPayload = (*NutritionProgram)(nil)
	_ DocumentPayload = (*ProgressReport)(nil)
)

// ============================================================================
// Receipt
// ============================================================================

// ReceiptCustomer identifies who paid
type ReceiptCustomer struct {
	Name     string `json:"name" validate:"required,max=120"`
	MemberID string `json:"member_id,omitempty" validate:"max=50"`
	Phone    string `json:"phone,omitempty" validate:"max=40"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Plan     string `json:"plan,omitempty" validate:"max=80"`
}

// ReceiptItem is one billed line. Quantity below 1 counts as 1.
type ReceiptItem struct {
	Description string          `json:"description" validate:"required,max=200"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Qty returns the effective quantity
func (i ReceiptItem) Qty() int64 {
	if i.Quantity < 1 {
		return 1
	}
	return int64(i.Quantity)
}

// LineTotal returns quantity times unit price
func (i ReceiptItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Qty()))
}

// Receipt is a payment receipt. Either Items is set, or Description and
// Amount describe a single unitemized charge.
type Receipt struct {
	Number        string          `json:"number" validate:"required,max=50"`
	IssuedAt      string          `json:"issued_at" validate:"required,max=40"`
	Customer      ReceiptCustomer `json:"customer"`
	Description   string          `json:"description,omitempty" validate:"max=200"`
	Items         []ReceiptItem   `json:"items,omitempty" validate:"omitempty,max=500,dive"`
	Amount        decimal.Decimal `json:"amount"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"payment_method" validate:"max=40"`
	Status        string          `json:"status" validate:"max=40"`
	Cashier       string          `json:"cashier,omitempty" validate:"max=80"`
}

func (*Receipt) isDocumentPayload() {}

// DocType implements DocumentPayload
func (*Receipt) DocType() DocType { return DocTypeReceipt }

// Reference implements DocumentPayload
func (r *Receipt) Reference() string { return r.Number }

// Lines returns the billed lines, folding an unitemized receipt into one line
func (r *Receipt) Lines() []ReceiptItem {
	if len(r.Items) > 0 {
		return r.Items
	}
	desc := r.Description
	if desc == "" {
		desc = "Payment"
	}
	return []ReceiptItem{{Description: desc, Quantity: 1, UnitPrice: r.Amount}}
}

// Subtotal sums the line totals
func (r *Receipt) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range r.Lines() {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Total is subtotal plus tax minus discount
func (r *Receipt) Total() decimal.Decimal {
	return r.Subtotal().Add(r.Tax).Sub(r.Discount)
}

// ============================================================================
// Programs
// ============================================================================

// Exercise is one row of a workout day. Values arrive preformatted ("8-12", "90s").
type Exercise struct {
	Name   string `json:"name" validate:"required,max=120"`
	Sets   string `json:"sets,omitempty" validate:"max=20"`
	Reps   string `json:"reps,omitempty" validate:"max=20"`
	Weight string `json:"weight,omitempty" validate:"max=20"`
	Rest   string `json:"rest,omitempty" validate:"max=20"`
	Notes  string `json:"notes,omitempty" validate:"max=200"`
}

// WorkoutDay groups the exercises of one training day
type WorkoutDay struct {
	Name      string     `json:"name" validate:"required,max=80"`
	Focus     string     `json:"focus,omitempty" validate:"max=80"`
	Exercises []Exercise `json:"exercises" validate:"max=60,dive"`
}

// WorkoutProgram is a multi-day training plan
type WorkoutProgram struct {
	Name        string       `json:"name" validate:"required,max=120"`
	Category    string       `json:"category,omitempty" validate:"max=80"`
	Goal        string       `json:"goal,omitempty" validate:"max=80"`
	Level       string       `json:"level,omitempty" validate:"max=40"`
	Description string       `json:"description,omitempty" validate:"max=2000"`
	ClientName  string       `json:"client_name,omitempty" validate:"max=120"`
	AssignedBy  string       `json:"assigned_by,omitempty" validate:"max=120"`
	StartDate   string       `json:"start_date,omitempty" validate:"max=40"`
	EndDate     string       `json:"end_date,omitempty" validate:"max=40"`
	Days        []WorkoutDay `json:"days" validate:"max=31,dive"`
}

func (*WorkoutProgram) isDocumentPayload() {}

// DocType implements DocumentPayload
func (*WorkoutProgram) DocType() DocType { return DocTypeWorkoutProgram }

// Reference implements DocumentPayload
func (p *WorkoutProgram) Reference() string { return p.Name }

// Meal is one row of a nutrition day
type Meal struct {
	Name     string  `json:"name" validate:"required,max=80"`
	Time     string  `json:"time,omitempty" validate:"max=20"`
	Foods    string  `json:"foods,omitempty" validate:"max=300"`
	Calories int     `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
}

// MacroTotals is the per-day sum of a nutrition day
type MacroTotals struct {
	Calories int
	Protein  float64
	Carbs    float64
	Fat      float64
}

// NutritionDay groups the meals of one day
type NutritionDay struct {
	Name  string `json:"name" validate:"required,max=80"`
	Meals []Meal `json:"meals" validate:"max=20,dive"`
}

// Totals sums the day's meals
func (d NutritionDay) Totals() MacroTotals {
	var t MacroTotals
	for _, m := range d.Meals {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fat += m.Fat
	}
	return t
}

// NutritionProgram is a multi-day meal plan
type NutritionProgram struct {
	Name               string         `json:"name" validate:"required,max=120"`
	Goal               string         `json:"goal,omitempty" validate:"max=80"`
	Description        string         `json:"description,omitempty" validate:"max=2000"`
	ClientName         string         `json:"client_name,omitempty" validate:"max=120"`
	AssignedBy         string         `json:"assigned_by,omitempty" validate:"max=120"`
	StartDate          string         `json:"start_date,omitempty" validate:"max=40"`
	EndDate            string         `json:"end_date,omitempty" validate:"max=40"`
	DailyCalorieTarget int            `json:"daily_calorie_target,omitempty" validate:"gte=0"`
	Days               []NutritionDay `json:"days" validate:"max=31,dive"`
}

func (*NutritionProgram) isDocumentPayload() {}

// DocType implements DocumentPayload
func (*NutritionProgram) DocType() DocType { return DocTypeNutritionProgram }

// Reference implements DocumentPayload
func (p *NutritionProgram) Reference() string { return p.Name }

// ============================================================================
// Progress report
// ============================================================================

// Direction is the direction of change a metric is expected to move in
type Direction string

const (
	DirectionIncrease Direction = "INCREASE"
	DirectionDecrease Direction = "DECREASE"
)

// Trend classifies a delta against a favorable direction
type Trend int

const (
	TrendNeutral Trend = iota
	TrendFavorable
	TrendUnfavorable
)

// Assess classifies delta. A zero delta, or a metric without a direction,
// is neutral.
func (d Direction) Assess(delta float64) Trend {
	if delta == 0 {
		return TrendNeutral
	}
	switch d {
	case DirectionIncrease:
		if delta > 0 {
			return TrendFavorable
		}
		return TrendUnfavorable
	case DirectionDecrease:
		if delta < 0 {
			return TrendFavorable
		}
		return TrendUnfavorable
	}
	return TrendNeutral
}

// MetricColumn describes one measured body metric
type MetricColumn struct {
	Key       string    `json:"key" validate:"required,max=40"`
	Label     string    `json:"label" validate:"required,max=40"`
	Unit      string    `json:"unit,omitempty" validate:"max=10"`
	Favorable Direction `json:"favorable,omitempty" validate:"omitempty,oneof=INCREASE DECREASE"`
}

// DefaultMetricColumns is the measurement set recorded at club check-ins
func DefaultMetricColumns() []MetricColumn {
	return []MetricColumn{
		{Key: "weight", Label: "Weight", Unit: "kg", Favorable: DirectionDecrease},
		{Key: "body_fat", Label: "Body Fat", Unit: "%", Favorable: DirectionDecrease},
		{Key: "muscle_mass", Label: "Muscle Mass", Unit: "kg", Favorable: DirectionIncrease},
		{Key: "waist", Label: "Waist", Unit: "cm", Favorable: DirectionDecrease},
	}
}

// Measurement is one dated set of metric values keyed by MetricColumn.Key
type Measurement struct {
	Date   string             `json:"date" validate:"required,max=40"`
	Values map[string]float64 `json:"values"`
}

// StatDelta is a summary card: the change of one metric over the period
type StatDelta struct {
	Label     string    `json:"label" validate:"required,max=40"`
	Delta     float64   `json:"delta"`
	Unit      string    `json:"unit,omitempty" validate:"max=10"`
	Favorable Direction `json:"favorable,omitempty" validate:"omitempty,oneof=INCREASE DECREASE"`
}

// Trend classifies the card's delta
func (s StatDelta) Trend() Trend {
	return s.Favorable.Assess(s.Delta)
}

// Photo is one progress photo in any common raster format
type Photo struct {
	Label string `json:"label,omitempty" validate:"max=60"`
	Data  []byte `json:"data"`
}

// MemberInfo identifies the member a report is about
type MemberInfo struct {
	Name     string `json:"name" validate:"required,max=120"`
	MemberID string `json:"member_id,omitempty" validate:"max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"max=40"`
	Plan     string `json:"plan,omitempty" validate:"max=80"`
	Trainer  string `json:"trainer,omitempty" validate:"max=120"`
}

// ProgressReport summarizes a member's measurements over a period.
// Measurements are ordered newest first; the first row is the "latest".
type ProgressReport struct {
	Member       MemberInfo     `json:"member"`
	PeriodStart  string         `json:"period_start,omitempty" validate:"max=40"`
	PeriodEnd    string         `json:"period_end,omitempty" validate:"max=40"`
	Metrics      []MetricColumn `json:"metrics,omitempty" validate:"omitempty,max=8,dive"`
	Measurements []Measurement  `json:"measurements" validate:"max=500,dive"`
	Summary      []StatDelta    `json:"summary,omitempty" validate:"omitempty,max=8,dive"`
	Chart        []byte         `json:"chart,omitempty"`
	Photos       []Photo        `json:"photos,omitempty" validate:"omitempty,max=24,dive"`
	PhotosPerRow int            `json:"photos_per_row,omitempty" validate:"gte=0,lte=6"`
}

func (*ProgressReport) isDocumentPayload() {}

// DocType implements DocumentPayload
func (*ProgressReport) DocType() DocType { return DocTypeProgressReport }

// Reference implements DocumentPayload
func (r *ProgressReport) Reference() string {
	if r.Member.MemberID != "" {
		return r.Member.MemberID
	}
	return r.Member.Name
}

// Columns returns the metric columns, falling back to the defaults
func (r *ProgressReport) Columns() []MetricColumn {
	if len(r.Metrics) > 0 {
		return r.Metrics
	}
	return DefaultMetricColumns()
}

// HasSummary reports whether there is enough history to compare
func (r *ProgressReport) HasSummary() bool {
	return len(r.Measurements) >= 2
}

// SummaryDeltas returns the precomputed summary when given, otherwise the
// change between the newest and the oldest measurement for every metric
// present in both. Returns nil with fewer than two measurements.
func (r *ProgressReport) SummaryDeltas() []StatDelta {
	if !r.HasSummary() {
		return nil
	}
	if len(r.Summary) > 0 {
		return r.Summary
	}

	newest := r.Measurements[0]
	oldest := r.Measurements[len(r.Measurements)-1]
	deltas := make([]StatDelta, 0, len(r.Columns()))
	for _, col := range r.Columns() {
		to, okTo := newest.Values[col.Key]
		from, okFrom := oldest.Values[col.Key]
		if !okTo || !okFrom {
			continue
		}
		deltas = append(deltas, StatDelta{
			Label:     col.Label,
			Delta:     to - from,
			Unit:      col.Unit,
			Favorable: col.Favorable,
		})
	}
	return deltas
}

// PhotoColumns returns the grid width, defaulting to 3
func (r *ProgressReport) PhotoColumns() int {
	if r.PhotosPerRow < 1 {
		return 3
	}
	return r.PhotosPerRow
}
