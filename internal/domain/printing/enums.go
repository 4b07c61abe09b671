package printing

// DocType represents the kind of club document the engine can compose.
// Each DocType maps to exactly one recipe.
type DocType string

const (
	DocTypeReceipt          DocType = "RECEIPT"           // Payment receipt (thermal or full page)
	DocTypeWorkoutProgram   DocType = "WORKOUT_PROGRAM"   // Multi-day workout plan
	DocTypeNutritionProgram DocType = "NUTRITION_PROGRAM" // Multi-day meal plan
	DocTypeProgressReport   DocType = "PROGRESS_REPORT"   // Member measurement report
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeReceipt, DocTypeWorkoutProgram, DocTypeNutritionProgram, DocTypeProgressReport:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// DisplayName returns the human readable name for DocType
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeReceipt:
		return "Payment Receipt"
	case DocTypeWorkoutProgram:
		return "Workout Program"
	case DocTypeNutritionProgram:
		return "Nutrition Program"
	case DocTypeProgressReport:
		return "Progress Report"
	default:
		return string(d)
	}
}

// AllowsThermal reports whether the document can be printed on receipt rolls
func (d DocType) AllowsThermal() bool {
	return d == DocTypeReceipt
}

// AllDocTypes returns all valid DocType values
func AllDocTypes() []DocType {
	return []DocType{
		DocTypeReceipt, DocTypeWorkoutProgram, DocTypeNutritionProgram, DocTypeProgressReport,
	}
}

// PaperSize names a built-in page profile
type PaperSize string

const (
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM" // 80mm thermal roll
	PaperSizeA4          PaperSize = "A4"           // 210mm x 297mm
	PaperSizeA5          PaperSize = "A5"           // 148mm x 210mm
	PaperSizeLetter      PaperSize = "LETTER"       // 8.5in x 11in
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeReceipt80MM, PaperSizeA4, PaperSizeA5, PaperSizeLetter:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// IsReceipt returns true if this is a thermal receipt roll
func (p PaperSize) IsReceipt() bool {
	return p == PaperSizeReceipt80MM
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{
		PaperSizeReceipt80MM, PaperSizeA4, PaperSizeA5, PaperSizeLetter,
	}
}

// Unit is the measurement unit a page profile is expressed in
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitInch       Unit = "in"
)

// PerMillimeter returns how many of this unit make up one millimetre
func (u Unit) PerMillimeter() float64 {
	if u == UnitInch {
		return 1 / 25.4
	}
	return 1
}

// JobStatus represents the status of a print job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	}
	return false
}
