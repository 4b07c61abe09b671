package printing

import (
	"fmt"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/shared"
)

// ErrUnknownPaperSize is returned when a profile name is not one of the built-ins
var ErrUnknownPaperSize = shared.NewDomainError("INVALID_PAPER_SIZE", "Unknown paper size")

// PageProfile is an immutable page geometry preset. Width, Height and Margin
// are expressed in Unit; the same margin applies to all four sides.
type PageProfile struct {
	Size   PaperSize `json:"size"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Unit   Unit      `json:"unit"`
	Margin float64   `json:"margin"`
}

var builtinProfiles = map[PaperSize]PageProfile{
	// A thermal roll is continuous; 297mm is the shortest slip and longer
	// receipts stretch it.
	PaperSizeReceipt80MM: {Size: PaperSizeReceipt80MM, Width: 80, Height: 297, Unit: UnitMillimeter, Margin: 4},
	PaperSizeA4:          {Size: PaperSizeA4, Width: 210, Height: 297, Unit: UnitMillimeter, Margin: 15},
	PaperSizeA5:          {Size: PaperSizeA5, Width: 148, Height: 210, Unit: UnitMillimeter, Margin: 12},
	PaperSizeLetter:      {Size: PaperSizeLetter, Width: 8.5, Height: 11, Unit: UnitInch, Margin: 0.6},
}

// LookupProfile returns the built-in profile for a paper size name
func LookupProfile(size PaperSize) (PageProfile, error) {
	p, ok := builtinProfiles[size]
	if !ok {
		return PageProfile{}, shared.NewDomainError(ErrUnknownPaperSize.Code,
			fmt.Sprintf("Unknown paper size: %q", string(size)))
	}
	return p, nil
}

// MustProfile is LookupProfile for names fixed at compile time
func MustProfile(size PaperSize) PageProfile {
	p, err := LookupProfile(size)
	if err != nil {
		panic(err)
	}
	return p
}

// IsThermal signals the compact point-of-sale rendering branch
func (p PageProfile) IsThermal() bool {
	return p.Size.IsReceipt()
}

// Validate rejects geometry that leaves no printable area
func (p PageProfile) Validate() error {
	if p.Unit != UnitMillimeter && p.Unit != UnitInch {
		return shared.NewDomainError("INVALID_PROFILE", "Unsupported unit: "+string(p.Unit))
	}
	if p.Width <= 0 || p.Height <= 0 {
		return shared.NewDomainError("INVALID_PROFILE", "Page dimensions must be positive")
	}
	if p.Margin < 0 {
		return shared.NewDomainError("INVALID_PROFILE", "Margin cannot be negative")
	}
	if 2*p.Margin >= p.Width || 2*p.Margin >= p.Height {
		return shared.NewDomainError("INVALID_PROFILE", "Margins leave no printable area")
	}
	return nil
}

// WithHeight returns a copy of the profile with a different page height.
// Used for odd stock such as a shortened roll.
func (p PageProfile) WithHeight(height float64) PageProfile {
	p.Height = height
	return p
}

// ToMillimeters converts a length in the profile unit to millimetres
func (p PageProfile) ToMillimeters(v float64) float64 {
	return v / p.Unit.PerMillimeter()
}

// FromMillimeters converts millimetres to the profile unit
func (p PageProfile) FromMillimeters(mm float64) float64 {
	return mm * p.Unit.PerMillimeter()
}
