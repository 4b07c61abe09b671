package printing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	t.Run("built-in profiles", func(t *testing.T) {
		for _, size := range AllPaperSizes() {
			p, err := LookupProfile(size)
			require.NoError(t, err, size)
			assert.Equal(t, size, p.Size)
			assert.NoError(t, p.Validate())
		}
	})

	t.Run("thermal profile is 80mm wide", func(t *testing.T) {
		p := MustProfile(PaperSizeReceipt80MM)
		assert.True(t, p.IsThermal())
		assert.Equal(t, 80.0, p.Width)
		assert.Equal(t, UnitMillimeter, p.Unit)
	})

	t.Run("letter is in inches", func(t *testing.T) {
		p := MustProfile(PaperSizeLetter)
		assert.False(t, p.IsThermal())
		assert.Equal(t, UnitInch, p.Unit)
		assert.InDelta(t, 279.4, p.ToMillimeters(p.Height), 0.001)
		assert.InDelta(t, 1.0, p.FromMillimeters(25.4), 0.0001)
	})

	t.Run("unknown name fails fast", func(t *testing.T) {
		_, err := LookupProfile("TABLOID")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownPaperSize))
		assert.Contains(t, err.Error(), "TABLOID")
		assert.Panics(t, func() { MustProfile("TABLOID") })
	})
}

func TestPageProfile_Validate(t *testing.T) {
	base := MustProfile(PaperSizeA4)

	tests := []struct {
		name    string
		mutate  func(p PageProfile) PageProfile
		wantErr string
	}{
		{"negative height", func(p PageProfile) PageProfile { return p.WithHeight(-1) }, "must be positive"},
		{"zero width", func(p PageProfile) PageProfile { p.Width = 0; return p }, "must be positive"},
		{"negative margin", func(p PageProfile) PageProfile { p.Margin = -2; return p }, "cannot be negative"},
		{"margin eats page", func(p PageProfile) PageProfile { p.Margin = 120; return p }, "no printable area"},
		{"bad unit", func(p PageProfile) PageProfile { p.Unit = "pt"; return p }, "Unsupported unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(base).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
