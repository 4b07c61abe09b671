package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), LKR)
		require.NoError(t, err)
		assert.Equal(t, LKR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(1500), LKR)
	b := MustMoney(decimal.NewFromInt(250), LKR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equals(MustMoney(decimal.NewFromInt(1750), LKR)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "1250", diff.Amount().String())

	assert.Equal(t, "4500", a.MulInt(3).Amount().String())

	_, err = a.Add(MustMoney(decimal.NewFromInt(1), USD))
	assert.ErrorContains(t, err, "currency mismatch")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"7.5", "7.50"},
		{"1234.567", "1,234.57"},
		{"12500", "12,500.00"},
		{"-950.1", "-950.10"},
		{"1000000", "1,000,000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMoney_Format(t *testing.T) {
	m := MustMoney(decimal.RequireFromString("3500"), LKR)
	assert.Equal(t, "LKR 3,500.00", m.Format())
	assert.Equal(t, m.Format(), m.String())
	assert.True(t, Zero(USD).IsZero())
}
