package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected int64
		wantErr  bool
	}{
		{"whole credits", 10, 1000, false},
		{"two decimals", 12.34, 1234, false},
		{"one decimal", 0.1, 10, false},
		{"smallest valid", 0.01, 1, false},
		{"rounds half up", 0.005, 1, false},
		{"rounds half up at boundary", 1.995, 200, false},
		{"below half stays down", 1.004, 100, false},
		{"just under half stays down", 0.0049, 0, true},
		{"zero", 0, 0, true},
		{"negative", -5, 0, true},
		{"rounds to zero", 0.004, 0, true},
		{"large amount", 1000000, 100000000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minor, err := ToMinorUnits(tt.amount)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, minor)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		expected string
	}{
		{"whole credits", 1000, "10.00"},
		{"with cents", 1234, "12.34"},
		{"single cent", 1, "0.01"},
		{"zero", 0, "0.00"},
		{"negative", -350, "-3.50"},
		{"negative cents only", -7, "-0.07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.minor))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, amount := range []float64{0.01, 0.99, 1.5, 12.34, 100, 9999.99} {
		minor, err := ToMinorUnits(amount)
		require.NoError(t, err)

		parsed, err := ToMinorUnits(float64(minor) / 100)
		require.NoError(t, err)
		assert.Equal(t, minor, parsed, "amount %v should survive a round trip", amount)
	}
}
