package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericStringToCents_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"whole units", "50000", 5_000_000},
		{"units with cents", "50000.50", 5_000_050},
		{"cents only", "0.99", 99},
		{"zero", "0", 0},
		{"zero with decimals", "0.00", 0},
		{"checkout total", "1550000.00", 155_000_000},
		{"rounding half up", "99.995", 10000},
		{"rounding down", "99.994", 9999},
		{"with whitespace", "  50.25  ", 5025},
		{"negative amount", "-10.50", -1050},
		{"single decimal", "5.5", 550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := numericStringToCents(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNumericStringToCents_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"invalid format", "abc"},
		{"currency symbol", "$100.00"},
		{"double decimal point", "10.5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := numericStringToCents(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCentsToNumericString_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"product price", 5_000_000, "50000.00"},
		{"checkout total", 155_000_000, "1550000.00"},
		{"cents only", 99, "0.99"},
		{"zero", 0, "0.00"},
		{"single cent", 1, "0.01"},
		{"ten cents", 10, "0.10"},
		{"negative amount", -1050, "-10.50"},
		{"negative cents", -99, "-0.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, centsToNumericString(tt.input))
		})
	}
}

func TestMoneyConversion_RoundTrip(t *testing.T) {
	tests := []int64{0, 1, 10, 999, 5_000_000, 155_000_000, 999999999999, -100, -12345}

	for _, original := range tests {
		str := centsToNumericString(original)
		cents, err := numericStringToCents(str)
		require.NoError(t, err)
		assert.Equal(t, original, cents, "cents=%d, str=%s, back=%d", original, str, cents)
	}
}
