package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode Mode
		want float64
	}{
		{"rupiah thousands", "Rp 12.500", ModeDecimalComma, 12500},
		{"decimal comma", "1.234,50", ModeDecimalComma, 1234.5},
		{"negative", "-Rp 3.000", ModeDecimalComma, -3000},
		{"digits only drops comma", "12,500", ModeDigitsOnly, 12500},
		{"digits only drops dot", "Rp1.250.000", ModeDigitsOnly, 1250000},
		{"empty", "", ModeDecimalComma, 0},
		{"text", "sin dato", ModeDecimalComma, 0},
		{"lonely minus", "-", ModeDigitsOnly, 0},
		{"digits only keeps refund sign", "-Rp 30.000", ModeDigitsOnly, -30000},
		{"two commas is garbage", "1,2,3", ModeDecimalComma, 0},
		{"minus in the middle", "12-34", ModeDecimalComma, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseText(tt.in, tt.mode), 1e-9)
		})
	}
}

func TestParseKeepsNumericCells(t *testing.T) {
	assert.Equal(t, 1234.5, Parse(1234.5, ModeDigitsOnly))
	assert.Equal(t, 7.0, Parse(7, ModeDecimalComma))
	assert.Equal(t, 0.0, Parse(nil, ModeDecimalComma))
}

func TestColumnAndInt(t *testing.T) {
	got := Column([]any{"Rp 1.000", 2.5, nil, "x"}, ModeDecimalComma)
	assert.Equal(t, []float64{1000, 2.5, 0, 0}, got)
	assert.Equal(t, 3, Int("2,6", ModeDecimalComma))
	assert.True(t, ModeDigitsOnly.Valid())
	assert.False(t, Mode("auto").Valid())
}
