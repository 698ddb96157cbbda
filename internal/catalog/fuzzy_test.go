package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100.0, Ratio("", ""))
	assert.Equal(t, 100.0, Ratio("ABC", "ABC"))
	assert.Equal(t, 0.0, Ratio("ABC", ""))
	// LCS("ABCD","ABXD") = 3 -> 2*3/8
	assert.InDelta(t, 75.0, Ratio("ABCD", "ABXD"), 1e-9)
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio("al quran hafalan", "HAFALAN AL-QURAN"))
	assert.Equal(t, 100.0, TokenSetRatio("Al Quran Hafalan", "AL QURAN HAFALAN TAJWID"))
	assert.Equal(t, 0.0, TokenSetRatio("", "AL QURAN"))

	got := TokenSetRatio("AL QURAN HAFALAN TAJWID", "QURAN HAFALAN TAJWID 30 BARIS")
	assert.Greater(t, got, 80.0)
	assert.Less(t, got, 100.0)

	assert.Less(t, TokenSetRatio("IQRO JILID", "MUKENA KATUN"), 50.0)
	// simétrico
	assert.Equal(t, TokenSetRatio("A B C", "C D"), TokenSetRatio("C D", "A B C"))
}
