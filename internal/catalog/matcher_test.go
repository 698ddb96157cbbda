package catalog

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

var testCatalog = []domain.CatalogEntry{
	{Title: "AL QURAN HAFALAN TAJWID", Size: "B5", Paper: "HVS", UnitCost: 70000},
	{Title: "QURAN HAFALAN TAJWID 30 BARIS", Size: "A5", Paper: "HVS", UnitCost: 60000},
	{Title: "IQRO JILID", Size: "A5", Paper: "HVS", UnitCost: 10000},
	{Title: "IQRO JILID LENGKAP", Size: "A5", Paper: "ART PAPER", UnitCost: 15000},
	{Title: "BUKU YASIN SAKU", Package: "PAKET 10", Paper: "BP", UnitCost: 90000},
	{Title: "BUKU YASIN SAKU", Paper: "BOOK PAPER", UnitCost: 10000},
	{Title: "MUKENA KATUN", Color: "merah", UnitCost: 80000},
	{Title: "MUKENA KATUN", Color: "HITAM", UnitCost: 85000},
	{Title: "TASBIH DIGITAL", UnitCost: 0},
	{Title: "", UnitCost: 999},
}

func newTestMatcher(t testing.TB) *Matcher {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	vocab, err := variant.NewVocabulary(cfg.Vocabulary)
	require.NoError(t, err)
	return NewMatcher(testCatalog, vocab, Options{
		PrimaryThreshold:  cfg.Matching.PrimaryThreshold,
		FallbackThreshold: cfg.Matching.FallbackThreshold,
	})
}

func TestResolve(t *testing.T) {
	m := newTestMatcher(t)
	assert.Equal(t, 9, m.Len())

	tests := []struct {
		name    string
		display string
		cost    float64
		pass    Pass
	}{
		{"atributos ganan a similitud", "AL QURAN HAFALAN TAJWID (A5 HVS)", 60000, PassStrict},
		{"papel distinto descarta", "IQRO JILID LENGKAP (A5 HVS)", 10000, PassStrict},
		{"empate por titulo mas largo", "IQRO JILID", 15000, PassStrict},
		{"paquete", "BUKU YASIN SAKU (PAKET 10)", 90000, PassStrict},
		{"satuan equivale a 1", "BUKU YASIN SAKU (SATUAN)", 10000, PassStrict},
		{"sinonimo de papel", "BUKU YASIN SAKU (BOOKPAPER PAKET 10)", 90000, PassStrict},
		{"color en categoria textil", "MUKENA KATUN (HITAM)", 85000, PassStrict},
		{"fallback sin atributos", "AL QURAN HAFALAN TAJWID (F4 KORAN)", 70000, PassFallback},
		{"sin candidato", "SARUNG WADIMOR", 0, PassNone},
		{"precio cero", "TASBIH DIGITAL", 0, PassNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Resolve(tt.display)
			assert.Equal(t, tt.pass, got.Pass)
			assert.Equal(t, tt.cost, got.UnitCost())
			assert.Equal(t, tt.cost, m.UnitCost(tt.display))
		})
	}
}

func TestResolveNoCatalog(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	vocab, err := variant.NewVocabulary(cfg.Vocabulary)
	require.NoError(t, err)
	m := NewMatcher(nil, vocab, Options{PrimaryThreshold: 80, FallbackThreshold: 75})
	got := m.Resolve("IQRO JILID (A5)")
	assert.False(t, got.Found())
	assert.Zero(t, got.UnitCost())
}

func TestResolveDeterministic(t *testing.T) {
	names := []any{
		"AL QURAN HAFALAN TAJWID (A5 HVS)", "IQRO JILID", "IQRO JILID (A5)",
		"BUKU YASIN SAKU (PAKET 10)", "MUKENA KATUN (MERAH)", "SARUNG WADIMOR",
		"QURAN HAFALAN (B5)", "TASBIH DIGITAL",
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("misma entrada, mismo costo", prop.ForAll(
		func(name string) bool {
			warm := newTestMatcher(t)
			first := warm.Resolve(name)
			second := warm.Resolve(name)
			fresh := newTestMatcher(t).Resolve(name)
			return first == second && first == fresh
		},
		gen.OneConstOf(names...),
	))

	properties.TestingRun(t)
}
