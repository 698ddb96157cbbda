package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/config"
)

func TestResolverDisplayName(t *testing.T) {
	cfg := testConfig(t)
	store, err := cfg.Store("shopee-tlj")
	require.NoError(t, err)
	r := NewResolver(testVocab(t), store.Variants)

	tests := []struct {
		name       string
		product    string
		variant    string
		price      float64
		want       string
		multiplier int
	}{
		{"tokens estructurales", "AL QURAN HAFALAN", "A5, HVS", 0, "AL QURAN HAFALAN (A5 HVS)", 1},
		{"color descartado", "AL QURAN HAFALAN", "Hijau,A5 HVS Paket 5", 0, "AL QURAN HAFALAN (A5 HVS PAKET 5)", 5},
		{"satuan", "AL QURAN HAFALAN", "A5 satuan", 0, "AL QURAN HAFALAN (A5 SATUAN)", 1},
		{"color en textil", "MUKENA KATUN", "Hitam, All Size", 0, "MUKENA KATUN (HITAM)", 1},
		{"verbatim", "AL QURAN CUSTOM NAMA", "Nama: Siti,  warna emas", 0, "AL QURAN CUSTOM NAMA (Nama: Siti, warna emas)", 1},
		{"verbatim con espacio duro", "AL\u00a0QURAN CUSTOM NAMA", "Budi", 0, "AL QURAN CUSTOM NAMA (Budi)", 1},
		{"verbatim placeholder", "AL QURAN CUSTOM NAMA", "0", 0, "AL QURAN CUSTOM NAMA", 1},
		{"tier por precio", "AL QURAN SAKU TAJWID", "Random", 35000, "AL QURAN SAKU TAJWID (ECER)", 1},
		{"tier grosir", "AL QURAN SAKU TAJWID", "", 30000, "AL QURAN SAKU TAJWID (GROSIR)", 1},
		{"tier sin precio", "AL QURAN SAKU TAJWID", "", 32000, "AL QURAN SAKU TAJWID", 1},
		{"placeholder", "IQRO", "0", 0, "IQRO", 1},
		{"vacio", "IQRO ", "", 0, "IQRO", 1},
		{"sin tokens", "IQRO", "Bonus Stiker", 0, "IQRO", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.product, tt.variant, tt.price, day("2025-03-01"))
			assert.Equal(t, tt.want, got.DisplayName)
			assert.Equal(t, tt.multiplier, got.Multiplier())
			// determinista
			assert.Equal(t, got.DisplayName, r.DisplayName(tt.product, tt.variant, tt.price, day("2025-03-01")))
		})
	}
}

func TestResolverDatedTiers(t *testing.T) {
	r := NewResolver(testVocab(t), config.VariantRules{PriceTiers: []config.PriceTierRule{{
		Product: "Paket Ramadhan",
		Tiers: []config.PriceTier{
			{Price: 100000, Label: "PROMO", From: "2025-01-01", Until: "2025-01-31"},
			{Price: 100000, Label: "NORMAL"},
		},
	}}})

	inPromo := time.Date(2025, 1, 31, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "Paket Ramadhan (PROMO)", r.DisplayName("Paket Ramadhan", "", 100000, inPromo))
	assert.Equal(t, "Paket Ramadhan (NORMAL)", r.DisplayName("Paket Ramadhan", "", 100000, day("2025-02-01")))
	assert.Equal(t, "Paket Ramadhan (NORMAL)", r.DisplayName("Paket Ramadhan", "", 100000, day("2024-12-31")))
	assert.Equal(t, "Paket Ramadhan", r.DisplayName("Paket Ramadhan", "", 90000, inPromo))
}

func TestResolverTierName(t *testing.T) {
	store, err := testConfig(t).Store("shopee-tlj")
	require.NoError(t, err)
	r := NewResolver(testVocab(t), store.Variants)

	name, ok := r.TierName("Al Quran  Saku Tajwid", " grosir ")
	require.True(t, ok)
	assert.Equal(t, "Al Quran Saku Tajwid (GROSIR)", name)

	_, ok = r.TierName("AL QURAN SAKU TAJWID", "")
	assert.False(t, ok)
	_, ok = r.TierName("AL QURAN SAKU TAJWID", "PROMO")
	assert.False(t, ok)
	_, ok = r.TierName("IQRO", "ECER")
	assert.False(t, ok)
}
