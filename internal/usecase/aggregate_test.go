package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/catalog"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
)

func TestGroupLines(t *testing.T) {
	lines := []domain.RekapLine{
		{DisplayName: "IQRO (A5)", Quantity: 2, UnitPrice: 10000, LineTotal: 20000, FixedFee: 1250, NetRevenue: 17000, ServiceFees: []float64{400}},
		{DisplayName: "AL QURAN (A5 HVS)", Quantity: 1, UnitPrice: 50000, LineTotal: 50000, NetRevenue: 45000, ServiceFees: []float64{1000}},
		{DisplayName: "IQRO (A5)", Quantity: 1, UnitPrice: 10000, LineTotal: 10000, NetRevenue: -9000, Return: domain.ReturnPartial, ServiceFees: []float64{0}},
		{DisplayName: "IQRO (A5)", Quantity: 1, UnitPrice: 8000, LineTotal: 8000, FixedFee: 1250, NetRevenue: 6000, ServiceFees: []float64{160}},
	}

	got := GroupLines(lines, false, 1, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "AL QURAN (A5 HVS)", got[0].DisplayName)
	iqro := got[1]
	assert.Equal(t, 3, iqro.Quantity)
	assert.Equal(t, 28000.0, iqro.Gross)
	assert.Equal(t, 14000.0, iqro.NetRevenue)
	assert.Equal(t, 2500.0, iqro.FixedFee)
	assert.Equal(t, []float64{560}, iqro.ServiceFees)
	assert.Equal(t, 10000.0, iqro.UnitPrice)

	got = GroupLines(lines, true, 1, 0)
	require.Len(t, got, 3)
	assert.Equal(t, 8000.0, got[1].UnitPrice)
	assert.Equal(t, 10000.0, got[2].UnitPrice)
	assert.Equal(t, 2, got[2].Quantity)
}

func TestDeriveAndTotal(t *testing.T) {
	costs := config.CostConfig{PerOrderFee: 1250, PackingPerUnit: 200, RunRateDays: 7}
	rows := []domain.ProductSummary{
		{DisplayName: "A", Quantity: 10, Gross: 100000, NetRevenue: 80000, FixedFee: 6250, AdSpend: 5000, ShippingCost: 1000, UnitCost: 4000},
		{DisplayName: "B", Quantity: 3, Gross: 60000, NetRevenue: 50000, FixedFee: 3750, UnitCost: 9000, CustomCost: 8000},
		{DisplayName: "C", AdSpend: 2500, Placeholder: true},
	}
	for i := range rows {
		Derive(&rows[i], costs)
	}

	a := rows[0]
	assert.Equal(t, 40000.0, a.COGS)
	assert.Equal(t, 2000.0, a.Packing)
	assert.Equal(t, 32000.0, a.Margin)
	assert.InDelta(t, 0.32, a.Percentage, 1e-12)
	assert.Equal(t, 5.0, a.OrdersEstimate)
	assert.InDelta(t, 100000.0/7, a.DailyRunRate, 1e-9)
	assert.Equal(t, 2.0, a.UnitsPerOrder)

	// el costo custom gana
	assert.Equal(t, 24000.0, rows[1].COGS)
	assert.Equal(t, -2500.0, rows[2].Margin)
	assert.Zero(t, rows[2].Percentage)
	assert.Zero(t, rows[2].UnitsPerOrder)

	total := TotalRow(rows, costs, 0, 0)
	var net, ad, pack, ship, cogs, gross float64
	for _, r := range rows {
		net += r.NetRevenue
		ad += r.AdSpend
		pack += r.Packing
		ship += r.ShippingCost
		cogs += r.COGS
		gross += r.Gross
	}
	want := net - ad - pack - ship - cogs
	assert.True(t, total.Total)
	assert.Equal(t, "TOTAL", total.DisplayName)
	assert.InDelta(t, want, total.Margin, 1e-9)
	assert.InDelta(t, rows[0].Margin+rows[1].Margin+rows[2].Margin, total.Margin, 1e-9)
	assert.InDelta(t, want/gross, total.Percentage, 1e-12)
	assert.Equal(t, 13, total.Quantity)
	assert.Equal(t, 8.0, total.OrdersEstimate)
	assert.InDelta(t, 13.0/8, total.UnitsPerOrder, 1e-12)
	assert.InDelta(t, gross/7, total.DailyRunRate, 1e-9)
}

func TestCostingApply(t *testing.T) {
	vocab := testVocab(t)
	m := catalog.NewMatcher([]domain.CatalogEntry{
		{Title: "IQRO JILID", Size: "A5", UnitCost: 7000},
	}, vocab, catalog.Options{PrimaryThreshold: 80, FallbackThreshold: 75})
	rows := []domain.ProductSummary{
		{DisplayName: "IQRO JILID (A5)", Quantity: 2},
		{DisplayName: "TASBIH", Quantity: 1},
		{DisplayName: "SAJADAH", Quantity: 1},
		{DisplayName: "YASIN", Placeholder: true},
	}
	c := Costing{Matcher: m, Overrides: map[string]float64{displayKey("Sajadah"): 25000}}
	unmatched := c.Apply(rows)

	assert.Equal(t, 1, unmatched)
	assert.Equal(t, 7000.0, rows[0].UnitCost)
	assert.Zero(t, rows[1].UnitCost)
	assert.Equal(t, 25000.0, rows[2].CustomCost)
	assert.Zero(t, rows[3].UnitCost)
}
