package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/domain"
)

func newTestBuilder(t *testing.T) *rekapBuilder {
	t.Helper()
	cfg := simpleConfig(t)
	uc, err := NewReconcileUC(cfg, cfg.Stores[0].ID)
	require.NoError(t, err)
	return &rekapBuilder{store: uc.Store, fees: uc.fees, resolver: uc.resolver}
}

func TestClassifyReturn(t *testing.T) {
	state, n := ClassifyReturn([]bool{false, false})
	assert.Equal(t, domain.ReturnNone, state)
	assert.Zero(t, n)
	state, n = ClassifyReturn([]bool{true, true})
	assert.Equal(t, domain.ReturnFull, state)
	assert.Equal(t, 2, n)
	state, n = ClassifyReturn([]bool{false, true, true})
	assert.Equal(t, domain.ReturnPartial, state)
	assert.Equal(t, 2, n)
}

func TestReturnMarkers(t *testing.T) {
	m := NewReturnMarkers([]string{"Permintaan Disetujui"})
	assert.True(t, m.Approved("permintaan  disetujui"))
	assert.False(t, m.Approved("Permintaan Ditolak"))
	assert.False(t, m.Approved(""))
}

func returnOrder() (domain.Settlement, []domain.OrderLine) {
	s := domain.Settlement{
		OrderID: "O1", CreatedAt: day("2024-05-01"),
		Voucher: 200, FixedFee: 1250, Total: 41000, Refund: -30000,
	}
	lines := []domain.OrderLine{
		{OrderID: "O1", ProductName: "IQRO", VariantText: "A5", Quantity: 1, UnitPrice: 30000, LineTotal: 30000},
		{OrderID: "O1", ProductName: "AL QURAN HAFALAN", VariantText: "A5 HVS", Quantity: 1, UnitPrice: 15000, LineTotal: 15000},
	}
	return s, lines
}

func TestPartialReturnIsolation(t *testing.T) {
	b := newTestBuilder(t)
	s, lines := returnOrder()

	base, state, err := b.order(s, lines, newAffiliateIndex(nil))
	require.NoError(t, err)
	require.Equal(t, domain.ReturnNone, state)

	lines[0].Returned = true
	got, state, err := b.order(s, lines, newAffiliateIndex(nil))
	require.NoError(t, err)
	require.Equal(t, domain.ReturnPartial, state)

	assert.Zero(t, got[0].Fees())
	assert.Zero(t, got[0].Voucher)
	assert.Zero(t, got[0].FixedFee)
	assert.Equal(t, -30000.0, got[0].NetRevenue)
	assert.Equal(t, domain.ReturnPartial, got[0].Return)

	// la línea no devuelta no cambia
	assert.Equal(t, base[1], got[1])
}

func TestFullReturn(t *testing.T) {
	b := newTestBuilder(t)
	s, lines := returnOrder()
	s.Total = -1000
	lines[0].Returned = true
	lines[1].Returned = true

	got, state, err := b.order(s, lines, newAffiliateIndex(nil))
	require.NoError(t, err)
	require.Equal(t, domain.ReturnFull, state)
	for _, l := range got {
		assert.Zero(t, l.Fees())
		assert.Equal(t, -500.0, l.NetRevenue)
		assert.Equal(t, domain.ReturnFull, l.Return)
	}
}

func TestFilingWithoutApprovalIsNotReturn(t *testing.T) {
	b := newTestBuilder(t)
	s, _ := returnOrder()
	s.ReturnFiling = "RR-2405"
	rows := []domain.OrderRow{
		{OrderID: "O1", ProductName: "IQRO", VariantText: "A5", Quantity: 1, UnitPrice: 30000, LineTotal: 30000, ReturnStatus: "Permintaan Ditolak"},
		{OrderID: "O1", ProductName: "AL QURAN HAFALAN", VariantText: "A5 HVS", Quantity: 1, UnitPrice: 15000, LineTotal: 15000},
	}
	lines := ConsolidateLines(rows, NewReturnMarkers(b.store.Returns.ApprovedMarkers))

	got, state, err := b.order(s, lines, newAffiliateIndex(nil))
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnNone, state)
	assert.Greater(t, got[0].NetRevenue, 0.0)
}
