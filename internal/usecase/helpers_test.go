package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/variant"
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func testVocab(t testing.TB) *variant.Vocabulary {
	t.Helper()
	v, err := variant.NewVocabulary(testConfig(t).Vocabulary)
	require.NoError(t, err)
	return v
}

// simpleConfig deja la primera tienda con comisión 8% y sin cargos de
// servicio: voucher repartido, cargo fijo en la primera línea.
func simpleConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	s := &cfg.Stores[0]
	s.Fees.CommissionSource = config.CommissionFromRate
	s.Fees.CommissionByYear = map[int]float64{2024: 0.08}
	s.Fees.Base = config.BaseLineTotalMinusVoucher
	s.Fees.ServiceTiers = nil
	s.Fees.Extra = nil
	s.Allocation.Voucher = config.PolicyEvenSplit
	s.Allocation.FixedFee = config.PolicyFirstLine
	s.Allocation.Settlement = config.PolicyFirstLine
	s.Costs.ShippingPerOrder = 0
	s.SplitByUnitPrice = false
	return cfg
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
