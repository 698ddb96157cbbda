package usecase

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/phenrril/rekapanku/internal/config"
)

// SplitDecimal reparte un monto del pedido entre n líneas. first_line deja todo
// en la primera; even_split da partes iguales y la última absorbe el resto de
// la división, así la suma es exactamente el monto.
func SplitDecimal(amount decimal.Decimal, n int, policy config.Policy) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if policy == config.PolicyFirstLine || n == 1 {
		shares[0] = amount
		return shares
	}
	each := amount.Div(decimal.NewFromInt(int64(n)))
	for i := 0; i < n-1; i++ {
		shares[i] = each
	}
	shares[n-1] = amount.Sub(each.Mul(decimal.NewFromInt(int64(n - 1))))
	return shares
}

// Split es SplitDecimal sobre float64.
func Split(amount float64, n int, policy config.Policy) []float64 {
	if n <= 0 {
		return nil
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	parts := SplitDecimal(decimal.NewFromFloat(amount), n, policy)
	shares := make([]float64, n)
	for i, p := range parts {
		shares[i], _ = p.Float64()
	}
	return shares
}

// CostShares es Split sobre el valor absoluto: el signo del export
// (débito/crédito) no llega a las columnas de costo.
func CostShares(amount float64, n int, policy config.Policy) []float64 {
	return Split(math.Abs(amount), n, policy)
}
