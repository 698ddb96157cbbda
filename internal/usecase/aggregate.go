package usecase

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/catalog"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
)

type groupKey struct {
	name  string
	price float64
}

// GroupLines agrupa REKAP por nombre canónico (y por precio unitario si la
// tienda lo pide). Las líneas devueltas (neto <= 0) no suman cantidad ni venta
// bruta, pero su neto sí entra en la suma.
func GroupLines(lines []domain.RekapLine, byPrice bool, nService, nExtra int) []domain.ProductSummary {
	idx := map[groupKey]int{}
	var out []domain.ProductSummary
	for _, l := range lines {
		k := groupKey{name: l.DisplayName}
		if byPrice {
			k.price = math.Round(l.UnitPrice*100) / 100
		}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, domain.ProductSummary{
				DisplayName: l.DisplayName,
				UnitPrice:   k.price,
				ServiceFees: make([]float64, nService),
				ExtraFees:   make([]float64, nExtra),
			})
		}
		p := &out[i]
		qty, gross := l.Quantity, l.LineTotal
		if l.NetRevenue <= 0 {
			qty, gross = 0, 0
		}
		p.Quantity += qty
		p.Gross += gross
		p.Voucher += l.Voucher
		p.ShippingSubsidy += l.ShippingSubsidy
		p.Commission += l.Commission
		addInto(p.ServiceFees, l.ServiceFees)
		addInto(p.ExtraFees, l.ExtraFees)
		p.FixedFee += l.FixedFee
		p.Affiliate += l.Affiliate
		p.ShippingCost += l.ShippingCost
		p.NetRevenue += l.NetRevenue
		if !byPrice && p.UnitPrice == 0 {
			p.UnitPrice = l.UnitPrice
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].UnitPrice < out[j].UnitPrice
	})
	return out
}

func addInto(dst, src []float64) {
	for i := range dst {
		if i < len(src) {
			dst[i] += src[i]
		}
	}
}

// Costing asigna el costo unitario a cada fila: el costo custom gana al del
// catálogo cuando es > 0.
type Costing struct {
	Matcher   *catalog.Matcher
	Overrides map[string]float64
}

// Apply completa costos y devuelve cuántas filas con ventas quedaron sin costo.
func (c Costing) Apply(rows []domain.ProductSummary) int {
	unmatched := 0
	for i := range rows {
		p := &rows[i]
		if p.Placeholder {
			continue
		}
		if c.Matcher != nil {
			p.UnitCost = c.Matcher.UnitCost(p.DisplayName)
		}
		p.CustomCost = c.Overrides[displayKey(p.DisplayName)]
		if p.UnitCost == 0 && p.CustomCost == 0 && p.Quantity > 0 {
			unmatched++
			log.Warn().Str("producto", p.DisplayName).Msg("sin costo en catálogo")
		}
	}
	return unmatched
}

// Derive calcula las métricas de una fila a partir de sus campos base.
func Derive(p *domain.ProductSummary, costs config.CostConfig) {
	cost := p.UnitCost
	if p.CustomCost > 0 {
		cost = p.CustomCost
	}
	if !p.Total {
		p.COGS = cost * float64(p.Quantity)
		p.Packing = costs.PackingPerUnit * float64(p.Quantity)
	}
	p.Margin = p.NetRevenue - p.AdSpend - p.Packing - p.ShippingCost - p.COGS
	p.Percentage = 0
	if p.Gross != 0 {
		p.Percentage = p.Margin / p.Gross
	}
	p.OrdersEstimate = 0
	if costs.PerOrderFee > 0 {
		p.OrdersEstimate = p.FixedFee / costs.PerOrderFee
	}
	p.DailyRunRate = 0
	if costs.RunRateDays > 0 {
		p.DailyRunRate = p.Gross / costs.RunRateDays
	}
	p.UnitsPerOrder = 0
	if p.OrdersEstimate != 0 {
		p.UnitsPerOrder = float64(p.Quantity) / p.OrdersEstimate
	}
}

// TotalRow suma los campos base de todas las filas y recalcula las métricas
// con las mismas fórmulas; nunca suma porcentajes.
func TotalRow(rows []domain.ProductSummary, costs config.CostConfig, nService, nExtra int) domain.ProductSummary {
	t := domain.ProductSummary{
		DisplayName: totalLabel,
		Total:       true,
		ServiceFees: make([]float64, nService),
		ExtraFees:   make([]float64, nExtra),
	}
	for _, p := range rows {
		t.Quantity += p.Quantity
		t.Gross += p.Gross
		t.Voucher += p.Voucher
		t.ShippingSubsidy += p.ShippingSubsidy
		t.Commission += p.Commission
		addInto(t.ServiceFees, p.ServiceFees)
		addInto(t.ExtraFees, p.ExtraFees)
		t.FixedFee += p.FixedFee
		t.Affiliate += p.Affiliate
		t.ShippingCost += p.ShippingCost
		t.NetRevenue += p.NetRevenue
		t.AdSpend += p.AdSpend
		t.COGS += p.COGS
		t.Packing += p.Packing
	}
	Derive(&t, costs)
	return t
}
