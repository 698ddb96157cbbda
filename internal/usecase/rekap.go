package usecase

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

type lineKey struct {
	orderID, product, variant string
}

// ConsolidateLines une filas repetidas del mismo producto/variante dentro de un
// pedido: suma cantidad y total, promedia el precio unitario y marca la línea
// como devuelta si alguna fila lo estaba. Se conserva el orden de aparición.
func ConsolidateLines(rows []domain.OrderRow, markers ReturnMarkers) []domain.OrderLine {
	var out []domain.OrderLine
	idx := map[lineKey]int{}
	counts := map[lineKey]int{}
	for _, r := range rows {
		if !hasText(r.OrderID) {
			continue
		}
		k := lineKey{cleanText(r.OrderID), cleanText(r.ProductName), cleanText(r.VariantText)}
		returned := markers.Approved(r.ReturnStatus)
		if i, ok := idx[k]; ok {
			l := &out[i]
			l.Quantity += r.Quantity
			l.LineTotal += r.LineTotal
			l.UnitPrice += r.UnitPrice
			l.Returned = l.Returned || returned
			counts[k]++
			continue
		}
		idx[k] = len(out)
		counts[k] = 1
		out = append(out, domain.OrderLine{
			OrderID:     k.orderID,
			ProductName: k.product,
			VariantText: k.variant,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			LineTotal:   r.LineTotal,
			Returned:    returned,
		})
	}
	for k, i := range idx {
		if n := counts[k]; n > 1 {
			out[i].UnitPrice /= float64(n)
		}
	}
	return out
}

// mergeSettlements junta filas repetidas de un mismo pedido en el export de
// ingresos (ajustes): los montos se suman, fechas y método quedan de la primera.
func mergeSettlements(rows []domain.Settlement) ([]string, map[string]domain.Settlement) {
	var order []string
	byID := map[string]domain.Settlement{}
	for _, s := range rows {
		id := cleanText(s.OrderID)
		if id == "" {
			continue
		}
		cur, ok := byID[id]
		if !ok {
			s.OrderID = id
			byID[id] = s
			order = append(order, id)
			continue
		}
		cur.Voucher += s.Voucher
		cur.FixedFee += s.FixedFee
		cur.ShippingSubsidy += s.ShippingSubsidy
		cur.AdminFee += s.AdminFee
		cur.Total += s.Total
		cur.Refund += s.Refund
		if cur.ReturnFiling == "" {
			cur.ReturnFiling = s.ReturnFiling
		}
		if cur.CreatedAt.IsZero() {
			cur.CreatedAt = s.CreatedAt
		}
		if cur.SettledAt.IsZero() {
			cur.SettledAt = s.SettledAt
		}
		byID[id] = cur
	}
	return order, byID
}

// affiliateIndex separa comisiones por producto de las que son de todo el pedido.
type affiliateIndex struct {
	byLine  map[lineKey]float64
	byProd  map[lineKey]float64
	byOrder map[string]float64
}

func newAffiliateIndex(rows []domain.AffiliateRow) affiliateIndex {
	ix := affiliateIndex{byLine: map[lineKey]float64{}, byProd: map[lineKey]float64{}, byOrder: map[string]float64{}}
	for _, r := range rows {
		id := cleanText(r.OrderID)
		if id == "" {
			continue
		}
		prod := cleanText(r.ProductName)
		switch {
		case prod == "":
			ix.byOrder[id] += r.Commission
		case hasText(r.Variant):
			ix.byLine[lineKey{id, prod, cleanText(r.Variant)}] += r.Commission
		default:
			ix.byProd[lineKey{orderID: id, product: prod}] += r.Commission
		}
	}
	return ix
}

// keys devuelve las claves del pedido ordenadas, para sumar siempre en el mismo orden.
func (ix affiliateIndex) keys(m map[lineKey]float64, orderID string) []lineKey {
	var out []lineKey
	for k := range m {
		if k.orderID == orderID {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].product != out[j].product {
			return out[i].product < out[j].product
		}
		return out[i].variant < out[j].variant
	})
	return out
}

// take devuelve la comisión de cada línea del pedido y lo que queda a nivel
// pedido. Lo que no encuentra su línea pasa a nivel pedido.
func (ix affiliateIndex) take(orderID string, lines []domain.OrderLine) ([]float64, float64) {
	direct := make([]float64, len(lines))
	orderLevel := ix.byOrder[orderID]
	usedLine := map[lineKey]bool{}
	prodLines := map[lineKey][]int{}
	for i, l := range lines {
		k := lineKey{l.OrderID, l.ProductName, l.VariantText}
		if v, ok := ix.byLine[k]; ok && !usedLine[k] {
			direct[i] += v
			usedLine[k] = true
		}
		pk := lineKey{orderID: l.OrderID, product: l.ProductName}
		prodLines[pk] = append(prodLines[pk], i)
	}
	for _, k := range ix.keys(ix.byLine, orderID) {
		if !usedLine[k] {
			orderLevel += ix.byLine[k]
		}
	}
	for _, k := range ix.keys(ix.byProd, orderID) {
		v := ix.byProd[k]
		idxs := prodLines[k]
		if len(idxs) == 0 {
			orderLevel += v
			continue
		}
		for j, share := range Split(v, len(idxs), config.PolicyEvenSplit) {
			direct[idxs[j]] += share
		}
	}
	return direct, orderLevel
}

// rekapBuilder arma las líneas de REKAP pedido por pedido.
type rekapBuilder struct {
	store    *config.StoreConfig
	fees     *FeeCalculator
	resolver *Resolver
}

// Build recorre los pedidos liberados (export de ingresos) en su orden. Cada
// pedido se procesa completo: asignación, comisiones y devoluciones.
func (b *rekapBuilder) Build(lines []domain.OrderLine, settlements []domain.Settlement, affiliates []domain.AffiliateRow, stats *domain.Stats) ([]domain.RekapLine, error) {
	byOrder := map[string][]domain.OrderLine{}
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	order, settled := mergeSettlements(settlements)
	aff := newAffiliateIndex(affiliates)

	var out []domain.RekapLine
	for _, id := range order {
		s := settled[id]
		group := byOrder[id]
		if len(group) == 0 {
			stats.OrphanSettlements++
			log.Warn().Str("pedido", id).Float64("total", s.Total).Msg("ingreso sin líneas de pedido")
			continue
		}
		rows, state, err := b.order(s, group, aff)
		if err != nil {
			return nil, err
		}
		stats.Orders++
		stats.Lines += len(rows)
		switch state {
		case domain.ReturnFull:
			stats.FullReturns++
		case domain.ReturnPartial:
			stats.PartialReturns++
		}
		out = append(out, rows...)
	}

	for _, l := range lines {
		if _, ok := settled[l.OrderID]; !ok {
			stats.OrphanLines++
		}
	}
	if stats.OrphanLines > 0 {
		log.Warn().Int("lineas", stats.OrphanLines).Msg("líneas de pedido sin ingreso liberado")
	}
	for i := range out {
		out[i].No = i + 1
	}
	return out, nil
}

func (b *rekapBuilder) order(s domain.Settlement, group []domain.OrderLine, aff affiliateIndex) ([]domain.RekapLine, domain.ReturnState, error) {
	n := len(group)
	a := b.store.Allocation
	vouchers := CostShares(s.Voucher, n, a.Voucher)
	subsidies := CostShares(s.ShippingSubsidy, n, a.ShippingSubsidy)
	fixed := CostShares(s.FixedFee, n, a.FixedFee)
	settlementShares := Split(s.Total, n, a.Settlement)
	shipping := CostShares(b.store.Costs.ShippingPerOrder, n, a.ShippingCost)
	adminFees := CostShares(s.AdminFee, n, a.Commission)
	affDirect, affOrder := aff.take(s.OrderID, group)
	affShares := CostShares(affOrder, n, a.Affiliate)

	rows := make([]domain.RekapLine, n)
	returned := make([]bool, n)
	for i, l := range group {
		id := b.resolver.Resolve(l.ProductName, l.VariantText, l.UnitPrice, s.CreatedAt)
		in := FeeInput{
			LineTotal: l.LineTotal,
			Voucher:   vouchers[i],
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Created:   s.CreatedAt,
		}
		r := domain.RekapLine{
			OrderID:         s.OrderID,
			CreatedAt:       s.CreatedAt,
			SettledAt:       s.SettledAt,
			PaymentMethod:   s.PaymentMethod,
			ProductName:     l.ProductName,
			VariantText:     l.VariantText,
			DisplayName:     id.DisplayName,
			Multiplier:      id.Multiplier(),
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       l.LineTotal,
			Voucher:         vouchers[i],
			ShippingSubsidy: subsidies[i],
			ServiceFees:     b.fees.Service(in),
			FixedFee:        fixed[i],
			Affiliate:       abs(affDirect[i]) + affShares[i],
			ShippingCost:    shipping[i],
			Settlement:      settlementShares[i],
			Return:          domain.ReturnNone,
		}
		if b.fees.FromSettlement() {
			r.Commission = adminFees[i]
		} else {
			r.Commission = b.fees.Commission(in)
		}
		extra, err := b.fees.Extra(in)
		if err != nil {
			return nil, "", err
		}
		r.ExtraFees = extra
		r.NetRevenue = r.LineTotal - r.Fees()
		rows[i] = r
		returned[i] = l.Returned
	}

	state := AdjustReturns(rows, returned, s)
	if state == domain.ReturnNone && hasText(s.ReturnFiling) {
		log.Debug().Str("pedido", s.OrderID).Str("solicitud", s.ReturnFiling).Msg("solicitud de devolución sin aprobar, se ignora")
	}
	return rows, state, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// displayKey es la clave de comparación entre nombres canónicos y campañas.
func displayKey(s string) string {
	return variant.NormalizeName(s)
}
