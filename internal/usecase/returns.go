package usecase

import (
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

// ReturnMarkers reconoce el estado de devolución aprobada.
type ReturnMarkers map[string]bool

func NewReturnMarkers(markers []string) ReturnMarkers {
	m := ReturnMarkers{}
	for _, s := range markers {
		if k := variant.NormalizeName(s); k != "" {
			m[k] = true
		}
	}
	return m
}

// Approved: solo cuenta el estado aprobado; un número de solicitud sin estado
// aprobado no es devolución.
func (m ReturnMarkers) Approved(status string) bool {
	return m[variant.NormalizeName(status)]
}

// ClassifyReturn clasifica un pedido por las marcas de sus líneas y devuelve
// cuántas se devolvieron.
func ClassifyReturn(returned []bool) (domain.ReturnState, int) {
	count := 0
	for _, r := range returned {
		if r {
			count++
		}
	}
	switch {
	case count == 0:
		return domain.ReturnNone, 0
	case count == len(returned):
		return domain.ReturnFull, count
	default:
		return domain.ReturnPartial, count
	}
}

// zeroCosts anula todo lo asignado a una línea devuelta.
func zeroCosts(l *domain.RekapLine) {
	l.Voucher = 0
	l.ShippingSubsidy = 0
	l.Commission = 0
	l.FixedFee = 0
	l.Affiliate = 0
	l.ShippingCost = 0
	for i := range l.ServiceFees {
		l.ServiceFees[i] = 0
	}
	for i := range l.ExtraFees {
		l.ExtraFees[i] = 0
	}
}

// AdjustReturns aplica la devolución sobre las líneas ya calculadas de un pedido.
// Devolución total: cada línea vale total liquidado / n. Parcial: solo las
// líneas devueltas pasan a reembolso / devueltas; el resto queda igual.
func AdjustReturns(lines []domain.RekapLine, returned []bool, s domain.Settlement) domain.ReturnState {
	state, count := ClassifyReturn(returned)
	switch state {
	case domain.ReturnFull:
		share := s.Total / float64(len(lines))
		for i := range lines {
			zeroCosts(&lines[i])
			lines[i].NetRevenue = share
			lines[i].Return = domain.ReturnFull
		}
	case domain.ReturnPartial:
		share := s.Refund / float64(count)
		for i := range lines {
			if !returned[i] {
				continue
			}
			zeroCosts(&lines[i])
			lines[i].NetRevenue = share
			lines[i].Return = domain.ReturnPartial
		}
	}
	return state
}
