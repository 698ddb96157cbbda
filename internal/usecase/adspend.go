package usecase

import (
	"github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

// AdDistributor reparte el gasto de cada campaña sobre las filas de SUMMARY.
// El gasto nunca se pierde: lo que no encuentra producto queda en una fila
// sin ventas con el nombre de la campaña.
type AdDistributor struct {
	vocab *variant.Vocabulary
	rules map[string]config.AdProductRule
}

func NewAdDistributor(vocab *variant.Vocabulary, rules []config.AdProductRule) *AdDistributor {
	d := &AdDistributor{vocab: vocab, rules: map[string]config.AdProductRule{}}
	for _, r := range rules {
		d.rules[displayKey(r.Campaign)] = r
	}
	return d
}

type summaryIndex struct {
	rows  []domain.ProductSummary
	byKey map[string][]int
}

func (ix *summaryIndex) find(name string) []int {
	return ix.byKey[displayKey(name)]
}

// placeholder devuelve la fila sin ventas para name, creándola si no existe.
func (ix *summaryIndex) placeholder(name string) *domain.ProductSummary {
	for _, i := range ix.byKey[displayKey(name)] {
		if ix.rows[i].Placeholder {
			return &ix.rows[i]
		}
	}
	ix.rows = append(ix.rows, domain.ProductSummary{DisplayName: name, Placeholder: true})
	i := len(ix.rows) - 1
	ix.byKey[displayKey(name)] = append(ix.byKey[displayKey(name)], i)
	return &ix.rows[i]
}

// Distribute suma el gasto de las campañas (filas de IKLAN sin la de total) a
// las filas agrupadas y devuelve las filas más los placeholders creados.
func (d *AdDistributor) Distribute(rows []domain.ProductSummary, campaigns []domain.IklanRow) []domain.ProductSummary {
	ix := &summaryIndex{rows: rows, byKey: map[string][]int{}}
	for i, r := range rows {
		k := displayKey(r.DisplayName)
		ix.byKey[k] = append(ix.byKey[k], i)
	}

	for _, c := range campaigns {
		if c.Total || c.Spend == 0 {
			continue
		}
		if rule, ok := d.rules[displayKey(c.Campaign)]; ok {
			d.byRule(ix, c, rule)
			continue
		}
		if sib := ix.find(c.Campaign); len(sib) > 0 {
			for j, share := range Split(c.Spend, len(sib), config.PolicyEvenSplit) {
				ix.rows[sib[j]].AdSpend += share
			}
			continue
		}
		log.Debug().Str("campaña", c.Campaign).Float64("gasto", c.Spend).Msg("campaña sin producto, fila sin ventas")
		ix.placeholder(c.Campaign).AdSpend += c.Spend
	}
	return ix.rows
}

// byRule: gasto / divisor es el costo por unidad; cada variante absorbe
// unidad × multiplicador, repartido entre sus filas hermanas (mismo nombre,
// distinto precio). Si el divisor no alcanza para las variantes se usa la suma
// de multiplicadores; el sobrante queda en la fila de la campaña.
func (d *AdDistributor) byRule(ix *summaryIndex, c domain.IklanRow, rule config.AdProductRule) {
	mults := make([]float64, len(rule.Variants))
	var sum float64
	for i, v := range rule.Variants {
		_, suffix := variant.SplitDisplayName(v)
		mults[i] = float64(d.vocab.Extract(suffix, false).Multiplier())
		sum += mults[i]
	}
	divisor := rule.Divisor
	if divisor < sum {
		if divisor > 0 {
			log.Warn().Str("campaña", c.Campaign).Float64("divisor", divisor).Float64("unidades", sum).Msg("divisor menor que las variantes configuradas")
		}
		divisor = sum
	}
	unit := c.Spend / divisor

	var assigned float64
	for i, v := range rule.Variants {
		share := unit * mults[i]
		assigned += share
		sib := ix.find(v)
		if len(sib) == 0 {
			ix.placeholder(v).AdSpend += share
			continue
		}
		for j, part := range Split(share, len(sib), config.PolicyEvenSplit) {
			ix.rows[sib[j]].AdSpend += part
		}
	}
	if rest := c.Spend - assigned; rest > 1e-9 || rest < -1e-9 {
		ix.placeholder(c.Campaign).AdSpend += rest
	}
}
