package usecase

import (
	"regexp"
	"strings"

	"github.com/phenrril/rekapanku/internal/domain"
)

const totalLabel = "TOTAL"

// CleanCampaign quita del nombre de la campaña lo que matchea el patrón
// (p.ej. "baris 30") y los separadores que quedan colgando.
func CleanCampaign(name string, re *regexp.Regexp) string {
	if re != nil {
		name = re.ReplaceAllString(name, " ")
	}
	return strings.Trim(cleanText(name), " -_|")
}

// BuildIklan agrupa el export de publicidad por nombre limpio, en orden de
// aparición, y agrega la fila TOTAL al final.
func BuildIklan(ads []domain.AdRow, re *regexp.Regexp) []domain.IklanRow {
	var out []domain.IklanRow
	idx := map[string]int{}
	var total domain.IklanRow
	for _, a := range ads {
		name := CleanCampaign(a.Campaign, re)
		if name == "" && a.Spend == 0 {
			continue
		}
		k := displayKey(name)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, domain.IklanRow{Campaign: name})
		}
		r := &out[i]
		r.Impressions += a.Impressions
		r.Clicks += a.Clicks
		r.Spend += a.Spend
		r.Units += a.Units
		r.Revenue += a.Revenue

		total.Impressions += a.Impressions
		total.Clicks += a.Clicks
		total.Spend += a.Spend
		total.Units += a.Units
		total.Revenue += a.Revenue
	}
	total.Campaign = totalLabel
	total.Total = true
	return append(out, total)
}
