// Package catalog resuelve el costo unitario de un producto contra el catálogo
// de precios de compra: primero exige coincidencia de atributos (tamaño,
// papel, paquete, color) y similitud alta; si no hay candidato, acepta solo
// similitud con un umbral menor.
package catalog

import (
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

type Pass string

const (
	PassStrict   Pass = "estricto"
	PassFallback Pass = "fallback"
	PassNone     Pass = ""
)

// Options son los umbrales de similitud (0..100).
type Options struct {
	PrimaryThreshold  float64
	FallbackThreshold float64
}

// Match es el resultado de resolver un nombre.
type Match struct {
	Entry domain.CatalogEntry
	Score float64
	Pass  Pass
}

// UnitCost es 0 cuando no hubo match.
func (m Match) UnitCost() float64 {
	if m.Pass == PassNone {
		return 0
	}
	return m.Entry.UnitCost
}

func (m Match) Found() bool { return m.Pass != PassNone }

type entry struct {
	domain.CatalogEntry
	titleLen int
	attrs    variant.Attributes
}

// Matcher es de solo lectura sobre el catálogo; el cache por nombre lo hace
// seguro para usar desde varias goroutines.
type Matcher struct {
	vocab   *variant.Vocabulary
	opts    Options
	entries []entry

	mu    sync.Mutex
	cache map[string]Match
}

func NewMatcher(rows []domain.CatalogEntry, vocab *variant.Vocabulary, opts Options) *Matcher {
	m := &Matcher{
		vocab:   vocab,
		opts:    opts,
		entries: make([]entry, 0, len(rows)),
		cache:   map[string]Match{},
	}
	for _, r := range rows {
		if processString(r.Title) == "" {
			continue
		}
		m.entries = append(m.entries, entry{
			CatalogEntry: r,
			titleLen:     utf8.RuneCountInString(variant.NormalizeName(r.Title)),
			attrs:        m.catalogAttrs(r),
		})
	}
	return m
}

// catalogAttrs canoniza las columnas del catálogo. Si una columna viene vacía
// se intenta leer el atributo del título.
func (m *Matcher) catalogAttrs(r domain.CatalogEntry) variant.Attributes {
	fromTitle := m.vocab.Extract(r.Title, true)
	a := variant.Attributes{
		Size:  m.vocab.Size(r.Size),
		Paper: m.vocab.Paper(r.Paper),
		Color: m.vocab.Color(r.Color),
	}
	if a.Size == "" {
		a.Size = fromTitle.Size
	}
	if a.Paper == "" {
		a.Paper = fromTitle.Paper
	}
	if variant.NormalizeName(r.Package) != "" {
		a.Package = m.vocab.PackageCount(r.Package)
	} else {
		a.Package = fromTitle.Multiplier()
	}
	return a
}

func (m *Matcher) Len() int { return len(m.entries) }

// Resolve busca el mejor candidato para un nombre canónico "BASE (SUFIJO)".
func (m *Matcher) Resolve(displayName string) Match {
	m.mu.Lock()
	if hit, ok := m.cache[displayName]; ok {
		m.mu.Unlock()
		return hit
	}
	m.mu.Unlock()

	res := m.resolve(displayName)

	m.mu.Lock()
	m.cache[displayName] = res
	m.mu.Unlock()
	return res
}

// UnitCost es Resolve(...).UnitCost().
func (m *Matcher) UnitCost(displayName string) float64 {
	return m.Resolve(displayName).UnitCost()
}

func (m *Matcher) resolve(displayName string) Match {
	base, suffix := variant.SplitDisplayName(displayName)
	want := m.vocab.Extract(suffix, m.vocab.ColorRelevant(base))

	scores := make([]float64, len(m.entries))
	for i, e := range m.entries {
		scores[i] = TokenSetRatio(base, e.Title)
	}

	best := -1
	for i, e := range m.entries {
		if scores[i] < m.opts.PrimaryThreshold || !attrsMatch(want, e.attrs) {
			continue
		}
		if better(scores[i], e.titleLen, best, scores, m.entries) {
			best = i
		}
	}
	pass := PassStrict
	if best < 0 {
		pass = PassFallback
		for i, e := range m.entries {
			if scores[i] < m.opts.FallbackThreshold {
				continue
			}
			if better(scores[i], e.titleLen, best, scores, m.entries) {
				best = i
			}
		}
	}

	if best < 0 {
		log.Debug().Str("producto", displayName).Str("razon", "sin candidato").Msg("sin precio")
		return Match{}
	}
	e := m.entries[best]
	if e.UnitCost <= 0 {
		log.Debug().Str("producto", displayName).Str("razon", "precio 0").Str("titulo", e.Title).Msg("sin precio")
		return Match{}
	}
	log.Debug().Str("producto", displayName).Str("metodo", string(pass)).
		Str("titulo", e.Title).Float64("score", scores[best]).Float64("costo", e.UnitCost).Msg("match encontrado")
	return Match{Entry: e.CatalogEntry, Score: scores[best], Pass: pass}
}

// better: mayor score; en empate, título más largo; si no, el primero del catálogo.
func better(score float64, titleLen, best int, scores []float64, entries []entry) bool {
	if best < 0 {
		return true
	}
	if score != scores[best] {
		return score > scores[best]
	}
	return titleLen > entries[best].titleLen
}

// attrsMatch: solo los atributos presentes en la variante restringen.
func attrsMatch(want, got variant.Attributes) bool {
	if want.Size != "" && want.Size != got.Size {
		return false
	}
	if want.Paper != "" && want.Paper != got.Paper {
		return false
	}
	if want.Package > 0 && want.Package != got.Multiplier() {
		return false
	}
	if want.Color != "" && want.Color != got.Color {
		return false
	}
	return true
}
