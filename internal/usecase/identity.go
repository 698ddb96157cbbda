package usecase

import (
	"math"
	"strings"
	"time"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/variant"
)

type priceTier struct {
	price float64
	label string
	from  time.Time
	until time.Time
}

func (t priceTier) applies(price float64, created time.Time) bool {
	if math.Abs(t.price-price) > 0.5 {
		return false
	}
	if created.IsZero() {
		return true
	}
	if !t.from.IsZero() && created.Before(t.from) {
		return false
	}
	// until es inclusivo: todo el día
	if !t.until.IsZero() && !created.Before(t.until.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// Resolver arma el nombre canónico "PRODUCTO (SUFIJO)" de cada línea.
type Resolver struct {
	vocab    *variant.Vocabulary
	verbatim map[string]bool
	tiers    map[string][]priceTier
}

func NewResolver(vocab *variant.Vocabulary, rules config.VariantRules) *Resolver {
	r := &Resolver{
		vocab:    vocab,
		verbatim: map[string]bool{},
		tiers:    map[string][]priceTier{},
	}
	for _, name := range rules.Verbatim {
		r.verbatim[variant.NormalizeName(name)] = true
	}
	for _, rule := range rules.PriceTiers {
		key := variant.NormalizeName(rule.Product)
		for _, t := range rule.Tiers {
			// las fechas ya pasaron por config.Validate
			from, _ := parseDay(t.From)
			until, _ := parseDay(t.Until)
			r.tiers[key] = append(r.tiers[key], priceTier{price: t.Price, label: t.Label, from: from, until: until})
		}
	}
	return r
}

func parseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

// cleanText colapsa espacios (incluye espacios duros) sin tocar mayúsculas.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasText(s string) bool { return strings.TrimSpace(s) != "" }

// Identity es el resultado de resolver una línea.
type Identity struct {
	DisplayName string
	Attributes  variant.Attributes
}

func (id Identity) Multiplier() int { return id.Attributes.Multiplier() }

// Resolve nunca falla: sin regla aplicable devuelve el nombre tal cual.
func (r *Resolver) Resolve(productName, variantText string, unitPrice float64, created time.Time) Identity {
	name := cleanText(productName)
	key := variant.NormalizeName(name)
	text := cleanText(variantText)
	if r.vocab.IsPlaceholder(text) {
		text = ""
	}

	if r.verbatim[key] {
		return Identity{
			DisplayName: variant.Join(name, text),
			Attributes:  r.vocab.Extract(text, true),
		}
	}

	attrs := r.vocab.Extract(text, r.vocab.ColorRelevant(name))
	if tokens := r.vocab.Tokens(attrs); len(tokens) > 0 {
		return Identity{DisplayName: variant.Join(name, strings.Join(tokens, " ")), Attributes: attrs}
	}

	for _, t := range r.tiers[key] {
		if t.applies(unitPrice, created) {
			return Identity{DisplayName: variant.Join(name, t.label)}
		}
	}
	return Identity{DisplayName: name}
}

// TierName devuelve "PRODUCTO (ETIQUETA)" cuando variantText nombra una de las
// etiquetas de precio configuradas para el producto.
func (r *Resolver) TierName(productName, variantText string) (string, bool) {
	name := cleanText(productName)
	label := variant.NormalizeName(variantText)
	if label == "" {
		return "", false
	}
	for _, t := range r.tiers[variant.NormalizeName(name)] {
		if variant.NormalizeName(t.label) == label {
			return variant.Join(name, t.label), true
		}
	}
	return "", false
}

// DisplayName es Resolve(...).DisplayName.
func (r *Resolver) DisplayName(productName, variantText string, unitPrice float64, created time.Time) string {
	return r.Resolve(productName, variantText, unitPrice, created).DisplayName
}
