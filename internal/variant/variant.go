// Package variant extrae atributos estructurales (tamaño, papel, paquete, color)
// del texto libre de variantes y de los nombres canónicos de producto.
package variant

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/phenrril/rekapanku/internal/config"
)

// Attributes son los atributos que importan para costo y agregación.
type Attributes struct {
	Size    string
	Paper   string
	Package int // 0 = no informado
	Unit    bool
	Color   string
}

func (a Attributes) Empty() bool {
	return a.Size == "" && a.Paper == "" && a.Package == 0 && a.Color == ""
}

// Multiplier es la cantidad de unidades por paquete (1 si no hay paquete).
func (a Attributes) Multiplier() int {
	if a.Package > 0 {
		return a.Package
	}
	return 1
}

type term struct {
	re        *regexp.Regexp
	canonical string
	length    int
}

// Vocabulary es la versión compilada de config.VocabularyConfig.
type Vocabulary struct {
	papers          []term
	size            *regexp.Regexp
	pkg             *regexp.Regexp
	pkgFormat       string
	unit            string
	unitRe          *regexp.Regexp
	colors          []term
	colorCategories []string
	placeholders    map[string]bool
}

func NewVocabulary(cfg config.VocabularyConfig) (*Vocabulary, error) {
	v := &Vocabulary{
		pkgFormat:    cfg.PackageFormat,
		unit:         NormalizeName(cfg.UnitKeyword),
		placeholders: map[string]bool{"": true},
	}
	if v.pkgFormat == "" {
		v.pkgFormat = "PAKET %d"
	}
	var err error
	if v.size, err = regexp.Compile(cfg.SizePattern); err != nil {
		return nil, fmt.Errorf("size_pattern: %w", err)
	}
	if v.pkg, err = regexp.Compile(cfg.PackagePattern); err != nil {
		return nil, fmt.Errorf("package_pattern: %w", err)
	}
	if v.unit != "" {
		v.unitRe = regexp.MustCompile(`\b` + regexp.QuoteMeta(v.unit) + `\b`)
	}
	for _, p := range cfg.PaperTypes {
		v.papers = append(v.papers, newTerm(p, p))
	}
	synonyms := make([]string, 0, len(cfg.PaperSynonyms))
	for k := range cfg.PaperSynonyms {
		synonyms = append(synonyms, k)
	}
	sort.Strings(synonyms)
	for _, k := range synonyms {
		v.papers = append(v.papers, newTerm(k, cfg.PaperSynonyms[k]))
	}
	for _, c := range cfg.Colors {
		v.colors = append(v.colors, newTerm(c, c))
	}
	for _, c := range cfg.ColorCategories {
		v.colorCategories = append(v.colorCategories, NormalizeName(c))
	}
	for _, p := range cfg.Placeholders {
		v.placeholders[NormalizeName(p)] = true
	}
	return v, nil
}

func newTerm(word, canonical string) term {
	w := NormalizeName(word)
	return term{
		re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`),
		canonical: NormalizeName(canonical),
		length:    len(w),
	}
}

// NormalizeName pliega el texto a NFKC (espacios duros, anchos completos),
// mayúsculas y espacios simples.
func NormalizeName(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

var separators = strings.NewReplacer(",", " ", ";", " ", "/", " ", "|", " ", "_", " ", "(", " ", ")", " ", "[", " ", "]", " ", "+", " ")

// normalizeTokens es NormalizeName más separadores como espacios.
func normalizeTokens(s string) string {
	return NormalizeName(separators.Replace(norm.NFKC.String(s)))
}

func (v *Vocabulary) IsPlaceholder(s string) bool {
	return v.placeholders[NormalizeName(s)]
}

// ColorRelevant indica si el producto pertenece a una categoría donde el color
// distingue SKUs (textiles).
func (v *Vocabulary) ColorRelevant(productName string) bool {
	name := NormalizeName(productName)
	for _, c := range v.colorCategories {
		if c != "" && strings.Contains(name, c) {
			return true
		}
	}
	return false
}

// Extract busca los atributos en un texto libre. El color solo se extrae si withColor.
func (v *Vocabulary) Extract(text string, withColor bool) Attributes {
	var a Attributes
	s := normalizeTokens(text)
	if s == "" {
		return a
	}
	if m := v.size.FindString(s); m != "" {
		a.Size = m
	}
	a.Paper = firstTerm(v.papers, s)
	if m := v.pkg.FindStringSubmatch(s); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			a.Package = n
		}
	}
	if a.Package == 0 && v.unitRe != nil && v.unitRe.MatchString(s) {
		a.Package = 1
		a.Unit = true
	}
	if withColor {
		a.Color = firstTerm(v.colors, s)
	}
	return a
}

// firstTerm devuelve el término que aparece primero; en empate, el más largo.
func firstTerm(terms []term, s string) string {
	best, bestPos, bestLen := "", -1, 0
	for _, t := range terms {
		loc := t.re.FindStringIndex(s)
		if loc == nil {
			continue
		}
		if bestPos < 0 || loc[0] < bestPos || (loc[0] == bestPos && t.length > bestLen) {
			best, bestPos, bestLen = t.canonical, loc[0], t.length
		}
	}
	return best
}

// Paper canoniza un valor de papel del catálogo (sinónimos incluidos).
func (v *Vocabulary) Paper(s string) string {
	s = normalizeTokens(s)
	if s == "" {
		return ""
	}
	if p := firstTerm(v.papers, s); p != "" {
		return p
	}
	return s
}

// Size canoniza un tamaño del catálogo.
func (v *Vocabulary) Size(s string) string {
	s = normalizeTokens(s)
	if m := v.size.FindString(s); m != "" {
		return m
	}
	return s
}

// PackageCount interpreta el descriptor de paquete del catálogo. Vacío o la
// palabra de unidad valen 1.
func (v *Vocabulary) PackageCount(s string) int {
	s = normalizeTokens(s)
	if s == "" || s == v.unit {
		return 1
	}
	if m := v.pkg.FindStringSubmatch(s); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 1
}

// Color canoniza un color del catálogo.
func (v *Vocabulary) Color(s string) string {
	s = normalizeTokens(s)
	if c := firstTerm(v.colors, s); c != "" {
		return c
	}
	return s
}

// Tokens devuelve el sufijo canónico: tamaño, papel, paquete, color.
func (v *Vocabulary) Tokens(a Attributes) []string {
	var out []string
	if a.Size != "" {
		out = append(out, a.Size)
	}
	if a.Paper != "" {
		out = append(out, a.Paper)
	}
	if a.Unit {
		out = append(out, v.unit)
	} else if a.Package > 0 {
		out = append(out, fmt.Sprintf(v.pkgFormat, a.Package))
	}
	if a.Color != "" {
		out = append(out, a.Color)
	}
	return out
}

var displayRe = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)

// SplitDisplayName separa "NOMBRE (SUFIJO)" en base y sufijo.
func SplitDisplayName(name string) (base, suffix string) {
	name = strings.TrimSpace(name)
	if m := displayRe.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return name, ""
}

// Join arma el nombre canónico; sin sufijo no agrega paréntesis vacíos.
func Join(base, suffix string) string {
	base = strings.TrimSpace(base)
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		return base
	}
	return base + " (" + suffix + ")"
}
