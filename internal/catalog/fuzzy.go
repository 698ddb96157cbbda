package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// processString deja solo letras y dígitos en mayúsculas, separados por un espacio.
func processString(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio es la similitud por indel (2*LCS / largo total) en escala 0..100.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(ra, rb)) / float64(total)
}

func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func sortedJoin(set map[string]bool) string {
	toks := make([]string, 0, len(set))
	for t := range set {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// TokenSetRatio compara dos textos sin importar el orden ni las palabras
// repetidas. Si un conjunto de palabras contiene al otro, vale 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(processString(a)), tokenSet(processString(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter, onlyA, onlyB := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for t := range ta {
		if tb[t] {
			inter[t] = true
		} else {
			onlyA[t] = true
		}
	}
	for t := range tb {
		if !ta[t] {
			onlyB[t] = true
		}
	}
	if len(inter) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := sortedJoin(inter)
	combinedA := strings.TrimSpace(sect + " " + sortedJoin(onlyA))
	combinedB := strings.TrimSpace(sect + " " + sortedJoin(onlyB))

	score := Ratio(combinedA, combinedB)
	if sect != "" {
		score = max(score, Ratio(sect, combinedA), Ratio(sect, combinedB))
	}
	return score
}
