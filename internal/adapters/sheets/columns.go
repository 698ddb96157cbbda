package sheets

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/numeric"
	"github.com/phenrril/rekapanku/internal/variant"
)

// Binding ubica cada campo canónico en una columna del export.
type Binding struct {
	Source    domain.Source
	HeaderRow int
	mode      numeric.Mode
	cols      map[domain.Field]int
	data      [][]any
}

func headerKey(v any) string {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return variant.NormalizeName(s)
}

// resolve arma campo -> columna para una fila candidata a encabezado.
func resolve(row []any, cfg config.SourceConfig, fields []domain.Field) map[domain.Field]int {
	pos := map[string]int{}
	for i, v := range row {
		if v == nil {
			continue
		}
		k := headerKey(v)
		if _, seen := pos[k]; !seen && k != "" {
			pos[k] = i
		}
	}
	out := map[domain.Field]int{}
	for _, f := range fields {
		candidates := append([]string{string(f)}, cfg.Aliases(f)...)
		for _, alias := range candidates {
			if i, ok := pos[variant.NormalizeName(alias)]; ok {
				out[f] = i
				break
			}
		}
	}
	return out
}

// Bind busca el encabezado dentro de las primeras HeaderScanRows filas: la
// primera fila que resuelve todos los campos requeridos. Los exports traen
// filas de título antes del encabezado.
func Bind(t domain.Table, src domain.Source, cfg config.SourceConfig, required, optional []domain.Field) (*Binding, error) {
	scan := cfg.HeaderScanRows
	if scan <= 0 {
		scan = 10
	}
	all := append(append([]domain.Field{}, required...), optional...)

	bestRow, bestHits := -1, -1
	for r := 0; r < len(t.Rows) && r < scan; r++ {
		cols := resolve(t.Rows[r], cfg, all)
		hits := 0
		for _, f := range required {
			if _, ok := cols[f]; ok {
				hits++
			}
		}
		if hits == len(required) {
			return &Binding{Source: src, HeaderRow: r, mode: cfg.NumberMode, cols: cols, data: t.Rows[r+1:]}, nil
		}
		if hits > bestHits {
			bestRow, bestHits = r, hits
		}
	}

	var cols map[domain.Field]int
	if bestRow >= 0 {
		cols = resolve(t.Rows[bestRow], cfg, required)
	}
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			return nil, &domain.MissingColumnError{Source: src, Column: f}
		}
	}
	// tabla vacía y nada requerido
	return &Binding{Source: src, HeaderRow: -1, mode: cfg.NumberMode, cols: map[domain.Field]int{}}, nil
}

func (b *Binding) Has(f domain.Field) bool {
	_, ok := b.cols[f]
	return ok
}

// Rows son las filas de datos, sin las completamente vacías.
func (b *Binding) Rows() [][]any {
	out := make([][]any, 0, len(b.data))
	for _, row := range b.data {
		if !emptyRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func emptyRow(row []any) bool {
	for _, v := range row {
		switch x := v.(type) {
		case nil:
		case string:
			if strings.TrimSpace(x) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (b *Binding) cell(row []any, f domain.Field) any {
	i, ok := b.cols[f]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// Text devuelve la celda como texto; los números enteros se escriben sin decimales
// (números de pedido leídos como número).
func (b *Binding) Text(row []any, f domain.Field) string {
	switch v := b.cell(row, f).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprint(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Number: columna ausente o celda ilegible valen 0.
func (b *Binding) Number(row []any, f domain.Field) float64 {
	return numeric.Parse(b.cell(row, f), b.mode)
}

func (b *Binding) Int(row []any, f domain.Field) int {
	return numeric.Int(b.cell(row, f), b.mode)
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	time.RFC3339,
}

// Time acepta seriales de Excel y los formatos de fecha de los exports.
func (b *Binding) Time(row []any, f domain.Field) time.Time {
	switch v := b.cell(row, f).(type) {
	case float64:
		if v <= 0 {
			return time.Time{}
		}
		t, err := excelize.ExcelDateToTime(v, false)
		if err != nil {
			return time.Time{}
		}
		return t
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return time.Time{}
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
