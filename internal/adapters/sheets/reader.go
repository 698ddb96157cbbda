// Package sheets lee los exports de los marketplaces (xlsx o csv) y escribe el
// workbook de salida con excelize.
package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/phenrril/rekapanku/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile abre un export según su extensión. sheet elige la hoja de un xlsx
// (vacío = la primera).
func ReadFile(path, name, sheet string) (domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Table{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(bytes.NewReader(data), name)
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data), name, sheet)
	default:
		return domain.Table{}, fmt.Errorf("formato no soportado: %s", filepath.Base(path))
	}
}

// ReadXLSX devuelve la hoja tal cual. Las celdas numéricas llegan como float64
// (las fechas como serial de Excel); el resto como string.
func ReadXLSX(r io.Reader, name, sheet string) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()

	list := f.GetSheetList()
	if len(list) == 0 {
		return domain.Table{}, errors.New("xlsx sin hojas")
	}
	target := list[0]
	if sheet != "" {
		found := false
		for _, sh := range list {
			if strings.EqualFold(strings.TrimSpace(sh), strings.TrimSpace(sheet)) {
				target, found = sh, true
				break
			}
		}
		if !found {
			log.Warn().Str("hoja", sheet).Str("usada", target).Str("archivo", name).Msg("hoja no encontrada")
		}
	}

	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("leer hoja %s: %w", target, err)
	}
	t := domain.Table{Name: name, Rows: make([][]any, 0, len(rows))}
	for r, row := range rows {
		out := make([]any, len(row))
		for c, v := range row {
			out[c] = v
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			typ, err := f.GetCellType(target, axis)
			if err != nil {
				continue
			}
			if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					out[c] = n
				}
			}
		}
		t.Rows = append(t.Rows, out)
	}
	return t, nil
}

// ReadCSV detecta el separador (coma, punto y coma o tab) y decodifica Latin-1
// cuando el archivo no es UTF-8 válido.
func ReadCSV(r io.Reader, name string) (domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Table{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return domain.Table{}, fmt.Errorf("decodificar csv: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("leer csv: %w", err)
	}
	t := domain.Table{Name: name, Rows: make([][]any, 0, len(records))}
	for _, rec := range records {
		row := make([]any, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// sniffDelimiter mira las primeras líneas y elige el separador más frecuente.
func sniffDelimiter(data []byte) rune {
	lines := bytes.SplitN(data, []byte("\n"), 6)
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		n := 0
		for _, l := range lines {
			n += bytes.Count(l, []byte(string(d)))
		}
		if n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
