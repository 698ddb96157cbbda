package sheets

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/rekapanku/internal/domain"
)

// RawSheetName es el nombre de la hoja donde se copia cada export de entrada.
func RawSheetName(src domain.Source) string {
	switch src {
	case domain.SourceOrders:
		return "order-all"
	case domain.SourceIncome:
		return "income dilepas"
	case domain.SourceAds:
		return "iklan raw"
	case domain.SourceAffiliate:
		return "seller conversion"
	case domain.SourceCatalog:
		return "katalog"
	case domain.SourceOverrides:
		return "harga custom"
	}
	return string(src)
}

type styles struct {
	header, emphasis, money, percent int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return s, err
	}
	if s.emphasis, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
		NumFmt: 3,
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 3}); err != nil {
		return s, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: 10}); err != nil {
		return s, err
	}
	return s, nil
}

// Workbook arma el archivo de salida: primero las hojas calculadas y después
// una copia sin cambios de cada export de entrada.
func Workbook(out []domain.Sheet, raw []domain.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("estilos: %w", err)
	}
	first := f.GetSheetName(0)
	used := map[string]bool{}
	idx := 0
	add := func(name string) (string, error) {
		name = sheetName(name, used)
		if idx == 0 {
			idx++
			return name, f.SetSheetName(first, name)
		}
		idx++
		_, err := f.NewSheet(name)
		return name, err
	}

	for _, s := range out {
		name, err := add(s.Name)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, name, s, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("hoja %s: %w", name, err)
		}
	}
	for _, t := range raw {
		name, err := add(t.Name)
		if err != nil {
			f.Close()
			return nil, err
		}
		for r, row := range t.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			vals := row
			if err := f.SetSheetRow(name, cell, &vals); err != nil {
				f.Close()
				return nil, fmt.Errorf("hoja %s: %w", name, err)
			}
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, name string, s domain.Sheet, st styles) error {
	header := make([]any, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for r, row := range s.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		vals := row
		if err := f.SetSheetRow(name, cell, &vals); err != nil {
			return err
		}
	}
	if len(s.Header) == 0 {
		return nil
	}
	lastCol, _ := excelize.ColumnNumberToName(len(s.Header))
	if err := f.SetCellStyle(name, "A1", lastCol+"1", st.header); err != nil {
		return err
	}
	_ = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	// formato de miles en las columnas numéricas, según la primera fila con datos
	if len(s.Rows) > 0 {
		for c, v := range s.Rows[0] {
			if _, ok := v.(float64); !ok {
				continue
			}
			col, _ := excelize.ColumnNumberToName(c + 1)
			if err := f.SetCellStyle(name, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, len(s.Rows)+1), st.money); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Percent {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetCellStyle(name, fmt.Sprintf("%s2", col), fmt.Sprintf("%s%d", col, len(s.Rows)+1), st.percent); err != nil {
			return err
		}
	}
	for _, r := range s.Emphasize {
		row := r + 2
		if err := f.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.emphasis); err != nil {
			return err
		}
	}
	return f.SetColWidth(name, "A", lastCol, 16)
}

// sheetName respeta el límite de Excel (31 caracteres, sin []:*?/\) y evita repetidos.
func sheetName(name string, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	base, n := name, 2
	for used[strings.ToLower(name)] {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(base)
		if len(r)+len(suffix) > 31 {
			r = r[:31-len(suffix)]
		}
		name = string(r) + suffix
		n++
	}
	used[strings.ToLower(name)] = true
	return name
}

// Write guarda el workbook en w.
func Write(w io.Writer, out []domain.Sheet, raw []domain.Table) error {
	f, err := Workbook(out, raw)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// WriteFile guarda el workbook en path.
func WriteFile(path string, out []domain.Sheet, raw []domain.Table) error {
	f, err := Workbook(out, raw)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
