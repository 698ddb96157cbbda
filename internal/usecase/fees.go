package usecase

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/phenrril/rekapanku/internal/config"
)

// FeeInput son los datos de una línea que usan las fórmulas de comisión.
type FeeInput struct {
	LineTotal float64
	Voucher   float64
	Quantity  int
	UnitPrice float64
	Created   time.Time
}

type extraFee struct {
	name string
	prg  cel.Program
}

// FeeCalculator calcula comisión, cargos de servicio y cargos extra (CEL) por
// línea según la tabla de la tienda.
type FeeCalculator struct {
	fees  config.FeeConfig
	extra []extraFee
}

func NewFeeCalculator(fees config.FeeConfig) (*FeeCalculator, error) {
	fc := &FeeCalculator{fees: fees}
	if len(fees.Extra) == 0 {
		return fc, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("line_total", cel.DoubleType),
		cel.Variable("voucher", cel.DoubleType),
		cel.Variable("base", cel.DoubleType),
		cel.Variable("quantity", cel.DoubleType),
		cel.Variable("unit_price", cel.DoubleType),
		cel.Variable("year", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	for _, x := range fees.Extra {
		ast, issues := env.Compile(x.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("fees.extra[%s]: %w", x.Name, issues.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("fees.extra[%s]: %w", x.Name, err)
		}
		fc.extra = append(fc.extra, extraFee{name: x.Name, prg: prg})
	}
	return fc, nil
}

// ServiceNames son los encabezados de los cargos de servicio, en orden.
func (fc *FeeCalculator) ServiceNames() []string {
	out := make([]string, 0, len(fc.fees.ServiceTiers))
	for _, t := range fc.fees.ServiceTiers {
		out = append(out, t.Name)
	}
	return out
}

func (fc *FeeCalculator) ExtraNames() []string {
	out := make([]string, 0, len(fc.extra))
	for _, x := range fc.extra {
		out = append(out, x.name)
	}
	return out
}

// Base es la base porcentual de la línea: line_total o line_total - voucher.
func (fc *FeeCalculator) Base(in FeeInput) float64 {
	if fc.fees.Base == config.BaseLineTotal {
		return in.LineTotal
	}
	return in.LineTotal - in.Voucher
}

// FromSettlement indica que la comisión viene del export de ingresos y no de la tasa.
func (fc *FeeCalculator) FromSettlement() bool {
	return fc.fees.CommissionSource == config.CommissionFromSettlement
}

// Commission usa la tasa del año de creación del pedido.
func (fc *FeeCalculator) Commission(in FeeInput) float64 {
	return fc.Base(in) * fc.fees.CommissionRate(in.Created)
}

// Service devuelve un monto por cada tier; los tiers deshabilitados valen 0.
func (fc *FeeCalculator) Service(in FeeInput) []float64 {
	base := fc.Base(in)
	out := make([]float64, len(fc.fees.ServiceTiers))
	for i, t := range fc.fees.ServiceTiers {
		if t.Enabled {
			out[i] = base * t.Rate
		}
	}
	return out
}

// Extra evalúa las expresiones CEL de la tienda.
func (fc *FeeCalculator) Extra(in FeeInput) ([]float64, error) {
	out := make([]float64, len(fc.extra))
	if len(fc.extra) == 0 {
		return out, nil
	}
	vars := map[string]any{
		"line_total": in.LineTotal,
		"voucher":    in.Voucher,
		"base":       fc.Base(in),
		"quantity":   float64(in.Quantity),
		"unit_price": in.UnitPrice,
		"year":       int64(in.Created.Year()),
	}
	for i, x := range fc.extra {
		res, _, err := x.prg.Eval(vars)
		if err != nil {
			return nil, fmt.Errorf("fees.extra[%s]: %w", x.name, err)
		}
		switch v := res.Value().(type) {
		case float64:
			out[i] = v
		case int64:
			out[i] = float64(v)
		default:
			return nil, fmt.Errorf("fees.extra[%s]: resultado no numérico (%T)", x.name, v)
		}
	}
	return out, nil
}
