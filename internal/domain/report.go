package domain

import "time"

// RekapLine es una línea de la hoja REKAP: un producto de un pedido con sus
// costos asignados y la venta neta.
type RekapLine struct {
	No              int
	OrderID         string
	CreatedAt       time.Time
	SettledAt       time.Time
	PaymentMethod   string
	ProductName     string
	VariantText     string
	DisplayName     string
	Multiplier      int
	Quantity        int
	UnitPrice       float64
	LineTotal       float64
	Voucher         float64
	ShippingSubsidy float64
	Commission      float64
	ServiceFees     []float64
	ExtraFees       []float64
	FixedFee        float64
	Affiliate       float64
	ShippingCost    float64
	Settlement      float64
	NetRevenue      float64
	Return          ReturnState
}

// Fees suma todos los costos que se descuentan de la venta.
func (l RekapLine) Fees() float64 {
	total := l.Voucher + l.ShippingSubsidy + l.Commission + l.FixedFee + l.Affiliate
	for _, f := range l.ServiceFees {
		total += f
	}
	for _, f := range l.ExtraFees {
		total += f
	}
	return total
}

// IklanRow es una campaña agrupada por nombre limpio.
type IklanRow struct {
	Campaign    string
	Impressions float64
	Clicks      float64
	Spend       float64
	Units       float64
	Revenue     float64
	Total       bool
}

// ProductSummary es una fila de SUMMARY.
type ProductSummary struct {
	No              int
	DisplayName     string
	UnitPrice       float64
	Quantity        int
	Gross           float64
	Voucher         float64
	ShippingSubsidy float64
	Commission      float64
	ServiceFees     []float64
	ExtraFees       []float64
	FixedFee        float64
	Affiliate       float64
	ShippingCost    float64
	NetRevenue      float64
	AdSpend         float64
	UnitCost        float64
	CustomCost      float64
	COGS            float64
	Packing         float64
	Margin          float64
	Percentage      float64
	OrdersEstimate  float64
	DailyRunRate    float64
	UnitsPerOrder   float64
	Placeholder     bool
	Total           bool
}

// Stats resume la corrida para el log final.
type Stats struct {
	Orders            int
	Lines             int
	FullReturns       int
	PartialReturns    int
	OrphanLines       int
	OrphanSettlements int
	UnmatchedCatalog  int
	Placeholders      int
}

// Report es la salida completa de una corrida.
type Report struct {
	RunID           string
	Store           string
	ServiceFeeNames []string
	ExtraFeeNames   []string
	Rekap           []RekapLine
	Iklan           []IklanRow
	Summary         []ProductSummary
	Raw             []Table
	Stats           Stats
}
