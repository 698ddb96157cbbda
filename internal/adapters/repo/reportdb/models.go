package reportdb

import "time"

// Run es una corrida exportada; el resto de las tablas cuelgan de su ID.
type Run struct {
	ID                string `gorm:"size:36;primaryKey"`
	Store             string `gorm:"size:60;index"`
	Orders            int
	Lines             int
	FullReturns       int
	PartialReturns    int
	OrphanLines       int
	OrphanSettlements int
	UnmatchedCatalog  int
	Placeholders      int
	Gross             float64 `gorm:"type:decimal(14,2)"`
	NetRevenue        float64 `gorm:"type:decimal(14,2)"`
	AdSpend           float64 `gorm:"type:decimal(14,2)"`
	Margin            float64 `gorm:"type:decimal(14,2)"`

	CreatedAt time.Time
}

func (Run) TableName() string { return "report_runs" }

type RekapRow struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           string `gorm:"size:36;index"`
	No              int
	OrderID         string `gorm:"size:60;index"`
	OrderCreatedAt  time.Time
	OrderSettledAt  time.Time
	PaymentMethod   string  `gorm:"size:60"`
	ProductName     string  `gorm:"size:255"`
	VariantText     string  `gorm:"size:255"`
	DisplayName     string  `gorm:"size:255;index"`
	Multiplier      int     `gorm:"not null;default:1"`
	Quantity        int     `gorm:"not null"`
	UnitPrice       float64 `gorm:"type:decimal(14,2)"`
	LineTotal       float64 `gorm:"type:decimal(14,2)"`
	Voucher         float64 `gorm:"type:decimal(14,2)"`
	ShippingSubsidy float64 `gorm:"type:decimal(14,2)"`
	Commission      float64 `gorm:"type:decimal(14,2)"`
	ServiceFees     float64 `gorm:"type:decimal(14,2)"`
	ExtraFees       float64 `gorm:"type:decimal(14,2)"`
	FixedFee        float64 `gorm:"type:decimal(14,2)"`
	Affiliate       float64 `gorm:"type:decimal(14,2)"`
	ShippingCost    float64 `gorm:"type:decimal(14,2)"`
	Settlement      float64 `gorm:"type:decimal(14,2)"`
	NetRevenue      float64 `gorm:"type:decimal(14,2)"`
	ReturnState     string  `gorm:"size:10"`
}

func (RekapRow) TableName() string { return "report_rekap" }

type IklanRow struct {
	ID          uint    `gorm:"primaryKey"`
	RunID       string  `gorm:"size:36;index"`
	Campaign    string  `gorm:"size:255"`
	Impressions float64 `gorm:"type:decimal(14,2)"`
	Clicks      float64 `gorm:"type:decimal(14,2)"`
	Spend       float64 `gorm:"type:decimal(14,2)"`
	Units       float64 `gorm:"type:decimal(14,2)"`
	Revenue     float64 `gorm:"type:decimal(14,2)"`
	Total       bool    `gorm:"not null;default:false"`
}

func (IklanRow) TableName() string { return "report_iklan" }

type SummaryRow struct {
	ID              uint    `gorm:"primaryKey"`
	RunID           string  `gorm:"size:36;index"`
	No              int
	DisplayName     string  `gorm:"size:255;index"`
	UnitPrice       float64 `gorm:"type:decimal(14,2)"`
	Quantity        int
	Gross           float64 `gorm:"type:decimal(14,2)"`
	Voucher         float64 `gorm:"type:decimal(14,2)"`
	ShippingSubsidy float64 `gorm:"type:decimal(14,2)"`
	Commission      float64 `gorm:"type:decimal(14,2)"`
	ServiceFees     float64 `gorm:"type:decimal(14,2)"`
	ExtraFees       float64 `gorm:"type:decimal(14,2)"`
	FixedFee        float64 `gorm:"type:decimal(14,2)"`
	Affiliate       float64 `gorm:"type:decimal(14,2)"`
	ShippingCost    float64 `gorm:"type:decimal(14,2)"`
	NetRevenue      float64 `gorm:"type:decimal(14,2)"`
	AdSpend         float64 `gorm:"type:decimal(14,2)"`
	UnitCost        float64 `gorm:"type:decimal(14,2)"`
	CustomCost      float64 `gorm:"type:decimal(14,2)"`
	COGS            float64 `gorm:"column:cogs;type:decimal(14,2)"`
	Packing         float64 `gorm:"type:decimal(14,2)"`
	Margin          float64 `gorm:"type:decimal(14,2)"`
	Percentage      float64 `gorm:"type:decimal(10,6)"`
	OrdersEstimate  float64 `gorm:"type:decimal(12,4)"`
	DailyRunRate    float64 `gorm:"type:decimal(14,2)"`
	UnitsPerOrder   float64 `gorm:"type:decimal(12,4)"`
	Placeholder     bool    `gorm:"not null;default:false"`
	Total           bool    `gorm:"not null;default:false"`
}

func (SummaryRow) TableName() string { return "report_summary" }
