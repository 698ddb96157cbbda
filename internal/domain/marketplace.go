package domain

import "time"

// OrderRow es una fila del export de pedidos, ya tipada.
type OrderRow struct {
	OrderID      string
	ProductName  string
	VariantText  string
	Quantity     int
	UnitPrice    float64
	LineTotal    float64
	ReturnStatus string
}

// Settlement es el ingreso liberado de un pedido (export de income).
type Settlement struct {
	OrderID         string
	CreatedAt       time.Time
	SettledAt       time.Time
	PaymentMethod   string
	Voucher         float64
	FixedFee        float64
	ShippingSubsidy float64
	AdminFee        float64
	Total           float64
	Refund          float64
	ReturnFiling    string
}

// OrderLine es un producto dentro de un pedido luego de consolidar filas repetidas.
type OrderLine struct {
	OrderID     string
	ProductName string
	VariantText string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
	Returned    bool
}

// AffiliateRow es la comisión de afiliado pagada por pedido (y producto, si viene).
type AffiliateRow struct {
	OrderID     string
	ProductName string
	Variant     string
	Commission  float64
}

// AdRow es una fila del export de publicidad.
type AdRow struct {
	Campaign    string
	Impressions float64
	Clicks      float64
	Spend       float64
	Units       float64
	Revenue     float64
}

// CatalogEntry es una fila del catálogo de precios de compra. Solo lectura.
type CatalogEntry struct {
	Title    string
	Paper    string
	Size     string
	Package  string
	Color    string
	UnitCost float64
}

// CostOverride es un costo unitario cargado a mano para un producto/variante.
type CostOverride struct {
	ProductName string
	Variant     string
	UnitCost    float64
}

type ReturnState string

const (
	ReturnNone    ReturnState = "none"
	ReturnFull    ReturnState = "full"
	ReturnPartial ReturnState = "partial"
)
