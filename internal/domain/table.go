package domain

// Table es una hoja cruda tal como llega del export (banners incluidos).
// Las celdas numéricas de un XLSX llegan como float64; todo lo demás como string.
type Table struct {
	Name string
	Rows [][]any
}

// Sheet es una tabla lista para escribir en el workbook de salida.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
	// filas (índice 0-based sobre Rows) que se resaltan, p.ej. totales
	Emphasize []int
	// columnas (0-based) con formato porcentaje
	Percent []int
}

// Source identifica cada export de entrada.
type Source string

const (
	SourceOrders    Source = "orders"
	SourceIncome    Source = "income"
	SourceAds       Source = "ads"
	SourceAffiliate Source = "affiliate"
	SourceCatalog   Source = "catalog"
	SourceOverrides Source = "overrides"
)

// Field es el nombre canónico de una columna, independiente del marketplace.
type Field string

const (
	FieldOrderID       Field = "order_id"
	FieldProductName   Field = "product_name"
	FieldVariantText   Field = "variant_text"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unit_price_after_discount"
	FieldLineTotal     Field = "line_total"
	FieldReturnStatus  Field = "return_approval_status"
	FieldCreatedAt     Field = "order_created_at"
	FieldSettledAt     Field = "order_settled_at"
	FieldPaymentMethod Field = "payment_method"
	FieldVoucher       Field = "voucher_amount"
	FieldFixedFee      Field = "fixed_platform_fee"
	FieldShipSubsidy   Field = "free_shipping_subsidy"
	FieldAdminFee      Field = "platform_commission"
	FieldSettlement    Field = "total_settlement_amount"
	FieldRefund        Field = "refund_amount"
	FieldReturnFiling  Field = "return_filing_number"
	FieldCampaign      Field = "campaign_name"
	FieldImpressions   Field = "impressions"
	FieldClicks        Field = "clicks"
	FieldSpend         Field = "spend"
	FieldUnitsSold     Field = "units_sold"
	FieldRevenue       Field = "revenue"
	FieldCommission    Field = "commission_paid"
	FieldTitle         Field = "title"
	FieldPaperType     Field = "paper_type"
	FieldSize          Field = "size"
	FieldPackage       Field = "package_descriptor"
	FieldColor         Field = "color"
	FieldUnitCost      Field = "unit_cost"
)
