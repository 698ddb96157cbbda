package sheets

import (
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
)

// Campos requeridos por export; el resto es opcional y vale 0/"" si falta.
var (
	ordersRequired = []domain.Field{
		domain.FieldOrderID, domain.FieldProductName, domain.FieldVariantText,
		domain.FieldQuantity, domain.FieldUnitPrice, domain.FieldLineTotal,
	}
	ordersOptional = []domain.Field{domain.FieldReturnStatus}

	incomeRequired = []domain.Field{domain.FieldOrderID, domain.FieldSettlement}
	incomeOptional = []domain.Field{
		domain.FieldCreatedAt, domain.FieldSettledAt, domain.FieldPaymentMethod, domain.FieldVoucher,
		domain.FieldFixedFee, domain.FieldShipSubsidy, domain.FieldAdminFee, domain.FieldRefund,
		domain.FieldReturnFiling,
	}

	adsRequired = []domain.Field{domain.FieldCampaign, domain.FieldSpend}
	adsOptional = []domain.Field{domain.FieldImpressions, domain.FieldClicks, domain.FieldUnitsSold, domain.FieldRevenue}

	affiliateRequired = []domain.Field{domain.FieldOrderID, domain.FieldCommission}
	affiliateOptional = []domain.Field{domain.FieldProductName, domain.FieldVariantText}

	catalogRequired = []domain.Field{domain.FieldTitle, domain.FieldUnitCost}
	catalogOptional = []domain.Field{domain.FieldPaperType, domain.FieldSize, domain.FieldPackage, domain.FieldColor}

	overridesRequired = []domain.Field{domain.FieldProductName, domain.FieldUnitCost}
	overridesOptional = []domain.Field{domain.FieldVariantText}
)

func ParseOrders(t domain.Table, cfg config.SourceConfig) ([]domain.OrderRow, error) {
	b, err := Bind(t, domain.SourceOrders, cfg, ordersRequired, ordersOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderRow, 0, len(b.data))
	for _, row := range b.Rows() {
		id := b.Text(row, domain.FieldOrderID)
		if id == "" {
			continue
		}
		out = append(out, domain.OrderRow{
			OrderID:      id,
			ProductName:  b.Text(row, domain.FieldProductName),
			VariantText:  b.Text(row, domain.FieldVariantText),
			Quantity:     b.Int(row, domain.FieldQuantity),
			UnitPrice:    b.Number(row, domain.FieldUnitPrice),
			LineTotal:    b.Number(row, domain.FieldLineTotal),
			ReturnStatus: b.Text(row, domain.FieldReturnStatus),
		})
	}
	return out, nil
}

func ParseIncome(t domain.Table, cfg config.SourceConfig) ([]domain.Settlement, error) {
	b, err := Bind(t, domain.SourceIncome, cfg, incomeRequired, incomeOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Settlement, 0, len(b.data))
	for _, row := range b.Rows() {
		id := b.Text(row, domain.FieldOrderID)
		if id == "" {
			continue
		}
		out = append(out, domain.Settlement{
			OrderID:         id,
			CreatedAt:       b.Time(row, domain.FieldCreatedAt),
			SettledAt:       b.Time(row, domain.FieldSettledAt),
			PaymentMethod:   b.Text(row, domain.FieldPaymentMethod),
			Voucher:         b.Number(row, domain.FieldVoucher),
			FixedFee:        b.Number(row, domain.FieldFixedFee),
			ShippingSubsidy: b.Number(row, domain.FieldShipSubsidy),
			AdminFee:        b.Number(row, domain.FieldAdminFee),
			Total:           b.Number(row, domain.FieldSettlement),
			Refund:          b.Number(row, domain.FieldRefund),
			ReturnFiling:    b.Text(row, domain.FieldReturnFiling),
		})
	}
	return out, nil
}

func ParseAds(t domain.Table, cfg config.SourceConfig) ([]domain.AdRow, error) {
	b, err := Bind(t, domain.SourceAds, cfg, adsRequired, adsOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AdRow, 0, len(b.data))
	for _, row := range b.Rows() {
		out = append(out, domain.AdRow{
			Campaign:    b.Text(row, domain.FieldCampaign),
			Impressions: b.Number(row, domain.FieldImpressions),
			Clicks:      b.Number(row, domain.FieldClicks),
			Spend:       b.Number(row, domain.FieldSpend),
			Units:       b.Number(row, domain.FieldUnitsSold),
			Revenue:     b.Number(row, domain.FieldRevenue),
		})
	}
	return out, nil
}

func ParseAffiliate(t domain.Table, cfg config.SourceConfig) ([]domain.AffiliateRow, error) {
	b, err := Bind(t, domain.SourceAffiliate, cfg, affiliateRequired, affiliateOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AffiliateRow, 0, len(b.data))
	for _, row := range b.Rows() {
		id := b.Text(row, domain.FieldOrderID)
		if id == "" {
			continue
		}
		out = append(out, domain.AffiliateRow{
			OrderID:     id,
			ProductName: b.Text(row, domain.FieldProductName),
			Variant:     b.Text(row, domain.FieldVariantText),
			Commission:  b.Number(row, domain.FieldCommission),
		})
	}
	return out, nil
}

func ParseCatalog(t domain.Table, cfg config.SourceConfig) ([]domain.CatalogEntry, error) {
	b, err := Bind(t, domain.SourceCatalog, cfg, catalogRequired, catalogOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CatalogEntry, 0, len(b.data))
	for _, row := range b.Rows() {
		title := b.Text(row, domain.FieldTitle)
		if title == "" {
			continue
		}
		out = append(out, domain.CatalogEntry{
			Title:    title,
			Paper:    b.Text(row, domain.FieldPaperType),
			Size:     b.Text(row, domain.FieldSize),
			Package:  b.Text(row, domain.FieldPackage),
			Color:    b.Text(row, domain.FieldColor),
			UnitCost: b.Number(row, domain.FieldUnitCost),
		})
	}
	return out, nil
}

func ParseOverrides(t domain.Table, cfg config.SourceConfig) ([]domain.CostOverride, error) {
	b, err := Bind(t, domain.SourceOverrides, cfg, overridesRequired, overridesOptional)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CostOverride, 0, len(b.data))
	for _, row := range b.Rows() {
		name := b.Text(row, domain.FieldProductName)
		if name == "" {
			continue
		}
		out = append(out, domain.CostOverride{
			ProductName: name,
			Variant:     b.Text(row, domain.FieldVariantText),
			UnitCost:    b.Number(row, domain.FieldUnitCost),
		})
	}
	return out, nil
}
