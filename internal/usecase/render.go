package usecase

import (
	"time"

	"github.com/phenrril/rekapanku/internal/domain"
)

const (
	SheetRekap   = "REKAP"
	SheetIklan   = "IKLAN"
	SheetSummary = "SUMMARY"
)

func returnLabel(s domain.ReturnState) string {
	switch s {
	case domain.ReturnFull:
		return "Retur Penuh"
	case domain.ReturnPartial:
		return "Retur Sebagian"
	}
	return ""
}

func cellTime(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t
}

func padded(vals []float64, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = 0.0
		if i < len(vals) {
			out[i] = vals[i]
		}
	}
	return out
}

// Sheets arma las tres hojas de salida en el orden SUMMARY, REKAP, IKLAN.
func Sheets(r *domain.Report) []domain.Sheet {
	return []domain.Sheet{summarySheet(r), rekapSheet(r), iklanSheet(r)}
}

func rekapSheet(r *domain.Report) domain.Sheet {
	ns, ne := len(r.ServiceFeeNames), len(r.ExtraFeeNames)
	header := []string{
		"No", "No. Pesanan", "Waktu Pesanan Dibuat", "Tanggal Dana Dilepaskan", "Metode Pembayaran",
		"Nama Produk", "Nama Variasi", "Produk", "Isi Paket", "Jumlah Terjual", "Harga Satuan",
		"Total Harga Produk", "Voucher Ditanggung Penjual", "Gratis Ongkir dari Penjual", "Biaya Komisi",
	}
	header = append(header, r.ServiceFeeNames...)
	header = append(header, r.ExtraFeeNames...)
	header = append(header, "Biaya Proses Pesanan", "Komisi Affiliate", "Biaya Kirim",
		"Total Penghasilan", "Penjualan Bersih", "Status Pengembalian")

	rows := make([][]any, 0, len(r.Rekap))
	for _, l := range r.Rekap {
		row := []any{
			l.No, l.OrderID, cellTime(l.CreatedAt), cellTime(l.SettledAt), l.PaymentMethod,
			l.ProductName, l.VariantText, l.DisplayName, l.Multiplier, l.Quantity, l.UnitPrice,
			l.LineTotal, l.Voucher, l.ShippingSubsidy, l.Commission,
		}
		row = append(row, padded(l.ServiceFees, ns)...)
		row = append(row, padded(l.ExtraFees, ne)...)
		row = append(row, l.FixedFee, l.Affiliate, l.ShippingCost, l.Settlement, l.NetRevenue, returnLabel(l.Return))
		rows = append(rows, row)
	}
	return domain.Sheet{Name: SheetRekap, Header: header, Rows: rows}
}

func iklanSheet(r *domain.Report) domain.Sheet {
	s := domain.Sheet{
		Name:   SheetIklan,
		Header: []string{"Nama Iklan", "Dilihat", "Jumlah Klik", "Biaya", "Produk Terjual", "Omzet Penjualan"},
	}
	for i, c := range r.Iklan {
		s.Rows = append(s.Rows, []any{c.Campaign, c.Impressions, c.Clicks, c.Spend, c.Units, c.Revenue})
		if c.Total {
			s.Emphasize = append(s.Emphasize, i)
		}
	}
	return s
}

func summarySheet(r *domain.Report) domain.Sheet {
	ns, ne := len(r.ServiceFeeNames), len(r.ExtraFeeNames)
	header := []string{
		"No", "Nama Produk", "Harga Satuan", "Jumlah Terjual", "Total Penjualan", "Voucher Ditanggung Penjual",
		"Gratis Ongkir dari Penjual", "Biaya Komisi",
	}
	header = append(header, r.ServiceFeeNames...)
	header = append(header, r.ExtraFeeNames...)
	header = append(header, "Biaya Proses Pesanan", "Komisi Affiliate", "Biaya Kirim", "Penjualan Bersih",
		"Biaya Iklan", "Harga Katalog", "Harga Custom", "Total Pembelian", "Biaya Packing", "Margin",
		"Persentase", "Jumlah Pesanan", "Penjualan Per Hari", "Unit Per Pesanan")
	pctCol := len(header) - 4

	s := domain.Sheet{Name: SheetSummary, Header: header, Percent: []int{pctCol}}
	for i, p := range r.Summary {
		var no, price, unitCost, custom any = p.No, p.UnitPrice, p.UnitCost, p.CustomCost
		if p.Total {
			no, price, unitCost, custom = "", "", "", ""
			s.Emphasize = append(s.Emphasize, i)
		}
		row := []any{no, p.DisplayName, price, p.Quantity, p.Gross, p.Voucher, p.ShippingSubsidy, p.Commission}
		row = append(row, padded(p.ServiceFees, ns)...)
		row = append(row, padded(p.ExtraFees, ne)...)
		row = append(row, p.FixedFee, p.Affiliate, p.ShippingCost, p.NetRevenue, p.AdSpend, unitCost, custom,
			p.COGS, p.Packing, p.Margin, p.Percentage, p.OrdersEstimate, p.DailyRunRate, p.UnitsPerOrder)
		s.Rows = append(s.Rows, row)
	}
	return s
}
