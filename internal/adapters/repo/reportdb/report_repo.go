// Package reportdb exporta el resultado de una corrida a una base (SQLite o
// Postgres) para consultarlo fuera de la planilla. Solo escribe.
package reportdb

import (
	"context"
	"errors"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/rekapanku/internal/domain"
)

// Open elige el driver por el DSN: postgres:// o "host=..." van a Postgres; el
// resto se toma como archivo SQLite (acepta el prefijo sqlite://).
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("dsn vacío")
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") || strings.Contains(lower, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), cfg)
}

type ReportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Migrate() error {
	return r.db.AutoMigrate(&Run{}, &RekapRow{}, &IklanRow{}, &SummaryRow{})
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

// Save guarda la corrida completa en una transacción.
func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	if rep.RunID == "" {
		return errors.New("reporte sin run id")
	}
	run := Run{
		ID:                rep.RunID,
		Store:             rep.Store,
		Orders:            rep.Stats.Orders,
		Lines:             rep.Stats.Lines,
		FullReturns:       rep.Stats.FullReturns,
		PartialReturns:    rep.Stats.PartialReturns,
		OrphanLines:       rep.Stats.OrphanLines,
		OrphanSettlements: rep.Stats.OrphanSettlements,
		UnmatchedCatalog:  rep.Stats.UnmatchedCatalog,
		Placeholders:      rep.Stats.Placeholders,
	}
	if n := len(rep.Summary); n > 0 && rep.Summary[n-1].Total {
		t := rep.Summary[n-1]
		run.Gross, run.NetRevenue, run.AdSpend, run.Margin = t.Gross, t.NetRevenue, t.AdSpend, t.Margin
	}

	rekap := make([]RekapRow, 0, len(rep.Rekap))
	for _, l := range rep.Rekap {
		rekap = append(rekap, RekapRow{
			RunID:           rep.RunID,
			No:              l.No,
			OrderID:         l.OrderID,
			OrderCreatedAt:  l.CreatedAt,
			OrderSettledAt:  l.SettledAt,
			PaymentMethod:   l.PaymentMethod,
			ProductName:     l.ProductName,
			VariantText:     l.VariantText,
			DisplayName:     l.DisplayName,
			Multiplier:      l.Multiplier,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			LineTotal:       l.LineTotal,
			Voucher:         l.Voucher,
			ShippingSubsidy: l.ShippingSubsidy,
			Commission:      l.Commission,
			ServiceFees:     sum(l.ServiceFees),
			ExtraFees:       sum(l.ExtraFees),
			FixedFee:        l.FixedFee,
			Affiliate:       l.Affiliate,
			ShippingCost:    l.ShippingCost,
			Settlement:      l.Settlement,
			NetRevenue:      l.NetRevenue,
			ReturnState:     string(l.Return),
		})
	}
	iklan := make([]IklanRow, 0, len(rep.Iklan))
	for _, c := range rep.Iklan {
		iklan = append(iklan, IklanRow{
			RunID: rep.RunID, Campaign: c.Campaign, Impressions: c.Impressions, Clicks: c.Clicks,
			Spend: c.Spend, Units: c.Units, Revenue: c.Revenue, Total: c.Total,
		})
	}
	summary := make([]SummaryRow, 0, len(rep.Summary))
	for _, p := range rep.Summary {
		summary = append(summary, SummaryRow{
			RunID:           rep.RunID,
			No:              p.No,
			DisplayName:     p.DisplayName,
			UnitPrice:       p.UnitPrice,
			Quantity:        p.Quantity,
			Gross:           p.Gross,
			Voucher:         p.Voucher,
			ShippingSubsidy: p.ShippingSubsidy,
			Commission:      p.Commission,
			ServiceFees:     sum(p.ServiceFees),
			ExtraFees:       sum(p.ExtraFees),
			FixedFee:        p.FixedFee,
			Affiliate:       p.Affiliate,
			ShippingCost:    p.ShippingCost,
			NetRevenue:      p.NetRevenue,
			AdSpend:         p.AdSpend,
			UnitCost:        p.UnitCost,
			CustomCost:      p.CustomCost,
			COGS:            p.COGS,
			Packing:         p.Packing,
			Margin:          p.Margin,
			Percentage:      p.Percentage,
			OrdersEstimate:  p.OrdersEstimate,
			DailyRunRate:    p.DailyRunRate,
			UnitsPerOrder:   p.UnitsPerOrder,
			Placeholder:     p.Placeholder,
			Total:           p.Total,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(rekap) > 0 {
			if err := tx.CreateInBatches(&rekap, 200).Error; err != nil {
				return err
			}
		}
		if len(iklan) > 0 {
			if err := tx.CreateInBatches(&iklan, 200).Error; err != nil {
				return err
			}
		}
		if len(summary) > 0 {
			if err := tx.CreateInBatches(&summary, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReportRepo) FindRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// Summary devuelve las filas de SUMMARY de una corrida en orden.
func (r *ReportRepo) Summary(ctx context.Context, runID string) ([]SummaryRow, error) {
	var rows []SummaryRow
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&rows).Error
	return rows, err
}
