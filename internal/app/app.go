package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/phenrril/rekapanku/internal/adapters/repo/reportdb"
	"github.com/phenrril/rekapanku/internal/adapters/sheets"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/usecase"
)

// orden de lectura y de las hojas crudas en la salida
var sources = []domain.Source{
	domain.SourceOrders, domain.SourceIncome, domain.SourceAds,
	domain.SourceAffiliate, domain.SourceCatalog, domain.SourceOverrides,
}

type App struct {
	Config *config.Config
	// ExportDSN vacío = sin exportar a base
	ExportDSN string
}

func NewApp(cfg *config.Config, exportDSN string) *App {
	return &App{Config: cfg, ExportDSN: strings.TrimSpace(exportDSN)}
}

// Request es una corrida: tienda, archivos por export y destino.
type Request struct {
	RunID  string
	Store  string
	Files  map[domain.Source]string
	Output string
}

type loaded struct {
	src   domain.Source
	table domain.Table
	rows  any
}

// Load lee los exports en paralelo y los tipa con la config de la tienda.
func (a *App) Load(ctx context.Context, store *config.StoreConfig, files map[domain.Source]string) (usecase.Inputs, error) {
	results := make([]*loaded, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		path := strings.TrimSpace(files[src])
		if path == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg := store.Sources.Get(src)
			t, err := sheets.ReadFile(path, string(src), cfg.Sheet)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			rows, err := parse(src, t, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			t.Name = sheets.RawSheetName(src)
			results[i] = &loaded{src: src, table: t, rows: rows}
			log.Debug().Str("export", string(src)).Str("archivo", path).Int("filas", len(t.Rows)).Msg("export leído")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return usecase.Inputs{}, err
	}

	var in usecase.Inputs
	for i, src := range sources {
		res := results[i]
		if res == nil {
			if src != domain.SourceOrders && src != domain.SourceIncome {
				log.Warn().Str("export", string(src)).Msg("export opcional ausente")
			}
			continue
		}
		in.Raw = append(in.Raw, res.table)
		switch v := res.rows.(type) {
		case []domain.OrderRow:
			in.Orders = v
		case []domain.Settlement:
			in.Income = v
		case []domain.AdRow:
			in.Ads = v
		case []domain.AffiliateRow:
			in.Affiliate = v
		case []domain.CatalogEntry:
			in.Catalog = v
		case []domain.CostOverride:
			in.Overrides = v
		}
	}
	return in, nil
}

func parse(src domain.Source, t domain.Table, cfg config.SourceConfig) (any, error) {
	switch src {
	case domain.SourceOrders:
		return sheets.ParseOrders(t, cfg)
	case domain.SourceIncome:
		return sheets.ParseIncome(t, cfg)
	case domain.SourceAds:
		return sheets.ParseAds(t, cfg)
	case domain.SourceAffiliate:
		return sheets.ParseAffiliate(t, cfg)
	case domain.SourceCatalog:
		return sheets.ParseCatalog(t, cfg)
	case domain.SourceOverrides:
		return sheets.ParseOverrides(t, cfg)
	}
	return nil, fmt.Errorf("export desconocido: %s", src)
}

// Run lee, concilia, escribe el workbook y, si hay DSN, exporta a la base.
func (a *App) Run(ctx context.Context, req Request) (*domain.Report, error) {
	uc, err := usecase.NewReconcileUC(a.Config, req.Store)
	if err != nil {
		return nil, err
	}
	for _, src := range []domain.Source{domain.SourceOrders, domain.SourceIncome} {
		if strings.TrimSpace(req.Files[src]) == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingInput, src)
		}
	}
	if strings.TrimSpace(req.Output) == "" {
		return nil, errors.New("falta archivo de salida")
	}

	in, err := a.Load(ctx, uc.Store, req.Files)
	if err != nil {
		return nil, err
	}
	rep, err := uc.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	rep.RunID = req.RunID

	if err := sheets.WriteFile(req.Output, usecase.Sheets(rep), rep.Raw); err != nil {
		return nil, fmt.Errorf("escribir %s: %w", req.Output, err)
	}
	log.Info().Str("archivo", req.Output).Msg("workbook escrito")

	if a.ExportDSN != "" {
		if err := a.export(ctx, rep); err != nil {
			return rep, fmt.Errorf("exportar: %w", err)
		}
	}
	return rep, nil
}

func (a *App) export(ctx context.Context, rep *domain.Report) error {
	db, err := reportdb.Open(a.ExportDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	repo := reportdb.NewReportRepo(db)
	if err := repo.Migrate(); err != nil {
		return err
	}
	if err := repo.Save(ctx, rep); err != nil {
		return err
	}
	log.Info().Str("run", rep.RunID).Int("filas", len(rep.Rekap)+len(rep.Iklan)+len(rep.Summary)).Msg("reporte exportado")
	return nil
}
