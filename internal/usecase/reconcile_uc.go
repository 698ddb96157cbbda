package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/catalog"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/variant"
)

// Inputs son los exports ya leídos y tipados. Orders e Income son obligatorios
// (nil = no se cargó); el resto puede faltar.
type Inputs struct {
	Orders    []domain.OrderRow
	Income    []domain.Settlement
	Ads       []domain.AdRow
	Affiliate []domain.AffiliateRow
	Catalog   []domain.CatalogEntry
	Overrides []domain.CostOverride
	Raw       []domain.Table
}

// ReconcileUC es el pipeline completo para una tienda. No guarda estado entre
// corridas: cada Run arma su propio matcher.
type ReconcileUC struct {
	Store    *config.StoreConfig
	Matching config.MatchingConfig

	vocab    *variant.Vocabulary
	resolver *Resolver
	fees     *FeeCalculator
	ads      *AdDistributor
	markers  ReturnMarkers
	clean    *regexp.Regexp
}

func NewReconcileUC(cfg *config.Config, storeID string) (*ReconcileUC, error) {
	store, err := cfg.Store(storeID)
	if err != nil {
		return nil, err
	}
	vocab, err := variant.NewVocabulary(cfg.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("vocabulario: %w", err)
	}
	fees, err := NewFeeCalculator(store.Fees)
	if err != nil {
		return nil, fmt.Errorf("tienda %s: %w", store.ID, err)
	}
	clean, err := regexp.Compile(store.Ads.CleanPattern)
	if err != nil {
		return nil, fmt.Errorf("tienda %s: ads.clean_pattern: %w", store.ID, err)
	}
	return &ReconcileUC{
		Store:    store,
		Matching: cfg.Matching,
		vocab:    vocab,
		resolver: NewResolver(vocab, store.Variants),
		fees:     fees,
		ads:      NewAdDistributor(vocab, store.Ads.Products),
		markers:  NewReturnMarkers(store.Returns.ApprovedMarkers),
		clean:    clean,
	}, nil
}

func (uc *ReconcileUC) Resolver() *Resolver { return uc.resolver }

func (uc *ReconcileUC) Run(ctx context.Context, in Inputs) (*domain.Report, error) {
	if in.Orders == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingInput, domain.SourceOrders)
	}
	if in.Income == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingInput, domain.SourceIncome)
	}
	start := time.Now()
	rep := &domain.Report{
		Store:           uc.Store.ID,
		ServiceFeeNames: uc.fees.ServiceNames(),
		ExtraFeeNames:   uc.fees.ExtraNames(),
		Raw:             in.Raw,
	}

	lines := ConsolidateLines(in.Orders, uc.markers)
	b := &rekapBuilder{store: uc.Store, fees: uc.fees, resolver: uc.resolver}
	rekap, err := b.Build(lines, in.Income, in.Affiliate, &rep.Stats)
	if err != nil {
		return nil, err
	}
	rep.Rekap = rekap
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.Iklan = BuildIklan(in.Ads, uc.clean)

	nService, nExtra := len(rep.ServiceFeeNames), len(rep.ExtraFeeNames)
	rows := GroupLines(rekap, uc.Store.SplitByUnitPrice, nService, nExtra)
	grouped := len(rows)
	rows = uc.ads.Distribute(rows, rep.Iklan)
	rep.Stats.Placeholders = len(rows) - grouped

	matcher := catalog.NewMatcher(in.Catalog, uc.vocab, catalog.Options{
		PrimaryThreshold:  uc.Matching.PrimaryThreshold,
		FallbackThreshold: uc.Matching.FallbackThreshold,
	})
	costing := Costing{Matcher: matcher, Overrides: uc.overrides(in.Overrides)}
	rep.Stats.UnmatchedCatalog = costing.Apply(rows)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].No = i + 1
		Derive(&rows[i], uc.Store.Costs)
	}
	rep.Summary = append(rows, TotalRow(rows, uc.Store.Costs, nService, nExtra))

	log.Info().
		Str("tienda", uc.Store.ID).
		Int("pedidos", rep.Stats.Orders).
		Int("lineas", rep.Stats.Lines).
		Int("devoluciones_totales", rep.Stats.FullReturns).
		Int("devoluciones_parciales", rep.Stats.PartialReturns).
		Int("productos", grouped).
		Int("sin_costo", rep.Stats.UnmatchedCatalog).
		Int("placeholders", rep.Stats.Placeholders).
		Dur("duracion", time.Since(start)).
		Msg("conciliación completa")
	return rep, nil
}

// overrides resuelve la lista de costos custom a nombres canónicos.
func (uc *ReconcileUC) overrides(rows []domain.CostOverride) map[string]float64 {
	out := map[string]float64{}
	for _, o := range rows {
		if o.UnitCost <= 0 || !hasText(o.ProductName) {
			continue
		}
		// sin precio no hay tramo: la etiqueta viene escrita en la variante
		name, ok := uc.resolver.TierName(o.ProductName, o.Variant)
		if !ok {
			name = uc.resolver.DisplayName(o.ProductName, o.Variant, 0, time.Time{})
		}
		out[displayKey(name)] = o.UnitCost
	}
	return out
}
