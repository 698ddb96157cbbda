package config

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phenrril/rekapanku/internal/domain"
	"github.com/phenrril/rekapanku/internal/numeric"
)

//go:embed stores.yaml
var defaultStores []byte

// Config es la tabla de tiendas más el vocabulario compartido.
type Config struct {
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Matching   MatchingConfig   `yaml:"matching"`
	Sources    SourcesConfig    `yaml:"sources"`
	Stores     []StoreConfig    `yaml:"stores"`
}

// VocabularyConfig define los atributos estructurales que se extraen de las variantes.
type VocabularyConfig struct {
	PaperTypes      []string          `yaml:"paper_types"`
	PaperSynonyms   map[string]string `yaml:"paper_synonyms"`
	SizePattern     string            `yaml:"size_pattern"`
	PackagePattern  string            `yaml:"package_pattern"`
	PackageFormat   string            `yaml:"package_format"`
	UnitKeyword     string            `yaml:"unit_keyword"`
	Colors          []string          `yaml:"colors"`
	ColorCategories []string          `yaml:"color_categories"`
	Placeholders    []string          `yaml:"placeholders"`
}

// MatchingConfig son los umbrales del matcher de catálogo (0..100).
type MatchingConfig struct {
	PrimaryThreshold  float64 `yaml:"primary_threshold"`
	FallbackThreshold float64 `yaml:"fallback_threshold"`
}

// SourceConfig describe cómo leer un export.
type SourceConfig struct {
	// hoja a leer en un xlsx; vacío = la primera
	Sheet          string              `yaml:"sheet"`
	NumberMode     numeric.Mode        `yaml:"number_mode"`
	HeaderScanRows int                 `yaml:"header_scan_rows"`
	Columns        map[string][]string `yaml:"columns"`
}

// Aliases devuelve los encabezados aceptados para un campo.
func (s SourceConfig) Aliases(f domain.Field) []string {
	return s.Columns[string(f)]
}

type SourcesConfig struct {
	Orders    SourceConfig `yaml:"orders"`
	Income    SourceConfig `yaml:"income"`
	Ads       SourceConfig `yaml:"ads"`
	Affiliate SourceConfig `yaml:"affiliate"`
	Catalog   SourceConfig `yaml:"catalog"`
	Overrides SourceConfig `yaml:"overrides"`
}

// Get devuelve la configuración de un export por nombre.
func (s SourcesConfig) Get(src domain.Source) SourceConfig {
	switch src {
	case domain.SourceOrders:
		return s.Orders
	case domain.SourceIncome:
		return s.Income
	case domain.SourceAds:
		return s.Ads
	case domain.SourceAffiliate:
		return s.Affiliate
	case domain.SourceCatalog:
		return s.Catalog
	case domain.SourceOverrides:
		return s.Overrides
	}
	return SourceConfig{}
}

func (s *SourcesConfig) ptr(src domain.Source) *SourceConfig {
	switch src {
	case domain.SourceOrders:
		return &s.Orders
	case domain.SourceIncome:
		return &s.Income
	case domain.SourceAds:
		return &s.Ads
	case domain.SourceAffiliate:
		return &s.Affiliate
	case domain.SourceCatalog:
		return &s.Catalog
	case domain.SourceOverrides:
		return &s.Overrides
	}
	return nil
}

var allSources = []domain.Source{
	domain.SourceOrders, domain.SourceIncome, domain.SourceAds,
	domain.SourceAffiliate, domain.SourceCatalog, domain.SourceOverrides,
}

// Policy es la forma de repartir un monto del pedido entre sus líneas.
type Policy string

const (
	PolicyFirstLine Policy = "first_line"
	PolicyEvenSplit Policy = "even_split"
)

type Base string

const (
	BaseLineTotal             Base = "line_total"
	BaseLineTotalMinusVoucher Base = "line_total_minus_voucher"
)

const (
	CommissionFromRate       = "rate"
	CommissionFromSettlement = "settlement"
)

type ServiceTier struct {
	Name    string  `yaml:"name"`
	Rate    float64 `yaml:"rate"`
	Enabled bool    `yaml:"enabled"`
}

// ExtraFee es un cargo por línea definido con una expresión CEL.
type ExtraFee struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

type FeeConfig struct {
	CommissionSource string          `yaml:"commission_source"`
	CommissionByYear map[int]float64 `yaml:"commission_by_year"`
	Base             Base            `yaml:"base"`
	ServiceTiers     []ServiceTier   `yaml:"service_tiers"`
	Extra            []ExtraFee      `yaml:"extra"`
}

// CommissionRate devuelve la tasa vigente para la fecha de creación del pedido:
// la del mayor año configurado <= año del pedido. Sin fecha, o si el pedido es
// anterior a todo lo configurado, se usa el primer año.
func (f FeeConfig) CommissionRate(created time.Time) float64 {
	if len(f.CommissionByYear) == 0 {
		return 0
	}
	years := make([]int, 0, len(f.CommissionByYear))
	for y := range f.CommissionByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	rate := f.CommissionByYear[years[0]]
	if created.IsZero() {
		return rate
	}
	for _, y := range years {
		if y <= created.Year() {
			rate = f.CommissionByYear[y]
		}
	}
	return rate
}

type AllocationConfig struct {
	Voucher         Policy `yaml:"voucher"`
	FixedFee        Policy `yaml:"fixed_fee"`
	ShippingSubsidy Policy `yaml:"shipping_subsidy"`
	Settlement      Policy `yaml:"settlement"`
	Commission      Policy `yaml:"commission"`
	Affiliate       Policy `yaml:"affiliate"`
	ShippingCost    Policy `yaml:"shipping_cost"`
}

type CostConfig struct {
	PerOrderFee      float64 `yaml:"per_order_fee"`
	PackingPerUnit   float64 `yaml:"packing_per_unit"`
	ShippingPerOrder float64 `yaml:"shipping_per_order"`
	RunRateDays      float64 `yaml:"run_rate_days"`
}

type ReturnConfig struct {
	ApprovedMarkers []string `yaml:"approved_markers"`
}

type PriceTier struct {
	Price float64 `yaml:"price"`
	Label string  `yaml:"label"`
	From  string  `yaml:"from"`
	Until string  `yaml:"until"`
}

type PriceTierRule struct {
	Product string      `yaml:"product"`
	Tiers   []PriceTier `yaml:"tiers"`
}

type VariantRules struct {
	Verbatim   []string        `yaml:"verbatim"`
	PriceTiers []PriceTierRule `yaml:"price_tiers"`
}

// AdProductRule reparte una campaña entre varias presentaciones del mismo producto.
type AdProductRule struct {
	Campaign string   `yaml:"campaign"`
	Divisor  float64  `yaml:"divisor"`
	Variants []string `yaml:"variants"`
}

type AdConfig struct {
	CleanPattern string          `yaml:"clean_pattern"`
	Products     []AdProductRule `yaml:"products"`
}

// StoreConfig agrupa todo lo que cambia entre tiendas/marketplaces.
type StoreConfig struct {
	ID               string           `yaml:"id"`
	Name             string           `yaml:"name"`
	Marketplace      string           `yaml:"marketplace"`
	Sources          SourcesConfig    `yaml:"sources"`
	Fees             FeeConfig        `yaml:"fees"`
	Allocation       AllocationConfig `yaml:"allocation"`
	Costs            CostConfig       `yaml:"costs"`
	Returns          ReturnConfig     `yaml:"returns"`
	Variants         VariantRules     `yaml:"variants"`
	Ads              AdConfig         `yaml:"ads"`
	SplitByUnitPrice bool             `yaml:"split_by_unit_price"`
}

// Default parsea la tabla embebida.
func Default() (*Config, error) {
	return parse(defaultStores)
}

// Load lee un archivo YAML con el mismo formato que la tabla embebida.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// FromEnv usa REKAP_CONFIG si está definido; si no, la tabla embebida.
func FromEnv() (*Config, error) {
	if path := strings.TrimSpace(os.Getenv("REKAP_CONFIG")); path != "" {
		return Load(path)
	}
	return Default()
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Matching.PrimaryThreshold == 0 {
		c.Matching.PrimaryThreshold = 80
	}
	if c.Matching.FallbackThreshold == 0 {
		c.Matching.FallbackThreshold = 75
	}
	if c.Vocabulary.SizePattern == "" {
		c.Vocabulary.SizePattern = `\b[A-Z][0-9]{1,2}\b`
	}
	if c.Vocabulary.PackagePattern == "" {
		c.Vocabulary.PackagePattern = `\bPAKET\s*([0-9]+)\b`
	}
	if c.Vocabulary.PackageFormat == "" {
		c.Vocabulary.PackageFormat = "PAKET %d"
	}
	if len(c.Vocabulary.Placeholders) == 0 {
		c.Vocabulary.Placeholders = []string{"0", "-"}
	}
	for _, src := range allSources {
		g := c.Sources.ptr(src)
		if g.NumberMode == "" {
			g.NumberMode = numeric.ModeDecimalComma
		}
		if g.HeaderScanRows == 0 {
			g.HeaderScanRows = 10
		}
	}
	for i := range c.Stores {
		s := &c.Stores[i]
		for _, src := range allSources {
			mergeSource(s.Sources.ptr(src), c.Sources.Get(src))
		}
		if s.Fees.CommissionSource == "" {
			s.Fees.CommissionSource = CommissionFromRate
		}
		if s.Fees.Base == "" {
			s.Fees.Base = BaseLineTotalMinusVoucher
		}
		a := &s.Allocation
		defaultPolicy(&a.Voucher, PolicyEvenSplit)
		defaultPolicy(&a.FixedFee, PolicyEvenSplit)
		defaultPolicy(&a.ShippingSubsidy, PolicyEvenSplit)
		defaultPolicy(&a.Settlement, PolicyFirstLine)
		defaultPolicy(&a.Commission, PolicyEvenSplit)
		defaultPolicy(&a.Affiliate, PolicyEvenSplit)
		defaultPolicy(&a.ShippingCost, PolicyEvenSplit)
		if s.Costs.PerOrderFee == 0 {
			s.Costs.PerOrderFee = 1250
		}
		if s.Costs.RunRateDays == 0 {
			s.Costs.RunRateDays = 7
		}
		if s.Ads.CleanPattern == "" {
			s.Ads.CleanPattern = `(?i)baris\s*\d+`
		}
	}
}

// mergeSource completa lo que la tienda no define con la config global.
func mergeSource(dst *SourceConfig, global SourceConfig) {
	if dst.Sheet == "" {
		dst.Sheet = global.Sheet
	}
	if dst.NumberMode == "" {
		dst.NumberMode = global.NumberMode
	}
	if dst.HeaderScanRows == 0 {
		dst.HeaderScanRows = global.HeaderScanRows
	}
	if dst.Columns == nil {
		dst.Columns = map[string][]string{}
	}
	for field, aliases := range global.Columns {
		if _, ok := dst.Columns[field]; !ok {
			dst.Columns[field] = aliases
		}
	}
}

func defaultPolicy(p *Policy, def Policy) {
	if *p == "" {
		*p = def
	}
}

// Validate revisa la tabla completa; cualquier error aborta la corrida.
func (c *Config) Validate() error {
	m := c.Matching
	if m.PrimaryThreshold < 0 || m.PrimaryThreshold > 100 || m.FallbackThreshold < 0 || m.FallbackThreshold > 100 {
		return fmt.Errorf("matching: umbrales fuera de 0..100")
	}
	if m.FallbackThreshold > m.PrimaryThreshold {
		return fmt.Errorf("matching: fallback_threshold (%v) mayor que primary_threshold (%v)", m.FallbackThreshold, m.PrimaryThreshold)
	}
	if _, err := regexp.Compile(c.Vocabulary.SizePattern); err != nil {
		return fmt.Errorf("vocabulary.size_pattern: %w", err)
	}
	pkg, err := regexp.Compile(c.Vocabulary.PackagePattern)
	if err != nil {
		return fmt.Errorf("vocabulary.package_pattern: %w", err)
	}
	if pkg.NumSubexp() < 1 {
		return fmt.Errorf("vocabulary.package_pattern: falta el grupo con la cantidad")
	}
	if len(c.Stores) == 0 {
		return fmt.Errorf("config sin tiendas")
	}
	seen := map[string]bool{}
	for _, s := range c.Stores {
		if s.ID == "" {
			return fmt.Errorf("tienda sin id")
		}
		if seen[s.ID] {
			return fmt.Errorf("tienda duplicada: %s", s.ID)
		}
		seen[s.ID] = true
		if err := s.validate(); err != nil {
			return fmt.Errorf("tienda %s: %w", s.ID, err)
		}
	}
	return nil
}

func (s StoreConfig) validate() error {
	for _, src := range allSources {
		if mode := s.Sources.Get(src).NumberMode; !mode.Valid() {
			return fmt.Errorf("sources.%s.number_mode inválido: %q", src, mode)
		}
	}
	switch s.Fees.CommissionSource {
	case CommissionFromRate, CommissionFromSettlement:
	default:
		return fmt.Errorf("fees.commission_source inválido: %q", s.Fees.CommissionSource)
	}
	switch s.Fees.Base {
	case BaseLineTotal, BaseLineTotalMinusVoucher:
	default:
		return fmt.Errorf("fees.base inválido: %q", s.Fees.Base)
	}
	a := s.Allocation
	for name, p := range map[string]Policy{
		"voucher": a.Voucher, "fixed_fee": a.FixedFee, "shipping_subsidy": a.ShippingSubsidy,
		"settlement": a.Settlement, "commission": a.Commission, "affiliate": a.Affiliate,
		"shipping_cost": a.ShippingCost,
	} {
		if p != PolicyFirstLine && p != PolicyEvenSplit {
			return fmt.Errorf("allocation.%s inválido: %q", name, p)
		}
	}
	if s.Costs.PerOrderFee < 0 || s.Costs.RunRateDays <= 0 {
		return fmt.Errorf("costs: per_order_fee/run_rate_days inválidos")
	}
	if _, err := regexp.Compile(s.Ads.CleanPattern); err != nil {
		return fmt.Errorf("ads.clean_pattern: %w", err)
	}
	for _, rule := range s.Ads.Products {
		if rule.Campaign == "" || len(rule.Variants) == 0 {
			return fmt.Errorf("ads.products: campaña sin nombre o sin variantes")
		}
		if rule.Divisor < 0 {
			return fmt.Errorf("ads.products[%s]: divisor negativo", rule.Campaign)
		}
	}
	for _, rule := range s.Variants.PriceTiers {
		for _, t := range rule.Tiers {
			for _, d := range []string{t.From, t.Until} {
				if d == "" {
					continue
				}
				if _, err := time.Parse(time.DateOnly, d); err != nil {
					return fmt.Errorf("variants.price_tiers[%s]: fecha %q: %w", rule.Product, d, err)
				}
			}
		}
	}
	return nil
}

// Store busca una tienda por id.
func (c *Config) Store(id string) (*StoreConfig, error) {
	for i := range c.Stores {
		if strings.EqualFold(c.Stores[i].ID, strings.TrimSpace(id)) {
			return &c.Stores[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q (disponibles: %s)", domain.ErrUnknownStore, id, strings.Join(c.StoreIDs(), ", "))
}

func (c *Config) StoreIDs() []string {
	ids := make([]string, 0, len(c.Stores))
	for _, s := range c.Stores {
		ids = append(ids, s.ID)
	}
	return ids
}
