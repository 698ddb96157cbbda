package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/phenrril/rekapanku/internal/app"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
)

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	level, err := zerolog.ParseLevel(strings.ToLower(envOr("LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg, err := config.FromEnv()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config inválida")
	}

	files := map[domain.Source]*string{}
	for _, f := range []struct {
		src  domain.Source
		flag string
		help string
	}{
		{domain.SourceOrders, "orders", "export de pedidos (obligatorio)"},
		{domain.SourceIncome, "income", "export de ingresos liberados (obligatorio)"},
		{domain.SourceAds, "ads", "export de publicidad"},
		{domain.SourceAffiliate, "affiliate", "export de comisiones de afiliados"},
		{domain.SourceCatalog, "catalog", "catálogo de precios de compra"},
		{domain.SourceOverrides, "overrides", "costos custom por producto"},
	} {
		files[f.src] = flag.String(f.flag, "", f.help)
	}
	ids := cfg.StoreIDs()
	store := flag.String("store", envOr("REKAP_STORE", ids[0]), "tienda: "+strings.Join(ids, ", "))
	out := flag.String("out", envOr("REKAP_OUTPUT", "rekap.xlsx"), "workbook de salida")
	flag.Parse()

	if !slices.Contains(ids, *store) {
		fmt.Fprintf(os.Stderr, "tienda desconocida %q (disponibles: %s)\n", *store, strings.Join(ids, ", "))
		os.Exit(2)
	}

	runID := uuid.NewString()
	zlog.Logger = zlog.With().Str("run", runID).Str("tienda", *store).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := app.Request{RunID: runID, Store: *store, Output: *out, Files: map[domain.Source]string{}}
	for src, path := range files {
		req.Files[src] = *path
	}

	application := app.NewApp(cfg, os.Getenv("EXPORT_DSN"))
	if _, err := application.Run(ctx, req); err != nil {
		zlog.Error().Err(err).Msg("conciliación fallida")
		stop()
		os.Exit(1)
	}
}
