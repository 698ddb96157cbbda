package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/rekapanku/internal/adapters/repo/reportdb"
	"github.com/phenrril/rekapanku/internal/config"
	"github.com/phenrril/rekapanku/internal/domain"
)

func writeXLSX(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		vals := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &vals))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func testFiles(t *testing.T) (string, map[domain.Source]string) {
	t.Helper()
	dir := t.TempDir()
	files := map[domain.Source]string{
		domain.SourceOrders: writeXLSX(t, dir, "orders.xlsx", [][]any{
			{"No. Pesanan", "Nama Produk", "Nama Variasi", "Jumlah", "Harga Setelah Diskon", "Total Harga Produk"},
			{"A1", "IQRO JILID", "A5 HVS", 2.0, 10000.0, 20000.0},
		}),
		domain.SourceIncome: writeXLSX(t, dir, "income.xlsx", [][]any{
			{"Laporan Penghasilan"},
			{},
			{"No. Pesanan", "Waktu Pesanan Dibuat", "Total Penghasilan"},
			{"A1", "2024-03-10", 17000.0},
		}),
		domain.SourceCatalog: writeXLSX(t, dir, "katalog.xlsx", [][]any{
			{"JUDUL", "HARGA"},
			{"IQRO JILID A5 HVS", 8000.0},
		}),
	}
	ads := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(ads, []byte("Nama Iklan;Biaya\nIQRO PROMO;1.500\n"), 0o644))
	files[domain.SourceAds] = ads
	return dir, files
}

func newTestApp(t *testing.T, dsn string) *App {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return NewApp(cfg, dsn)
}

func TestRun(t *testing.T) {
	dir, files := testFiles(t)
	dsn := "sqlite://" + filepath.Join(dir, "rekap.db")
	a := newTestApp(t, dsn)
	out := filepath.Join(dir, "rekap.xlsx")

	rep, err := a.Run(context.Background(), Request{
		RunID:  "run-1",
		Store:  "shopee-tlj",
		Files:  files,
		Output: out,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, 1, rep.Stats.Orders)
	require.Len(t, rep.Rekap, 1)
	assert.Equal(t, "IQRO JILID", rep.Rekap[0].ProductName)
	assert.Equal(t, 0, rep.Stats.UnmatchedCatalog)
	assert.Equal(t, 8000.0, rep.Summary[0].UnitCost)
	require.Len(t, rep.Iklan, 2)
	total := rep.Summary[len(rep.Summary)-1]
	assert.True(t, total.Total)
	assert.Equal(t, 1500.0, total.AdSpend)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"SUMMARY", "REKAP", "IKLAN", "order-all", "income dilepas", "iklan raw", "katalog"}, f.GetSheetList())

	db, err := reportdb.Open(dsn)
	require.NoError(t, err)
	run, err := reportdb.NewReportRepo(db).FindRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "shopee-tlj", run.Store)
}

func TestRunMissingIncome(t *testing.T) {
	dir, files := testFiles(t)
	delete(files, domain.SourceIncome)
	_, err := newTestApp(t, "").Run(context.Background(), Request{
		Store: "shopee-tlj", Files: files, Output: filepath.Join(dir, "out.xlsx"),
	})
	require.True(t, errors.Is(err, domain.ErrMissingInput))
}

func TestRunUnknownStore(t *testing.T) {
	dir, files := testFiles(t)
	_, err := newTestApp(t, "").Run(context.Background(), Request{
		Store: "lazada", Files: files, Output: filepath.Join(dir, "out.xlsx"),
	})
	require.True(t, errors.Is(err, domain.ErrUnknownStore))
}

func TestLoadMissingColumn(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Default()
	require.NoError(t, err)
	store, err := cfg.Store("shopee-tlj")
	require.NoError(t, err)

	files := map[domain.Source]string{
		domain.SourceOrders: writeXLSX(t, dir, "orders.xlsx", [][]any{
			{"No. Pesanan", "Nama Produk", "Jumlah"},
			{"A1", "IQRO", 1.0},
		}),
	}
	_, err = NewApp(cfg, "").Load(context.Background(), store, files)
	var mc *domain.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, domain.SourceOrders, mc.Source)
}

func TestLoadOptionalAbsent(t *testing.T) {
	_, files := testFiles(t)
	cfg, err := config.Default()
	require.NoError(t, err)
	store, err := cfg.Store("shopee-tlj")
	require.NoError(t, err)

	in, err := NewApp(cfg, "").Load(context.Background(), store, map[domain.Source]string{
		domain.SourceOrders: files[domain.SourceOrders],
		domain.SourceIncome: files[domain.SourceIncome],
	})
	require.NoError(t, err)
	assert.Len(t, in.Orders, 1)
	assert.Len(t, in.Income, 1)
	assert.Nil(t, in.Ads)
	assert.Len(t, in.Raw, 2)
}
