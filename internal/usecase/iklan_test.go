package usecase

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/rekapanku/internal/domain"
)

func TestBuildIklan(t *testing.T) {
	re := regexp.MustCompile(`(?i)baris\s*\d+`)
	ads := []domain.AdRow{
		{Campaign: "AL QURAN HAFALAN A5 baris 30", Impressions: 1000, Clicks: 40, Spend: 12000, Units: 3, Revenue: 150000},
		{Campaign: "IQRO JILID", Impressions: 500, Clicks: 10, Spend: 3000},
		{Campaign: "AL QURAN HAFALAN A5 - Baris 15", Impressions: 200, Clicks: 5, Spend: 4000, Units: 1, Revenue: 50000},
		{Campaign: "", Spend: 0},
	}
	got := BuildIklan(ads, re)
	require.Len(t, got, 3)

	assert.Equal(t, domain.IklanRow{Campaign: "AL QURAN HAFALAN A5", Impressions: 1200, Clicks: 45, Spend: 16000, Units: 4, Revenue: 200000}, got[0])
	assert.Equal(t, "IQRO JILID", got[1].Campaign)
	assert.Equal(t, domain.IklanRow{Campaign: "TOTAL", Impressions: 1700, Clicks: 55, Spend: 19000, Units: 4, Revenue: 200000, Total: true}, got[2])
}

func TestBuildIklanEmpty(t *testing.T) {
	got := BuildIklan(nil, nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].Total)
	assert.Zero(t, got[0].Spend)
}
