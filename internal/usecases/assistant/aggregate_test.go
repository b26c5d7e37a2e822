package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

func TestDeriveAd(t *testing.T) {
	tests := []struct {
		name     string
		ad       domain.AdMetric
		validate func(t *testing.T, d domain.DerivedAd)
	}{
		{
			name: "calcula CTR, CPC, CPM e efficiency",
			ad:   domain.AdMetric{Spend: 400, Impressions: 40000, Clicks: 1200},
			validate: func(t *testing.T, d domain.DerivedAd) {
				assert.InDelta(t, 3.0, d.CTR, 1e-9)
				assert.InDelta(t, 0.3333, d.SafeCPC, 1e-4)
				assert.InDelta(t, 10.0, d.SafeCPM, 1e-9)
				assert.InDelta(t, 9.0, d.EfficiencyScore, 1e-6)
			},
		},
		{
			name: "efficiency zero abaixo de 100 impressões",
			ad:   domain.AdMetric{Spend: 5, Impressions: 50, Clicks: 10},
			validate: func(t *testing.T, d domain.DerivedAd) {
				assert.InDelta(t, 20.0, d.CTR, 1e-9)
				assert.Zero(t, d.EfficiencyScore)
			},
		},
		{
			name: "sem cliques usa o CPC armazenado e zera efficiency",
			ad:   domain.AdMetric{Spend: 10, Impressions: 1000, Clicks: 0, CPC: 0.7},
			validate: func(t *testing.T, d domain.DerivedAd) {
				assert.Zero(t, d.CTR)
				assert.Equal(t, 0.7, d.SafeCPC)
				assert.Zero(t, d.EfficiencyScore)
			},
		},
		{
			name: "CPC muito baixo usa o piso de 0.01",
			ad:   domain.AdMetric{Spend: 0.01, Impressions: 1000, Clicks: 10},
			validate: func(t *testing.T, d domain.DerivedAd) {
				assert.InDelta(t, 100.0, d.EfficiencyScore, 1e-6)
			},
		},
		{
			name: "sem impressões usa o CPM armazenado",
			ad:   domain.AdMetric{CPM: 4.5},
			validate: func(t *testing.T, d domain.DerivedAd) {
				assert.Zero(t, d.CTR)
				assert.Equal(t, 4.5, d.SafeCPM)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, DeriveAd(tt.ad))
		})
	}
}

func TestDeriveCampaign(t *testing.T) {
	t.Run("campanha parada usa valores armazenados ou zero", func(t *testing.T) {
		d := DeriveCampaign(domain.CampaignMetric{Name: "Idle", CPC: floatPtr(1.2)})
		assert.Zero(t, d.CTR)
		assert.Equal(t, 1.2, d.SafeCPC)
		assert.Zero(t, d.SafeCPM)
	})

	t.Run("cálculo a partir dos totais da linha", func(t *testing.T) {
		d := DeriveCampaign(domain.CampaignMetric{Spend: 50, Impressions: 500, Clicks: 20, CPC: floatPtr(9)})
		assert.InDelta(t, 4.0, d.CTR, 1e-9)
		assert.InDelta(t, 2.5, d.SafeCPC, 1e-9)
		assert.InDelta(t, 100.0, d.SafeCPM, 1e-9)
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("soma o nível de campanha", func(t *testing.T) {
		ds := testDataset()
		totals := ComputeTotals(DeriveCampaigns(ds.Campaigns), DeriveAds(ds.Ads))

		assert.Equal(t, 4, totals.Campaigns)
		assert.Equal(t, 5, totals.Ads)
		assert.Equal(t, 3000.0, totals.Spend)
		assert.Equal(t, int64(330000), totals.Impressions)
		assert.Equal(t, int64(6500), totals.Clicks)
		assert.Equal(t, int64(175), totals.Results)
		assert.InDelta(t, 1.9697, totals.CTR, 1e-4)
		assert.InDelta(t, 0.4615, totals.AvgCPC, 1e-4)
		assert.InDelta(t, 9.0909, totals.AvgCPM, 1e-4)
	})

	t.Run("sem campanhas soma os anúncios", func(t *testing.T) {
		ads := DeriveAds([]domain.AdMetric{
			{Spend: 10, Impressions: 100, Clicks: 5, Results: 1},
			{Spend: 20, Impressions: 300, Clicks: 15, Results: 2},
		})
		totals := ComputeTotals(nil, ads)

		assert.Equal(t, 0, totals.Campaigns)
		assert.Equal(t, 30.0, totals.Spend)
		assert.Equal(t, int64(400), totals.Impressions)
		assert.InDelta(t, 5.0, totals.CTR, 1e-9)
		assert.InDelta(t, 1.5, totals.AvgCPC, 1e-9)
	})

	t.Run("tudo zerado não divide por zero", func(t *testing.T) {
		totals := ComputeTotals(nil, nil)
		assert.Zero(t, totals.CTR)
		assert.Zero(t, totals.AvgCPC)
		assert.Zero(t, totals.AvgCPM)
	})
}
