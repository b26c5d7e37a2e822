package assistant

import (
	"math"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

const (
	minEfficiencyImpressions = 100
	minCPCFloor              = 0.01
)

// DeriveCampaign calcula CTR, CPC e CPM seguros de uma linha de campanha
func DeriveCampaign(c domain.CampaignMetric) domain.DerivedCampaign {
	return domain.DerivedCampaign{
		CampaignMetric: c,
		CTR:            ctr(c.Clicks, c.Impressions),
		SafeCPC:        safeCPC(c.Spend, c.Clicks, valueOrZero(c.CPC)),
		SafeCPM:        safeCPM(c.Spend, c.Impressions, valueOrZero(c.CPM)),
	}
}

// DeriveAd calcula as métricas derivadas de um anúncio, incluindo o efficiency score
func DeriveAd(a domain.AdMetric) domain.DerivedAd {
	d := domain.DerivedAd{
		AdMetric: a,
		CTR:      ctr(a.Clicks, a.Impressions),
		SafeCPC:  safeCPC(a.Spend, a.Clicks, a.CPC),
		SafeCPM:  safeCPM(a.Spend, a.Impressions, a.CPM),
	}

	if a.Impressions >= minEfficiencyImpressions && a.Clicks > 0 {
		d.EfficiencyScore = efficiency(d.CTR, d.SafeCPC)
	}

	return d
}

func DeriveCampaigns(rows []domain.CampaignMetric) []domain.DerivedCampaign {
	out := make([]domain.DerivedCampaign, 0, len(rows))
	for _, r := range rows {
		out = append(out, DeriveCampaign(r))
	}
	return out
}

func DeriveAds(rows []domain.AdMetric) []domain.DerivedAd {
	out := make([]domain.DerivedAd, 0, len(rows))
	for _, r := range rows {
		out = append(out, DeriveAd(r))
	}
	return out
}

// ComputeTotals soma o nível de campanha; sem campanhas, usa os anúncios
func ComputeTotals(campaigns []domain.DerivedCampaign, ads []domain.DerivedAd) domain.Totals {
	t := domain.Totals{
		Campaigns: len(campaigns),
		Ads:       len(ads),
	}

	if len(campaigns) > 0 {
		for _, c := range campaigns {
			t.Spend += c.Spend
			t.Impressions += c.Impressions
			t.Clicks += c.Clicks
			t.Results += c.Results
		}
	} else {
		for _, a := range ads {
			t.Spend += a.Spend
			t.Impressions += a.Impressions
			t.Clicks += a.Clicks
			t.Results += a.Results
		}
	}

	t.CTR = ctr(t.Clicks, t.Impressions)
	t.AvgCPC = safeCPC(t.Spend, t.Clicks, 0)
	t.AvgCPM = safeCPM(t.Spend, t.Impressions, 0)

	return t
}

func ctr(clicks, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}

func safeCPC(spend float64, clicks int64, stored float64) float64 {
	if clicks == 0 {
		return stored
	}
	return spend / float64(clicks)
}

func safeCPM(spend float64, impressions int64, stored float64) float64 {
	if impressions == 0 {
		return stored
	}
	return spend / float64(impressions) * 1000
}

func efficiency(ctr, cpc float64) float64 {
	return ctr / math.Max(cpc, minCPCFloor)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
