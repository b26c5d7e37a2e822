package domain

// CampaignMetric é uma linha imutável do snapshot de campanhas
type CampaignMetric struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Spend       float64  `json:"spend"`
	Impressions int64    `json:"impressions"`
	Clicks      int64    `json:"clicks"`
	Results     int64    `json:"results"`
	CPC         *float64 `json:"cpc"`
	CPM         *float64 `json:"cpm"`
	Platform    *string  `json:"platform"`
}

// AdMetric é uma linha de anúncio já associada ao nome da campanha e do conjunto
type AdMetric struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CampaignName string  `json:"campaign_name"`
	AdSetName    *string `json:"ad_set_name"`
	Spend        float64 `json:"spend"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	Results      int64   `json:"results"`
	CPC          float64 `json:"cpc"`
	CPM          float64 `json:"cpm"`
}

// Dataset é o snapshot completo devolvido pelo carregador de dados
type Dataset struct {
	Campaigns []CampaignMetric
	Ads       []AdMetric
}

func (d *Dataset) IsEmpty() bool {
	if d == nil {
		return true
	}

	return len(d.Campaigns) == 0 && len(d.Ads) == 0
}

type DerivedCampaign struct {
	CampaignMetric
	CTR     float64 `json:"ctr"`
	SafeCPC float64 `json:"safe_cpc"`
	SafeCPM float64 `json:"safe_cpm"`
}

type DerivedAd struct {
	AdMetric
	CTR             float64 `json:"ctr"`
	SafeCPC         float64 `json:"safe_cpc"`
	SafeCPM         float64 `json:"safe_cpm"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// Totals são os agregados da conta usados em resumos e no contexto do gateway
type Totals struct {
	Campaigns   int     `json:"campaigns"`
	Ads         int     `json:"ads"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Results     int64   `json:"results"`
	CTR         float64 `json:"ctr"`
	AvgCPC      float64 `json:"avg_cpc"`
	AvgCPM      float64 `json:"avg_cpm"`
}
