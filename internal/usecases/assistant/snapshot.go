package assistant

import (
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

type EntityKind string

const (
	KindCampaign EntityKind = "campaign"
	KindAd       EntityKind = "ad"
)

// Entity é a visão comum de campanhas e anúncios usada pelo resolvedor, ranking e respostas
type Entity struct {
	Kind         EntityKind
	ID           string
	Name         string
	CampaignName string
	AdSetName    string
	Platform     string
	Spend        float64
	Impressions  int64
	Clicks       int64
	Results      int64
	CTR          float64
	CPC          float64
	CPM          float64
	Efficiency   float64
}

// Key identifica a entidade para deduplicação
func (e Entity) Key() string {
	return string(e.Kind) + ":" + e.ID
}

// HasSignal é falso quando spend, impressões e cliques são todos zero
func (e Entity) HasSignal() bool {
	return e.Spend != 0 || e.Impressions != 0 || e.Clicks != 0
}

func (e Entity) Value(m Metric) float64 {
	switch m {
	case MetricSpend:
		return e.Spend
	case MetricImpressions:
		return float64(e.Impressions)
	case MetricClicks:
		return float64(e.Clicks)
	case MetricResults:
		return float64(e.Results)
	case MetricCTR:
		return e.CTR
	case MetricCPC:
		return e.CPC
	case MetricCPM:
		return e.CPM
	case MetricEfficiency:
		return e.Efficiency
	}
	return 0
}

// Snapshot é construído por requisição e descartado ao final
type Snapshot struct {
	Campaigns []domain.DerivedCampaign
	Ads       []domain.DerivedAd
	Totals    domain.Totals

	campaignEntities []Entity
	adEntities       []Entity
}

func NewSnapshot(ds *domain.Dataset) *Snapshot {
	s := &Snapshot{}
	if ds == nil {
		return s
	}

	s.Campaigns = DeriveCampaigns(ds.Campaigns)
	s.Ads = DeriveAds(ds.Ads)
	s.Totals = ComputeTotals(s.Campaigns, s.Ads)

	s.campaignEntities = make([]Entity, 0, len(s.Campaigns))
	for _, c := range s.Campaigns {
		s.campaignEntities = append(s.campaignEntities, campaignEntity(c))
	}

	s.adEntities = make([]Entity, 0, len(s.Ads))
	for _, a := range s.Ads {
		s.adEntities = append(s.adEntities, adEntity(a))
	}

	return s
}

func (s *Snapshot) IsEmpty() bool {
	return len(s.Campaigns) == 0 && len(s.Ads) == 0
}

// CampaignEntities devolve as campanhas na ordem original do dataset
func (s *Snapshot) CampaignEntities() []Entity {
	return s.campaignEntities
}

// AdEntities devolve os anúncios na ordem original do dataset
func (s *Snapshot) AdEntities() []Entity {
	return s.adEntities
}

// Entities lista campanhas antes de anúncios
func (s *Snapshot) Entities() []Entity {
	all := make([]Entity, 0, len(s.campaignEntities)+len(s.adEntities))
	all = append(all, s.campaignEntities...)
	return append(all, s.adEntities...)
}

func (s *Snapshot) entitiesOf(kind EntityKind) []Entity {
	if kind == KindAd {
		return s.adEntities
	}
	return s.campaignEntities
}

func campaignEntity(c domain.DerivedCampaign) Entity {
	e := Entity{
		Kind:        KindCampaign,
		ID:          c.ID,
		Name:        c.Name,
		Spend:       c.Spend,
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		Results:     c.Results,
		CTR:         c.CTR,
		CPC:         c.SafeCPC,
		CPM:         c.SafeCPM,
	}
	if c.Platform != nil {
		e.Platform = *c.Platform
	}
	return e
}

func adEntity(a domain.DerivedAd) Entity {
	e := Entity{
		Kind:         KindAd,
		ID:           a.ID,
		Name:         a.Name,
		CampaignName: a.CampaignName,
		Spend:        a.Spend,
		Impressions:  a.Impressions,
		Clicks:       a.Clicks,
		Results:      a.Results,
		CTR:          a.CTR,
		CPC:          a.SafeCPC,
		CPM:          a.SafeCPM,
		Efficiency:   a.EfficiencyScore,
	}
	if a.AdSetName != nil {
		e.AdSetName = *a.AdSetName
	}
	return e
}
