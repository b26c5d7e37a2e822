package assistant

import (
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

// testDataset: três campanhas ativas, uma parada e cinco anúncios
func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Campaigns: []domain.CampaignMetric{
			{ID: "C1", Name: "Summer Sale", Spend: 1000, Impressions: 100000, Clicks: 2500, Results: 50, Platform: stringPtr("Meta")},
			{ID: "C2", Name: "Brand Awareness", Spend: 500, Impressions: 200000, Clicks: 1000, Results: 5, Platform: stringPtr("Meta")},
			{ID: "C3", Name: "Search Generic", Spend: 1500, Impressions: 30000, Clicks: 3000, Results: 120, Platform: stringPtr("Google Ads")},
			{ID: "C4", Name: "Paused Test", CPC: floatPtr(1.2)},
		},
		Ads: []domain.AdMetric{
			{ID: "A1", Name: "Summer Carousel", CampaignName: "Summer Sale", AdSetName: stringPtr("LAL"), Spend: 400, Impressions: 40000, Clicks: 1200, Results: 30},
			{ID: "A2", Name: "Summer Video", CampaignName: "Summer Sale", Spend: 600, Impressions: 60000, Clicks: 1300, Results: 20},
			{ID: "A3", Name: "Brand Reel", CampaignName: "Brand Awareness", Spend: 500, Impressions: 200000, Clicks: 1000, Results: 5},
			{ID: "A4", Name: "Search Text A", CampaignName: "Search Generic", Spend: 1500, Impressions: 30000, Clicks: 3000, Results: 118},
			{ID: "A5", Name: "Tiny Ad", CampaignName: "Search Generic", Spend: 5, Impressions: 50, Clicks: 10, Results: 2},
		},
	}
}

func testSnapshot() *Snapshot {
	return NewSnapshot(testDataset())
}

func assistantMsg(content string) domain.ConversationMessage {
	return domain.ConversationMessage{Role: domain.RoleAssistant, Content: content}
}

func userMsg(content string) domain.ConversationMessage {
	return domain.ConversationMessage{Role: domain.RoleUser, Content: content}
}

func names(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Name)
	}
	return out
}
