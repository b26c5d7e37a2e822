package assistant

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

const (
	contextCampaignLimit = 80
	contextAdLimit       = 120
	contextHistoryTurns  = 8
)

type contextTotals struct {
	Campaigns   int     `json:"campaigns"`
	Ads         int     `json:"ads"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Results     int64   `json:"results"`
	CTR         float64 `json:"ctr"`
	AvgCPC      float64 `json:"avgCpc"`
	AvgCPM      float64 `json:"avgCpm"`
}

type contextEntity struct {
	Name        string  `json:"name"`
	Campaign    string  `json:"campaign,omitempty"`
	AdSet       string  `json:"adSet,omitempty"`
	Platform    string  `json:"platform,omitempty"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Results     int64   `json:"results"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
	Efficiency  float64 `json:"efficiencyScore,omitempty"`
}

// GatewayContext é o contexto compacto enviado ao gateway
type GatewayContext struct {
	Totals    contextTotals   `json:"totals"`
	Campaigns []contextEntity `json:"campaigns"`
	Ads       []contextEntity `json:"ads"`
}

// NewGatewayContext seleciona as campanhas e anúncios de maior spend
func NewGatewayContext(s *Snapshot) GatewayContext {
	t := s.Totals
	return GatewayContext{
		Totals: contextTotals{
			Campaigns:   t.Campaigns,
			Ads:         t.Ads,
			Spend:       utils.RoundWithTwoDecimalPlace(t.Spend),
			Impressions: t.Impressions,
			Clicks:      t.Clicks,
			Results:     t.Results,
			CTR:         utils.RoundWithTwoDecimalPlace(t.CTR),
			AvgCPC:      utils.RoundWithTwoDecimalPlace(t.AvgCPC),
			AvgCPM:      utils.RoundWithTwoDecimalPlace(t.AvgCPM),
		},
		Campaigns: contextEntities(Rank(s.CampaignEntities(), RankOptions{
			Metric: MetricSpend, Order: Descending, Limit: contextCampaignLimit, IncludeIdle: true,
		})),
		Ads: contextEntities(Rank(s.AdEntities(), RankOptions{
			Metric: MetricSpend, Order: Descending, Limit: contextAdLimit, IncludeIdle: true,
		})),
	}
}

func contextEntities(entities []Entity) []contextEntity {
	out := make([]contextEntity, 0, len(entities))
	for _, e := range entities {
		out = append(out, contextEntity{
			Name:        e.Name,
			Campaign:    e.CampaignName,
			AdSet:       e.AdSetName,
			Platform:    e.Platform,
			Spend:       utils.RoundWithTwoDecimalPlace(e.Spend),
			Impressions: e.Impressions,
			Clicks:      e.Clicks,
			Results:     e.Results,
			CTR:         utils.RoundWithTwoDecimalPlace(e.CTR),
			CPC:         utils.RoundWithTwoDecimalPlace(e.CPC),
			CPM:         utils.RoundWithTwoDecimalPlace(e.CPM),
			Efficiency:  utils.RoundWithTwoDecimalPlace(e.Efficiency),
		})
	}
	return out
}

// HistoryLines renderiza os últimos turnos como "role: content"
func HistoryLines(history []domain.ConversationMessage, turns int) []string {
	if len(history) > turns {
		history = history[len(history)-turns:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, strings.TrimSpace(m.Content)))
	}
	return lines
}

// BuildGatewayPrompt monta a mensagem do usuário enviada ao gateway. Função pura.
func BuildGatewayPrompt(s *Snapshot, question string, history []domain.ConversationMessage) (string, error) {
	payload, err := utils.JSON.Marshal(NewGatewayContext(s))
	if err != nil {
		return "", errors.Wrap(err, "failed to encode gateway context")
	}

	var b strings.Builder
	b.WriteString("Context (JSON):\n")
	b.Write(payload)

	if lines := HistoryLines(history, contextHistoryTurns); len(lines) > 0 {
		b.WriteString("\n\nConversation history:\n")
		b.WriteString(strings.Join(lines, "\n"))
	}

	b.WriteString("\n\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))

	return b.String(), nil
}
