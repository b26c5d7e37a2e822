package assistant

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

func TestNewGatewayContext(t *testing.T) {
	t.Run("ordena por spend e arredonda valores", func(t *testing.T) {
		ctx := NewGatewayContext(testSnapshot())

		require.Len(t, ctx.Campaigns, 4)
		assert.Equal(t, "Search Generic", ctx.Campaigns[0].Name)
		assert.Equal(t, "Paused Test", ctx.Campaigns[3].Name)
		assert.Equal(t, "Google Ads", ctx.Campaigns[0].Platform)
		assert.Equal(t, 1.97, ctx.Totals.CTR)
		assert.Equal(t, 0.46, ctx.Totals.AvgCPC)

		require.Len(t, ctx.Ads, 5)
		assert.Equal(t, "Search Text A", ctx.Ads[0].Name)
		assert.Equal(t, "Search Generic", ctx.Ads[0].Campaign)
		assert.Equal(t, 20.0, ctx.Ads[0].Efficiency)
	})

	t.Run("limita campanhas e anúncios", func(t *testing.T) {
		ds := &domain.Dataset{}
		for i := 0; i < 100; i++ {
			ds.Campaigns = append(ds.Campaigns, domain.CampaignMetric{ID: fmt.Sprint(i), Name: fmt.Sprintf("C%d", i), Spend: float64(i)})
		}
		for i := 0; i < 150; i++ {
			ds.Ads = append(ds.Ads, domain.AdMetric{ID: fmt.Sprint(i), Name: fmt.Sprintf("A%d", i), Spend: float64(i)})
		}

		ctx := NewGatewayContext(NewSnapshot(ds))

		assert.Len(t, ctx.Campaigns, 80)
		assert.Len(t, ctx.Ads, 120)
		assert.Equal(t, "C99", ctx.Campaigns[0].Name)
		assert.Equal(t, "A149", ctx.Ads[0].Name)
	})
}

func TestHistoryLines(t *testing.T) {
	history := make([]domain.ConversationMessage, 0)
	for i := 1; i <= 10; i++ {
		history = append(history, userMsg(fmt.Sprintf(" message %d ", i)))
	}

	lines := HistoryLines(history, 8)

	require.Len(t, lines, 8)
	assert.Equal(t, "user: message 3", lines[0])
	assert.Equal(t, "user: message 10", lines[7])
}

func TestBuildGatewayPrompt(t *testing.T) {
	t.Run("inclui contexto, histórico e pergunta", func(t *testing.T) {
		history := []domain.ConversationMessage{
			userMsg("top 3 campaigns by spend"),
			assistantMsg("1. Search Generic - spend $1,500.00"),
		}

		prompt, err := BuildGatewayPrompt(testSnapshot(), "  tell me about the first one ", history)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(prompt, "Context (JSON):\n{"))
		assert.Contains(t, prompt, `"avgCpc":0.46`)
		assert.Contains(t, prompt, "\n\nConversation history:\nuser: top 3 campaigns by spend\nassistant: 1. Search Generic - spend $1,500.00")
		assert.True(t, strings.HasSuffix(prompt, "\n\nQuestion: tell me about the first one"))
	})

	t.Run("sem histórico omite a seção", func(t *testing.T) {
		prompt, err := BuildGatewayPrompt(testSnapshot(), "summary", nil)

		require.NoError(t, err)
		assert.NotContains(t, prompt, "Conversation history")
	})

	t.Run("o JSON do contexto é válido", func(t *testing.T) {
		prompt, err := BuildGatewayPrompt(testSnapshot(), "summary", nil)
		require.NoError(t, err)

		raw := strings.TrimPrefix(prompt, "Context (JSON):\n")
		raw = raw[:strings.Index(raw, "\n\nQuestion:")]

		var decoded GatewayContext
		require.NoError(t, utils.JSON.Unmarshal([]byte(raw), &decoded))
		assert.Equal(t, 4, decoded.Totals.Campaigns)
		assert.Equal(t, 3000.0, decoded.Totals.Spend)
	})
}
