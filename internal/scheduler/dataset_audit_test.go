package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/traffic-assistant-api/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

func TestAudit(t *testing.T) {
	tests := []struct {
		name     string
		dataset  *domain.Dataset
		validate func(t *testing.T, report *AuditReport)
	}{
		{
			name:    "dataset nulo gera relatório vazio",
			dataset: nil,
			validate: func(t *testing.T, report *AuditReport) {
				assert.Zero(t, report.Campaigns)
				assert.Empty(t, report.Anomalies)
			},
		},
		{
			name: "dataset consistente não tem anomalias",
			dataset: &domain.Dataset{
				Campaigns: []domain.CampaignMetric{{ID: "c1", Name: "Summer Sale", Spend: 10, Impressions: 100, Clicks: 5}},
				Ads:       []domain.AdMetric{{ID: "a1", Name: "Carousel", CampaignName: "summer sale", Spend: 10, Impressions: 100, Clicks: 5}},
			},
			validate: func(t *testing.T, report *AuditReport) {
				assert.Equal(t, 1, report.Campaigns)
				assert.Equal(t, 1, report.Ads)
				assert.Empty(t, report.Anomalies)
			},
		},
		{
			name: "detecta cada tipo de anomalia",
			dataset: &domain.Dataset{
				Campaigns: []domain.CampaignMetric{
					{ID: "c1", Name: "Summer Sale", Spend: -1, Impressions: 10, Clicks: 20},
					{ID: "c2", Name: "summer-sale"},
				},
				Ads: []domain.AdMetric{
					{ID: "a1", Name: "Lost", CampaignName: "Winter Sale", Spend: 1, Impressions: 10, Clicks: 1},
				},
			},
			validate: func(t *testing.T, report *AuditReport) {
				assert.Equal(t, 1, report.Anomalies[CheckNegativeValues])
				assert.Equal(t, 1, report.Anomalies[CheckClicksAboveImpr])
				assert.Equal(t, 1, report.Anomalies[CheckIdleEntities])
				assert.Equal(t, 1, report.Anomalies[CheckDuplicateNames])
				assert.Equal(t, 1, report.Anomalies[CheckOrphanAds])
				assert.Equal(t, []string{"campaign c2 (summer-sale)"}, report.Examples[CheckDuplicateNames])
				assert.Equal(t, []string{"ad a1 (Lost)"}, report.Examples[CheckOrphanAds])
			},
		},
		{
			name: "limita exemplos por verificação",
			dataset: &domain.Dataset{
				Campaigns: []domain.CampaignMetric{
					{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"},
					{ID: "4", Name: "D"}, {ID: "5", Name: "E"}, {ID: "6", Name: "F"},
				},
			},
			validate: func(t *testing.T, report *AuditReport) {
				assert.Equal(t, 6, report.Anomalies[CheckIdleEntities])
				assert.Len(t, report.Examples[CheckIdleEntities], maxExamplesPerCheck)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Audit(tt.dataset))
		})
	}
}

func TestDatasetAuditService_Run(t *testing.T) {
	cfg := &config.Config{DatasetAudit: config.DatasetAudit{CronSchedule: "*/30 * * * *"}}

	t.Run("guarda o último relatório", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockDatasetRepository(ctrl)
		repo.EXPECT().Load(gomock.Any()).Return(&domain.Dataset{
			Campaigns: []domain.CampaignMetric{{ID: "c1", Name: "Idle"}},
		}, nil)

		service := NewDatasetAuditService(repo, cfg)
		report, err := service.Run(context.Background())

		require.NoError(t, err)
		require.NotNil(t, report)
		assert.Equal(t, 1, report.Anomalies[CheckIdleEntities])
		assert.False(t, report.CompletedAt.Before(report.StartedAt))

		status := service.GetStatus()
		assert.Equal(t, false, status["running"])
		assert.Equal(t, report, status["last_report"])
		assert.NotContains(t, status, "last_error")
	})

	t.Run("registra o erro de carregamento", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockDatasetRepository(ctrl)
		repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("db down"))

		service := NewDatasetAuditService(repo, cfg)
		report, err := service.Run(context.Background())

		assert.Nil(t, report)
		require.Error(t, err)
		assert.Equal(t, "db down", service.GetStatus()["last_error"])
	})

	t.Run("start desabilitado não agenda nada", func(t *testing.T) {
		service := NewDatasetAuditService(nil, cfg)

		assert.NoError(t, service.Start(context.Background()))
		assert.Equal(t, false, service.GetStatus()["enabled"])
	})
}
