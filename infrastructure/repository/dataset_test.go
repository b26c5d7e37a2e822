package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-assistant-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

func TestCampaignsQuery(t *testing.T) {
	query, args, err := campaignsQuery()

	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		"SELECT cm.id, cm.name, cm.spend, cm.impressions, cm.clicks, cm.results, cm.cpc, cm.cpm, cm.platform "+
			"FROM campaign_metrics cm ORDER BY cm.seq ASC",
		query)
}

func TestAdsQuery(t *testing.T) {
	query, args, err := adsQuery()

	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		"SELECT am.id, am.name, cm.name, ads.name, am.spend, am.impressions, am.clicks, am.results, am.cpc, am.cpm "+
			"FROM ad_metrics am "+
			"JOIN campaign_metrics cm ON cm.id = am.campaign_id "+
			"LEFT JOIN ad_set_metrics ads ON ads.id = am.ad_set_id "+
			"ORDER BY am.seq ASC",
		query)
}

func TestNullHelpers(t *testing.T) {
	tests := []struct {
		name     string
		validate func(t *testing.T)
	}{
		{
			name: "float nulo vira nil",
			validate: func(t *testing.T) {
				assert.Nil(t, nullFloat(sql.NullFloat64{}))
			},
		},
		{
			name: "float válido é copiado",
			validate: func(t *testing.T) {
				v := nullFloat(sql.NullFloat64{Float64: 1.25, Valid: true})
				require.NotNil(t, v)
				assert.Equal(t, 1.25, *v)
			},
		},
		{
			name: "string nula vira nil",
			validate: func(t *testing.T) {
				assert.Nil(t, nullString(sql.NullString{}))
			},
		},
		{
			name: "string válida é copiada",
			validate: func(t *testing.T) {
				v := nullString(sql.NullString{String: "Meta", Valid: true})
				require.NotNil(t, v)
				assert.Equal(t, "Meta", *v)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.validate)
	}
}

var (
	campaignColumns = []string{"id", "name", "spend", "impressions", "clicks", "results", "cpc", "cpm", "platform"}
	adColumns       = []string{"id", "name", "campaign_name", "ad_set_name", "spend", "impressions", "clicks", "results", "cpc", "cpm"}
)

func newMockConnection(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &postgres.Connection{DB: db}, mock
}

func TestDatasetRepository_Load(t *testing.T) {
	campaignSQL, _, err := campaignsQuery()
	require.NoError(t, err)
	adSQL, _, err := adsQuery()
	require.NoError(t, err)

	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		validate func(t *testing.T, dataset *domain.Dataset, err error)
	}{
		{
			name: "campanhas e anúncios lidos na mesma transação",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(campaignSQL).WillReturnRows(
					sqlmock.NewRows(campaignColumns).
						AddRow("c1", "Summer Sale", 1000.0, int64(100000), int64(2500), int64(50), nil, nil, "Meta").
						AddRow("c2", "Paused Test", 0.0, int64(0), int64(0), int64(0), 1.2, nil, nil),
				)
				mock.ExpectQuery(adSQL).WillReturnRows(
					sqlmock.NewRows(adColumns).
						AddRow("a1", "Summer Carousel", "Summer Sale", "Carousel Set", 600.0, int64(60000), int64(1500), int64(30), 0.4, 10.0).
						AddRow("a2", "Summer Video", "Summer Sale", nil, 400.0, int64(40000), int64(1000), int64(20), nil, nil),
				)
				mock.ExpectCommit()
			},
			validate: func(t *testing.T, dataset *domain.Dataset, err error) {
				require.NoError(t, err)
				require.Len(t, dataset.Campaigns, 2)
				require.Len(t, dataset.Ads, 2)

				assert.Equal(t, "Summer Sale", dataset.Campaigns[0].Name)
				assert.Nil(t, dataset.Campaigns[0].CPC)
				require.NotNil(t, dataset.Campaigns[0].Platform)
				assert.Equal(t, "Meta", *dataset.Campaigns[0].Platform)
				require.NotNil(t, dataset.Campaigns[1].CPC)
				assert.Equal(t, 1.2, *dataset.Campaigns[1].CPC)
				assert.Nil(t, dataset.Campaigns[1].Platform)

				require.NotNil(t, dataset.Ads[0].AdSetName)
				assert.Equal(t, "Carousel Set", *dataset.Ads[0].AdSetName)
				assert.Equal(t, 0.4, dataset.Ads[0].CPC)
				assert.Nil(t, dataset.Ads[1].AdSetName)
				assert.Zero(t, dataset.Ads[1].CPM)
			},
		},
		{
			name: "falha nos anúncios desfaz a transação",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(campaignSQL).WillReturnRows(sqlmock.NewRows(campaignColumns))
				mock.ExpectQuery(adSQL).WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			validate: func(t *testing.T, dataset *domain.Dataset, err error) {
				require.Error(t, err)
				assert.Nil(t, dataset)
				assert.Contains(t, err.Error(), "failed to load dataset snapshot")
				assert.Contains(t, err.Error(), "connection reset")
			},
		},
		{
			name: "falha ao abrir a transação",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
			},
			validate: func(t *testing.T, dataset *domain.Dataset, err error) {
				require.Error(t, err)
				assert.Nil(t, dataset)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConnection(t)
			tt.setup(mock)

			dataset, err := NewDatasetRepository(conn).Load(context.Background())

			tt.validate(t, dataset, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSnapshotTxOptions(t *testing.T) {
	assert.True(t, postgres.SnapshotTxOptions.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, postgres.SnapshotTxOptions.Isolation)
}
