package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

const (
	campaignMetricsTable = "campaign_metrics cm"
	adMetricsTable       = "ad_metrics am"
)

// DatasetRepository é somente leitura: o assistente nunca escreve no dataset
//
//go:generate mockgen -source=dataset.go -destination=mocks/dataset.go -package=mocks
type DatasetRepository interface {
	Load(ctx context.Context) (*domain.Dataset, error)
	ListCampaigns(ctx context.Context) ([]domain.CampaignMetric, error)
	ListAds(ctx context.Context) ([]domain.AdMetric, error)
}

type datasetRepository struct {
	conn postgres.Conn
}

func NewDatasetRepository(conn postgres.Conn) DatasetRepository {
	return &datasetRepository{
		conn: conn,
	}
}

// Load lê campanhas e anúncios na mesma transação para que o snapshot não misture estados
func (r *datasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	dataset := &domain.Dataset{}

	err := r.conn.RunInSnapshot(ctx, func(tx *sql.Tx) error {
		campaigns, err := listCampaigns(ctx, tx)
		if err != nil {
			return err
		}

		ads, err := listAds(ctx, tx)
		if err != nil {
			return err
		}

		dataset.Campaigns = campaigns
		dataset.Ads = ads
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load dataset snapshot")
	}

	return dataset, nil
}

// campaignsQuery mantém a ordem de inserção, que é a ordem usada nos desempates do ranking
func campaignsQuery() (string, []any, error) {
	return squirrel.
		Select("cm.id, cm.name, cm.spend, cm.impressions, cm.clicks, cm.results, cm.cpc, cm.cpm, cm.platform").
		From(campaignMetricsTable).
		OrderBy("cm.seq ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func adsQuery() (string, []any, error) {
	return squirrel.
		Select("am.id, am.name, cm.name, ads.name, am.spend, am.impressions, am.clicks, am.results, am.cpc, am.cpm").
		From(adMetricsTable).
		Join("campaign_metrics cm ON cm.id = am.campaign_id").
		LeftJoin("ad_set_metrics ads ON ads.id = am.ad_set_id").
		OrderBy("am.seq ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *datasetRepository) ListCampaigns(ctx context.Context) ([]domain.CampaignMetric, error) {
	return listCampaigns(ctx, r.conn)
}

func listCampaigns(ctx context.Context, q postgres.Queryer) ([]domain.CampaignMetric, error) {
	query, args, err := campaignsQuery()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build campaign metrics query")
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query campaign metrics")
	}
	defer rows.Close()

	campaigns := make([]domain.CampaignMetric, 0)
	for rows.Next() {
		var (
			c        domain.CampaignMetric
			cpc, cpm sql.NullFloat64
			platform sql.NullString
		)

		if err := rows.Scan(&c.ID, &c.Name, &c.Spend, &c.Impressions, &c.Clicks, &c.Results, &cpc, &cpm, &platform); err != nil {
			return nil, errors.Wrap(err, "failed to scan campaign metric")
		}

		c.CPC = nullFloat(cpc)
		c.CPM = nullFloat(cpm)
		c.Platform = nullString(platform)

		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed while iterating campaign metrics")
	}

	return campaigns, nil
}

func (r *datasetRepository) ListAds(ctx context.Context) ([]domain.AdMetric, error) {
	return listAds(ctx, r.conn)
}

func listAds(ctx context.Context, q postgres.Queryer) ([]domain.AdMetric, error) {
	query, args, err := adsQuery()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ad metrics query")
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ad metrics")
	}
	defer rows.Close()

	ads := make([]domain.AdMetric, 0)
	for rows.Next() {
		var (
			a         domain.AdMetric
			adSetName sql.NullString
			cpc, cpm  sql.NullFloat64
		)

		if err := rows.Scan(&a.ID, &a.Name, &a.CampaignName, &adSetName, &a.Spend, &a.Impressions, &a.Clicks, &a.Results, &cpc, &cpm); err != nil {
			return nil, errors.Wrap(err, "failed to scan ad metric")
		}

		a.AdSetName = nullString(adSetName)
		a.CPC = cpc.Float64
		a.CPM = cpm.Float64

		ads = append(ads, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed while iterating ad metrics")
	}

	return ads, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
