package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-assistant-api/pkg/middleware"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

const idLength = 8

// seq preserva a ordem de importação, usada como desempate nos rankings
const schema = `
CREATE TABLE IF NOT EXISTS campaign_metrics (
	id          TEXT PRIMARY KEY,
	seq         BIGSERIAL NOT NULL,
	name        TEXT NOT NULL,
	platform    TEXT,
	spend       NUMERIC(14,2) NOT NULL DEFAULT 0,
	impressions BIGINT NOT NULL DEFAULT 0,
	clicks      BIGINT NOT NULL DEFAULT 0,
	results     BIGINT NOT NULL DEFAULT 0,
	cpc         NUMERIC(14,4),
	cpm         NUMERIC(14,4),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ad_set_metrics (
	id          TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL REFERENCES campaign_metrics(id) ON DELETE CASCADE,
	name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ad_metrics (
	id          TEXT PRIMARY KEY,
	seq         BIGSERIAL NOT NULL,
	campaign_id TEXT NOT NULL REFERENCES campaign_metrics(id) ON DELETE CASCADE,
	ad_set_id   TEXT REFERENCES ad_set_metrics(id) ON DELETE SET NULL,
	name        TEXT NOT NULL,
	spend       NUMERIC(14,2) NOT NULL DEFAULT 0,
	impressions BIGINT NOT NULL DEFAULT 0,
	clicks      BIGINT NOT NULL DEFAULT 0,
	results     BIGINT NOT NULL DEFAULT 0,
	cpc         NUMERIC(14,4) NOT NULL DEFAULT 0,
	cpm         NUMERIC(14,4) NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_campaign_metrics_seq ON campaign_metrics (seq);
CREATE INDEX IF NOT EXISTS idx_ad_metrics_seq ON ad_metrics (seq);
`

type seedAd struct {
	Name        string
	AdSet       string
	Spend       float64
	Impressions int64
	Clicks      int64
	Results     int64
}

type seedCampaign struct {
	Name     string
	Platform string
	Ads      []seedAd
}

var demoCampaigns = []seedCampaign{
	{
		Name:     "Summer Sale",
		Platform: "Meta",
		Ads: []seedAd{
			{Name: "Summer Sale - Carousel", AdSet: "Lookalike 1%", Spend: 820.40, Impressions: 64000, Clicks: 1450, Results: 96},
			{Name: "Summer Sale - Video 15s", AdSet: "Lookalike 1%", Spend: 610.00, Impressions: 52000, Clicks: 780, Results: 41},
			{Name: "Summer Sale - Static", AdSet: "Broad", Spend: 300.10, Impressions: 31000, Clicks: 290, Results: 12},
		},
	},
	{
		Name:     "Brand Awareness Q3",
		Platform: "Meta",
		Ads: []seedAd{
			{Name: "Brand Story Reel", AdSet: "Interests", Spend: 950.00, Impressions: 210000, Clicks: 1200, Results: 15},
			{Name: "Brand Logo Static", AdSet: "Interests", Spend: 400.00, Impressions: 98000, Clicks: 310, Results: 3},
		},
	},
	{
		Name:     "Search - Generic Terms",
		Platform: "Google Ads",
		Ads: []seedAd{
			{Name: "RSA Generic A", AdSet: "Generic", Spend: 1180.75, Impressions: 22000, Clicks: 1980, Results: 143},
			{Name: "RSA Generic B", AdSet: "Generic", Spend: 640.25, Impressions: 15000, Clicks: 990, Results: 64},
		},
	},
	{
		Name:     "Retargeting Cart Abandoners",
		Platform: "Meta",
		Ads: []seedAd{
			{Name: "Cart Reminder DPA", AdSet: "Cart 7d", Spend: 260.00, Impressions: 9000, Clicks: 420, Results: 58},
		},
	},
	{
		Name:     "TikTok Launch",
		Platform: "TikTok",
		Ads: []seedAd{
			{Name: "Creator Unboxing", AdSet: "Gen Z", Spend: 520.00, Impressions: 140000, Clicks: 1650, Results: 22},
			{Name: "Trend Sound Remix", AdSet: "Gen Z", Spend: 180.00, Impressions: 60000, Clicks: 410, Results: 4},
		},
	},
	{
		Name:     "Paused Test Campaign",
		Platform: "",
		Ads: []seedAd{
			{Name: "Old Test Ad", Spend: 0, Impressions: 0, Clicks: 0, Results: 0},
		},
	},
}

func generateID() string {
	id, err := utils.GenerateID(idLength)
	if err != nil {
		logrus.WithError(err).Fatal("script: failed to generate id")
	}
	return id
}

func nullablePlatform(p string) any {
	if p == "" {
		return nil
	}
	return p
}

func insertDemoData(ctx context.Context, tx *sql.Tx) error {
	startTime := time.Now()
	campaignCount, adCount := 0, 0

	for _, c := range demoCampaigns {
		var spend float64
		var impressions, clicks, results int64
		for _, a := range c.Ads {
			spend += a.Spend
			impressions += a.Impressions
			clicks += a.Clicks
			results += a.Results
		}

		campaignID := generateID()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO campaign_metrics (id, name, platform, spend, impressions, clicks, results, cpc, cpm)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			campaignID, c.Name, nullablePlatform(c.Platform), spend, impressions, clicks, results,
			ratio(spend, clicks, 1), ratio(spend, impressions, 1000),
		)
		if err != nil {
			return err
		}
		campaignCount++

		adSets := make(map[string]string)
		for _, a := range c.Ads {
			var adSetID any
			if a.AdSet != "" {
				id, ok := adSets[a.AdSet]
				if !ok {
					id = generateID()
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO ad_set_metrics (id, campaign_id, name) VALUES ($1, $2, $3)`,
						id, campaignID, a.AdSet,
					); err != nil {
						return err
					}
					adSets[a.AdSet] = id
				}
				adSetID = id
			}

			cpc, cpm := ratio(a.Spend, a.Clicks, 1), ratio(a.Spend, a.Impressions, 1000)
			_, err := tx.ExecContext(ctx,
				`INSERT INTO ad_metrics (id, campaign_id, ad_set_id, name, spend, impressions, clicks, results, cpc, cpm)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				generateID(), campaignID, adSetID, a.Name, a.Spend, a.Impressions, a.Clicks, a.Results,
				valueOrZero(cpc), valueOrZero(cpm),
			)
			if err != nil {
				return err
			}
			adCount++
		}
	}

	logrus.WithFields(logrus.Fields{
		"campaigns":   campaignCount,
		"ads":         adCount,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("script: demo data inserted")

	return nil
}

func ratio(spend float64, count int64, scale float64) *float64 {
	if count == 0 {
		return nil
	}
	v := utils.RoundWithTwoDecimalPlace(spend / float64(count) * scale)
	return &v
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func printAdminToken(cfg *config.Config) {
	authenticator := authenticating.NewService(cfg)
	token, err := authenticator.GenerateToken(domain.Claims{
		UserID:     1,
		UserName:   "local-admin",
		UserRoleID: middleware.RoleAdmin,
	})
	if err != nil {
		logrus.WithError(err).Warn("script: could not generate local admin token")
		return
	}
	logrus.WithField("token", token).Info("script: local admin token (valid for 24h)")
}

func main() {
	seed := flag.Bool("seed", false, "insert demo campaigns and ads after creating the schema")
	reset := flag.Bool("reset", false, "truncate the metric tables before seeding")
	token := flag.Bool("token", false, "print a local admin token signed with AUTH_SECRET")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("script: failed to load config")
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("script: failed to connect to database")
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		logrus.WithError(err).Fatal("script: failed to apply schema")
	}
	logrus.Info("script: schema applied")

	if *seed {
		err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			if *reset {
				if _, err := tx.ExecContext(ctx, `TRUNCATE ad_metrics, ad_set_metrics, campaign_metrics`); err != nil {
					return err
				}
			}
			return insertDemoData(ctx, tx)
		})
		if err != nil {
			logrus.WithError(err).Fatal("script: failed to insert demo data")
		}
	}

	if *token {
		printAdminToken(cfg)
	}
}
