// Package scheduler contém os jobs agendados da API
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/repository"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/metrics"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/assistant"
)

const (
	CheckNegativeValues  = "negative_values"
	CheckClicksAboveImpr = "clicks_above_impressions"
	CheckDuplicateNames  = "duplicate_names"
	CheckOrphanAds       = "orphan_ads"
	CheckIdleEntities    = "idle_entities"
)

const (
	auditRunTimeout     = 2 * time.Minute
	maxExamplesPerCheck = 5
)

type DatasetAuditConfig struct {
	CronSchedule string
	Enabled      bool
}

// AuditReport resume a última execução; o job só registra, nunca altera o dataset
type AuditReport struct {
	Campaigns   int                 `json:"campaigns"`
	Ads         int                 `json:"ads"`
	Anomalies   map[string]int      `json:"anomalies"`
	Examples    map[string][]string `json:"examples,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
}

func (r *AuditReport) add(check, example string) {
	r.Anomalies[check]++
	if len(r.Examples[check]) < maxExamplesPerCheck {
		r.Examples[check] = append(r.Examples[check], example)
	}
}

type DatasetAuditService struct {
	scheduler   *gocron.Scheduler
	datasetRepo repository.DatasetRepository
	config      DatasetAuditConfig

	mu         sync.Mutex
	running    bool
	lastReport *AuditReport
	lastError  error
}

func NewDatasetAuditService(datasetRepo repository.DatasetRepository, cfg *config.Config) *DatasetAuditService {
	auditConfig := DatasetAuditConfig{
		CronSchedule: cfg.DatasetAudit.CronSchedule,
		Enabled:      cfg.DatasetAudit.Enabled,
	}

	logrus.WithField("cron_schedule", auditConfig.CronSchedule).Info("scheduler: dataset audit configuration loaded")

	return &DatasetAuditService{
		scheduler:   gocron.NewScheduler(time.Local),
		datasetRepo: datasetRepo,
		config:      auditConfig,
	}
}

func (s *DatasetAuditService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("scheduler: dataset audit disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("scheduler: starting dataset audit cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		runCtx, cancel := context.WithTimeout(ctx, auditRunTimeout)
		defer cancel()

		if _, err := s.Run(runCtx); err != nil {
			logrus.WithError(err).Error("scheduler: dataset audit failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dataset audit: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("scheduler: stopping dataset audit cron")
		s.scheduler.Stop()
	}()

	return nil
}

// Run executa uma auditoria; se já houver uma em andamento, devolve nil sem erro
func (s *DatasetAuditService) Run(ctx context.Context) (*AuditReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logrus.Warn("scheduler: dataset audit already running")
		return nil, nil
	}
	s.running = true
	s.mu.Unlock()

	report, err := s.audit(ctx)

	s.mu.Lock()
	s.running = false
	s.lastError = err
	if err == nil {
		s.lastReport = report
	}
	s.mu.Unlock()

	return report, err
}

func (s *DatasetAuditService) audit(ctx context.Context) (*AuditReport, error) {
	startedAt := time.Now()

	dataset, err := s.datasetRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := Audit(dataset)
	report.StartedAt = startedAt
	report.CompletedAt = time.Now()

	metrics.DatasetRows.WithLabelValues("campaign_metrics").Set(float64(report.Campaigns))
	metrics.DatasetRows.WithLabelValues("ad_metrics").Set(float64(report.Ads))
	for _, check := range []string{CheckNegativeValues, CheckClicksAboveImpr, CheckDuplicateNames, CheckOrphanAds, CheckIdleEntities} {
		metrics.DatasetAnomalies.WithLabelValues(check).Set(float64(report.Anomalies[check]))
	}

	entry := logrus.WithFields(logrus.Fields{
		"job_name":    "dataset_audit",
		"campaigns":   report.Campaigns,
		"ads":         report.Ads,
		"anomalies":   report.Anomalies,
		"duration_ms": report.CompletedAt.Sub(startedAt).Milliseconds(),
	})
	if len(report.Anomalies) > 0 {
		entry.WithField("examples", report.Examples).Warn("scheduler: dataset audit found anomalies")
	} else {
		entry.Info("scheduler: dataset audit completed")
	}

	return report, nil
}

// Audit verifica o dataset em busca de linhas que degradam as respostas do assistente
func Audit(dataset *domain.Dataset) *AuditReport {
	report := &AuditReport{
		Anomalies: make(map[string]int),
		Examples:  make(map[string][]string),
	}
	if dataset == nil {
		return report
	}

	report.Campaigns = len(dataset.Campaigns)
	report.Ads = len(dataset.Ads)

	campaignNames := make(map[string]bool, len(dataset.Campaigns))
	for _, c := range dataset.Campaigns {
		label := fmt.Sprintf("campaign %s (%s)", c.ID, c.Name)

		if c.Spend < 0 || c.Impressions < 0 || c.Clicks < 0 || c.Results < 0 {
			report.add(CheckNegativeValues, label)
		}
		if c.Clicks > c.Impressions {
			report.add(CheckClicksAboveImpr, label)
		}
		if c.Spend == 0 && c.Impressions == 0 && c.Clicks == 0 {
			report.add(CheckIdleEntities, label)
		}

		// O resolvedor compara nomes normalizados; duplicatas fazem a primeira linha vencer
		key := assistant.Normalize(c.Name)
		if campaignNames[key] {
			report.add(CheckDuplicateNames, label)
		}
		campaignNames[key] = true
	}

	for _, a := range dataset.Ads {
		label := fmt.Sprintf("ad %s (%s)", a.ID, a.Name)

		if a.Spend < 0 || a.Impressions < 0 || a.Clicks < 0 || a.Results < 0 {
			report.add(CheckNegativeValues, label)
		}
		if a.Clicks > a.Impressions {
			report.add(CheckClicksAboveImpr, label)
		}
		if a.Spend == 0 && a.Impressions == 0 && a.Clicks == 0 {
			report.add(CheckIdleEntities, label)
		}
		if !campaignNames[assistant.Normalize(a.CampaignName)] {
			report.add(CheckOrphanAds, label)
		}
	}

	return report
}

// TriggerManualRun inicia uma auditoria fora do agendamento
func (s *DatasetAuditService) TriggerManualRun() bool {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if running {
		logrus.Info("scheduler: dataset audit already running, ignoring manual trigger")
		return false
	}

	logrus.Info("scheduler: starting manual dataset audit")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditRunTimeout)
		defer cancel()

		if _, err := s.Run(ctx); err != nil {
			logrus.WithError(err).Error("scheduler: manual dataset audit failed")
		}
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *DatasetAuditService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled": s.config.Enabled,
		"cron":    s.config.CronSchedule,
		"running": s.running,
	}
	if s.lastReport != nil {
		status["last_report"] = s.lastReport
	}
	if s.lastError != nil {
		status["last_error"] = s.lastError.Error()
	}
	return status
}
