package main

import (
	"context"
	"net/http"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway/gatewayclient"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/repository"
	"github.com/vfg2006/traffic-assistant-api/internal/api"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/metrics"
	"github.com/vfg2006/traffic-assistant-api/internal/scheduler"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/assistant"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-assistant-api/pkg/log"
)

func main() {
	changeToSourceDir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.LogFormat)
	logrus.Infof("log level set to %s", logrus.GetLevel())

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	datasetRepo := repository.NewDatasetRepository(pgConn)

	authenticator := authenticating.NewService(cfg)
	if !authenticator.Enabled() {
		logrus.Warn("auth is disabled, every route is public")
	}

	// A configuração do gateway é resolvida uma vez aqui e repassada por referência
	gatewayClient := gatewayclient.NewClient(&cfg.Gateway, &http.Client{})
	gatewayIntegrator := gateway.New(&cfg.Gateway, gatewayClient)
	if gatewayIntegrator.Enabled() {
		logrus.WithField("model", cfg.Gateway.Model).Info("gateway enabled")
	} else {
		logrus.Info("gateway not configured, answering with rules only")
	}

	assistantService := assistant.NewService(cfg, datasetRepo, gatewayIntegrator)

	datasetAuditService := scheduler.NewDatasetAuditService(datasetRepo, cfg)
	if err := datasetAuditService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start dataset audit scheduler")
	}

	server, err := api.New(
		cfg,
		pgConn,
		assistantService,
		authenticator,
		datasetAuditService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// changeToSourceDir permite encontrar o .env ao rodar com go run de qualquer diretório
func changeToSourceDir() {
	_, file, _, _ := runtime.Caller(0)
	if err := os.Chdir(path.Dir(file)); err != nil {
		logrus.WithError(err).Debug("could not change to source directory")
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
