package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/internal/api/handler"
	"github.com/vfg2006/traffic-assistant-api/internal/api/handler/router"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/scheduler"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/assistant"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-assistant-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	db handler.Pinger,
	assistantService assistant.Assistant,
	authenticator authenticating.Authenticator,
	datasetAuditService *scheduler.DatasetAuditService,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		handler.CronJobTypeDatasetAudit: datasetAuditService,
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, db, assistantService, authenticator, cronServices),
			ReadHeaderTimeout: 2 * time.Second,
			// A resposta pode esperar pelo gateway até o timeout configurado
			WriteTimeout: config.Gateway.Timeout + 10*time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta o router com a cadeia de middlewares: panic -> logging -> CORS -> auth
func NewHandler(
	config *config.Config,
	db handler.Pinger,
	assistantService assistant.Assistant,
	authenticator authenticating.Authenticator,
	cronServices handler.CronJobServices,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(db)...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.Assistant(assistantService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("server: starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server: listen failed")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("server: interrupt signal received")
	case <-ctx.Done():
		logrus.Info("server: application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("server: graceful shutdown started")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server: shutdown failed")
		return err
	}

	logrus.Info("server: stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
