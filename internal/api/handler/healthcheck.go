package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

const healthcheckTimeout = 2 * time.Second

// Pinger é satisfeito pela conexão com o banco
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthcheckHandler(db Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{
			"status":   "ok",
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": "ok",
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logrus.WithError(err).Warn("healthcheck: database ping failed")
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["database"] = "unreachable"
			}
		}

		if err := utils.WriteJSON(w, status, body); err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}
