package handler

import (
	"net/http"

	"github.com/vfg2006/traffic-assistant-api/internal/api/handler/router"
	"github.com/vfg2006/traffic-assistant-api/internal/metrics"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/assistant"
	"github.com/vfg2006/traffic-assistant-api/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Assistant(service assistant.Assistant) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/assistant/ask",
			Method:      http.MethodPost,
			Handler:     AskAssistant(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/assistant/examples",
			Method:      http.MethodGet,
			Handler:     AssistantExamples(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
