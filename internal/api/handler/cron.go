package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-assistant-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

const (
	CronJobTypeDatasetAudit = "dataset-audit"
)

// CronJob é implementado pelos serviços do pacote scheduler
type CronJob interface {
	TriggerManualRun() bool
	GetStatus() map[string]any
}

// CronJobServices mapeia o tipo da URL para o job
type CronJobServices map[string]CronJob

// RunCronJob executa manualmente um job agendado
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Cron job type is required", nil)
			return
		}

		job, ok := services[cronType]
		if !ok || job == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Unknown cron job type", map[string]any{
				"type": cronType,
			})
			return
		}

		started := job.TriggerManualRun()
		logrus.WithFields(logrus.Fields{
			"job_name": cronType,
			"started":  started,
		}).Info("cron: manual run requested")

		message := "Cron job started"
		if !started {
			message = "Cron job is already running"
		}

		if err := utils.WriteJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"message": message,
			"type":    cronType,
			"started": started,
		}); err != nil {
			logrus.WithError(err).Error("cron: failed to write response")
		}
	})
}

// GetCronStatus retorna o status de todos os jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(services))
		for name, job := range services {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		if err := utils.WriteJSON(w, http.StatusOK, status); err != nil {
			logrus.WithError(err).Error("cron: failed to write status")
		}
	})
}
