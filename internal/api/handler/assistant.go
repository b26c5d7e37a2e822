package handler

import (
	"net/http"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/assistant"
	"github.com/vfg2006/traffic-assistant-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-assistant-api/pkg/log"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

// Pergunta (500) + histórico (16 x 2000) com folga para o envelope JSON
const maxAskBodyBytes = 64 << 10

func AskAssistant(service assistant.Assistant) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var request domain.ChatRequest
		if err := utils.DecodeJSON(http.MaxBytesReader(w, r.Body, maxAskBodyBytes), &request); err != nil {
			logger.WithError(err).Warn("assistant: malformed request body")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Request body must be a JSON object with question and history", nil)
			return
		}

		response, err := service.Answer(r.Context(), request)
		if err != nil {
			if vErr, ok := assistant.IsValidationError(err); ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request", map[string]any{
					"issues": vErr.Issues,
				})
				return
			}

			logger.WithError(err).Error("assistant: failed to answer question")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Could not answer the question right now", nil)
			return
		}

		if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
			logger.WithError(err).Error("assistant: failed to write response")
		}
	})
}

func AssistantExamples(service assistant.Assistant) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"success":  true,
			"examples": service.Examples(),
		}

		if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("assistant: failed to write examples")
		}
	})
}
