package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/repository"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/metrics"
	"github.com/vfg2006/traffic-assistant-api/pkg/log"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

const defaultHistoryContextSize = 10

// Service orquestra NoData -> TryGateway -> RuleBased. Não guarda estado entre requisições.
type Service struct {
	datasetRepository  repository.DatasetRepository
	gateway            gateway.Gateway
	historyContextSize int
}

// NewService cria o assistente; gw pode ser nil quando o gateway não está configurado
func NewService(
	cfg *config.Config,
	datasetRepo repository.DatasetRepository,
	gw gateway.Gateway,
) Assistant {
	size := defaultHistoryContextSize
	if cfg != nil && cfg.Assistant.HistoryContextSize > 0 {
		size = cfg.Assistant.HistoryContextSize
	}

	return &Service{
		datasetRepository:  datasetRepo,
		gateway:            gw,
		historyContextSize: size,
	}
}

func (s *Service) Examples() []string {
	return append([]string(nil), ExampleQuestions...)
}

func (s *Service) Answer(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	queryID := utils.NewQueryID()
	logger := log.ForContext(ctx).WithField("query_id", queryID)

	if err := Validate(request); err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("validation").Inc()
		logger.WithError(err).Warn("assistant: invalid request")
		return nil, err
	}

	question := strings.TrimSpace(request.Question)

	dataset, err := s.datasetRepository.Load(ctx)
	if err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("internal").Inc()
		logger.WithError(err).Error("assistant: failed to load dataset")
		return nil, NewInternalError(ErrDatasetUnavailable, queryID, err)
	}

	snapshot := NewSnapshot(dataset)
	if snapshot.IsEmpty() {
		logger.Info("assistant: dataset is empty")
		return respond(domain.ModeBasic, "no_data", NoDataAnswer), nil
	}

	if s.gateway != nil && s.gateway.Enabled() {
		if text, ok := s.tryGateway(ctx, logger, snapshot, question, request.History); ok {
			logger.WithField("mode", domain.ModeAI).Info("assistant: answered by gateway")
			return respond(domain.ModeAI, "gateway", text), nil
		}
	}

	answer, intent, err := s.ruleBased(snapshot, question, request.History)
	if err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("internal").Inc()
		logger.WithError(err).Error("assistant: rule-based path failed")
		return nil, NewInternalError(ErrRuleEngine, queryID, err)
	}

	logger.WithFields(log.Fields{
		"mode":   domain.ModeBasic,
		"intent": intent,
	}).Info("assistant: answered by rules")

	return respond(domain.ModeBasic, intent, answer), nil
}

// tryGateway nunca propaga falhas: qualquer Outcome de falha devolve ok=false
func (s *Service) tryGateway(
	ctx context.Context,
	logger log.Logger,
	snapshot *Snapshot,
	question string,
	history []domain.ConversationMessage,
) (string, bool) {
	prompt, err := BuildGatewayPrompt(snapshot, question, history)
	if err != nil {
		logger.WithError(err).Warn("assistant: failed to build gateway context, using rules")
		metrics.GatewayCallsTotal.WithLabelValues("context_error").Inc()
		return "", false
	}

	start := time.Now()
	outcome := s.gateway.Ask(ctx, prompt)
	metrics.GatewayDuration.Observe(time.Since(start).Seconds())

	if !outcome.OK() {
		reason := string(outcome.Reason)
		if reason == "" {
			reason = string(gateway.ReasonEmptyPayload)
		}
		metrics.GatewayCallsTotal.WithLabelValues(reason).Inc()

		entry := logger.WithField("reason", reason)
		if outcome.Err != nil {
			entry = entry.WithError(outcome.Err)
		}
		entry.Warn("assistant: gateway unavailable, falling back to rules")
		return "", false
	}

	metrics.GatewayCallsTotal.WithLabelValues("success").Inc()
	return outcome.Text, true
}

// ruleBased converte um panic do caminho de regras em erro
func (s *Service) ruleBased(snapshot *Snapshot, question string, history []domain.ConversationMessage) (answer string, intent string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in rule-based path: %v", r)
		}
	}()

	answer, intent = Compose(snapshot, question, recentHistory(history, s.historyContextSize))
	return answer, intent, nil
}

func recentHistory(history []domain.ConversationMessage, size int) []domain.ConversationMessage {
	if size > 0 && len(history) > size {
		return history[len(history)-size:]
	}
	return history
}

func respond(mode domain.AnswerMode, intent, answer string) *domain.ChatResponse {
	metrics.AnswersTotal.WithLabelValues(string(mode), intent).Inc()
	return &domain.ChatResponse{
		Success: true,
		Answer:  answer,
		Mode:    mode,
	}
}
