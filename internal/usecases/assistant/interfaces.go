package assistant

import (
	"context"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

// Assistant responde perguntas sobre o dataset atual de campanhas e anúncios
//
//go:generate mockgen -source=interfaces.go -destination=mocks/assistant.go -package=mocks
type Assistant interface {
	// Answer devolve sempre uma resposta para requisições válidas; só falha com ValidationError ou InternalError
	Answer(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)

	// Examples lista perguntas de exemplo
	Examples() []string
}
