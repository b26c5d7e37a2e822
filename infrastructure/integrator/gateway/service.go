package gateway

import (
	"context"
	"errors"
	"net"
	"strings"

	gatewaydomain "github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway/domain"
	"github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway/gatewayclient"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
)

// SystemInstruction é a instrução fixa enviada em toda chamada
const SystemInstruction = "You are a marketing analytics assistant. Answer only from the provided context. " +
	"Use the conversation history to resolve references such as \"the second one\" or \"those two\". " +
	"Be concise and numeric. If the data needed to answer is missing, say so explicitly."

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotConfigured Reason = "not_configured"
	ReasonTransport     Reason = "transport"
	ReasonTimeout       Reason = "timeout"
	ReasonStatus        Reason = "status"
	ReasonDecode        Reason = "decode"
	ReasonEmptyPayload  Reason = "empty_payload"
)

var (
	ErrNotConfigured = errors.New("gateway is not configured")
	ErrEmptyPayload  = errors.New("gateway returned no text")
)

// Outcome tem duas variantes: sucesso com texto, ou falha com motivo
type Outcome struct {
	Text   string
	Reason Reason
	Err    error
}

func Success(text string) Outcome {
	return Outcome{Text: text}
}

func Failure(reason Reason, err error) Outcome {
	return Outcome{Reason: reason, Err: err}
}

func (o Outcome) OK() bool {
	return o.Reason == ReasonNone && o.Text != ""
}

//go:generate mockgen -source=service.go -destination=mocks/gateway.go -package=mocks
type Gateway interface {
	Enabled() bool
	Ask(ctx context.Context, prompt string) Outcome
}

type Integrator struct {
	cfg    *config.Gateway
	Client gatewayclient.Client
}

func New(cfg *config.Gateway, client gatewayclient.Client) *Integrator {
	return &Integrator{
		cfg:    cfg,
		Client: client,
	}
}

func (g *Integrator) Enabled() bool {
	return g != nil && g.cfg != nil && g.cfg.Enabled() && g.Client != nil
}

// Ask nunca devolve erro: qualquer falha vira uma Outcome de falha com o motivo classificado
func (g *Integrator) Ask(ctx context.Context, prompt string) Outcome {
	if !g.Enabled() {
		return Failure(ReasonNotConfigured, ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	payload, err := g.Client.CreateResponse(ctx, &gatewaydomain.ResponseRequest{
		Model:           g.cfg.Model,
		Temperature:     g.cfg.Temperature,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
		Input: []gatewaydomain.InputMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return Failure(classify(ctx, err), err)
	}

	text := ExtractText(payload)
	if text == "" {
		return Failure(ReasonEmptyPayload, ErrEmptyPayload)
	}

	return Success(text)
}

func classify(ctx context.Context, err error) Reason {
	var statusErr *gatewayclient.StatusError
	var decodeErr *gatewayclient.DecodeError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &statusErr):
		return ReasonStatus
	case errors.As(err, &decodeErr):
		return ReasonDecode
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	}
	return ReasonTransport
}

// ExtractText procura o texto no campo plano e, na falta dele, nos blocos de conteúdo.
// O texto é devolvido como veio; espaços só decidem se o payload está vazio.
func ExtractText(payload *gatewaydomain.ResponsePayload) string {
	if payload == nil {
		return ""
	}

	if strings.TrimSpace(payload.OutputText) != "" {
		return payload.OutputText
	}
	if text := payload.FlatText(); strings.TrimSpace(text) != "" {
		return text
	}

	parts := make([]string, 0)
	for _, item := range payload.Output {
		parts = appendBlocks(parts, item.Content)
	}
	parts = appendBlocks(parts, payload.Content)

	return strings.Join(parts, "\n")
}

func appendBlocks(parts []string, blocks []gatewaydomain.ContentBlock) []string {
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) != "" {
			parts = append(parts, b.Text)
		}
	}
	return parts
}
