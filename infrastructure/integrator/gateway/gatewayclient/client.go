package gatewayclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gatewaydomain "github.com/vfg2006/traffic-assistant-api/infrastructure/integrator/gateway/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError indica uma resposta fora da faixa 2xx
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// DecodeError indica um corpo 2xx que não pôde ser interpretado
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "gateway response could not be decoded: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type Client interface {
	CreateResponse(ctx context.Context, request *gatewaydomain.ResponseRequest) (*gatewaydomain.ResponsePayload, error)
}

type GatewayClient struct {
	cfg        *config.Gateway
	httpClient *http.Client
}

// NewClient recebe a configuração resolvida na inicialização; nada é relido por chamada
func NewClient(cfg *config.Gateway, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GatewayClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// CreateResponse faz uma única tentativa, sem retry. O prazo vem do contexto.
func (c *GatewayClient) CreateResponse(ctx context.Context, request *gatewaydomain.ResponseRequest) (*gatewaydomain.ResponsePayload, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "gateway: failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "gateway: failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp gatewaydomain.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &errResp); jsonErr != nil {
			logrus.WithError(jsonErr).Debug("gateway: error body is not JSON")
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}

	var payload gatewaydomain.ResponsePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &payload, nil
}
