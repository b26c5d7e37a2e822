package assistant

import (
	"errors"
	"fmt"
	"strings"
)

// Erros específicos do assistente
var (
	// Erros de validação
	ErrInvalidRequest = errors.New("invalid assistant request")

	// Erros internos
	ErrDatasetUnavailable = errors.New("dataset could not be loaded")
	ErrRuleEngine         = errors.New("rule-based answer failed")
)

// FieldIssue aponta o campo inválido e o motivo
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError atravessa a fronteira do assistente com o detalhe por campo
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// InternalError é uma falha inesperada; o chamador recebe apenas uma mensagem genérica
type InternalError struct {
	Err     error  // Erro base
	QueryID string // ID da pergunta para correlação nos logs
	Cause   error  // Erro original, quando houver
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Cause.Error())
	}
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func NewInternalError(err error, queryID string, cause error) *InternalError {
	return &InternalError{
		Err:     err,
		QueryID: queryID,
		Cause:   cause,
	}
}

// IsValidationError verifica se o erro deve ser devolvido ao chamador com detalhes por campo
func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
