package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

const (
	minQuestionLength = 2
	maxQuestionLength = 500
	maxHistoryEntries = 16
	maxMessageLength  = 2000
)

// Validate confere formato e tamanho da pergunta e do histórico; acumula todos os problemas
func Validate(request domain.ChatRequest) error {
	issues := make([]FieldIssue, 0)

	question := strings.TrimSpace(request.Question)
	if n := utf8.RuneCountInString(question); n < minQuestionLength || n > maxQuestionLength {
		issues = append(issues, FieldIssue{
			Field:   "question",
			Message: fmt.Sprintf("must be between %d and %d characters", minQuestionLength, maxQuestionLength),
		})
	}

	if len(request.History) > maxHistoryEntries {
		issues = append(issues, FieldIssue{
			Field:   "history",
			Message: fmt.Sprintf("must have at most %d entries", maxHistoryEntries),
		})
	}

	for i, m := range request.History {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			issues = append(issues, FieldIssue{
				Field:   fmt.Sprintf("history[%d].role", i),
				Message: "must be one of: user, assistant",
			})
		}

		if n := utf8.RuneCountInString(m.Content); n < 1 || n > maxMessageLength || strings.TrimSpace(m.Content) == "" {
			issues = append(issues, FieldIssue{
				Field:   fmt.Sprintf("history[%d].content", i),
				Message: fmt.Sprintf("must be between 1 and %d characters", maxMessageLength),
			})
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
