package assistant

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		request    domain.ChatRequest
		wantFields []string
	}{
		{
			name:    "pergunta válida sem histórico",
			request: domain.ChatRequest{Question: "Give me a summary"},
		},
		{
			name:       "pergunta curta demais",
			request:    domain.ChatRequest{Question: " a "},
			wantFields: []string{"question"},
		},
		{
			name:       "pergunta longa demais",
			request:    domain.ChatRequest{Question: strings.Repeat("x", 501)},
			wantFields: []string{"question"},
		},
		{
			name:    "limite de 500 caracteres aceito",
			request: domain.ChatRequest{Question: strings.Repeat("é", 500)},
		},
		{
			name: "histórico com mais de 16 mensagens",
			request: domain.ChatRequest{
				Question: "summary",
				History:  repeatMessages(17),
			},
			wantFields: []string{"history"},
		},
		{
			name: "papel inválido e conteúdo vazio acumulam problemas",
			request: domain.ChatRequest{
				Question: "x",
				History: []domain.ConversationMessage{
					{Role: "system", Content: "hi"},
					{Role: domain.RoleUser, Content: "   "},
				},
			},
			wantFields: []string{"question", "history[0].role", "history[1].content"},
		},
		{
			name: "mensagem do histórico longa demais",
			request: domain.ChatRequest{
				Question: "summary",
				History:  []domain.ConversationMessage{assistantMsg(strings.Repeat("y", 2001))},
			},
			wantFields: []string{"history[0].content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.request)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			vErr, ok := IsValidationError(err)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrInvalidRequest))

			fields := make([]string, 0, len(vErr.Issues))
			for _, issue := range vErr.Issues {
				fields = append(fields, issue.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func repeatMessages(n int) []domain.ConversationMessage {
	out := make([]domain.ConversationMessage, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, userMsg("hi"))
	}
	return out
}
