package gatewaydomain

import jsoniter "github.com/json-iterator/go"

// InputMessage é uma entrada da conversa enviada ao modelo
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseRequest é o corpo enviado ao endpoint de respostas
type ResponseRequest struct {
	Model           string         `json:"model"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
	Input           []InputMessage `json:"input"`
}

type ContentBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

type OutputItem struct {
	Type    string         `json:"type,omitempty"`
	Role    string         `json:"role,omitempty"`
	Content []ContentBlock `json:"content,omitempty"`
}

// ResponsePayload aceita tanto o campo de texto plano quanto a lista de blocos de conteúdo.
// Text fica cru porque o endpoint de respostas usa "text" para o objeto de formato.
type ResponsePayload struct {
	ID         string              `json:"id,omitempty"`
	OutputText string              `json:"output_text,omitempty"`
	Text       jsoniter.RawMessage `json:"text,omitempty"`
	Output     []OutputItem        `json:"output,omitempty"`
	Content    []ContentBlock      `json:"content,omitempty"`
}

// FlatText devolve o campo "text" apenas quando ele é uma string JSON
func (p *ResponsePayload) FlatText() string {
	if len(p.Text) == 0 || p.Text[0] != '"' {
		return ""
	}

	var text string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(p.Text, &text); err != nil {
		return ""
	}
	return text
}

// ErrorResponse representa o corpo de erro devolvido pelo endpoint
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}
