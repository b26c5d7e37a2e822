package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Question string                `json:"question"`
	History  []ConversationMessage `json:"history"`
}

type AnswerMode string

const (
	ModeAI    AnswerMode = "ai"
	ModeBasic AnswerMode = "basic"
)

type ChatResponse struct {
	Success bool       `json:"success"`
	Answer  string     `json:"answer"`
	Mode    AnswerMode `json:"mode"`
}
