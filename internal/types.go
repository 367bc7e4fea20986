package internal

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewMessage stamps a message with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, CreatedAt: time.Now()}
}

type ChatHistory struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Reply Message `json:"reply"`
	Model string  `json:"model"`
}

type SelectModelRequest struct {
	Model string `json:"model" binding:"required"`
}

type ModelsResponse struct {
	Models   []ModelOption `json:"models"`
	Selected string        `json:"selected"`
}

// --- Document analysis ---

type AnalyzeFileResponse struct {
	Request   Message `json:"request"`
	Reply     Message `json:"reply"`
	Model     string  `json:"model"`
	Truncated bool    `json:"truncated"`
}
