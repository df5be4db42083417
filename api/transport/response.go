package transport

import (
	"encoding/json"
	"time"

	"github.com/fastygo/taskdesk/domain"
)

// ErrorBody is the task service error shape.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageBody is the auth service response shape for errors and plain acknowledgements.
type MessageBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ExtractResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type LoginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

// ProfessionResponse carries a token whose claims include the new profession.
type ProfessionResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type HealthResponse struct {
	Status     string          `json:"status"`
	Services   map[string]bool `json:"services"`
	BufferSize int             `json:"buffer_size,omitempty"`
	CheckedAt  *time.Time      `json:"checked_at,omitempty"`
}

func NewError(code, message string) ErrorBody {
	return ErrorBody{Error: message, Code: code}
}

func NewMessage(code, message string) MessageBody {
	return MessageBody{Message: message, Code: code}
}

// Marshal encodes payload, falling back to an empty object for logging purposes.
func Marshal(payload interface{}) []byte {
	out, err := json.Marshal(payload)
	if err != nil {
		return []byte("{}")
	}
	return out
}
