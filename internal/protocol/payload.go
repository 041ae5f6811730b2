package protocol

import (
	"encoding/json"
	"fmt"
)

// Typed views of message payloads. Field names match the original wire format
// exactly; request_id is the correlation identifier added by this protocol
// revision and omitted by legacy clients.

type LoginRequest struct {
	RequestID string `json:"request_id,omitempty"`
	User      string `json:"user"`
	Password  string `json:"password"`
}

type RegisterRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Grade     string `json:"grade"`
	Major     string `json:"major"`
	Role      string `json:"role"`
}

type RegisterResponse struct {
	RequestID string       `json:"request_id,omitempty"`
	Status    string       `json:"status"`
	ErrorCode RegisterCode `json:"error_code"`
	Message   string       `json:"message"`
	UserID    int64        `json:"user_id,omitempty"`
}

type SaveKnowledgeRequest struct {
	RequestID       string   `json:"request_id,omitempty"`
	Username        string   `json:"username"`
	LearningGoal    string   `json:"learning_goal"`
	KnowledgePoints []string `json:"knowledge_points"`
}

type GetKnowledgeRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Username  string `json:"username"`
}

// KnowledgeResponse answers both save and get requests. For get replies the
// learning goal is always present, empty string when unset.
type KnowledgeResponse struct {
	RequestID       string   `json:"request_id,omitempty"`
	Status          string   `json:"status"`
	Message         string   `json:"message"`
	KnowledgePoints []string `json:"knowledge_points,omitempty"`
	LearningGoal    string   `json:"learning_goal"`
}

// UnmarshalPayload maps a message's fields onto the typed payload struct v.
func UnmarshalPayload(m *Message, v any) error {
	raw, err := json.Marshal(m.Fields)
	if err != nil {
		return fmt.Errorf("remarshaling %q payload: %w", m.Type, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %q payload: %w", m.Type, err)
	}
	return nil
}

// MarshalPayload builds a Message of the given type from a typed payload
// struct.
func MarshalPayload(typ string, v any) (*Message, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %q payload: %w", typ, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("rebuilding %q payload: %w", typ, err)
	}
	delete(fields, "type")
	return NewMessage(typ, fields), nil
}
