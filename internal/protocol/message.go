// Package protocol defines the SmartLearn wire format: JSON messages carried
// in length-prefixed frames over a persistent TCP connection. The payload is a
// single JSON object whose "type" member names the message kind; the one
// exception is the legacy login reply, a bare "yes"/"no" marker frame with no
// object around it.
package protocol

// Message type tags. Values match the original deployment and must not change.
const (
	LoginType         = "LoginType"
	RegisterType      = "RegisterType"
	SaveKnowledgeType = "SaveKnowledgeType"
	GetKnowledgeType  = "GetKnowledgeType"

	RegisterResponseType = "RegisterResponse"
	// KnowledgeResponseType is shared by save and get replies; the correlation
	// identifier, not the type tag, tells them apart.
	KnowledgeResponseType = "KnowledgeResponse"
)

// Legacy login reply markers.
const (
	MarkerYes = "yes"
	MarkerNo  = "no"
)

// RequestIDField is the payload member carrying the caller-generated
// correlation identifier. Servers echo it verbatim; messages from legacy
// clients may omit it.
const RequestIDField = "request_id"

// Register error codes, as sent in the error_code member of RegisterResponse.
type RegisterCode int

const (
	RegisterSuccess RegisterCode = iota
	CodeUsernameExists
	CodeEmailExists
	CodeInvalidUsername
	CodeInvalidPassword
	CodeInvalidEmail
	CodeInvalidPhone
	CodeDatabaseError
)

// Statuses used in object responses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Message is one decoded wire unit. Exactly one of Type/Fields or Marker is
// set: object messages have a Type and a Fields map (the JSON object minus
// its "type" member), marker messages have only Marker.
type Message struct {
	Type   string
	Fields map[string]any
	Marker string
}

// NewMessage builds an object message. A nil fields map is replaced with an
// empty one so that round-tripping through the codec preserves equality.
func NewMessage(typ string, fields map[string]any) *Message {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Message{Type: typ, Fields: fields}
}

// NewMarker builds a legacy bare marker message.
func NewMarker(marker string) *Message {
	return &Message{Marker: marker}
}

// RequestID returns the correlation identifier carried by the message, or ""
// for marker frames and legacy messages that never carried one.
func (m *Message) RequestID() string {
	if m.Fields == nil {
		return ""
	}
	id, _ := m.Fields[RequestIDField].(string)
	return id
}
