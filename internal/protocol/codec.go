package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Each frame is a 4-byte big-endian payload length followed by the payload.
// TCP gives no message boundaries, so the prefix is what lets a receiver call
// Decode repeatedly against an accumulating buffer regardless of how the
// transport segmented the bytes.
const (
	prefixSize = 4

	// MaxFrameSize caps a single payload. A prefix above the cap means the
	// stream is corrupt or hostile; the connection must be closed.
	MaxFrameSize = 1 << 20

	// maxMarkerSize bounds legacy bare marker payloads ("yes"/"no").
	maxMarkerSize = 8
)

var (
	// ErrIncomplete means the buffer holds less than one whole frame.
	// The caller should keep reading and try again.
	ErrIncomplete = errors.New("incomplete frame")

	// ErrMalformed means the stream cannot be resynchronized: absurd length
	// prefix or unparseable payload. The caller must close the connection.
	ErrMalformed = errors.New("malformed frame")
)

// Encode serializes m into one frame.
func Encode(m *Message) ([]byte, error) {
	var payload []byte

	if m.Marker != "" {
		payload = []byte(m.Marker)
	} else {
		obj := make(map[string]any, len(m.Fields)+1)
		for k, v := range m.Fields {
			obj[k] = v
		}
		obj["type"] = m.Type
		var err error
		payload, err = json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding message %q: %w", m.Type, err)
		}
	}

	if len(payload) > MaxFrameSize {
		return nil, fmt.Errorf("encoding message %q: payload of %d bytes exceeds frame cap", m.Type, len(payload))
	}

	out := make([]byte, prefixSize+len(payload))
	binary.BigEndian.PutUint32(out, uint32(len(payload)))
	copy(out[prefixSize:], payload)
	return out, nil
}

// Decode extracts the first complete frame from buf and returns the decoded
// message plus the remaining bytes. It returns ErrIncomplete when buf holds
// less than one frame and ErrMalformed when the frame can never parse.
func Decode(buf []byte) (*Message, []byte, error) {
	if len(buf) < prefixSize {
		return nil, buf, ErrIncomplete
	}

	n := binary.BigEndian.Uint32(buf)
	if n == 0 || n > MaxFrameSize {
		return nil, buf, fmt.Errorf("%w: length prefix %d", ErrMalformed, n)
	}
	if uint32(len(buf)-prefixSize) < n {
		return nil, buf, ErrIncomplete
	}

	payload := buf[prefixSize : prefixSize+int(n)]
	rest := buf[prefixSize+int(n):]

	if payload[0] != '{' {
		m, err := decodeMarker(payload)
		if err != nil {
			return nil, buf, err
		}
		return m, rest, nil
	}

	fields := map[string]any{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, buf, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	typ, _ := fields["type"].(string)
	delete(fields, "type")
	return &Message{Type: typ, Fields: fields}, rest, nil
}

// decodeMarker validates a bare payload as a legacy marker: a short run of
// ASCII letters, as produced by the original login handler.
func decodeMarker(payload []byte) (*Message, error) {
	if len(payload) > maxMarkerSize {
		return nil, fmt.Errorf("%w: bare payload of %d bytes", ErrMalformed, len(payload))
	}
	for _, b := range payload {
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return nil, fmt.Errorf("%w: bare payload is not a marker", ErrMalformed)
		}
	}
	return &Message{Marker: string(payload)}, nil
}
