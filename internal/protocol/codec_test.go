package protocol

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncode(t *testing.T, m *Message) []byte {
	t.Helper()
	b, err := Encode(m)
	require.NoError(t, err)
	return b
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{
			name: "object with string fields",
			msg: NewMessage(LoginType, map[string]any{
				"user": "alice", "password": "secret1x",
			}),
		},
		{
			name: "object with list and number",
			msg: NewMessage(SaveKnowledgeType, map[string]any{
				"username":         "alice",
				"learning_goal":    "find a job",
				"knowledge_points": []any{"C++", "SQL"},
				"count":            float64(2),
			}),
		},
		{
			name: "object with no extra fields",
			msg:  NewMessage(GetKnowledgeType, nil),
		},
		{
			name: "marker yes",
			msg:  NewMarker(MarkerYes),
		},
		{
			name: "marker no",
			msg:  NewMarker(MarkerNo),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame := mustEncode(t, tc.msg)

			got, rest, err := Decode(frame)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tc.msg, got)
		})
	}
}

func TestDecode_Incomplete(t *testing.T) {
	frame := mustEncode(t, NewMessage(GetKnowledgeType, map[string]any{"username": "bob"}))

	for cut := 0; cut < len(frame); cut++ {
		_, rest, err := Decode(frame[:cut])
		assert.ErrorIs(t, err, ErrIncomplete, "cut=%d", cut)
		assert.Equal(t, frame[:cut], rest, "cut=%d", cut)
	}
}

func TestDecode_MultipleMessagesInOneBuffer(t *testing.T) {
	m1 := NewMessage(GetKnowledgeType, map[string]any{"username": "bob"})
	m2 := NewMarker(MarkerYes)
	m3 := NewMessage(LoginType, map[string]any{"user": "bob", "password": "pw123456"})

	buf := append(append(mustEncode(t, m1), mustEncode(t, m2)...), mustEncode(t, m3)...)

	var got []*Message
	for len(buf) > 0 {
		m, rest, err := Decode(buf)
		require.NoError(t, err)
		got = append(got, m)
		buf = rest
	}

	require.Len(t, got, 3)
	assert.Equal(t, m1, got[0])
	assert.Equal(t, m2, got[1])
	assert.Equal(t, m3, got[2])
}

// Framing must be chunk-size independent: feeding the stream one byte at a
// time yields the same message sequence as one big buffer.
func TestDecode_ByteAtATimeEqualsAllAtOnce(t *testing.T) {
	msgs := []*Message{
		NewMessage(RegisterType, map[string]any{"username": "alice", "password": "abc12345"}),
		NewMarker(MarkerNo),
		NewMessage(GetKnowledgeType, map[string]any{"username": "alice"}),
	}

	var stream []byte
	for _, m := range msgs {
		stream = append(stream, mustEncode(t, m)...)
	}

	decodeAll := func(feed func(buf []byte) []byte) []*Message {
		var out []*Message
		var buf []byte
		buf = feed(buf)
		for {
			m, rest, err := Decode(buf)
			if errors.Is(err, ErrIncomplete) {
				next := feed(buf)
				if len(next) == len(buf) {
					return out
				}
				buf = next
				continue
			}
			require.NoError(t, err)
			out = append(out, m)
			buf = rest
		}
	}

	// all at once
	fed := false
	allAtOnce := decodeAll(func(buf []byte) []byte {
		if !fed {
			fed = true
			return append(buf, stream...)
		}
		return buf
	})

	// one byte at a time
	pos := 0
	byteWise := decodeAll(func(buf []byte) []byte {
		if pos < len(stream) {
			buf = append(buf, stream[pos])
			pos++
		}
		return buf
	})

	assert.Equal(t, msgs, allAtOnce)
	assert.Equal(t, msgs, byteWise)
}

func TestDecode_Malformed(t *testing.T) {
	hugePrefix := make([]byte, 8)
	binary.BigEndian.PutUint32(hugePrefix, MaxFrameSize+1)

	zeroPrefix := make([]byte, 4)

	badJSON := make([]byte, 4+9)
	binary.BigEndian.PutUint32(badJSON, 9)
	copy(badJSON[4:], `{"type":x`)

	badMarker := make([]byte, 4+3)
	binary.BigEndian.PutUint32(badMarker, 3)
	copy(badMarker[4:], "y3!")

	tests := []struct {
		name string
		buf  []byte
	}{
		{"length prefix over cap", hugePrefix},
		{"zero length prefix", zeroPrefix},
		{"unparseable object", badJSON},
		{"bare payload that is no marker", badMarker},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Decode(tc.buf)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_LeavesRestIntact(t *testing.T) {
	frame := mustEncode(t, NewMarker(MarkerYes))
	trailing := []byte{0x00, 0x00}

	_, rest, err := Decode(append(frame, trailing...))
	require.NoError(t, err)
	assert.Equal(t, trailing, rest)
}

func TestEncode_RejectsOversizedPayload(t *testing.T) {
	big := make([]byte, MaxFrameSize)
	for i := range big {
		big[i] = 'a'
	}
	m := NewMessage(SaveKnowledgeType, map[string]any{"learning_goal": string(big)})

	_, err := Encode(m)
	assert.Error(t, err)
}
