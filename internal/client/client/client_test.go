package client

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeServer reads frames from conn and passes them to handle; whatever
// handle returns is written back, possibly out of order for reordering tests.
func fakeServer(t *testing.T, conn net.Conn, handle func(*protocol.Message) []*protocol.Message) {
	t.Helper()
	go func() {
		var buf []byte
		chunk := make([]byte, 1024)
		for {
			n, err := conn.Read(chunk)
			if err != nil {
				return
			}
			buf = append(buf, chunk[:n]...)
			for {
				msg, rest, derr := protocol.Decode(buf)
				if derr != nil {
					break
				}
				buf = append(buf[:0], rest...)
				for _, reply := range handle(msg) {
					frame, eerr := protocol.Encode(reply)
					if eerr != nil {
						return
					}
					if _, werr := conn.Write(frame); werr != nil {
						return
					}
				}
			}
		}
	}()
}

func TestClient_CallRoundTrip(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	fakeServer(t, serverConn, func(msg *protocol.Message) []*protocol.Message {
		return []*protocol.Message{protocol.NewMessage("Reply", map[string]any{
			protocol.RequestIDField: msg.RequestID(),
			"echo":                  msg.Fields["value"],
		})}
	})

	c := NewClient(clientConn, testLogger(), time.Second)
	defer c.Close()

	reply, err := c.Call(context.Background(),
		protocol.NewMessage("Ask", map[string]any{"value": "hello"}))
	require.NoError(t, err)
	assert.Equal(t, "Reply", reply.Type)
	assert.Equal(t, "hello", reply.Fields["echo"])
}

func TestClient_InterleavedRepliesReachTheirCallers(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	// Hold the first request's reply until the second request arrives, then
	// answer in reverse order.
	var held *protocol.Message
	fakeServer(t, serverConn, func(msg *protocol.Message) []*protocol.Message {
		reply := protocol.NewMessage("Reply", map[string]any{
			protocol.RequestIDField: msg.RequestID(),
			"echo":                  msg.Fields["value"],
		})
		if held == nil {
			held = reply
			return nil
		}
		return []*protocol.Message{reply, held}
	})

	c := NewClient(clientConn, testLogger(), time.Second)
	defer c.Close()

	type result struct {
		echo any
		err  error
	}
	first := make(chan result, 1)
	go func() {
		reply, err := c.Call(context.Background(),
			protocol.NewMessage("Ask", map[string]any{"value": "X"}))
		if err != nil {
			first <- result{err: err}
			return
		}
		first <- result{echo: reply.Fields["echo"]}
	}()

	// Give the first request time to reach the server before the second.
	time.Sleep(50 * time.Millisecond)

	reply, err := c.Call(context.Background(),
		protocol.NewMessage("Ask", map[string]any{"value": "Y"}))
	require.NoError(t, err)
	assert.Equal(t, "Y", reply.Fields["echo"])

	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, "X", res.echo)
}

func TestClient_CallTimesOut(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	fakeServer(t, serverConn, func(msg *protocol.Message) []*protocol.Message {
		return nil // never answer
	})

	c := NewClient(clientConn, testLogger(), 50*time.Millisecond)
	defer c.Close()

	_, err := c.Call(context.Background(), protocol.NewMessage("Ask", nil))
	assert.ErrorIs(t, err, common.ErrorTimeout)
}

func TestClient_MarkerReplyMatchesMarkerCall(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	fakeServer(t, serverConn, func(msg *protocol.Message) []*protocol.Message {
		return []*protocol.Message{protocol.NewMarker(protocol.MarkerYes)}
	})

	c := NewClient(clientConn, testLogger(), time.Second)
	defer c.Close()

	reply, err := c.CallMarker(context.Background(),
		protocol.NewMessage(protocol.LoginType, map[string]any{"user": "u", "password": "p"}))
	require.NoError(t, err)
	assert.Equal(t, protocol.MarkerYes, reply.Marker)
}

func TestClient_CloseFailsInFlightCalls(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	fakeServer(t, serverConn, func(msg *protocol.Message) []*protocol.Message {
		return nil
	})

	c := NewClient(clientConn, testLogger(), time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := c.Call(context.Background(), protocol.NewMessage("Ask", nil))
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, c.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("in-flight call not released on close")
	}

	_, err := c.Call(context.Background(), protocol.NewMessage("Ask", nil))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_SubscriberGetsUncorrelatedMessages(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	c := NewClient(clientConn, testLogger(), time.Second)
	defer c.Close()

	got := make(chan *protocol.Message, 1)
	c.Subscribe("Notice", func(m *protocol.Message) { got <- m })

	frame, err := protocol.Encode(protocol.NewMessage("Notice", map[string]any{"text": "maintenance"}))
	require.NoError(t, err)
	_, err = serverConn.Write(frame)
	require.NoError(t, err)

	select {
	case m := <-got:
		assert.Equal(t, "maintenance", m.Fields["text"])
	case <-time.After(time.Second):
		t.Fatal("subscriber not invoked")
	}
}
