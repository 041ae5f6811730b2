// Package client maintains the persistent connection to the SmartLearn server
// and correlates replies with in-flight requests, so callers get a simple
// request/response API over a full-duplex stream.
package client

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

const readChunkSize = 4096

// newRequestID is a seam for tests that need predictable identifiers.
var newRequestID = uuid.NewString

// Client is one connection to the server. It is safe for concurrent use:
// requests may be pipelined, and the reader goroutine routes each reply to
// its caller by correlation identifier.
//
// The legacy login reply is a bare marker frame with no identifier, so marker
// replies are matched to marker calls in FIFO order instead. Callers must not
// pipeline two marker calls at once.
type Client struct {
	conn    net.Conn
	logger  logging.Logger
	timeout time.Duration

	mu            sync.Mutex
	pending       map[string]chan *protocol.Message
	markerWaiters []chan *protocol.Message
	subscribers   map[string][]func(*protocol.Message)
	closed        bool

	writeMu sync.Mutex
}

// Dial connects to addr and starts the reader goroutine. The timeout bounds
// every individual call.
func Dial(ctx context.Context, addr string, logger logging.Logger, timeout time.Duration) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return NewClient(conn, logger, timeout), nil
}

// NewClient wraps an established connection. Used directly in tests; normal
// callers go through Dial.
func NewClient(conn net.Conn, logger logging.Logger, timeout time.Duration) *Client {
	c := &Client{
		conn:        conn,
		logger:      logger,
		timeout:     timeout,
		pending:     make(map[string]chan *protocol.Message),
		subscribers: make(map[string][]func(*protocol.Message)),
	}
	go c.readLoop()
	return c
}

// Call sends msg with a fresh correlation identifier and waits for the reply
// carrying the same identifier. The wait is bounded by the client timeout;
// expiry returns common.ErrorTimeout and the late reply, if it ever arrives,
// is dropped.
func (c *Client) Call(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	id := newRequestID()
	msg.Fields[protocol.RequestIDField] = id

	ch := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.write(msg); err != nil {
		c.removePending(id)
		return nil, err
	}

	return c.wait(ctx, ch, func() { c.removePending(id) })
}

// CallMarker sends msg and waits for a bare marker reply. Marker replies
// carry no identifier, so they are handed to marker callers in send order.
func (c *Client) CallMarker(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	ch := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.markerWaiters = append(c.markerWaiters, ch)
	c.mu.Unlock()

	if err := c.write(msg); err != nil {
		c.removeMarkerWaiter(ch)
		return nil, err
	}

	return c.wait(ctx, ch, func() { c.removeMarkerWaiter(ch) })
}

// Subscribe registers fn for object messages of the given type that match no
// in-flight request, such as server-initiated notifications. Handlers run on
// the reader goroutine and must not block.
func (c *Client) Subscribe(typ string, fn func(*protocol.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[typ] = append(c.subscribers[typ], fn)
}

// Close shuts the connection down and fails every in-flight call with
// ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	for _, ch := range c.markerWaiters {
		close(ch)
	}
	c.markerWaiters = nil
	c.mu.Unlock()

	return c.conn.Close()
}

func (c *Client) wait(ctx context.Context, ch chan *protocol.Message, abandon func()) (*protocol.Message, error) {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		return reply, nil
	case <-timer.C:
		abandon()
		return nil, common.ErrorTimeout
	case <-ctx.Done():
		abandon()
		return nil, ctx.Err()
	}
}

func (c *Client) write(msg *protocol.Message) error {
	frame, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(frame); err != nil {
		return err
	}
	return nil
}

func (c *Client) readLoop() {
	ctx := context.Background()
	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				msg, rest, derr := protocol.Decode(buf)
				if errors.Is(derr, protocol.ErrIncomplete) {
					break
				}
				if derr != nil {
					c.logger.Error(ctx, "unreadable frame from server", "error", derr.Error())
					c.Close()
					return
				}
				buf = append(buf[:0], rest...)
				c.route(ctx, msg)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !c.isClosed() {
				c.logger.Warn(ctx, "connection lost", "error", err.Error())
			}
			c.Close()
			return
		}
	}
}

func (c *Client) route(ctx context.Context, msg *protocol.Message) {
	c.mu.Lock()

	if msg.Marker != "" {
		if len(c.markerWaiters) == 0 {
			c.mu.Unlock()
			c.logger.Warn(ctx, "dropping unexpected marker", "marker", msg.Marker)
			return
		}
		ch := c.markerWaiters[0]
		c.markerWaiters = c.markerWaiters[1:]
		c.mu.Unlock()
		ch <- msg
		return
	}

	if id := msg.RequestID(); id != "" {
		ch, ok := c.pending[id]
		if ok {
			delete(c.pending, id)
		}
		c.mu.Unlock()
		if ok {
			ch <- msg
		} else {
			c.logger.Warn(ctx, "dropping reply for abandoned request", "request_id", id)
		}
		return
	}

	fns := c.subscribers[msg.Type]
	c.mu.Unlock()
	if len(fns) == 0 {
		c.logger.Warn(ctx, "dropping message with no subscriber", "type", msg.Type)
		return
	}
	for _, fn := range fns {
		fn(msg)
	}
}

func (c *Client) removePending(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

func (c *Client) removeMarkerWaiter(ch chan *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.markerWaiters {
		if w == ch {
			c.markerWaiters = append(c.markerWaiters[:i], c.markerWaiters[i+1:]...)
			return
		}
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
