// Package tcp implements the SmartLearn TCP endpoint: a listener that serves
// persistent client connections, a per-connection session loop that reassembles
// frames, and a dispatcher that routes decoded messages to handlers.
package tcp

import (
	"context"

	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// HandlerFunc processes one request message and returns the reply, or nil when
// no reply should be sent. Handlers map their own failures onto error replies;
// a handler never terminates the session.
type HandlerFunc func(ctx context.Context, msg *protocol.Message, remoteAddr string) *protocol.Message

// Dispatcher routes messages to handlers by type tag. Registration is not
// safe for concurrent use; register everything before serving.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   logging.Logger
}

func NewDispatcher(logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers h for messages with the given type tag.
func (d *Dispatcher) Handle(typ string, h HandlerFunc) {
	d.handlers[typ] = h
}

// Dispatch routes msg to its handler. Messages with an unknown or missing type
// tag are logged and dropped; the session stays open. A panicking handler is
// contained the same way.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *protocol.Message, remoteAddr string) (resp *protocol.Message) {
	h, ok := d.handlers[msg.Type]
	if !ok {
		d.logger.Warn(ctx, "dropping message of unknown type", "type", msg.Type, "remote", remoteAddr)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(ctx, "handler panicked", "type", msg.Type, "remote", remoteAddr, "panic", r)
			resp = nil
		}
	}()

	return h(ctx, msg, remoteAddr)
}
