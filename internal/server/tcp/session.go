package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/smartlearn/internal/logging"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

const readChunkSize = 4096

// Session owns one client connection. It accumulates inbound bytes, decodes
// complete frames regardless of how the transport segmented them, and answers
// each request before moving to the next, so replies leave in request order.
type Session struct {
	conn       net.Conn
	dispatcher *Dispatcher
	logger     logging.Logger
	remoteAddr string

	buf []byte

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewSession(conn net.Conn, dispatcher *Dispatcher, logger logging.Logger) *Session {
	remote := conn.RemoteAddr().String()
	return &Session{
		conn:       conn,
		dispatcher: dispatcher,
		logger:     logger.With("remote", remote),
		remoteAddr: remote,
	}
}

// Run reads from the connection until the peer disconnects, the stream turns
// malformed, or ctx is cancelled. Cancelling ctx closes the connection to
// unblock the pending read. A clean peer disconnect is not an error.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()
	defer s.Close()

	s.logger.Debug(ctx, "session started")

	chunk := make([]byte, readChunkSize)
	for {
		n, err := s.conn.Read(chunk)
		if n > 0 {
			if perr := s.onBytes(ctx, chunk[:n]); perr != nil {
				s.logger.Warn(ctx, "closing session", "error", perr.Error())
				return perr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || s.closed.Load() {
				s.logger.Debug(ctx, "session finished")
				return nil
			}
			return err
		}
	}
}

// onBytes appends the chunk to the reassembly buffer and drains every complete
// frame from it. Frames are dispatched in arrival order; a malformed frame is
// fatal because the stream cannot be resynchronized past it.
func (s *Session) onBytes(ctx context.Context, chunk []byte) error {
	s.buf = append(s.buf, chunk...)
	for {
		msg, rest, err := protocol.Decode(s.buf)
		if errors.Is(err, protocol.ErrIncomplete) {
			return nil
		}
		if err != nil {
			return err
		}
		s.buf = append(s.buf[:0], rest...)

		if resp := s.dispatcher.Dispatch(ctx, msg, s.remoteAddr); resp != nil {
			if err := s.Write(resp); err != nil {
				return err
			}
		}
	}
}

// Write encodes m and sends it as one frame. Writes on a closed session are
// silently discarded.
func (s *Session) Write(m *protocol.Message) error {
	frame, err := protocol.Encode(m)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed.Load() {
		return nil
	}
	if _, err := s.conn.Write(frame); err != nil {
		return err
	}
	return nil
}

// Close shuts the connection down. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		err = s.conn.Close()
	})
	return err
}
