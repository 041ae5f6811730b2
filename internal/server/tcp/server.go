package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/smartlearn/internal/logging"
)

// Server accepts client connections and runs one Session per connection.
type Server struct {
	addr        string
	dispatcher  *Dispatcher
	logger      logging.Logger
	gracePeriod time.Duration
}

func NewServer(addr string, dispatcher *Dispatcher, logger logging.Logger, gracePeriod time.Duration) *Server {
	return &Server{
		addr:        addr,
		dispatcher:  dispatcher,
		logger:      logger,
		gracePeriod: gracePeriod,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is cancelled, then closes the
// listener and gives open sessions the grace period to drain. Session contexts
// derive from ctx, so cancellation also unblocks their pending reads.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info(ctx, "server listening", "addr", ln.Addr().String())

	var sessions sync.WaitGroup

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("accepting connection: %w", err)
			}

			sess := NewSession(conn, s.dispatcher, s.logger)
			sessions.Add(1)
			go func() {
				defer sessions.Done()
				if err := sess.Run(gctx); err != nil {
					s.logger.Warn(gctx, "session ended with error", "error", err.Error())
				}
			}()
		}
	})

	err := g.Wait()

	drained := make(chan struct{})
	go func() {
		sessions.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(s.gracePeriod):
		s.logger.Warn(context.Background(), "grace period elapsed with sessions still open")
	}

	s.logger.Info(context.Background(), "server stopped")
	return err
}
