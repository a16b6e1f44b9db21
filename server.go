package pgwire

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAddress is the listening endpoint used when Server.Listen is
// called with an empty address, per spec.md §6.
const DefaultAddress = "127.0.0.1:5432"

// Server accepts PostgreSQL wire-protocol connections and serves them
// against a single Adapter.
type Server struct {
	Adapter Adapter
	Log     zerolog.Logger
	Metrics *Metrics

	listener net.Listener
	group    *errgroup.Group
	cancel   context.CancelFunc
}

// Listen opens a TCP listening socket at addr (DefaultAddress if empty) and
// returns immediately; call Serve to run the accept loop, which sets
// TCP_NODELAY on each accepted connection.
func (s *Server) Listen(addr string) error {
	if addr == "" {
		addr = DefaultAddress
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// Serve runs the accept loop until ctx is cancelled or Shutdown is called.
// Each accepted connection is served in its own errgroup-managed goroutine,
// so Shutdown can wait for in-flight connections to drain before returning.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	group, groupCtx := errgroup.WithContext(ctx)
	s.group = group

	group.Go(func() error {
		<-groupCtx.Done()
		return s.listener.Close()
	})

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-groupCtx.Done():
				return s.group.Wait()
			default:
				return err
			}
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}

		s.Metrics.connectionOpened()
		group.Go(func() error {
			defer conn.Close()
			defer s.Metrics.connectionClosed()

			c := newConn(conn, s.Adapter, s.Log, s.Metrics)
			if err := c.Serve(); err != nil {
				s.Log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("connection closed")
			}
			return nil // a single connection's error never aborts the group
		})
	}
}

// Shutdown stops the accept loop and waits for all in-flight connections to
// finish, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the listener's bound address. Valid only after Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
