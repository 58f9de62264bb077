package server

import (
	"errors"
	"log"
	"net"
	"sync"

	"github.com/icecave/forager/queue"
	"go.uber.org/multierr"
)

// ErrServerClosed is returned by Serve after Close has been called.
var ErrServerClosed = errors.New("server closed")

// Server accepts connections on a listener and handles them with a pool of
// workers, handing them over via a bounded queue.
type Server struct {
	Listener      net.Listener
	Queue         *queue.Queue
	Handler       Handler
	Workers       int
	ProxyProtocol bool
	Logger        *log.Logger

	m      sync.Mutex
	closed bool
	pool   *Pool
	done   chan struct{} // closed when the acceptor has returned
}

// Serve starts the workers and accepts connections until the listener fails
// or Close is called.
func (s *Server) Serve() error {
	s.m.Lock()
	if s.closed || s.pool != nil {
		s.m.Unlock()
		return ErrServerClosed
	}

	s.pool = &Pool{
		Queue:         s.Queue,
		Handler:       s.Handler,
		Size:          s.Workers,
		ProxyProtocol: s.ProxyProtocol,
		Logger:        s.Logger,
	}
	s.done = make(chan struct{})
	s.pool.Start()
	s.m.Unlock()

	acceptor := &Acceptor{
		Listener: s.Listener,
		Queue:    s.Queue,
		Logger:   s.Logger,
	}

	err := acceptor.Run()
	close(s.done)

	s.m.Lock()
	defer s.m.Unlock()

	if s.closed {
		return ErrServerClosed
	}

	return err
}

// Close stops accepting connections, waits for the workers to handle every
// connection already accepted, and then releases the queue.
func (s *Server) Close() error {
	s.m.Lock()
	if s.closed {
		s.m.Unlock()
		return nil
	}
	s.closed = true
	pool, done := s.pool, s.done
	s.m.Unlock()

	err := s.Listener.Close()

	if pool != nil {
		<-done
		pool.Stop()
	}

	return multierr.Append(err, s.Queue.Close())
}
