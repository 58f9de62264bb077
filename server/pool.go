package server

import (
	"log"
	"net"
	"sync"

	"github.com/icecave/forager/proxyprotocol"
	"github.com/icecave/forager/queue"
)

// Handler serves a single connection. It is responsible for closing it.
type Handler interface {
	Serve(conn net.Conn)
}

// Pool is a fixed set of worker goroutines that take connections from a queue
// and pass them to a handler.
type Pool struct {
	Queue   *queue.Queue
	Handler Handler
	Size    int

	// ProxyProtocol wraps each connection in a proxyprotocol.Conn before it is
	// handled.
	ProxyProtocol bool

	Logger *log.Logger

	wg sync.WaitGroup
}

// Start launches the workers.
func (p *Pool) Start() {
	p.wg.Add(p.Size)

	for i := 0; i < p.Size; i++ {
		go p.work()
	}
}

// Stop asks every worker to exit once the connections already on the queue
// have been handled, and waits for them to do so.
func (p *Pool) Stop() {
	for i := 0; i < p.Size; i++ {
		p.Queue.Enqueue(nil)
	}

	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()

	for {
		conn := p.Queue.Dequeue()
		if conn == nil {
			return
		}

		p.serve(conn)
	}
}

func (p *Pool) serve(conn net.Conn) {
	raw := conn

	defer func() {
		if r := recover(); r != nil {
			raw.Close()

			if p.Logger != nil {
				p.Logger.Printf("Recovered from panic serving %s: %v", raw.RemoteAddr(), r)
			}
		}
	}()

	if p.ProxyProtocol {
		conn = proxyprotocol.NewConn(conn)
	}

	p.Handler.Serve(conn)
}
