package server

import (
	"log"
	"net"
	"time"

	"github.com/icecave/forager/queue"
)

const maxAcceptDelay = time.Second

// Acceptor accepts client connections and places them on a queue for the
// workers. It never drops a connection; when the queue is full, accepting
// stops until a worker makes room.
type Acceptor struct {
	Listener net.Listener
	Queue    *queue.Queue
	Logger   *log.Logger
}

// Run accepts connections until the listener fails with a non-temporary
// error, which is returned. Closing the listener stops the acceptor.
func (a *Acceptor) Run() error {
	var delay time.Duration

	for {
		conn, err := a.Listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if delay == 0 {
					delay = 5 * time.Millisecond
				} else if delay *= 2; delay > maxAcceptDelay {
					delay = maxAcceptDelay
				}

				if a.Logger != nil {
					a.Logger.Printf("Accept error: %s; retrying in %s", err, delay)
				}

				time.Sleep(delay)
				continue
			}

			return err
		}

		delay = 0
		a.Queue.Enqueue(conn)
	}
}
