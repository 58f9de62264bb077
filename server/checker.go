package server

import (
	"fmt"

	"github.com/icecave/forager/admin"
	"github.com/icecave/forager/queue"
)

// QueueChecker reports the proxy as unhealthy while its connection queue is
// full, that is, while new clients are being held back.
type QueueChecker struct {
	Queue *queue.Queue
}

// Check returns information about the health of the proxy.
func (checker *QueueChecker) Check() admin.Status {
	n, c := checker.Queue.Len(), checker.Queue.Cap()

	if n >= c {
		return admin.Status{
			IsHealthy: false,
			Message:   fmt.Sprintf("The connection queue is full (%d/%d), clients are waiting to be accepted.", n, c),
		}
	}

	return admin.Status{
		IsHealthy: true,
		Message:   fmt.Sprintf("The proxy is accepting requests (%d/%d queued).", n, c),
	}
}
