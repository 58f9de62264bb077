package proxy

import (
	"log"
	"net"

	"github.com/icecave/forager/cache"
	"go.uber.org/multierr"
)

// Cache is the response cache consulted by the Handler.
type Cache interface {
	// Get returns the cached response for key.
	Get(key string) (cache.Entry, bool)

	// Insert stores a response of the given total size for key.
	Insert(key string, value []byte, size int64)

	// MaxObjectSize returns the size of the largest response that is stored.
	MaxObjectSize() int64
}

// Handler serves a single client request per connection, from the cache if
// possible, otherwise by fetching it from the upstream server.
type Handler struct {
	Cache Cache

	// Dialer opens upstream connections. If it is nil, connections are made
	// directly.
	Dialer Dialer

	// UserAgent is sent to upstream servers. If it is empty DefaultUserAgent
	// is used.
	UserAgent string

	Logger *log.Logger
}

// Serve handles the request on conn and closes it. Every failure is logged
// and confined to conn.
func (h *Handler) Serve(conn net.Conn) {
	logContext := &LogContext{
		Logger:     h.Logger,
		RemoteAddr: conn.RemoteAddr().String(),
	}
	logContext.Metrics.Start()

	err := h.serve(conn, logContext)

	if e := conn.Close(); e != nil {
		err = multierr.Append(err, IOError{"close", "client", e})
	}

	logContext.Log(err)
}

func (h *Handler) serve(conn net.Conn, logContext *LogContext) error {
	req, err := ReadRequest(NewReader(conn))
	if err != nil {
		return err
	}

	key := req.RequestLine()
	logContext.RequestLine = key

	if e, ok := h.Cache.Get(key); ok {
		logContext.IsCacheHit = true
		return h.writeCached(conn, e, logContext)
	}

	target, err := ParseRequestLine(key)
	if err != nil {
		return err
	}
	logContext.Target = target

	return h.fetch(conn, target, key, logContext)
}

// writeCached sends a cached response to the client verbatim.
func (h *Handler) writeCached(conn net.Conn, e cache.Entry, logContext *LogContext) error {
	logContext.Metrics.BytesIn = e.Size
	logContext.Metrics.FirstByteSent()

	n, err := conn.Write(e.Value)
	logContext.Metrics.BytesOut = int64(n)
	if err != nil {
		return IOError{"write", "client", err}
	}

	logContext.Metrics.LastByteSent()

	return nil
}

// fetch forwards the request to the upstream server and relays the response,
// storing it in the cache once the upstream server closes the connection.
func (h *Handler) fetch(
	conn net.Conn,
	target *Target,
	key string,
	logContext *LogContext,
) (err error) {
	dialer := h.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	upstream, err := dialer.Dial("tcp", target.Address())
	if err != nil {
		return ConnectError{target.Address(), err}
	}

	defer func() {
		if e := upstream.Close(); e != nil {
			err = multierr.Append(err, IOError{"close", "upstream", e})
		}
	}()

	if _, err := writeForwardedRequest(upstream, target, h.UserAgent); err != nil {
		return IOError{"write", "upstream", err}
	}

	body, size, err := relay(conn, upstream, h.Cache.MaxObjectSize(), &logContext.Metrics)
	if err != nil {
		return err
	}

	h.Cache.Insert(key, body, size)

	return nil
}
