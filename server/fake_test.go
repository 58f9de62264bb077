package server_test

import (
	"net"
	"sync"
)

// recordingHandler records the remote address of every connection it serves
// and then closes it. If gate is non-nil, it waits for gate to be closed
// before serving.
type recordingHandler struct {
	gate chan struct{}

	m     sync.Mutex
	addrs []string
}

func (h *recordingHandler) Serve(conn net.Conn) {
	if h.gate != nil {
		<-h.gate
	}

	addr := conn.RemoteAddr().String()
	conn.Close()

	h.m.Lock()
	h.addrs = append(h.addrs, addr)
	h.m.Unlock()
}

func (h *recordingHandler) Served() []string {
	h.m.Lock()
	defer h.m.Unlock()

	return append([]string(nil), h.addrs...)
}

// panickingHandler panics when serving the first connection only.
type panickingHandler struct {
	recordingHandler
	once sync.Once
}

func (h *panickingHandler) Serve(conn net.Conn) {
	h.once.Do(func() {
		panic("<panic>")
	})

	h.recordingHandler.Serve(conn)
}

// addrConn is a net.Conn with a fixed remote address that records whether it
// has been closed.
type addrConn struct {
	net.Conn
	addr string

	m      sync.Mutex
	closed bool
}

func (c *addrConn) RemoteAddr() net.Addr {
	return fakeAddr(c.addr)
}

func (c *addrConn) Close() error {
	c.m.Lock()
	defer c.m.Unlock()

	c.closed = true
	return nil
}

func (c *addrConn) IsClosed() bool {
	c.m.Lock()
	defer c.m.Unlock()

	return c.closed
}

type fakeAddr string

func (a fakeAddr) Network() string { return "fake" }
func (a fakeAddr) String() string  { return string(a) }
