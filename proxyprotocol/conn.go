package proxyprotocol

import (
	"bufio"
	"net"
	"sync"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
)

// Conn is a net.Conn that strips an optional PROXY protocol (v1 or v2)
// header from the start of the stream and reports the addresses it carries.
//
// The header is read lazily, on the first call to Read, LocalAddr or
// RemoteAddr, so that wrapping a connection never blocks. This allows the
// accepting goroutine to hand the connection off before the client has sent
// anything.
type Conn struct {
	c  net.Conn
	rd *bufio.Reader

	once sync.Once
	err  error
	hdr  *proxyproto.Header
	l    net.Addr
	r    net.Addr
}

// NewConn returns a connection that parses a PROXY protocol header from the
// start of nc, if one is present.
func NewConn(nc net.Conn) *Conn {
	return &Conn{
		c:  nc,
		rd: bufio.NewReader(nc),
	}
}

// Header returns the PROXY protocol header, or nil if the client did not send
// one. It blocks until the header has been read.
func (c *Conn) Header() (*proxyproto.Header, error) {
	c.once.Do(c.init)
	return c.hdr, c.err
}

func (c *Conn) init() {
	hdr, err := proxyproto.Read(c.rd)
	switch err {
	case
		proxyproto.ErrNoProxyProtocol,
		proxyproto.ErrInvalidLength:
		// Not a PROXY protocol connection, the bytes examined so far are
		// still buffered in rd.
	case nil:
		c.hdr = hdr
		c.l = addr(hdr.TransportProtocol, hdr.DestinationAddress, hdr.DestinationPort)
		c.r = addr(hdr.TransportProtocol, hdr.SourceAddress, hdr.SourcePort)
	default:
		c.err = err
	}
}

// Read reads data from the connection, after any PROXY protocol header.
func (c *Conn) Read(b []byte) (int, error) {
	if _, err := c.Header(); err != nil {
		return 0, err
	}

	return c.rd.Read(b)
}

// Write writes data to the connection.
func (c *Conn) Write(b []byte) (int, error) {
	return c.c.Write(b)
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.c.Close()
}

// LocalAddr returns the destination address from the PROXY protocol header,
// or the local address of the connection if there is none.
func (c *Conn) LocalAddr() net.Addr {
	if c.Header(); c.l != nil {
		return c.l
	}
	return c.c.LocalAddr()
}

// RemoteAddr returns the source address from the PROXY protocol header, or
// the remote address of the connection if there is none.
func (c *Conn) RemoteAddr() net.Addr {
	if c.Header(); c.r != nil {
		return c.r
	}
	return c.c.RemoteAddr()
}

// SetDeadline sets the read and write deadlines of the connection.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.c.SetDeadline(t)
}

// SetReadDeadline sets the read deadline of the connection.
func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.c.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline of the connection.
func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.c.SetWriteDeadline(t)
}

// addr converts an address from a PROXY protocol header to a net.Addr.
func addr(proto proxyproto.AddressFamilyAndProtocol, ip net.IP, port uint16) net.Addr {
	switch {
	case proto.IsUnix():
		network := "unix"
		if !proto.IsStream() {
			network = "unixgram"
		}
		return &net.UnixAddr{Net: network, Name: ip.String()}
	case (proto.IsIPv4() || proto.IsIPv6()) && !proto.IsStream():
		return &net.UDPAddr{IP: ip, Port: int(port)}
	default:
		return &net.TCPAddr{IP: ip, Port: int(port)}
	}
}
