package proxy

import (
	"net"

	netproxy "golang.org/x/net/proxy"
)

// Dialer opens connections to upstream servers.
type Dialer interface {
	// Dial connects to addr on the named network.
	Dial(network, addr string) (net.Conn, error)
}

// NewDialer returns a Dialer that connects directly to upstream servers, or
// through the SOCKS5 proxy at socks5Addr if it is not empty.
func NewDialer(socks5Addr string) (Dialer, error) {
	if socks5Addr == "" {
		return &net.Dialer{}, nil
	}

	return netproxy.SOCKS5("tcp", socks5Addr, nil, netproxy.Direct)
}
