package proxy

import (
	"bytes"
	"io"
	"net"
)

// DefaultUserAgent is the User-Agent header sent to upstream servers.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:10.0.3) Gecko/20120305 Firefox/10.0.3"

// writeForwardedRequest writes the minimal HTTP/1.0 request for t to w.
// Headers sent by the client are not forwarded.
func writeForwardedRequest(w io.Writer, t *Target, userAgent string) (int64, error) {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	host := t.Host.Punycode
	if t.Host.IsIP && net.ParseIP(host).To4() == nil {
		host = "[" + host + "]"
	}

	var buf bytes.Buffer
	buf.WriteString("GET /" + t.Path + " HTTP/1.0\r\n")
	buf.WriteString("Connection: close\r\n")
	buf.WriteString("Proxy-Connection: close\r\n")
	buf.WriteString("User-Agent: " + userAgent + "\r\n")
	buf.WriteString("Host: " + host + "\r\n")
	buf.WriteString("\r\n")

	return buf.WriteTo(w)
}
