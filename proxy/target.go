package proxy

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/icecave/forager/name"
)

// DefaultPort is the upstream port used when the request URL has none.
const DefaultPort = "80"

// Target is the upstream resource named by a client's request line.
type Target struct {
	Method  string
	Host    name.Host
	Port    string
	Path    string
	Version string
}

// Address returns the host and port to dial.
func (t *Target) Address() string {
	return net.JoinHostPort(t.Host.Punycode, t.Port)
}

// ParseRequestLine parses a request line of the form
// "METHOD http://HOST[:PORT]/PATH VERSION".
//
// Path does not include the leading slash. Any fragment is discarded. A
// request line with a method other than GET is rejected with
// ErrUnsupportedMethod, even if it is otherwise valid.
func ParseRequestLine(line string) (*Target, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, malformed(line)
	}

	t := &Target{
		Method:  fields[0],
		Version: fields[2],
	}

	if t.Method != "GET" {
		return nil, ProtocolError{ErrUnsupportedMethod, line}
	}

	if !strings.HasPrefix(t.Version, "HTTP/") {
		return nil, malformed(line)
	}

	const scheme = "http://"
	url := fields[1]
	if len(url) < len(scheme) || !strings.EqualFold(url[:len(scheme)], scheme) {
		return nil, malformed(line)
	}
	url = url[len(scheme):]

	authority := url
	if i := strings.IndexAny(url, "/?#"); i != -1 {
		authority = url[:i]

		switch url[i] {
		case '/':
			t.Path = url[i+1:]
		case '?':
			t.Path = url[i:]
		}
	}

	if i := strings.IndexByte(t.Path, '#'); i != -1 {
		t.Path = t.Path[:i]
	}

	host, port, err := splitAuthority(authority)
	if err != nil {
		return nil, ProtocolError{err, line}
	}

	t.Host, err = name.TryParse(host)
	if err != nil {
		return nil, ProtocolError{err, line}
	}

	t.Port = port

	return t, nil
}

// splitAuthority splits the authority component of a URL into its host and
// port. IPv6 literals must be enclosed in brackets.
func splitAuthority(authority string) (host, port string, err error) {
	if strings.ContainsRune(authority, '@') {
		return "", "", fmt.Errorf("user information is not supported")
	}

	rest := authority

	if strings.HasPrefix(authority, "[") {
		end := strings.IndexByte(authority, ']')
		if end == -1 {
			return "", "", fmt.Errorf("unterminated IPv6 literal")
		}
		host = authority[1:end]
		rest = authority[end+1:]

		if ip := net.ParseIP(host); ip == nil || ip.To4() != nil {
			return "", "", fmt.Errorf("invalid IPv6 literal '%s'", host)
		}

		if rest != "" && rest[0] != ':' {
			return "", "", fmt.Errorf("unexpected characters after IPv6 literal")
		}
	} else if i := strings.IndexByte(authority, ':'); i != -1 {
		host = authority[:i]
		rest = authority[i:]
	} else {
		host = authority
		rest = ""
	}

	if host == "" {
		return "", "", fmt.Errorf("missing host")
	}

	if rest == "" {
		return host, DefaultPort, nil
	}

	port = rest[1:]
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 || strings.HasPrefix(port, "+") {
		return "", "", fmt.Errorf("invalid port '%s'", port)
	}

	return host, strconv.Itoa(n), nil
}

func malformed(line string) error {
	return ProtocolError{ErrMalformedRequestLine, line}
}
