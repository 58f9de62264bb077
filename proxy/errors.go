package proxy

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMethod indicates a request method other than GET.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrMalformedRequestLine indicates a request line that is not of the form
	// "METHOD http://HOST[:PORT]/PATH VERSION".
	ErrMalformedRequestLine = errors.New("malformed request line")

	// ErrLineTooLong indicates a request or header line that does not fit in
	// the read buffer.
	ErrLineTooLong = errors.New("line too long")

	// ErrTooManyHeaders indicates a request with more header lines than are
	// accepted.
	ErrTooManyHeaders = errors.New("too many header lines")
)

// ProtocolError is a malformed or unsupported client request. The connection
// is closed without contacting any upstream server.
type ProtocolError struct {
	Inner error
	Line  string
}

func (err ProtocolError) Error() string {
	if err.Line == "" {
		return fmt.Sprintf("protocol error: %s", err.Inner)
	}

	return fmt.Sprintf("protocol error: %s: %q", err.Inner, err.Line)
}

// Unwrap returns the underlying error.
func (err ProtocolError) Unwrap() error {
	return err.Inner
}

// ConnectError indicates that the upstream server could not be contacted.
type ConnectError struct {
	Address string
	Inner   error
}

func (err ConnectError) Error() string {
	return fmt.Sprintf("unable to connect to %s: %s", err.Address, err.Inner)
}

// Unwrap returns the underlying error.
func (err ConnectError) Unwrap() error {
	return err.Inner
}

// IOError is a failure sending to, receiving from, or closing either side of
// a proxied connection.
type IOError struct {
	// Op is the failed operation, one of "read", "write" or "close".
	Op string

	// Peer is the side of the connection, either "client" or "upstream".
	Peer string

	Inner error
}

func (err IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", err.Op, err.Peer, err.Inner)
}

// Unwrap returns the underlying error.
func (err IOError) Unwrap() error {
	return err.Inner
}
