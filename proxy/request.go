package proxy

import (
	"bufio"
	"io"
)

const (
	// MaxLineLength is the longest request or header line accepted from a
	// client, including the line terminator.
	MaxLineLength = 8192

	// MaxHeaderLines is the largest number of header lines accepted from a
	// client, not including the request line.
	MaxHeaderLines = 100
)

// Request is the header section of a client request, as received.
type Request struct {
	// Lines holds the request line followed by each header line, in order,
	// without line terminators.
	Lines []string

	// Size is the number of bytes read, including the blank line.
	Size int64
}

// RequestLine returns the first line of the request.
func (r *Request) RequestLine() string {
	return r.Lines[0]
}

// NewReader returns a reader suitable for ReadRequest.
func NewReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, MaxLineLength)
}

// ReadRequest reads lines from r until the blank line that ends the header
// section.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	req := &Request{}

	for {
		line, err := r.ReadSlice('\n')
		req.Size += int64(len(line))

		if err == bufio.ErrBufferFull {
			return nil, ProtocolError{Inner: ErrLineTooLong}
		} else if err == io.EOF {
			if len(req.Lines) == 0 && len(line) == 0 {
				return nil, IOError{"read", "client", io.EOF}
			}
			return nil, IOError{"read", "client", io.ErrUnexpectedEOF}
		} else if err != nil {
			return nil, IOError{"read", "client", err}
		}

		text := trimLineTerminator(line)

		if text == "" {
			if len(req.Lines) == 0 {
				return nil, ProtocolError{Inner: ErrMalformedRequestLine}
			}
			return req, nil
		}

		if len(req.Lines) > MaxHeaderLines {
			return nil, ProtocolError{Inner: ErrTooManyHeaders}
		}

		req.Lines = append(req.Lines, text)
	}
}

func trimLineTerminator(line []byte) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}

	return string(line[:n])
}
