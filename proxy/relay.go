package proxy

import (
	"io"
)

// chunkSize is the size of each read from the upstream server.
const chunkSize = 8192

// relay copies the upstream response to the client as it arrives, until the
// upstream server closes the connection.
//
// It returns the first limit bytes of the response in body, and the total
// size of the response. If size exceeds limit, body is nil.
func relay(
	client io.Writer,
	upstream io.Reader,
	limit int64,
	metrics *Metrics,
) (body []byte, size int64, err error) {
	chunk := make([]byte, chunkSize)

	for {
		n, rerr := upstream.Read(chunk)

		if n > 0 {
			metrics.BytesIn += int64(n)

			if !metrics.IsFirstByteSent() {
				metrics.FirstByteSent()
			}

			w, werr := client.Write(chunk[:n])
			metrics.BytesOut += int64(w)
			if werr != nil {
				return nil, size, IOError{"write", "client", werr}
			}

			if size+int64(n) <= limit {
				body = append(body, chunk[:n]...)
			} else {
				body = nil
			}
			size += int64(n)
		}

		if rerr == io.EOF {
			metrics.LastByteSent()
			return body, size, nil
		} else if rerr != nil {
			return nil, size, IOError{"read", "upstream", rerr}
		}
	}
}
