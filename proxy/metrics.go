package proxy

import "time"

// Metrics stores basic measurements for a proxied connection.
type Metrics struct {
	// BytesIn is the total number of response bytes received from the
	// upstream server, or read from the cache.
	BytesIn int64

	// BytesOut is the total number of response bytes sent to the client.
	BytesOut int64

	StartedAt       time.Time
	TimeToFirstByte float64
	TimeToLastByte  float64
}

// Start the timer.
func (metrics *Metrics) Start() {
	metrics.StartedAt = time.Now()
}

// FirstByteSent records the time offset to the first byte.
func (metrics *Metrics) FirstByteSent() {
	metrics.TimeToFirstByte = metrics.elapsed()
}

// IsFirstByteSent returns true if the first byte has been sent.
func (metrics *Metrics) IsFirstByteSent() bool {
	return metrics.TimeToFirstByte > 0
}

// LastByteSent records the time offset to the last byte.
func (metrics *Metrics) LastByteSent() {
	metrics.TimeToLastByte = metrics.elapsed()
}

// IsLastByteSent returns true if the last byte has been sent.
func (metrics *Metrics) IsLastByteSent() bool {
	return metrics.TimeToLastByte > 0
}

// elapsed returns the milliseconds since Start, never less than one
// microsecond so that a recorded time is distinguishable from none.
func (metrics *Metrics) elapsed() float64 {
	d := time.Since(metrics.StartedAt)
	if d < time.Microsecond {
		d = time.Microsecond
	}

	return float64(d) / float64(time.Millisecond)
}
