package proxy

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// LogContext holds information about a proxied connection used for logging.
type LogContext struct {
	Logger      *log.Logger
	RemoteAddr  string
	RequestLine string
	Target      *Target
	IsCacheHit  bool
	Metrics     Metrics

	buffer bytes.Buffer
}

// Log writes a log entry for the context to the logger.
//
// The log format consists of the following space separated fields:
//
// - event type
// - remote address
// - upstream address
// - request line
// - time to first byte
// - time to last byte
// - bytes inbound
// - bytes outbound
// - message (optional)
//
// The event types are:
// - "HIT"  - response served from the cache
// - "MISS" - response fetched from the upstream server
// - "FAIL" - connection aborted, see message
//
// All fields are always present, except for the message which is optional. If a
// field value is unknown or not applicable, a hyphen is used in place. If a
// field value contains spaces or other special characters it is rendered as a
// double-quoted Go string.
func (ctx *LogContext) Log(err error) {
	if ctx.Logger == nil {
		return
	}

	// event type
	if err != nil {
		ctx.write("FAIL")
	} else if ctx.IsCacheHit {
		ctx.write("HIT")
	} else {
		ctx.write("MISS")
	}

	// remote address
	ctx.write(ctx.RemoteAddr)

	// upstream
	if ctx.Target == nil {
		ctx.write("")
	} else {
		ctx.write(ctx.Target.Address())
	}

	// request line
	ctx.write(ctx.RequestLine)

	// time to first byte
	if ctx.Metrics.IsFirstByteSent() {
		ctx.write(
			"f/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToFirstByte),
		)
	} else {
		ctx.write("")
	}

	// time to last byte
	if ctx.Metrics.IsLastByteSent() {
		ctx.write(
			"l/%sms",
			humanize.FormatFloat("#,###.##", ctx.Metrics.TimeToLastByte),
		)
	} else {
		ctx.write("")
	}

	// bytes in + out
	ctx.write(
		"i/%s",
		humanize.FormatFloat("#,###.", float64(ctx.Metrics.BytesIn)),
	)
	ctx.write(
		"o/%s",
		humanize.FormatFloat("#,###.", float64(ctx.Metrics.BytesOut)),
	)

	// optional message
	if err != nil {
		ctx.write(err.Error())
	}

	ctx.Logger.Println(ctx.buffer.String())
	ctx.buffer.Reset()
}

// write is a helper function that writes to a string to a buffer, quoting the
// string if it contains whitespace or special characters.
func (ctx *LogContext) write(str string, v ...interface{}) {
	if ctx.buffer.Len() != 0 {
		ctx.buffer.WriteRune(' ')
	}

	if len(v) != 0 {
		str = fmt.Sprintf(str, v...)
	}

	if str == "" {
		ctx.buffer.WriteRune('-')
		return
	}

	if strings.ContainsAny(str, " \a\b\f\n\r\t\v\"") {
		ctx.buffer.WriteString(strconv.Quote(str))
	} else {
		ctx.buffer.WriteString(str)
	}
}
