package proxy_test

import (
	"bytes"
	"errors"
	"log"

	"github.com/icecave/forager/name"
	"github.com/icecave/forager/proxy"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LogContext", func() {
	var (
		buffer  *bytes.Buffer
		subject *proxy.LogContext
	)

	BeforeEach(func() {
		buffer = &bytes.Buffer{}
		subject = &proxy.LogContext{
			Logger:      log.New(buffer, "", 0),
			RemoteAddr:  "10.0.0.1:5000",
			RequestLine: "GET http://example.com/ HTTP/1.1",
		}
	})

	It("uses hyphens for unknown fields", func() {
		subject.Log(nil)
		Expect(buffer.String()).To(Equal(
			"MISS 10.0.0.1:5000 - \"GET http://example.com/ HTTP/1.1\" - - i/0 o/0\n",
		))
	})

	It("logs cache hits", func() {
		subject.IsCacheHit = true
		subject.Metrics.BytesIn = 1234
		subject.Metrics.BytesOut = 1234

		subject.Log(nil)
		Expect(buffer.String()).To(Equal(
			"HIT 10.0.0.1:5000 - \"GET http://example.com/ HTTP/1.1\" - - i/1,234 o/1,234\n",
		))
	})

	It("logs the upstream address and the error message", func() {
		subject.Target = &proxy.Target{
			Host: name.Host{Unicode: "example.com", Punycode: "example.com"},
			Port: "80",
		}

		subject.Log(errors.New("<error>"))
		Expect(buffer.String()).To(Equal(
			"FAIL 10.0.0.1:5000 example.com:80 \"GET http://example.com/ HTTP/1.1\" - - i/0 o/0 <error>\n",
		))
	})

	It("does nothing without a logger", func() {
		subject.Logger = nil
		subject.Log(nil)
		Expect(buffer.Len()).To(BeZero())
	})
})
