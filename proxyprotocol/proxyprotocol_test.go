package proxyprotocol_test

import (
	"fmt"
	"io/ioutil"
	"net"

	"github.com/icecave/forager/proxyprotocol"
	proxyproto "github.com/pires/go-proxyproto"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Conn", func() {
	var server, client net.Conn

	BeforeEach(func() {
		server, client = net.Pipe()
	})

	AfterEach(func() {
		server.Close()
	})

	// send writes a PROXY header of the given version followed by payload,
	// then closes the client side of the pipe.
	send := func(version byte, payload string) {
		go func() {
			defer GinkgoRecover()

			header := &proxyproto.Header{
				Command:            proxyproto.PROXY,
				DestinationAddress: net.ParseIP("127.0.0.1"),
				DestinationPort:    12345,
				SourceAddress:      net.ParseIP("127.127.127.127"),
				SourcePort:         31337,
				TransportProtocol:  proxyproto.TCPv4,
				Version:            version,
			}
			n, err := header.WriteTo(client)
			Expect(n).To(BeNumerically(">", 0))
			Expect(err).NotTo(HaveOccurred())

			fmt.Fprint(client, payload)
			Expect(client.Close()).To(Succeed())
		}()
	}

	It("does not read from the connection until it is used", func() {
		conn := proxyprotocol.NewConn(server)

		// Nothing has been written to the pipe, so any read would block.
		Expect(conn.Close()).To(Succeed())
	})

	It("accepts PROXY v2 connections", func() {
		send(2, "")

		conn := proxyprotocol.NewConn(server)
		Expect(conn.RemoteAddr().String()).To(Equal("127.127.127.127:31337"))
		Expect(conn.LocalAddr().String()).To(Equal("127.0.0.1:12345"))
	})

	It("accepts PROXY v1 connections", func() {
		send(1, "")

		conn := proxyprotocol.NewConn(server)
		Expect(conn.RemoteAddr().String()).To(Equal("127.127.127.127:31337"))
		Expect(conn.LocalAddr().String()).To(Equal("127.0.0.1:12345"))

		header, err := conn.Header()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(header.Version).To(BeEquivalentTo(1))
	})

	It("strips the header from the stream", func() {
		send(1, "GET http://example.com/ HTTP/1.0\r\n")

		conn := proxyprotocol.NewConn(server)
		data, err := ioutil.ReadAll(conn)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(string(data)).To(Equal("GET http://example.com/ HTTP/1.0\r\n"))
	})

	It("accepts non-PROXY connections", func() {
		go func() {
			defer GinkgoRecover()

			fmt.Fprint(client, "test\n")
			Expect(client.Close()).To(Succeed())
		}()

		conn := proxyprotocol.NewConn(server)
		Expect(conn.RemoteAddr().String()).To(Equal("pipe"))
		Expect(conn.LocalAddr().String()).To(Equal("pipe"))

		header, err := conn.Header()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(header).To(BeNil())

		data, err := ioutil.ReadAll(conn)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(string(data)).To(Equal("test\n"))
	})
})
