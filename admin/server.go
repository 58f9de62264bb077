package admin

import (
	"log"
	"net"
	"net/http"
)

// Serve serves handler on listener until the listener fails. The failure is
// logged; it does not stop the proxy.
func Serve(listener net.Listener, handler http.Handler, logger *log.Logger) {
	s := http.Server{
		Handler:  handler,
		ErrorLog: logger,
	}

	if err := s.Serve(listener); err != nil && logger != nil {
		logger.Printf("Admin listener on %s stopped: %s", listener.Addr(), err)
	}
}
