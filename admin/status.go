package admin

import "fmt"

// Status is the result of a health-check.
type Status struct {
	IsHealthy bool
	Message   string
}

func (status Status) String() string {
	var s string
	if status.IsHealthy {
		s = "passed"
	} else {
		s = "failed"
	}

	return fmt.Sprintf(
		"Health-check %s: %s",
		s,
		status.Message,
	)
}

// Checker is an interface for querying the health of the proxy.
type Checker interface {
	// Check returns information about the health of the proxy.
	Check() Status
}
