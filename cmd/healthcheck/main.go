package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/icecave/forager/admin"
	"github.com/icecave/forager/cmd"
)

func main() {
	config := cmd.GetConfigFromEnvironment()

	if config.AdminPort == "" {
		fmt.Println("ADMIN_PORT is not set, there is nothing to check.")
		os.Exit(1)
	}

	checker := admin.HTTPChecker{
		Address: ":" + config.AdminPort,
		Client: &http.Client{
			Timeout: config.CheckTimeout,
		},
	}

	status := checker.Check()
	fmt.Println(status.Message)
	if !status.IsHealthy {
		os.Exit(1)
	}
}
