// Command paramframe decomposes configuration files into versioned
// parameter sets and moves them through a row-oriented connector.
package main

import (
	"os"

	"github.com/custodia-labs/paramframe/internal/adapters/driving/cli"
	"github.com/custodia-labs/paramframe/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)

	app := &app{}
	cli.SetSetup(app.setup)

	err := cli.Execute()
	if closeErr := app.close(); closeErr != nil {
		logger.Error("closing connector: %v", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
