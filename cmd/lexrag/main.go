// Command lexrag answers questions about legal documents.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/lexrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexrag/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal.
	_ = godotenv.Load()

	app, err := newApp("")
	if err != nil {
		logger.Error(err, "Failed to start lexrag")
		return 1
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(app.services)
	cli.SetServiceLoader(app.load)
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
