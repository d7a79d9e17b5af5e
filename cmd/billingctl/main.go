package main

import (
	"fmt"
	"os"

	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/app"
	"github.com/fekuna/omnipos-billing-service/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	appLogger := app.NewLogger(config.LoadEnv())
	defer appLogger.Sync()

	if err := cli.NewRootCommand(appLogger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
