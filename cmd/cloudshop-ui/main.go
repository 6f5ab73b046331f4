package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var version = "0.1.0"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "cloudshop-ui",
		Usage:   "Drive a CloudShop account through the browser",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "run-id",
				Usage:   "ledger run the created products are recorded under (random when empty)",
				EnvVars: []string{"CLOUDSHOP_RUN_ID"},
			},
		},
		Commands: []*cli.Command{
			InstallCommand(),
			LoginCommand(),
			CreateProductCommand(),
			DeleteProductCommand(),
			SandboxCommand(),
			LedgerCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
