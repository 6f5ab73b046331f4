package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cloudshop/uisuite/internal/browser"
	internalcli "github.com/cloudshop/uisuite/internal/cli"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/datagen"
	"github.com/cloudshop/uisuite/internal/models"
	"github.com/cloudshop/uisuite/internal/pages"
	"github.com/cloudshop/uisuite/internal/services"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Download the Playwright driver and Chromium",
		Action: func(c *cli.Context) error {
			return browser.Install()
		},
	}
}

// LoginCommand returns the login command
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with CLOUDSHOP_EMAIL and CLOUDSHOP_PASSWORD and report the result",
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.withCatalog(func(_ *services.Catalog, products *pages.ProductsPage) error {
				fmt.Fprintf(c.App.Writer, "Signed in, landed on %s\n", products.URL())
				return nil
			})
		},
	}
}

// CreateProductCommand returns the create-product command
func CreateProductCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-product",
		Usage: "Create a product, random unless --name is given, and record it in the ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "product name"},
			&cli.Int64Flag{Name: "price", Usage: "sale price"},
			&cli.BoolFlag{Name: "full", Usage: "fill every free-form field with random data"},
			&cli.Uint64Flag{Name: "seed", Usage: "random data seed (0 draws one)"},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			product := buildProduct(datagen.New(c.Uint64("seed")), c.Bool("full"), c.String("name"), c.Int64("price"), c.IsSet("price"))

			return e.withCatalog(func(catalog *services.Catalog, _ *pages.ProductsPage) error {
				record, report, err := catalog.Create(product)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Created %q (record %s)\n", record.Name, record.ID)
				if skipped := report.Skipped(); len(skipped) > 0 {
					fmt.Fprintf(c.App.Writer, "Skipped fields: %s\n", strings.Join(skipped, ", "))
				}
				return nil
			})
		},
	}
}

func buildProduct(gen *datagen.Generator, full bool, name string, price int64, priceSet bool) models.Product {
	product := gen.Product()
	if full {
		product = gen.FullProduct()
	}
	if name != "" {
		product.Name = name
	}
	if priceSet {
		product.Price = models.Int(price)
	}
	return product
}

// DeleteProductCommand returns the delete-product command
func DeleteProductCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete-product",
		Usage: "Delete a product by name and verify it is gone",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "product name", Required: true},
		},
		Action: func(c *cli.Context) error {
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			return e.withCatalog(func(catalog *services.Catalog, _ *pages.ProductsPage) error {
				if err := catalog.Delete(c.String("name")); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Deleted %q\n", c.String("name"))
				return nil
			})
		},
	}
}

// SandboxCommand returns the sandbox command
func SandboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Serve a local CloudShop stand-in for the end-to-end suite",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port", EnvVars: []string{"CLOUDSHOP_SANDBOX_PORT"}},
			&cli.BoolFlag{Name: "promo", Usage: "show the promo banner over the create button", EnvVars: []string{"CLOUDSHOP_SANDBOX_PROMO"}},
		},
		Action: func(c *cli.Context) error {
			serverConfig := config.LoadServerConfig(os.Getenv)
			if c.IsSet("port") {
				serverConfig.Port = c.String("port")
			}
			serverConfig.PromoBanner = c.Bool("promo")

			deps, err := internalcli.NewSandboxDependencies(serverConfig)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Sandbox account: %s\n", serverConfig.Email)
			return internalcli.RunServe(deps)
		},
	}
}

// errLedgerNotConfigured is returned by ledger when records only live as long as the process
var errLedgerNotConfigured = errors.New("the ledger needs Postgres: set POSTGRES_HOSTNAME and the other POSTGRES_* variables")

func requirePersistentLedger(getenv func(string) string) error {
	if !config.PostgresEnabled(getenv) {
		return errLedgerNotConfigured
	}
	return nil
}

// LedgerCommand returns the ledger command
func LedgerCommand() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "List products created by the suite that were never deleted, from the Postgres ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "run", Usage: "only this run (all runs when empty)"},
			&cli.BoolFlag{Name: "sweep", Usage: "delete the outstanding products through the browser"},
		},
		Action: func(c *cli.Context) error {
			if err := requirePersistentLedger(os.Getenv); err != nil {
				return err
			}
			e, err := newEnv(c)
			if err != nil {
				return err
			}
			defer e.Close()

			records, err := e.ledger.Outstanding(c.String("run"))
			if err != nil {
				return err
			}
			printRecords(c, records)

			if !c.Bool("sweep") || len(records) == 0 {
				return nil
			}
			return e.withCatalog(func(catalog *services.Catalog, _ *pages.ProductsPage) error {
				removed, err := catalog.Sweep(c.String("run"))
				fmt.Fprintf(c.App.Writer, "Removed %d of %d\n", len(removed), len(records))
				if err != nil {
					e.logger.Error("sweep incomplete", zap.Error(err))
					return errors.New("some products could not be deleted")
				}
				return nil
			})
		},
	}
}

func printRecords(c *cli.Context, records []*models.Record) {
	if len(records) == 0 {
		fmt.Fprintln(c.App.Writer, "Nothing outstanding")
		return
	}
	for _, r := range records {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\t%s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.RunID, r.Status, r.Name, r.Barcode)
	}
}
