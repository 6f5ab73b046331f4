package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/database"
	"github.com/cloudshop/uisuite/internal/logging"
	"github.com/cloudshop/uisuite/internal/pages"
	"github.com/cloudshop/uisuite/internal/repository"
	"github.com/cloudshop/uisuite/internal/services"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// env is what every command starts from: configuration, a logger and the ledger
type env struct {
	cfg    *config.CloudShopConfig
	logger *zap.Logger
	ledger services.LedgerService
	runID  string
	close  func() error
}

func newEnv(c *cli.Context) (*env, error) {
	logger, err := logging.New(config.LoadLogConfig(os.Getenv))
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadCloudShopConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := c.String("run-id")
	if runID == "" {
		runID = uuid.NewString()
	}

	e := &env{cfg: cfg, logger: logger.With(zap.String("run_id", runID)), runID: runID, close: func() error { return nil }}
	if err := e.openLedger(); err != nil {
		return nil, err
	}
	return e, nil
}

// openLedger uses Postgres when it is configured and an in-memory ledger otherwise
func (e *env) openLedger() error {
	if !config.PostgresEnabled(os.Getenv) {
		e.logger.Warn("POSTGRES_HOSTNAME not set, created products are only tracked for this process")
		e.ledger = services.NewLedgerService(repository.NewMemoryRecordRepository())
		return nil
	}

	if err := database.Connect(os.Getenv); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	e.logger.Info("connected to ledger database")
	e.ledger = services.NewLedgerService(repository.NewRecordRepository())
	e.close = database.Close
	return nil
}

// Close releases the ledger and flushes the logger
func (e *env) Close() error {
	err := e.close()
	// stderr sync fails on some terminals; that is not worth reporting
	_ = e.logger.Sync()
	return err
}

// withCatalog signs in with the configured account and hands fn the catalog workflows
func (e *env) withCatalog(fn func(catalog *services.Catalog, products *pages.ProductsPage) error) (err error) {
	if err := e.cfg.RequireCredentials(); err != nil {
		return err
	}

	session, err := browser.Launch(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, session.Close()) }()

	page, err := session.NewPage()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, page.Close()) }()

	if err := pages.NewLoginPage(page, e.cfg, e.logger).SignIn(); err != nil {
		return err
	}

	products := pages.NewProductsPage(page, e.cfg, e.logger)
	fnErr := fn(services.NewCatalog(products, e.ledger, e.runID, e.logger), products)
	if fnErr != nil {
		path := filepath.Join(e.cfg.ScreenshotDir, browser.ScreenshotName("cli_"+e.runID))
		if shotErr := page.Screenshot(path); shotErr == nil {
			e.logger.Info("screenshot saved", zap.String("path", path))
		}
	}
	return fnErr
}
