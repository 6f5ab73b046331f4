package services

import (
	"fmt"

	"github.com/cloudshop/uisuite/internal/logging"
	"github.com/cloudshop/uisuite/internal/models"
	"github.com/cloudshop/uisuite/internal/pages"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CatalogPage is the part of the catalog page object the operator workflows drive
type CatalogPage interface {
	Open() error
	CreateProduct(product models.Product) (pages.FillReport, error)
	EditProduct(name string, changes models.Product) (pages.FillReport, error)
	DeleteProduct(name string) error
	VerifyDeleted(name string) (bool, error)
	IsProductInList(name string) (bool, error)
}

// Catalog runs whole product workflows and keeps the ledger in step with the account
type Catalog struct {
	page   CatalogPage
	ledger LedgerService
	runID  string
	logger *zap.Logger
}

// NewCatalog returns workflows for one run
func NewCatalog(page CatalogPage, ledger LedgerService, runID string, logger *zap.Logger) *Catalog {
	return &Catalog{
		page:   page,
		ledger: ledger,
		runID:  runID,
		logger: logging.OrNop(logger).Named("catalog").With(zap.String("run_id", runID)),
	}
}

// Create saves product and checks it shows up in the list
func (c *Catalog) Create(product models.Product) (*models.Record, pages.FillReport, error) {
	if err := c.page.Open(); err != nil {
		return nil, pages.FillReport{}, fmt.Errorf("open catalog: %w", err)
	}

	report, err := c.page.CreateProduct(product)
	if err != nil {
		return nil, report, fmt.Errorf("create product %q: %w", product.Name, err)
	}

	record, err := c.ledger.Track(c.runID, product)
	if err != nil {
		return nil, report, err
	}

	found, err := c.page.IsProductInList(product.Name)
	if err != nil {
		return record, report, fmt.Errorf("look up product %q: %w", product.Name, err)
	}
	if !found {
		return record, report, fmt.Errorf("product %q is not in the list after saving", product.Name)
	}

	c.logger.Info("product created", zap.String("name", product.Name), zap.String("record", record.ID))
	return record, report, nil
}

// Edit applies changes to the product called name
func (c *Catalog) Edit(name string, changes models.Product) (pages.FillReport, error) {
	if err := c.page.Open(); err != nil {
		return pages.FillReport{}, fmt.Errorf("open catalog: %w", err)
	}

	report, err := c.page.EditProduct(name, changes)
	if err != nil {
		return report, fmt.Errorf("edit product %q: %w", name, err)
	}

	if changes.Name != "" && changes.Name != name {
		if err := c.ledger.Rename(name, changes.Name); err != nil {
			return report, err
		}
	}

	c.logger.Info("product edited", zap.String("name", name), zap.Strings("fields", report.Filled()))
	return report, nil
}

// Delete removes the product called name and verifies it is gone
func (c *Catalog) Delete(name string) error {
	if err := c.page.Open(); err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}

	if err := c.page.DeleteProduct(name); err != nil {
		return fmt.Errorf("delete product %q: %w", name, err)
	}

	deleted, err := c.page.VerifyDeleted(name)
	if err != nil {
		return fmt.Errorf("verify deletion of %q: %w", name, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", pages.ErrNotDeleted, name)
	}

	if err := c.ledger.Trash(name); err != nil {
		return err
	}

	c.logger.Info("product deleted", zap.String("name", name))
	return nil
}

// Outstanding lists the products this run created and has not deleted
func (c *Catalog) Outstanding() ([]*models.Record, error) {
	return c.ledger.Outstanding(c.runID)
}

// Sweep deletes every outstanding product of runID recorded in the ledger.
// It continues past failures and returns the names it removed with every error combined.
func (c *Catalog) Sweep(runID string) ([]string, error) {
	records, err := c.ledger.Outstanding(runID)
	if err != nil {
		return nil, err
	}

	var (
		removed []string
		errs    error
		// Delete trashes every record of a name, so a name is deleted once
		done = map[string]bool{}
	)
	for _, record := range records {
		if done[record.Name] {
			continue
		}
		done[record.Name] = true
		if err := c.Delete(record.Name); err != nil {
			c.logger.Warn("sweep failed", zap.String("name", record.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		removed = append(removed, record.Name)
	}
	return removed, errs
}
