package pages

import (
	"fmt"

	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/models"
	"go.uber.org/zap"
)

var (
	createTargets = []browser.Query{
		{Role: browser.RoleLink, Text: "Создать товар"},
		{Role: browser.RoleButton, Text: "Создать товар"},
	}
	bannerCloseTargets = []browser.Query{
		{Role: browser.RoleButton, Text: "Закрыть"},
		{Role: browser.RoleLink, Text: "Закрыть"},
	}
	searchBox   = browser.Query{Role: browser.RoleSearchInput}
	anyRow      = browser.Query{Role: browser.RoleRow}
	editTargets = []browser.Query{
		{Role: browser.RoleButton, Text: "Редактировать"},
		{Role: browser.RoleLink, Text: "Редактировать"},
	}
	rowCheckbox    = browser.Query{Role: browser.RoleCheckbox}
	actionsTargets = []browser.Query{
		{Role: browser.RoleDropdown, Text: "Действия"},
		{Role: browser.RoleButton, Text: "Действия"},
		{Role: browser.RoleLink, Text: "Действия"},
	}
	deleteTargets = []browser.Query{
		{Role: browser.RoleOption, Text: "Удалить"},
		{Role: browser.RoleLink, Text: "Удалить"},
		{Role: browser.RoleButton, Text: "Удалить"},
	}
	confirmTargets = []browser.Query{
		browser.Query{Role: browser.RoleButton, Text: "Да", ExactText: true}.In(dialogQuery),
		{Role: browser.RoleButton, Text: "Да", ExactText: true},
	}
)

// ProductsPage drives the catalog list and the product form it opens
type ProductsPage struct {
	BasePage
	form *ProductForm
}

// NewProductsPage returns a catalog page object
func NewProductsPage(page browser.Page, cfg *config.CloudShopConfig, logger *zap.Logger) *ProductsPage {
	return &ProductsPage{
		BasePage: newBasePage(page, cfg, logger, "pages.products"),
		form:     NewProductForm(page, cfg, logger),
	}
}

// Form returns the product form driver
func (p *ProductsPage) Form() *ProductForm {
	return p.form
}

// Open navigates to the catalog list
func (p *ProductsPage) Open() error {
	return p.open(p.cfg.CatalogURL(), true)
}

// ClickCreateProduct opens the create form.
// A promo banner sometimes swallows the first click; it is closed and the click repeated.
// When the form is still closed the create address is opened directly.
func (p *ProductsPage) ClickCreateProduct() error {
	if err := p.clickFirst("open create form", "Создать товар", anyButton, createTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.CreateClick)

	if p.isVisible(modalQuery) {
		return nil
	}

	if banner, ok := p.usable(bannerCloseTargets...); ok {
		if err := banner.Click(); err == nil {
			p.logger.Info("promo banner closed")
			p.page.Wait(p.cfg.Timing.Banner)
		}
	}
	if err := p.clickFirst("open create form", "Создать товар", anyButton, createTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.CreateClick)
	if p.isVisible(modalQuery) {
		return nil
	}

	p.logger.Info("create form did not open, navigating to it", zap.String("url", p.cfg.CreateURL()))
	if err := p.open(p.cfg.CreateURL(), true); err != nil {
		return err
	}
	if !p.isVisible(modalQuery) {
		return &ActionError{Action: "open create form", Target: "product form", Candidates: p.candidates(anyButton)}
	}
	return nil
}

// FillProductForm populates the open form
func (p *ProductsPage) FillProductForm(product models.Product) (FillReport, error) {
	return p.form.Fill(product)
}

// ClickSave submits the open form and waits for the list to refresh
func (p *ProductsPage) ClickSave() error {
	if err := p.form.Submit(); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.Save)
	return nil
}

// CreateProduct opens the form, fills it and saves
func (p *ProductsPage) CreateProduct(product models.Product) (FillReport, error) {
	if err := product.Validate(); err != nil {
		return FillReport{}, err
	}
	if err := p.ClickCreateProduct(); err != nil {
		return FillReport{}, err
	}
	report, err := p.FillProductForm(product)
	if err != nil {
		return report, err
	}
	if err := p.ClickSave(); err != nil {
		return report, err
	}
	p.logger.Info("product created", zap.String("name", product.Name), zap.Strings("skipped", report.Skipped()))
	return report, nil
}

// SearchProduct types name into the list search box
func (p *ProductsPage) SearchProduct(name string) error {
	search, ok := p.usable(searchBox)
	if !ok {
		return &ActionError{Action: "search catalog", Target: "search", Candidates: p.candidates(anyInput)}
	}
	if err := search.Fill(name); err != nil {
		return err
	}
	if err := search.Press("Enter"); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.FillSettle)
	return nil
}

// IsProductInList reports whether name appears anywhere in the visible list
func (p *ProductsPage) IsProductInList(name string) (bool, error) {
	return p.containsText(name)
}

// ProductsCount returns the number of rows in the list
func (p *ProductsPage) ProductsCount() (int, error) {
	rows, err := p.page.Query(anyRow)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// productRow matches the row with a cell named exactly name, so "Товар 1" never picks "Товар 10"
func productRow(name string) browser.Query {
	return browser.Query{Role: browser.RoleRow, Cell: name}
}

func (p *ProductsPage) row(name string) (browser.Control, error) {
	if row, ok := p.usable(productRow(name)); ok {
		return row, nil
	}
	return nil, &ActionError{Action: "find product row", Target: name, Candidates: p.candidates(anyRow)}
}

// hasRow reports whether the current list shows a row named exactly name
func (p *ProductsPage) hasRow(name string) (bool, error) {
	rows, err := p.page.Query(productRow(name))
	if err != nil {
		return false, err
	}
	_, ok := browser.FirstVisible(rows)
	return ok, nil
}

// ClickProductRow opens the product card by clicking its row
func (p *ProductsPage) ClickProductRow(name string) error {
	row, err := p.row(name)
	if err != nil {
		return err
	}
	if err := row.Click(); err != nil {
		return fmt.Errorf("click product row %q: %w", name, err)
	}
	p.page.Wait(p.cfg.Timing.CreateClick)
	return nil
}

// ClickEditButton switches the opened card into edit mode
func (p *ProductsPage) ClickEditButton() error {
	if err := p.clickFirst("edit product", "Редактировать", anyButton, editTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.CreateClick)
	return nil
}

// EditProduct opens the card of name, applies the provided fields of changes and saves
func (p *ProductsPage) EditProduct(name string, changes models.Product) (FillReport, error) {
	if err := p.ClickProductRow(name); err != nil {
		return FillReport{}, err
	}
	if err := p.ClickEditButton(); err != nil {
		return FillReport{}, err
	}
	report := p.form.Update(changes)
	if err := p.ClickSave(); err != nil {
		return report, err
	}
	p.logger.Info("product edited", zap.String("name", name), zap.Strings("fields", report.Filled()))
	return report, nil
}

// DeleteProduct selects the row of name and deletes it through the actions menu.
// Each of the four steps fails with an ActionError when its control is missing.
func (p *ProductsPage) DeleteProduct(name string) error {
	row, err := p.row(name)
	if err != nil {
		return err
	}
	checkboxes, err := row.Query(rowCheckbox)
	if err != nil {
		return err
	}
	checkbox, ok := browser.FirstUsable(checkboxes)
	if !ok {
		return &ActionError{Action: "select product", Target: name + " checkbox", Candidates: p.candidates(rowCheckbox)}
	}
	if err := checkbox.Click(); err != nil {
		return fmt.Errorf("select product %q: %w", name, err)
	}

	if err := p.clickFirst("open actions menu", "Действия", anyButton, actionsTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.Dropdown)

	if err := p.clickFirst("choose delete", "Удалить", browser.Query{Role: browser.RoleOption}, deleteTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.Dropdown)

	if err := p.clickFirst("confirm delete", "Да", anyButton, confirmTargets...); err != nil {
		return err
	}
	p.page.Wait(p.cfg.Timing.Save)

	p.logger.Info("product deleted", zap.String("name", name))
	return nil
}

// VerifyDeleted checks the product is gone according to the configured DeleteCheck.
// It leaves the browser on whichever list it looked at last.
func (p *ProductsPage) VerifyDeleted(name string) (bool, error) {
	switch p.cfg.DeleteCheck {
	case config.DeleteCheckTrash:
		return p.inTrash(name)
	case config.DeleteCheckAbsent:
		return p.absentFromList(name)
	default:
		trashed, err := p.inTrash(name)
		if err != nil {
			return false, err
		}
		if trashed {
			return true, nil
		}
		return p.absentFromList(name)
	}
}

func (p *ProductsPage) inTrash(name string) (bool, error) {
	if err := p.open(p.cfg.TrashURL(), true); err != nil {
		return false, err
	}
	found, err := p.hasRow(name)
	p.logger.Info("trash checked", zap.String("name", name), zap.Bool("found", found))
	return found, err
}

func (p *ProductsPage) absentFromList(name string) (bool, error) {
	if err := p.Open(); err != nil {
		return false, err
	}
	found, err := p.hasRow(name)
	if err != nil {
		return false, err
	}
	p.logger.Info("catalog checked", zap.String("name", name), zap.Bool("found", found))
	return !found, nil
}
