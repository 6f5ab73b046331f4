package pages

import (
	"testing"

	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/browser/browsertest"
	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeShop is a catalog screen backed by a product list and a trash bin
type fakeShop struct {
	cfg *config.CloudShopConfig
	dom *browsertest.DOM

	products []string
	trash    []string
	// keepsTrash is false for accounts where deleted products vanish entirely
	keepsTrash bool
	// banner swallows clicks on the create link until closed
	banner bool
	// broken removes one control from the catalog by its caption
	broken string

	editing    string
	checkboxes map[string]*node
	nameInput  *node
	priceInput *node
}

func newFakeShop(cfg *config.CloudShopConfig, products ...string) *fakeShop {
	s := &fakeShop{cfg: cfg, products: products, keepsTrash: true}
	s.dom = browsertest.New(cfg.CatalogURL())
	s.dom.Route(cfg.CatalogURL(), func(*browsertest.DOM) { s.renderCatalog() })
	s.dom.Route(cfg.TrashURL(), func(*browsertest.DOM) { s.renderTrash() })
	s.renderCatalog()
	return s
}

func (s *fakeShop) page() *ProductsPage {
	return NewProductsPage(s.dom, s.cfg, nil)
}

func (s *fakeShop) renderCatalog() {
	s.editing = ""
	s.checkboxes = map[string]*node{}
	s.nameInput = &node{Role: browser.RoleTextInput, Placeholder: "Наименование"}
	s.priceInput = &node{Role: browser.RoleNumberInput}

	edit := browsertest.Button("Редактировать")
	edit.OnClick = func(*browsertest.DOM) {
		s.nameInput.Disabled = false
		s.priceInput.Disabled = false
	}
	save := &node{Role: browser.RoleButton, Class: "ui button green", Text: "Сохранить"}
	save.OnClick = func(*browsertest.DOM) { s.save() }

	modal := browsertest.Modal(
		&node{Role: browser.RoleTextInput, Placeholder: "Поиск по справочнику"},
		s.nameInput,
		browsertest.Field("Цена продажи", s.priceInput),
		edit,
		save,
	)
	modal.Hidden = true

	banner := &node{Class: "promo", Children: []*node{{Text: "Новая версия кассы"}, browsertest.Button("Закрыть")}}
	banner.Children[1].OnClick = func(*browsertest.DOM) {
		s.banner = false
		banner.Hidden = true
	}
	banner.Hidden = !s.banner

	create := browsertest.Link("Создать товар")
	create.OnClick = func(*browsertest.DOM) {
		if s.banner {
			return
		}
		modal.Hidden = false
		edit.Hidden = true
	}

	dialog := &node{Role: browser.RoleDialog, Hidden: true, Children: []*node{
		{Text: "Удалить выбранные товары?"},
		browsertest.Button("Да"),
		browsertest.Button("Нет"),
	}}
	dialog.Children[1].OnClick = func(*browsertest.DOM) { s.deleteChecked() }

	actions := browsertest.Dropdown("Переместить", "Удалить")
	actions.Text = "Действия"
	actions.Children[1].Children[1].OnClick = func(*browsertest.DOM) { dialog.Hidden = false }

	body := []*node{
		banner,
		{Role: browser.RoleSearchInput},
		create,
		actions,
		dialog,
		modal,
	}
	for _, name := range s.products {
		row := browsertest.Row(name, "1000 ₽")
		product := name
		s.checkboxes[name] = row.Children[0]
		row.OnClick = func(*browsertest.DOM) {
			s.editing = product
			s.nameInput.Value = product
			s.nameInput.Disabled = true
			s.priceInput.Disabled = true
			modal.Hidden = false
		}
		body = append(body, row)
	}

	for _, e := range body {
		s.breakControl(e)
	}
	s.dom.SetBody(body...)
}

func (s *fakeShop) breakControl(e *node) {
	if s.broken == "" {
		return
	}
	if e.Text == s.broken {
		e.Hidden = true
	}
	for _, c := range e.Children {
		s.breakControl(c)
	}
}

func (s *fakeShop) renderTrash() {
	body := []*node{{Text: "Корзина"}}
	for _, name := range s.trash {
		body = append(body, browsertest.Row(name))
	}
	s.dom.SetBody(body...)
}

func (s *fakeShop) save() {
	name := s.nameInput.Value
	if s.editing == "" {
		s.products = append(s.products, name)
	} else {
		for i, p := range s.products {
			if p == s.editing {
				s.products[i] = name
			}
		}
	}
	s.renderCatalog()
}

func (s *fakeShop) deleteChecked() {
	var kept []string
	for _, name := range s.products {
		if s.checkboxes[name].Checked {
			if s.keepsTrash {
				s.trash = append(s.trash, name)
			}
			continue
		}
		kept = append(kept, name)
	}
	s.products = kept
	s.renderCatalog()
}

func TestProductsPage_CreateProduct(t *testing.T) {
	// GIVEN an empty catalog
	shop := newFakeShop(testConfig())
	products := shop.page()

	// WHEN a product is created with a name and a price
	report, err := products.CreateProduct(models.Product{Name: "Test Item", Price: models.Int(1000)})

	// THEN it is saved and can be found in the list
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, report.Filled())
	assert.Equal(t, []string{"Test Item"}, shop.products)

	found, err := products.IsProductInList("Test Item")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestProductsPage_CreateProduct_InvalidProduct(t *testing.T) {
	shop := newFakeShop(testConfig())

	_, err := shop.page().CreateProduct(models.Product{Name: "   "})

	assert.ErrorIs(t, err, models.ErrNameRequired)
	assert.Empty(t, shop.dom.Actions())
}

func TestProductsPage_ClickCreateProduct(t *testing.T) {
	t.Run("opens the form", func(t *testing.T) {
		shop := newFakeShop(testConfig())
		products := shop.page()

		require.NoError(t, products.ClickCreateProduct())
		assert.True(t, products.isVisible(modalQuery))
	})

	t.Run("closes the promo banner and retries", func(t *testing.T) {
		shop := newFakeShop(testConfig())
		shop.banner = true
		shop.renderCatalog()
		products := shop.page()

		require.NoError(t, products.ClickCreateProduct())
		assert.True(t, products.isVisible(modalQuery))
		assert.False(t, shop.banner)
	})

	t.Run("form never opens", func(t *testing.T) {
		shop := newFakeShop(testConfig())
		shop.banner = true
		shop.broken = "Закрыть"
		shop.renderCatalog()

		err := shop.page().ClickCreateProduct()

		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, "open create form", actionErr.Action)
	})

	t.Run("falls back to the create address", func(t *testing.T) {
		// GIVEN a banner that cannot be closed and a create address that opens the form
		cfg := testConfig()
		shop := newFakeShop(cfg)
		shop.banner = true
		shop.broken = "Закрыть"
		shop.renderCatalog()
		shop.dom.Route(cfg.CreateURL(), func(d *browsertest.DOM) {
			d.SetBody(browsertest.Modal(&node{Role: browser.RoleTextInput, Placeholder: "Наименование"}))
		})
		products := shop.page()

		// WHEN the create form is requested
		err := products.ClickCreateProduct()

		// THEN the form is open at the create address
		require.NoError(t, err)
		assert.Equal(t, cfg.CreateURL(), products.URL())
		assert.True(t, products.isVisible(modalQuery))
	})
}

func TestProductsPage_SearchProduct(t *testing.T) {
	shop := newFakeShop(testConfig(), "Авто Товар 101010")

	require.NoError(t, shop.page().SearchProduct("Авто"))

	fills := shop.dom.ActionsOf(browsertest.ActionFill)
	require.Len(t, fills, 1)
	assert.Equal(t, browser.RoleSearchInput, fills[0].Target.Role)
	assert.Equal(t, "Авто", fills[0].Value)
	presses := shop.dom.ActionsOf(browsertest.ActionPress)
	require.Len(t, presses, 1)
	assert.Equal(t, "Enter", presses[0].Value)
}

func TestProductsPage_ProductsCount(t *testing.T) {
	shop := newFakeShop(testConfig(), "A", "B", "C")

	count, err := shop.page().ProductsCount()

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestProductsPage_IsProductInList(t *testing.T) {
	shop := newFakeShop(testConfig(), "Тестовый Товар 120000")
	products := shop.page()

	tests := []struct {
		name string
		want bool
	}{
		{name: "Тестовый Товар 120000", want: true},
		{name: "Тестовый Товар", want: true},
		{name: "Другой Товар", want: false},
	}
	for _, tt := range tests {
		got, err := products.IsProductInList(tt.name)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("Expected IsProductInList(%q) to be %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestProductsPage_EditProduct(t *testing.T) {
	// GIVEN an existing product
	shop := newFakeShop(testConfig(), "Авто Товар 101010")
	products := shop.page()

	// WHEN its name and price are changed
	report, err := products.EditProduct("Авто Товар 101010", models.Product{
		Name:  "Авто Товар 101010 (EDITED)",
		Price: models.Int(2000),
	})

	// THEN the list shows the new name
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "price"}, report.Filled())
	assert.Equal(t, []string{"Авто Товар 101010 (EDITED)"}, shop.products)
	found, err := products.IsProductInList("(EDITED)")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestProductsPage_EditProduct_UnknownRow(t *testing.T) {
	shop := newFakeShop(testConfig(), "Авто Товар 101010")

	_, err := shop.page().EditProduct("Нет такого", models.Product{Price: models.Int(1)})

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "find product row", actionErr.Action)
	require.Len(t, actionErr.Candidates, 1)
	assert.Contains(t, actionErr.Candidates[0].Text, "Авто Товар 101010")
}

func TestProductsPage_DeleteProduct(t *testing.T) {
	// GIVEN two products
	shop := newFakeShop(testConfig(), "Оставить", "Удалить меня")
	products := shop.page()

	// WHEN one of them is deleted
	err := products.DeleteProduct("Удалить меня")

	// THEN only that one moves to the trash
	require.NoError(t, err)
	assert.Equal(t, []string{"Оставить"}, shop.products)
	assert.Equal(t, []string{"Удалить меня"}, shop.trash)

	deleted, err := products.VerifyDeleted("Удалить меня")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestProductsPage_DeleteProduct_SharedPrefix(t *testing.T) {
	tests := []struct {
		name    string
		check   config.DeleteCheck
		catalog []string
	}{
		{name: "longer name listed first", check: config.DeleteCheckEither, catalog: []string{"Товар 10", "Товар 1"}},
		{name: "longer name listed last", check: config.DeleteCheckEither, catalog: []string{"Товар 1", "Товар 10"}},
		{name: "checked in the trash", check: config.DeleteCheckTrash, catalog: []string{"Товар 10", "Товар 1"}},
		{name: "checked in the list", check: config.DeleteCheckAbsent, catalog: []string{"Товар 10", "Товар 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN products whose names share a prefix
			cfg := testConfig()
			cfg.DeleteCheck = tt.check
			shop := newFakeShop(cfg, tt.catalog...)
			products := shop.page()

			// WHEN the shorter one is deleted
			err := products.DeleteProduct("Товар 1")

			// THEN only it leaves the catalog and verification sees it gone
			require.NoError(t, err)
			assert.Equal(t, []string{"Товар 10"}, shop.products)
			assert.Equal(t, []string{"Товар 1"}, shop.trash)

			deleted, err := products.VerifyDeleted("Товар 1")
			require.NoError(t, err)
			assert.True(t, deleted)
		})
	}
}

func TestProductsPage_VerifyDeleted_SharedPrefix(t *testing.T) {
	// GIVEN "Товар 10" was trashed and "Товар 1" is still listed
	cfg := testConfig()
	shop := newFakeShop(cfg, "Товар 10", "Товар 1")
	products := shop.page()
	require.NoError(t, products.DeleteProduct("Товар 10"))

	for _, check := range []config.DeleteCheck{config.DeleteCheckTrash, config.DeleteCheckAbsent, config.DeleteCheckEither} {
		cfg.DeleteCheck = check

		// WHEN "Товар 1" is verified
		deleted, err := products.VerifyDeleted("Товар 1")

		// THEN the trashed longer name does not count for it
		require.NoError(t, err)
		if deleted {
			t.Errorf("Expected VerifyDeleted(%q) with %s to be false", "Товар 1", check)
		}
	}
}

func TestProductsPage_EditProduct_SharedPrefix(t *testing.T) {
	shop := newFakeShop(testConfig(), "Товар 10", "Товар 1")

	_, err := shop.page().EditProduct("Товар 1", models.Product{Name: "Товар 1 (EDITED)"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Товар 10", "Товар 1 (EDITED)"}, shop.products)
}

func TestProductsPage_DeleteProduct_MissingStep(t *testing.T) {
	tests := []struct {
		name    string
		product string
		broken  string
		action  string
	}{
		{name: "row", product: "Нет такого", action: "find product row"},
		{name: "actions menu", product: "Товар", broken: "Действия", action: "open actions menu"},
		{name: "delete option", product: "Товар", broken: "Удалить", action: "choose delete"},
		{name: "confirmation", product: "Товар", broken: "Да", action: "confirm delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop := newFakeShop(testConfig(), "Товар")
			shop.broken = tt.broken
			shop.renderCatalog()

			err := shop.page().DeleteProduct(tt.product)

			var actionErr *ActionError
			require.ErrorAs(t, err, &actionErr)
			assert.Equal(t, tt.action, actionErr.Action)
			assert.Equal(t, []string{"Товар"}, shop.products, "nothing may be deleted")
		})
	}
}

func TestProductsPage_VerifyDeleted(t *testing.T) {
	tests := []struct {
		name       string
		check      config.DeleteCheck
		keepsTrash bool
		deleted    bool
		want       bool
	}{
		{name: "trash finds a trashed product", check: config.DeleteCheckTrash, keepsTrash: true, deleted: true, want: true},
		{name: "trash misses a purged product", check: config.DeleteCheckTrash, keepsTrash: false, deleted: true, want: false},
		{name: "absent accepts a purged product", check: config.DeleteCheckAbsent, keepsTrash: false, deleted: true, want: true},
		{name: "absent rejects a listed product", check: config.DeleteCheckAbsent, keepsTrash: true, deleted: false, want: false},
		{name: "either accepts a trashed product", check: config.DeleteCheckEither, keepsTrash: true, deleted: true, want: true},
		{name: "either accepts a purged product", check: config.DeleteCheckEither, keepsTrash: false, deleted: true, want: true},
		{name: "either rejects a listed product", check: config.DeleteCheckEither, keepsTrash: true, deleted: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.DeleteCheck = tt.check
			shop := newFakeShop(cfg, "Архив", "Цель")
			shop.keepsTrash = tt.keepsTrash
			products := shop.page()
			if tt.deleted {
				require.NoError(t, products.DeleteProduct("Цель"))
			}

			got, err := products.VerifyDeleted("Цель")

			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("Expected VerifyDeleted to be %v, got %v", tt.want, got)
			}
		})
	}
}
