package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/cloudshop/uisuite/internal/sandbox"
)

// CatalogStore is the part of the sandbox store the catalog screens read and write
type CatalogStore interface {
	Save(id string, values map[string]string) (sandbox.Card, error)
	Get(id string) (sandbox.Card, error)
	List(query string) []sandbox.Card
	Trash(ids ...string) int
	Trashed() []sandbox.Card
}

// FormField is one row of the product card
type FormField struct {
	Key         string
	Label       string
	Kind        string
	Placeholder string
	Options     []string
}

// ProductForm lists the product card rows top to bottom
func ProductForm() []FormField {
	return []FormField{
		{Key: "name", Label: "Наименование", Kind: "text", Placeholder: "Наименование товара"},
		{Key: "barcode", Label: "Штрих-код", Kind: "text", Placeholder: "Введите штрих-код"},
		{Key: "article", Label: "Артикул", Kind: "text", Placeholder: "Введите артикул"},
		{Key: "unit", Label: "Единица измерения", Kind: "dropdown", Options: []string{"шт", "кг", "л", "м", "упак"}},
		{Key: "category", Label: "Категория", Kind: "dropdown", Options: []string{"Без категории", "Продукты", "Бытовая химия", "Одежда"}},
		{Key: "description", Label: "Описание", Kind: "textarea"},
		{Key: "country", Label: "Страна", Kind: "dropdown", Options: []string{"Россия", "Беларусь", "Казахстан", "Китай"}},
		{Key: "supplier", Label: "Поставщик", Kind: "dropdown", Options: []string{"ООО Поставщик", "ИП Иванов"}},
		{Key: "purchase_price", Label: "Цена закупки", Kind: "number"},
		{Key: "markup", Label: "Наценка", Kind: "number"},
		{Key: "price", Label: "Цена продажи", Kind: "number"},
		{Key: "marking_type", Label: "Тип маркировки", Kind: "dropdown", Options: []string{"Без маркировки", "Обувь", "Одежда", "Табак"}},
		{Key: "tax_system", Label: "Система налогообложения", Kind: "dropdown", Options: []string{"ОСН", "УСН доход", "УСН доход-расход", "ПСН"}},
		{Key: "taxes", Label: "Налоги", Kind: "multi", Options: []string{"НДС 20%", "НДС 10%", "НДС 0%", "Без НДС"}},
		{Key: "weight", Label: "Вес", Kind: "number"},
		{Key: "height", Label: "Высота", Kind: "number"},
		{Key: "width", Label: "Ширина", Kind: "number"},
		{Key: "depth", Label: "Глубина", Kind: "number"},
		{Key: "min_stock", Label: "Минимальный остаток", Kind: "number"},
		{Key: "tax_code", Label: "Код налога", Kind: "text"},
	}
}

// ProductRow is one line of the catalog table
type ProductRow struct {
	ID      string
	Name    string
	Barcode string
	Article string
	Price   string
	// Card is the JSON the card view is filled from
	Card    string
}

// CatalogData represents the data for the catalog template
type CatalogData struct {
	SignedIn    bool
	Query       string
	Error       string
	PromoBanner bool
	Products    []ProductRow
	Form        []FormField
}

// CatalogOptions tune the sandbox catalog
type CatalogOptions struct {
	// PromoBanner shows a banner that swallows clicks on "Создать товар" until closed
	PromoBanner bool
}

// CatalogHandler renders the product list with its card and delete dialog
type CatalogHandler struct {
	template *template.Template
	store    CatalogStore
	options  CatalogOptions
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(store CatalogStore, options CatalogOptions) (*CatalogHandler, error) {
	tmpl, err := parsePage("catalog.html")
	if err != nil {
		return nil, err
	}

	return &CatalogHandler{
		template: tmpl,
		store:    store,
		options:  options,
	}, nil
}

// ServeHTTP handles GET /card/catalog/list and /card/catalog/create/
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	data := CatalogData{
		SignedIn:    true,
		Query:       query,
		Error:       r.URL.Query().Get("error"),
		PromoBanner: h.options.PromoBanner,
		Products:    rows(h.store.List(query)),
		Form:        ProductForm(),
	}

	if err := h.template.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func rows(cards []sandbox.Card) []ProductRow {
	out := make([]ProductRow, 0, len(cards))
	for _, card := range cards {
		values := map[string]string{"id": card.ID}
		for k, v := range card.Values {
			values[k] = v
		}
		raw, err := json.Marshal(values)
		if err != nil {
			log.Printf("Error encoding card %s: %v", card.ID, err)
			raw = []byte("{}")
		}
		out = append(out, ProductRow{
			ID:      card.ID,
			Name:    card.Name(),
			Barcode: card.Get("barcode"),
			Article: card.Get("article"),
			Price:   card.Get("price"),
			Card:    string(raw),
		})
	}
	return out
}
