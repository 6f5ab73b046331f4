package pages

import (
	"github.com/cloudshop/uisuite/internal/browser"
	"github.com/cloudshop/uisuite/internal/models"
)

// FieldKind says how a form field is operated
type FieldKind int

// Field kinds
const (
	TextField FieldKind = iota
	NumberField
	TextAreaField
	DropdownField
	MultiDropdownField
)

// Target is one way of locating a field's control.
// Nth picks a position among the matches.
type Target struct {
	Query browser.Query
	Nth   int
}

// Field is one row of the product form
type Field struct {
	Key     string
	Kind    FieldKind
	Targets []Target
	values  func(models.Product) []string
}

// Values returns what p holds for the field; empty means omitted
func (f Field) Values(p models.Product) []string {
	return f.values(p)
}

func inModal(q browser.Query) Target {
	return Target{Query: q.In(modalQuery)}
}

func byLabel(role browser.Role, label string) Target {
	return inModal(browser.Query{Role: role, Label: label})
}

func byBinding(role browser.Role, binding string) Target {
	return inModal(browser.Query{Role: role, Binding: binding})
}

func text(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func number(v *int64) []string {
	return text(models.FormatInt(v))
}

// ProductLayout lists the product form fields top to bottom as the form renders them.
// Filling in this order keeps expanding dropdowns from shifting rows that are still to be filled.
func ProductLayout() []Field {
	return []Field{
		{
			Key:  "name",
			Kind: TextField,
			Targets: []Target{
				inModal(browser.Query{Role: browser.RoleTextInput, Placeholder: "Наимен"}),
				byBinding(browser.RoleTextInput, "card.name"),
				// position among generic text inputs, the search box excluded
				inModal(browser.Query{Role: browser.RoleTextInput}),
			},
			values: func(p models.Product) []string { return text(p.Name) },
		},
		{
			Key:  "barcode",
			Kind: TextField,
			Targets: []Target{
				inModal(browser.Query{Role: browser.RoleInput, Placeholder: "Введите штрих-код"}),
				byLabel(browser.RoleInput, "Штрих-код"),
				byBinding(browser.RoleInput, "card.barcode"),
			},
			values: func(p models.Product) []string { return text(p.Barcode) },
		},
		{
			Key:  "article",
			Kind: TextField,
			Targets: []Target{
				inModal(browser.Query{Role: browser.RoleInput, Placeholder: "Введите артикул"}),
				byLabel(browser.RoleInput, "Артикул"),
				byBinding(browser.RoleInput, "card.article"),
			},
			values: func(p models.Product) []string { return text(p.Article) },
		},
		dropdownField("unit", "Единица измерения", "card.unit", func(p models.Product) string { return p.Unit }),
		dropdownField("category", "Категория", "card.category", func(p models.Product) string { return p.Category }),
		{
			Key:  "description",
			Kind: TextAreaField,
			Targets: []Target{
				byLabel(browser.RoleTextArea, "Описание"),
				byBinding(browser.RoleTextArea, "card.description"),
				inModal(browser.Query{Role: browser.RoleTextArea}),
			},
			values: func(p models.Product) []string { return text(p.Description) },
		},
		dropdownField("country", "Страна", "card.country", func(p models.Product) string { return p.Country }),
		dropdownField("supplier", "Поставщик", "card.supplier", func(p models.Product) string { return p.Supplier }),
		numberField("purchase_price", "Цена закупки", "card.purchase_price", func(p models.Product) []string { return number(p.PurchasePrice) }),
		numberField("markup", "Наценка", "card.markup", func(p models.Product) []string { return number(p.Markup) }),
		numberField("price", "Цена продажи", "card.price", func(p models.Product) []string { return number(p.Price) }),
		dropdownField("marking_type", "Тип маркировки", "card.marking_type", func(p models.Product) string { return p.MarkingType }),
		dropdownField("tax_system", "Система налогообложения", "card.tax_system", func(p models.Product) string { return p.TaxSystem }),
		{
			Key:  "taxes",
			Kind: MultiDropdownField,
			Targets: []Target{
				byLabel(browser.RoleDropdown, "Налоги"),
				byBinding(browser.RoleDropdown, "card.taxes"),
			},
			values: func(p models.Product) []string { return p.Taxes },
		},
		numberField("weight", "Вес", "card.weight", func(p models.Product) []string { return text(models.FormatDecimal(p.Weight)) }),
		numberField("height", "Высота", "card.height", func(p models.Product) []string { return text(models.FormatDecimal(p.Height)) }),
		numberField("width", "Ширина", "card.width", func(p models.Product) []string { return text(models.FormatDecimal(p.Width)) }),
		numberField("depth", "Глубина", "card.depth", func(p models.Product) []string { return text(models.FormatDecimal(p.Depth)) }),
		numberField("min_stock", "Минимальный остаток", "card.min_stock", func(p models.Product) []string { return number(p.MinStock) }),
		{
			Key:  "tax_code",
			Kind: TextField,
			Targets: []Target{
				byLabel(browser.RoleInput, "Код налога"),
				byBinding(browser.RoleInput, "card.tax_code"),
			},
			values: func(p models.Product) []string { return text(p.TaxCode) },
		},
	}
}

func dropdownField(key, label, binding string, get func(models.Product) string) Field {
	return Field{
		Key:     key,
		Kind:    DropdownField,
		Targets: []Target{byLabel(browser.RoleDropdown, label), byBinding(browser.RoleDropdown, binding)},
		values:  func(p models.Product) []string { return text(get(p)) },
	}
}

func numberField(key, label, binding string, values func(models.Product) []string) Field {
	return Field{
		Key:     key,
		Kind:    NumberField,
		Targets: []Target{byLabel(browser.RoleNumberInput, label), byBinding(browser.RoleNumberInput, binding)},
		values:  values,
	}
}
