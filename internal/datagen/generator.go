// Package datagen produces randomized product data so repeated runs never
// collide on names or barcodes in a shared account.
package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cloudshop/uisuite/internal/models"
	"github.com/shopspring/decimal"
)

var (
	namePrefixes = []string{"Тестовый", "Авто", "QA"}
	nameItems    = []string{"Товар", "Продукт", "Изделие", "Артикул"}
	units        = []string{"шт", "кг", "л", "м"}
	countries    = []string{"Россия", "Беларусь", "Казахстан", "Китай"}
)

// Generator creates test data. It is not safe for concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// New returns a generator. A zero seed draws a random one.
func New(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for name suffixes and descriptions
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// ProductName returns "<prefix> <item> HHMMSS"
func (g *Generator) ProductName() string {
	return fmt.Sprintf("%s %s %s",
		g.faker.RandomString(namePrefixes),
		g.faker.RandomString(nameItems),
		g.now().Format("150405"))
}

// Barcode returns a 13 digit EAN-style barcode
func (g *Generator) Barcode() string {
	return g.BarcodeOfLength(13)
}

// BarcodeOfLength returns a numeric barcode of exactly n digits
func (g *Generator) BarcodeOfLength(n int) string {
	if n <= 0 {
		return ""
	}
	return g.faker.Numerify(strings.Repeat("#", n))
}

// Article returns a vendor code like ART-123-456
func (g *Generator) Article() string {
	return fmt.Sprintf("ART-%d-%d", g.faker.IntRange(100, 999), g.faker.IntRange(100, 999))
}

// Price returns a sale price between 100 and 50000
func (g *Generator) Price() int64 {
	return int64(g.faker.IntRange(100, 50000))
}

// Description returns a timestamped description
func (g *Generator) Description() string {
	return "Автоматически сгенерированное описание для тестового товара " + g.now().Format("2006-01-02 15:04:05")
}

// Email returns a throwaway address
func (g *Generator) Email() string {
	return fmt.Sprintf("test.%s@example.com", strings.ToLower(g.faker.LetterN(8)))
}

// Phone returns a Russian mobile number
func (g *Generator) Phone() string {
	return "+79" + g.faker.Numerify("#########")
}

// Product returns the basic record: name, barcode, article, price and description
func (g *Generator) Product() models.Product {
	return models.Product{
		Name:        g.ProductName(),
		Barcode:     g.Barcode(),
		Article:     g.Article(),
		Price:       models.Int(g.Price()),
		Description: g.Description(),
	}
}

// FullProduct returns a record with every free-form field set.
// Sale price is derived from purchase price and markup.
func (g *Generator) FullProduct() models.Product {
	p := g.Product()

	purchase := int64(g.faker.IntRange(50, 25000))
	markup := int64(g.faker.IntRange(10, 100))
	p.PurchasePrice = models.Int(purchase)
	p.Markup = models.Int(markup)
	p.Price = models.Int(purchase * (100 + markup) / 100)

	p.Unit = g.faker.RandomString(units)
	p.Country = g.faker.RandomString(countries)
	p.Weight = g.dimension(0.1, 50)
	p.Height = g.dimension(1, 100)
	p.Width = g.dimension(1, 100)
	p.Depth = g.dimension(1, 100)
	p.MinStock = models.Int(int64(g.faker.IntRange(1, 20)))
	p.TaxCode = g.faker.Numerify("####")
	return p
}

func (g *Generator) dimension(min, max float64) decimal.NullDecimal {
	d := decimal.NewFromFloat(g.faker.Float64Range(min, max)).Round(1)
	if d.IsZero() {
		d = decimal.NewFromFloat(min)
	}
	return decimal.NewNullDecimal(d)
}
