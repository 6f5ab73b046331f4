package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the flat record typed into the CloudShop product form.
// Every field except Name is optional; the zero value means "leave untouched".
type Product struct {
	Name          string
	Barcode       string
	Article       string
	Description   string
	Unit          string
	Category      string
	Country       string
	Supplier      string
	MarkingType   string
	TaxSystem     string
	Taxes         []string
	TaxCode       string
	Price         *int64
	PurchasePrice *int64
	Markup        *int64
	MinStock      *int64
	Weight        decimal.NullDecimal
	Height        decimal.NullDecimal
	Width         decimal.NullDecimal
	Depth         decimal.NullDecimal
}

// Domain errors
var (
	ErrNameRequired = errors.New("product name is required")
)

// Int returns an optional integer value
func Int(v int64) *int64 {
	return &v
}

// Decimal returns an optional decimal value parsed from its string form.
// It panics on malformed input and is meant for literals.
func Decimal(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

// Validate checks the product can be submitted
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// FormatInt renders an optional integer the way the form expects it, or "" when absent
func FormatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// FormatDecimal renders an optional decimal, or "" when absent
func FormatDecimal(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}
