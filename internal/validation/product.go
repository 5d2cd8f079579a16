package validation

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/safar/makeup-inventory/internal/models"
	"github.com/shopspring/decimal"
)

var shadePattern = regexp.MustCompile(`^[0-9]+$`)

// maxPrice is the first value a NUMERIC(12,2) price column cannot hold.
var maxPrice = decimal.New(1, 10)

// ProductForm is the raw text a user typed for a product.
type ProductForm struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Shade    string `json:"shade"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// ExistsFunc reports whether another product than excludeID already uses
// the (name, shade) pair.
type ExistsFunc func(ctx context.Context, name, shade string, excludeID int64) (bool, error)

// Validate runs Check and then the duplicate check, excluding excludeID so
// that a record being updated is not its own duplicate. Use 0 for new
// products.
func Validate(ctx context.Context, form ProductForm, excludeID int64, exists ExistsFunc) (models.Product, error) {
	product, err := Check(form)
	if err != nil {
		return models.Product{}, err
	}

	dup, err := exists(ctx, product.Name, product.Shade, excludeID)
	if err != nil {
		return models.Product{}, err
	}
	if dup {
		return models.Product{}, &DuplicateError{Name: product.Name, Shade: product.Shade}
	}

	product.ID = excludeID
	return product, nil
}

// Check applies the field rules in order and returns the parsed product.
// The first failing rule wins.
func Check(form ProductForm) (models.Product, error) {
	name := strings.TrimSpace(form.Name)
	shade := strings.TrimSpace(form.Shade)
	priceText := strings.TrimSpace(form.Price)
	quantityText := strings.TrimSpace(form.Quantity)

	switch {
	case name == "":
		return models.Product{}, invalid("name", ErrRequired)
	case shade == "":
		return models.Product{}, invalid("shade", ErrRequired)
	case priceText == "":
		return models.Product{}, invalid("price", ErrRequired)
	case quantityText == "":
		return models.Product{}, invalid("quantity", ErrRequired)
	}

	if err := CheckShade(shade); err != nil {
		return models.Product{}, err
	}

	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return models.Product{}, invalid("price", ErrInvalidNumber)
	}
	// ParseInt clamps to the int32 bounds on ErrRange, which keeps the sign
	// for the negative check below.
	quantity, err := strconv.ParseInt(quantityText, 10, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return models.Product{}, invalid("quantity", ErrInvalidNumber)
	}
	quantityOverflow := err != nil

	if price.IsNegative() {
		return models.Product{}, invalid("price", ErrNegative)
	}
	if quantity < 0 {
		return models.Product{}, invalid("quantity", ErrNegative)
	}

	if !price.Equal(price.Truncate(2)) {
		return models.Product{}, invalid("price", ErrPriceScale)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return models.Product{}, invalid("price", ErrTooLarge)
	}
	if quantityOverflow {
		return models.Product{}, invalid("quantity", ErrTooLarge)
	}

	category, ok := models.ParseCategory(form.Category)
	if !ok {
		return models.Product{}, invalid("category", ErrInvalidCategory)
	}

	return models.Product{
		Name:     name,
		Category: category,
		Shade:    shade,
		Price:    price,
		Quantity: int(quantity),
	}, nil
}

func CheckShade(shade string) error {
	if shade == "" {
		return invalid("shade", ErrRequired)
	}
	if !shadePattern.MatchString(shade) {
		return invalid("shade", ErrShadeFormat)
	}
	return nil
}
