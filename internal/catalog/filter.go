// Package catalog filters and summarises an in-memory product list.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/safar/makeup-inventory/internal/models"
	"github.com/shopspring/decimal"
)

// AllCategories disables the category predicate.
const AllCategories = "All"

var (
	ErrInvalidMinPrice = errors.New("min price must be a number")
	ErrInvalidMaxPrice = errors.New("max price must be a number")
	ErrPriceRange      = errors.New("min price cannot be greater than max price")
)

// Criteria selects products. A nil bound is unbounded.
type Criteria struct {
	Key      string           `json:"key"`
	Category string           `json:"category"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
}

type Summary struct {
	TotalItems int64           `json:"total_items"`
	TotalValue decimal.Decimal `json:"total_value"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Items: %d | Value: %s", s.TotalItems, s.TotalValue.StringFixed(2))
}

type Result struct {
	Products []models.Product `json:"products"`
	Summary  Summary          `json:"summary"`
}

// ParseCriteria builds Criteria from raw user input. Blank bounds are left
// unbounded.
func ParseCriteria(key, category, minText, maxText string) (Criteria, error) {
	c := Criteria{
		Key:      strings.TrimSpace(key),
		Category: strings.TrimSpace(category),
	}

	if s := strings.TrimSpace(minText); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return Criteria{}, ErrInvalidMinPrice
		}
		c.MinPrice = &v
	}
	if s := strings.TrimSpace(maxText); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return Criteria{}, ErrInvalidMaxPrice
		}
		c.MaxPrice = &v
	}

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func (c Criteria) Validate() error {
	if c.MinPrice != nil && c.MaxPrice != nil && c.MinPrice.GreaterThan(*c.MaxPrice) {
		return ErrPriceRange
	}
	return nil
}

// Matches reports whether p satisfies every predicate of c.
func (c Criteria) Matches(p models.Product) bool {
	if key := strings.ToLower(strings.TrimSpace(c.Key)); key != "" {
		if !strings.Contains(strings.ToLower(p.Name), key) &&
			!strings.Contains(strings.ToLower(string(p.Category)), key) &&
			!strings.Contains(strings.ToLower(p.Shade), key) {
			return false
		}
	}

	if cat := strings.TrimSpace(c.Category); cat != "" && cat != AllCategories {
		if !strings.EqualFold(string(p.Category), cat) {
			return false
		}
	}

	if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

// Filter returns the products matching c, in input order, with their
// summary. An inverted price range is rejected rather than matching nothing.
func Filter(products []models.Product, c Criteria) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	return Result{Products: filtered, Summary: Summarize(filtered)}, nil
}

func Summarize(products []models.Product) Summary {
	var s Summary
	for _, p := range products {
		s.TotalItems += int64(p.Quantity)
		s.TotalValue = s.TotalValue.Add(p.Value())
	}
	return s
}
