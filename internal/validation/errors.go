package validation

import (
	"errors"
	"fmt"
)

var (
	ErrRequired        = errors.New("please fill all fields")
	ErrShadeFormat     = errors.New("shade must be numbers only (ex. 001)")
	ErrInvalidNumber   = errors.New("price must be a number and quantity must be an integer")
	ErrNegative        = errors.New("price and quantity must be non-negative")
	ErrPriceScale      = errors.New("price can have at most 2 decimals")
	ErrTooLarge        = errors.New("price must be below 10000000000 and quantity at most 2147483647")
	ErrInvalidCategory = errors.New("category must be Lipstick, Blush or Foundation")
)

// ValidationError reports bad or missing input on a single field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DuplicateError reports a (name, shade) collision with an existing product.
type DuplicateError struct {
	Name  string
	Shade string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("a product named %q with shade %s already exists", e.Name, e.Shade)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
