package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/makeup-inventory/internal/models"
	"github.com/shopspring/decimal"
)

func validForm() ProductForm {
	return ProductForm{
		Name:     "Velvet Matte",
		Category: "Lipstick",
		Shade:    "012",
		Price:    "9.99",
		Quantity: "20",
	}
}

func noDuplicates(context.Context, string, string, int64) (bool, error) {
	return false, nil
}

func TestCheckShade(t *testing.T) {
	for _, shade := range []string{"001", "42", "0"} {
		if err := CheckShade(shade); err != nil {
			t.Errorf("CheckShade(%q): unexpected error %v", shade, err)
		}
	}

	for _, shade := range []string{"", "12a", "-1", "1.5", " 12", "１２"} {
		if err := CheckShade(shade); err == nil {
			t.Errorf("CheckShade(%q): expected error", shade)
		}
	}
}

func TestCheckRuleOrder(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ProductForm)
		field string
		want  error
	}{
		{"missing name", func(f *ProductForm) { f.Name = "  " }, "name", ErrRequired},
		{"missing shade", func(f *ProductForm) { f.Shade = "" }, "shade", ErrRequired},
		{"missing price", func(f *ProductForm) { f.Price = "" }, "price", ErrRequired},
		{"missing quantity", func(f *ProductForm) { f.Quantity = "" }, "quantity", ErrRequired},
		{"required wins over shade", func(f *ProductForm) { f.Shade = "x"; f.Quantity = "" }, "quantity", ErrRequired},
		{"bad shade", func(f *ProductForm) { f.Shade = "12a" }, "shade", ErrShadeFormat},
		{"shade wins over number", func(f *ProductForm) { f.Shade = "-1"; f.Price = "abc" }, "shade", ErrShadeFormat},
		{"price not a number", func(f *ProductForm) { f.Price = "ten" }, "price", ErrInvalidNumber},
		{"quantity not an integer", func(f *ProductForm) { f.Quantity = "2.5" }, "quantity", ErrInvalidNumber},
		{"parse wins over sign", func(f *ProductForm) { f.Price = "-1"; f.Quantity = "x" }, "quantity", ErrInvalidNumber},
		{"negative price", func(f *ProductForm) { f.Price = "-0.01" }, "price", ErrNegative},
		{"negative quantity", func(f *ProductForm) { f.Quantity = "-3" }, "quantity", ErrNegative},
		{"price with three decimals", func(f *ProductForm) { f.Price = "9.999" }, "price", ErrPriceScale},
		{"price beyond column", func(f *ProductForm) { f.Price = "1e12" }, "price", ErrTooLarge},
		{"price at column limit", func(f *ProductForm) { f.Price = "10000000000" }, "price", ErrTooLarge},
		{"quantity beyond int32", func(f *ProductForm) { f.Quantity = "3000000000" }, "quantity", ErrTooLarge},
		{"sign wins over range", func(f *ProductForm) { f.Quantity = "-3000000000" }, "quantity", ErrNegative},
		{"range wins over category", func(f *ProductForm) { f.Quantity = "3000000000"; f.Category = "Mascara" }, "quantity", ErrTooLarge},
		{"unknown category", func(f *ProductForm) { f.Category = "Mascara" }, "category", ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)

			_, err := Check(form)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field || !errors.Is(err, tt.want) {
				t.Errorf("Expected %s/%v, got %s/%v", tt.field, tt.want, verr.Field, verr.Err)
			}
		})
	}
}

func TestCheckParsesProduct(t *testing.T) {
	form := validForm()
	form.Name = "  Velvet Matte "
	form.Category = "lipstick"

	p, err := Check(form)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if p.Name != "Velvet Matte" || p.Category != models.CategoryLipstick || p.Shade != "012" ||
		!p.Price.Equal(decimal.RequireFromString("9.99")) || p.Quantity != 20 {
		t.Errorf("Unexpected product %+v", p)
	}

	form.Price = "0"
	form.Quantity = "0"
	if _, err := Check(form); err != nil {
		t.Errorf("Zero price and quantity should be accepted: %v", err)
	}

	form.Price = "9999999999.990"
	form.Quantity = "2147483647"
	p, err = Check(form)
	if err != nil {
		t.Fatalf("Largest storable values should be accepted: %v", err)
	}
	if p.Quantity != 2147483647 || p.Price.StringFixed(2) != "9999999999.99" {
		t.Errorf("Unexpected product %+v", p)
	}
}

func TestValidateDuplicate(t *testing.T) {
	ctx := context.Background()

	var gotExclude int64 = -1
	exists := func(_ context.Context, name, shade string, excludeID int64) (bool, error) {
		gotExclude = excludeID
		return name == "Velvet Matte" && shade == "012" && excludeID != 7, nil
	}

	_, err := Validate(ctx, validForm(), 0, exists)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected DuplicateError, got %v", err)
	}
	if dup.Name != "Velvet Matte" || dup.Shade != "012" {
		t.Errorf("Unexpected duplicate error %+v", dup)
	}

	p, err := Validate(ctx, validForm(), 7, exists)
	if err != nil {
		t.Fatalf("Record must not be its own duplicate: %v", err)
	}
	if gotExclude != 7 || p.ID != 7 {
		t.Errorf("Expected exclude id 7 to be passed through, got %d (product id %d)", gotExclude, p.ID)
	}
}

func TestValidateSkipsLookupOnInvalidInput(t *testing.T) {
	called := false
	exists := func(context.Context, string, string, int64) (bool, error) {
		called = true
		return false, nil
	}

	form := validForm()
	form.Shade = "abc"
	if _, err := Validate(context.Background(), form, 0, exists); !errors.Is(err, ErrShadeFormat) {
		t.Fatalf("Expected ErrShadeFormat, got %v", err)
	}
	if called {
		t.Error("Duplicate lookup should not run when field checks fail")
	}
}

func TestValidatePropagatesLookupError(t *testing.T) {
	boom := errors.New("store unavailable")
	exists := func(context.Context, string, string, int64) (bool, error) {
		return false, boom
	}

	if _, err := Validate(context.Background(), validForm(), 0, exists); !errors.Is(err, boom) {
		t.Errorf("Expected lookup error, got %v", err)
	}
	if _, err := Validate(context.Background(), validForm(), 0, noDuplicates); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
