package store

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
	"github.com/safar/makeup-inventory/internal/testutil"
	"github.com/shopspring/decimal"
)

func newProduct(name, shade string) models.Product {
	return models.Product{
		Name:     name,
		Category: models.CategoryLipstick,
		Shade:    shade,
		Price:    decimal.RequireFromString("9.99"),
		Quantity: 20,
	}
}

func TestCreateAndListProducts(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	created, err := CreateProduct(ctx, db, newProduct("Velvet Matte", "012"))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("Expected positive id, got %d", created.ID)
	}

	products, err := ListProducts(ctx, db)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}

	got := products[0]
	if got.ID != created.ID || got.Name != "Velvet Matte" || got.Category != models.CategoryLipstick ||
		got.Shade != "012" || !got.Price.Equal(decimal.RequireFromString("9.99")) || got.Quantity != 20 {
		t.Errorf("Unexpected product %+v", got)
	}
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	created, err := CreateProduct(ctx, db, newProduct("Rosy Glow", "3"))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	created.Category = models.CategoryBlush
	created.Quantity = 7
	created.Price = decimal.RequireFromString("12.50")
	if err := UpdateProduct(ctx, db, *created); err != nil {
		t.Fatalf("Update product: %v", err)
	}

	got, err := GetProduct(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if got.Category != models.CategoryBlush || got.Quantity != 7 || !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Update not applied: %+v", got)
	}

	if err := DeleteProduct(ctx, db, created.ID); err != nil {
		t.Fatalf("Delete product: %v", err)
	}
	if _, err := GetProduct(ctx, db, created.ID); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
	if err := DeleteProduct(ctx, db, created.ID); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on second delete, got %v", err)
	}
	missing := newProduct("Ghost", "1")
	missing.ID = 9999
	if err := UpdateProduct(ctx, db, missing); !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound on update, got %v", err)
	}
}

func TestProductExists(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	created, err := CreateProduct(ctx, db, newProduct("Velvet Matte", "012"))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	tests := []struct {
		name      string
		pName     string
		shade     string
		excludeID int64
		want      bool
	}{
		{"exact match", "Velvet Matte", "012", 0, true},
		{"name ignores case", "VELVET matte", "012", 0, true},
		{"shade is exact", "Velvet Matte", "12", 0, false},
		{"different name", "Satin", "012", 0, false},
		{"own record excluded", "velvet matte", "012", created.ID, false},
		{"other record excluded", "Velvet Matte", "012", created.ID + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProductExists(ctx, db, tt.pName, tt.shade, tt.excludeID)
			if err != nil {
				t.Fatalf("ProductExists: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProductStoreErrorsAreStoreErrors(t *testing.T) {
	db := testutil.OpenSQLite(t)
	db.Close()

	_, err := ListProducts(context.Background(), db)
	var storeErr *database.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected StoreError on closed db, got %v", err)
	}
}

func TestUniqueIndexRejectsDuplicates(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()

	if _, err := CreateProduct(ctx, db, newProduct("Velvet Matte", "012")); err != nil {
		t.Fatalf("Create product: %v", err)
	}
	if _, err := CreateProduct(ctx, db, newProduct("velvet MATTE", "012")); !errors.Is(err, database.ErrDuplicateProduct) {
		t.Errorf("Expected ErrDuplicateProduct, got %v", err)
	}

	other, err := CreateProduct(ctx, db, newProduct("Velvet Matte", "013"))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	other.Shade = "012"
	if err := UpdateProduct(ctx, db, *other); !errors.Is(err, database.ErrDuplicateProduct) {
		t.Errorf("Expected ErrDuplicateProduct on update, got %v", err)
	}
}
