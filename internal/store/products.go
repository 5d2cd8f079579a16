package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/safar/makeup-inventory/internal/database"
	"github.com/safar/makeup-inventory/internal/models"
)

func CreateProduct(ctx context.Context, q Querier, p models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (name, category, shade, price, no_of_items)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	created := p
	err := q.QueryRowContext(ctx, query, p.Name, string(p.Category), p.Shade, p.Price, p.Quantity).Scan(&created.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrDuplicateProduct
		}
		return nil, database.Wrap("create product", err)
	}

	return &created, nil
}

func GetProduct(ctx context.Context, q Querier, id int64) (*models.Product, error) {
	query := `
		SELECT id, name, category, shade, price, no_of_items
		FROM products
		WHERE id = $1`

	product, err := scanProduct(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, database.Wrap("get product", err)
	}

	return product, nil
}

// UpdateProduct overwrites every mutable column of the row identified by
// p.ID. The id itself never changes.
func UpdateProduct(ctx context.Context, q Querier, p models.Product) error {
	result, err := q.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, category = $2, shade = $3, price = $4, no_of_items = $5
		 WHERE id = $6`,
		p.Name, string(p.Category), p.Shade, p.Price, p.Quantity, p.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return database.ErrDuplicateProduct
		}
		return database.Wrap("update product", err)
	}

	return checkAffected("update product", result, database.ErrProductNotFound)
}

func DeleteProduct(ctx context.Context, q Querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return database.Wrap("delete product", err)
	}

	return checkAffected("delete product", result, database.ErrProductNotFound)
}

func ListProducts(ctx context.Context, q Querier) ([]models.Product, error) {
	query := `
		SELECT id, name, category, shade, price, no_of_items
		FROM products
		ORDER BY id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, database.Wrap("list products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, database.Wrap("scan product", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list products", err)
	}

	return products, nil
}

// ProductExists reports whether a product other than excludeID already uses
// the (name, shade) pair. Names compare case-insensitively, shades exactly.
// Pass excludeID 0 when checking a new product.
func ProductExists(ctx context.Context, q Querier, name, shade string, excludeID int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM products
			WHERE LOWER(name) = LOWER($1) AND shade = $2 AND id <> $3
		)`,
		name, shade, excludeID).Scan(&exists)
	if err != nil {
		return false, database.Wrap("check product exists", err)
	}

	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var category string
	err := row.Scan(
		&product.ID,
		&product.Name,
		&category,
		&product.Shade,
		&product.Price,
		&product.Quantity,
	)
	if err != nil {
		return nil, err
	}
	product.Category = models.Category(category)
	return &product, nil
}
