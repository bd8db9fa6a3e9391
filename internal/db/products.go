package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalog-admin-public/internal/catalog"
)

// ProductRepository stores the catalog in the products table. Order is kept
// in the position column; Save rewrites the table in one transaction.
type ProductRepository struct {
	pool *pgxpool.Pool
}

var _ catalog.Repository = (*ProductRepository)(nil)

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Load(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price, category, description FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Product, error) {
		var p catalog.Product
		err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description)
		return p, err
	})
}

func (r *ProductRepository) Save(ctx context.Context, products []catalog.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if len(products) == 0 {
			return nil
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"products"},
			[]string{"id", "position", "name", "price", "category", "description"},
			pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
				p := products[i]
				return []any{p.ID, i, p.Name, p.Price, p.Category, p.Description}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy products: %w", err)
		}
		return nil
	})
}
