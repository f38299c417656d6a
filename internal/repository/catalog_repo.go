package repository

import (
	"context"
	"errors"

	"AleesaStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogRepository struct {
	DB *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// GetProduct returns the active product row for the given id.
func (r *CatalogRepository) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	query := `SELECT productid, name, slug, price, category, image, active FROM products WHERE productid=$1 AND active`
	var p model.Product
	err := r.DB.QueryRow(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.Slug, &p.Price, &p.Category, &p.Image, &p.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetSizeStock returns the available stock for a (product, size) pair.
// A missing row counts as zero stock, not an error.
func (r *CatalogRepository) GetSizeStock(ctx context.Context, productID, size string) (int, error) {
	var stock int
	query := `SELECT stock FROM product_sizes WHERE productid=$1 AND size=$2`
	if err := r.DB.QueryRow(ctx, query, productID, size).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return stock, nil
}

// DecrementStockTx reduces stock for a (product, size) pair inside the
// caller's transaction. The floor at zero keeps concurrent settlements from
// driving stock negative; the quantity actually removed is whatever was left.
func (r *CatalogRepository) DecrementStockTx(ctx context.Context, tx pgx.Tx, productID, size string, qty int) error {
	query := `UPDATE product_sizes SET stock = GREATEST(stock - $3, 0) WHERE productid=$1 AND size=$2`
	_, err := tx.Exec(ctx, query, productID, size, qty)
	return err
}

// TryReserveStockTx decrements only when enough stock is available, and
// reports whether it won. Used where an oversell must fail rather than clamp.
func (r *CatalogRepository) TryReserveStockTx(ctx context.Context, tx pgx.Tx, productID, size string, qty int) (bool, error) {
	query := `UPDATE product_sizes SET stock = stock - $3 WHERE productid=$1 AND size=$2 AND stock >= $3`
	tag, err := tx.Exec(ctx, query, productID, size, qty)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
