package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"AleesaStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	DB      *pgxpool.Pool
	Catalog *CatalogRepository
}

func NewOrderRepository(db *pgxpool.Pool, catalog *CatalogRepository) *OrderRepository {
	return &OrderRepository{DB: db, Catalog: catalog}
}

const orderColumns = `orderid, ordernumber, userid, email,
	shippingname, shippingphone, shippingaddress, shippingcity, shippingstate, shippingzip,
	subtotal, shippingcost, total, status, paymentmethod, paymentstatus,
	razorpayorderid, razorpaypaymentid, idempotencykey, createdat`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.OrderID, &o.OrderNumber, &o.UserID, &o.Email,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&o.Subtotal, &o.ShippingCost, &o.Total, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.RazorpayOrderID, &o.RazorpayPaymentID, &o.IdempotencyKey, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// CreateWithItems inserts the order and its item snapshots in one
// transaction and returns the new orderid. Either everything lands or
// nothing does.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	insertOrder := `
		INSERT INTO orders
			(ordernumber, userid, email,
			 shippingname, shippingphone, shippingaddress, shippingcity, shippingstate, shippingzip,
			 subtotal, shippingcost, total, status, paymentmethod, paymentstatus,
			 razorpayorderid, idempotencykey, createdat)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
		RETURNING orderid
	`
	var idemKey *string
	if o.IdempotencyKey != nil && *o.IdempotencyKey != "" {
		idemKey = o.IdempotencyKey
	}
	err = tx.QueryRow(ctx, insertOrder,
		o.OrderNumber, o.UserID, o.Email,
		o.ShippingName, o.ShippingPhone, o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingZip,
		o.Subtotal, o.ShippingCost, o.Total, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.RazorpayOrderID, idemKey,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	insertItem := `
		INSERT INTO orderitems
			(orderid, productid, productname, productimage, unitprice, quantity, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, it := range items {
		if _, err := tx.Exec(ctx, insertItem,
			orderID, it.ProductID, it.ProductName, it.ProductImage, it.UnitPrice, it.Quantity, it.Size,
		); err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return orderID, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE orderid=$1`
	return scanOrder(r.DB.QueryRow(ctx, query, orderID))
}

func (r *OrderRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE razorpayorderid=$1`
	return scanOrder(r.DB.QueryRow(ctx, query, razorpayOrderID))
}

func (r *OrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE idempotencykey=$1`
	return scanOrder(r.DB.QueryRow(ctx, query, key))
}

func (r *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	query := `SELECT orderitemid, orderid, productid, productname, productimage, unitprice, quantity, size
		FROM orderitems WHERE orderid=$1 ORDER BY orderitemid`
	rows, err := r.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.UnitPrice, &it.Quantity, &it.Size); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SettlePaid performs the PENDING -> CONFIRMED transition for the order
// behind razorpayOrderID. The conditional UPDATE decides the winner: under
// concurrent duplicate calls exactly one observes settled=true, and only
// that one decrements stock. Repeat calls get the already-confirmed order
// with settled=false and no error.
func (r *OrderRepository) SettlePaid(ctx context.Context, razorpayOrderID, razorpayPaymentID string) (*model.Order, bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	settle := `
		UPDATE orders
		SET status=$2, paymentstatus=$3, razorpaypaymentid=$4
		WHERE razorpayorderid=$1 AND status=$5
		RETURNING orderid
	`
	err = tx.QueryRow(ctx, settle,
		razorpayOrderID,
		model.OrderStatusConfirmed, model.PaymentStatusPaid, razorpayPaymentID,
		model.OrderStatusPending,
	).Scan(&orderID)

	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race, already settled, or no such order.
		o, gerr := r.GetByRazorpayOrderID(ctx, razorpayOrderID)
		if gerr != nil {
			return nil, false, gerr
		}
		return o, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("settle order: %w", err)
	}

	// Winner decrements stock, once per order.
	items, err := r.getItemsTx(ctx, tx, orderID)
	if err != nil {
		return nil, false, err
	}
	for _, it := range items {
		won, err := r.Catalog.TryReserveStockTx(ctx, tx, it.ProductID, it.Size, it.Quantity)
		if err != nil {
			return nil, false, fmt.Errorf("decrement stock: %w", err)
		}
		if !won {
			// Payment is already taken; take what is left and flag the shortfall.
			log.Printf("order %d: insufficient stock for %s size %s (wanted %d), clamping to zero",
				orderID, it.ProductID, it.Size, it.Quantity)
			if err := r.Catalog.DecrementStockTx(ctx, tx, it.ProductID, it.Size, it.Quantity); err != nil {
				return nil, false, fmt.Errorf("decrement stock: %w", err)
			}
		}
	}

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE orderid=$1`, orderID))
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit tx: %w", err)
	}
	return o, true, nil
}

func (r *OrderRepository) getItemsTx(ctx context.Context, tx pgx.Tx, orderID int64) ([]model.OrderItem, error) {
	query := `SELECT orderitemid, orderid, productid, productname, productimage, unitprice, quantity, size
		FROM orderitems WHERE orderid=$1`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.OrderItemID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.UnitPrice, &it.Quantity, &it.Size); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByUser returns the caller's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE userid=$1 ORDER BY orderid DESC`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// GetGuestOrder looks up an order by its contact email and order number.
// Guests own orders through this pair; there is no account to log into.
func (r *OrderRepository) GetGuestOrder(ctx context.Context, email, orderNumber string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email=$1 AND ordernumber=$2`
	return scanOrder(r.DB.QueryRow(ctx, query, email, orderNumber))
}

// UpdateStatusIf transitions orderID from one status to another and reports
// whether the row actually moved.
func (r *OrderRepository) UpdateStatusIf(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status=$3 WHERE orderid=$1 AND status=$2`
	tag, err := r.DB.Exec(ctx, query, orderID, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CancelStalePending cancels PENDING orders older than the given age and
// returns how many were swept. Payment was never confirmed for these, so
// no stock was taken.
func (r *OrderRepository) CancelStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE orders
		SET status=$1, paymentstatus=$2
		WHERE status=$3 AND createdat < NOW() - $4::interval
	`
	tag, err := r.DB.Exec(ctx, query,
		model.OrderStatusCancelled, model.PaymentStatusFailed, model.OrderStatusPending,
		fmt.Sprintf("%d seconds", int64(olderThan.Seconds())),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
