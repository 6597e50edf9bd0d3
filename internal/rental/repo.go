package rental

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category, rental_unit, base_price_cents, total_quantity, is_active, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.RentalUnit, &p.BasePriceCents, &p.TotalQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, category, rental_unit, base_price_cents, total_quantity, is_active, created_at, updated_at
		FROM products WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.RentalUnit, &p.BasePriceCents, &p.TotalQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CreateProduct(ctx context.Context, p Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, category, rental_unit, base_price_cents, total_quantity, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Category, p.RentalUnit, p.BasePriceCents, p.TotalQuantity, p.IsActive)
	return err
}

// UpdateProduct is the only writer of total_quantity; booking operations
// never touch it.
func (r *Repo) UpdateProduct(ctx context.Context, p Product) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name=$2, category=$3, rental_unit=$4, base_price_cents=$5, total_quantity=$6, is_active=$7, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Category, p.RentalUnit, p.BasePriceCents, p.TotalQuantity, p.IsActive)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivePriceRule returns the active pricelist rule for a product, or nil.
func (r *Repo) ActivePriceRule(ctx context.Context, productID string) (*PriceRule, error) {
	var rule PriceRule
	err := r.DB.QueryRow(ctx, `
		SELECT product_id, price_cents, discount_type, discount_value
		FROM price_rules WHERE product_id=$1 AND is_active
		ORDER BY created_at DESC LIMIT 1`, productID).
		Scan(&rule.ProductID, &rule.PriceCents, &rule.DiscountType, &rule.DiscountValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// CreateOrder persists a priced order with its items in one transaction.
func (r *Repo) CreateOrder(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO rental_orders(id, order_number, customer_id, status, total_amount_cents, deposit_cents, late_fee_cents, payment_status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.OrderNumber, o.CustomerID, o.Status, o.TotalAmountCents, o.DepositCents, o.LateFeeCents, o.PaymentStatus, o.Notes)
	if err != nil {
		return Order{}, err
	}

	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO rental_order_items(order_id, line_no, product_id, quantity, start_date, end_date, price_per_unit_cents, total_price_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, i, it.ProductID, it.Quantity, it.StartDate, it.EndDate, it.PricePerUnitCents, it.TotalPriceCents)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return r.GetOrder(ctx, o.ID)
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, customer_id, status, total_amount_cents, deposit_cents, late_fee_cents,
		       payment_status, notes, pickup_date, return_date, actual_return_date, created_at, updated_at
		FROM rental_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.TotalAmountCents, &o.DepositCents, &o.LateFeeCents,
			&o.PaymentStatus, &o.Notes, &o.PickupDate, &o.ReturnDate, &o.ActualReturnDate, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, quantity, start_date, end_date, price_per_unit_cents, total_price_cents
		FROM rental_order_items WHERE order_id=$1 ORDER BY line_no`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.StartDate, &it.EndDate, &it.PricePerUnitCents, &it.TotalPriceCents); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return Order{}, err
	}

	prows, err := r.DB.Query(ctx, `
		SELECT order_id, amount_cents, method, transaction_id, paid_at
		FROM order_payments WHERE order_id=$1 ORDER BY paid_at`, id)
	if err != nil {
		return Order{}, err
	}
	defer prows.Close()
	for prows.Next() {
		var p Payment
		if err := prows.Scan(&p.OrderID, &p.AmountCents, &p.Method, &p.TransactionID, &p.PaidAt); err != nil {
			return Order{}, err
		}
		o.Payments = append(o.Payments, p)
	}
	return o, prows.Err()
}

func (r *Repo) ListCustomerOrders(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT id FROM rental_orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// SetPickedUp flips confirmed -> picked_up. Returns false when the order is
// not currently confirmed.
func (r *Repo) SetPickedUp(ctx context.Context, orderID string, at time.Time) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE rental_orders SET status=$2, pickup_date=$3, updated_at=now()
		WHERE id=$1 AND status=$4`,
		orderID, StatusPickedUp, at, StatusConfirmed)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// SetReturned flips picked_up -> returned and records late fees. picked_up is
// the sole valid predecessor.
func (r *Repo) SetReturned(ctx context.Context, orderID string, at time.Time, lateFeeCents int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE rental_orders SET status=$2, actual_return_date=$3, late_fee_cents=$4, updated_at=now()
		WHERE id=$1 AND status=$5`,
		orderID, StatusReturned, at, lateFeeCents, StatusPickedUp)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// CancelIfActive cancels from any non-terminal status. Cancelled orders drop
// out of the overlap scan; no capacity bookkeeping is needed.
func (r *Repo) CancelIfActive(ctx context.Context, orderID string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE rental_orders SET status=$2, updated_at=now()
		WHERE id=$1 AND status IN ($3,$4,$5)`,
		orderID, StatusCancelled, StatusQuotation, StatusConfirmed, StatusPickedUp)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// AddPayment appends a payment record and stores the recomputed payment
// status in one transaction.
func (r *Repo) AddPayment(ctx context.Context, orderID string, p Payment, newStatus PaymentStatus) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO order_payments(order_id, amount_cents, method, transaction_id, paid_at)
		VALUES ($1,$2,$3,$4,$5)`,
		orderID, p.AmountCents, p.Method, p.TransactionID, p.PaidAt); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `UPDATE rental_orders SET payment_status=$2, updated_at=now() WHERE id=$1`,
		orderID, newStatus)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
