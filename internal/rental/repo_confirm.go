package rental

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const confirmRetries = 3

// ConfirmOrder flips a quotation to confirmed iff every line item still fits
// within its product's capacity over its date range. Scan + decide + write run
// inside one transaction: the order row and all referenced product rows are
// locked (FOR UPDATE, ids sorted to keep lock order stable), so concurrent
// confirms against the same products serialize and the loser recomputes
// against the winner's committed items.
//
// A capacity shortfall rolls everything back and is never retried; transient
// serialization/deadlock failures are retried a bounded number of times.
func (r *Repo) ConfirmOrder(ctx context.Context, orderID string) (Order, error) {
	var err error
	for attempt := 0; attempt < confirmRetries; attempt++ {
		err = r.confirmOnce(ctx, orderID)
		if !retryableTxErr(err) {
			break
		}
	}
	if err != nil {
		return Order{}, err
	}
	return r.GetOrder(ctx, orderID)
}

func (r *Repo) confirmOnce(ctx context.Context, orderID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `SELECT status FROM rental_orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	switch status {
	case StatusQuotation:
		// proceed
	case StatusConfirmed, StatusPickedUp, StatusReturned:
		return ErrAlreadyConfirmed
	default:
		return &StateConflictError{OrderID: orderID, Status: status, Op: "confirm"}
	}

	rows, err := tx.Query(ctx, `
		SELECT product_id, quantity, start_date, end_date
		FROM rental_order_items WHERE order_id=$1 ORDER BY line_no`, orderID)
	if err != nil {
		return err
	}
	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.StartDate, &it.EndDate); err != nil {
			rows.Close()
			return err
		}
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// lock product rows in sorted id order
	seen := map[string]bool{}
	var productIDs []string
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			productIDs = append(productIDs, it.ProductID)
		}
	}
	sort.Strings(productIDs)

	totals := map[string]int{}
	prows, err := tx.Query(ctx, `
		SELECT id, total_quantity FROM products
		WHERE id = ANY($1) ORDER BY id FOR UPDATE`, productIDs)
	if err != nil {
		return err
	}
	for prows.Next() {
		var id string
		var total int
		if err := prows.Scan(&id, &total); err != nil {
			prows.Close()
			return err
		}
		totals[id] = total
	}
	prows.Close()
	if err := prows.Err(); err != nil {
		return err
	}

	// re-check each line against all *other* capacity-consuming items
	for _, it := range items {
		total, ok := totals[it.ProductID]
		if !ok {
			return &ValidationError{Field: "product_id", Msg: "product missing: " + it.ProductID}
		}
		var booked int
		err := tx.QueryRow(ctx, bookedOverlapSQL+` AND o.id <> $4`,
			it.ProductID, it.StartDate, it.EndDate, orderID).Scan(&booked)
		if err != nil {
			return err
		}
		available := total - booked
		if available < 0 {
			available = 0
		}
		if available < it.Quantity {
			return &CapacityError{ProductID: it.ProductID, Requested: it.Quantity, Available: available}
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE rental_orders SET status=$2, updated_at=now() WHERE id=$1`,
		orderID, StatusConfirmed); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func retryableTxErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure / deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
