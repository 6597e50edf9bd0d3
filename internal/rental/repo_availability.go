package rental

import (
	"context"
	"time"
)

// Overlap predicate on half-open ranges: item.start < $end AND $start < item.end.
const bookedOverlapSQL = `
	SELECT COALESCE(SUM(i.quantity), 0)
	FROM rental_order_items i
	JOIN rental_orders o ON o.id = i.order_id
	WHERE i.product_id = $1
	  AND o.status IN ('confirmed','picked_up')
	  AND i.start_date < $3
	  AND $2 < i.end_date`

// Available derives free units for [start,end) from the ledger at read time.
// Read-only, no locks; tolerates eventual consistency.
func (r *Repo) Available(ctx context.Context, productID string, start, end time.Time) (available, total int, err error) {
	p, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	var booked int
	if err := r.DB.QueryRow(ctx, bookedOverlapSQL, productID, start, end).Scan(&booked); err != nil {
		return 0, 0, err
	}
	available = p.TotalQuantity - booked
	if available < 0 {
		available = 0
	}
	return available, p.TotalQuantity, nil
}

// CapacityItems returns every capacity-consuming line item for a product,
// sorted by start date. Feeds FreeSlots and NextAvailableAt.
func (r *Repo) CapacityItems(ctx context.Context, productID string) ([]LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.product_id, i.quantity, i.start_date, i.end_date, i.price_per_unit_cents, i.total_price_cents
		FROM rental_order_items i
		JOIN rental_orders o ON o.id = i.order_id
		WHERE i.product_id = $1 AND o.status IN ('confirmed','picked_up')
		ORDER BY i.start_date`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.StartDate, &it.EndDate, &it.PricePerUnitCents, &it.TotalPriceCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
