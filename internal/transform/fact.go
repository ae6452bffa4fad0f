//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"github.com/shopwright/storefront-etl/internal/mart"
)

// FactStats reports observable counts from fact assembly. DroppedOrders is
// the number of orders discarded by the orders-to-customers inner join; the
// customers dataset is supposed to be complete, so a non-zero count is a
// data-quality signal worth surfacing rather than silently absorbing.
type FactStats struct {
	Orders        int
	DroppedOrders int
	Items         int
	Rows          int
}

// orderCustomer is one row of the orders-customers inner join.
type orderCustomer struct {
	order    Order
	customer Customer
}

// paymentAgg accumulates per-order payment aggregates.
type paymentAgg struct {
	value        float64
	installments int64
	typeCounts   map[string]int
	typeFirst    map[string]int
}

// mode returns the most frequent payment type, ties broken by first
// occurrence in input order.
func (a *paymentAgg) mode() string {
	best := ""
	bestCount := -1
	bestFirst := 0
	for t, n := range a.typeCounts {
		first := a.typeFirst[t]
		if n > bestCount || (n == bestCount && first < bestFirst) {
			best, bestCount, bestFirst = t, n, first
		}
	}
	return best
}

// reviewAgg accumulates per-order review score sums.
type reviewAgg struct {
	sum   int64
	count int64
}

// BuildFactOrderItems assembles the fact table at (order_id, order_item_id)
// grain:
//
//  1. orders join customers on customer_id (inner; dropped orders counted),
//  2. join order_items on order_id (inner, one row per item),
//  3. left-join per-order payment aggregates (sum value, max installments,
//     mode type),
//  4. left-join per-order mean review score,
//  5. project and fill: missing payment_value/installments/review_score
//     resolve to 0, installments and score cast to integer.
//
// Left joins never drop rows, so output row count equals the step-2 row
// count. Output row order follows order_items input order; aggregate
// tie-breaks depend only on input order, keeping runs reproducible.
func BuildFactOrderItems(orders []Order, customers []Customer, items []OrderItem,
	payments []Payment, reviews []Review) (mart.Table, FactStats) {

	stats := FactStats{Orders: len(orders), Items: len(items)}

	customersByID := make(map[string]Customer, len(customers))
	for _, c := range customers {
		if _, ok := customersByID[c.CustomerID]; !ok {
			customersByID[c.CustomerID] = c
		}
	}

	joined := make(map[string]orderCustomer, len(orders))
	for _, o := range orders {
		c, ok := customersByID[o.CustomerID]
		if !ok {
			stats.DroppedOrders++
			continue
		}
		if _, dup := joined[o.OrderID]; !dup {
			joined[o.OrderID] = orderCustomer{order: o, customer: c}
		}
	}

	paymentsByOrder := make(map[string]*paymentAgg)
	for i, p := range payments {
		agg, ok := paymentsByOrder[p.OrderID]
		if !ok {
			agg = &paymentAgg{
				typeCounts: make(map[string]int),
				typeFirst:  make(map[string]int),
			}
			paymentsByOrder[p.OrderID] = agg
		}
		agg.value += p.Value
		if p.Installments > agg.installments {
			agg.installments = p.Installments
		}
		if _, seen := agg.typeFirst[p.Type]; !seen {
			agg.typeFirst[p.Type] = i
		}
		agg.typeCounts[p.Type]++
	}

	reviewsByOrder := make(map[string]*reviewAgg)
	for _, r := range reviews {
		if r.Score == nil {
			continue
		}
		agg, ok := reviewsByOrder[r.OrderID]
		if !ok {
			agg = &reviewAgg{}
			reviewsByOrder[r.OrderID] = agg
		}
		agg.sum += *r.Score
		agg.count++
	}

	t := mart.Table{
		Name: mart.FactOrderItems,
		Columns: []mart.Column{
			{Name: "order_id", Type: mart.Varchar},
			{Name: "order_item_id", Type: mart.Bigint},
			{Name: "product_id", Type: mart.Varchar},
			{Name: "seller_id", Type: mart.Varchar},
			{Name: "customer_unique_id", Type: mart.Varchar},
			{Name: "order_status", Type: mart.Varchar},
			{Name: "order_purchase_timestamp", Type: mart.Timestamp},
			{Name: "price", Type: mart.Double},
			{Name: "freight_value", Type: mart.Double},
			{Name: "payment_value", Type: mart.Double},
			{Name: "payment_installments", Type: mart.Bigint},
			{Name: "payment_type", Type: mart.Varchar},
			{Name: "review_score", Type: mart.Bigint},
		},
	}

	for _, item := range items {
		oc, ok := joined[item.OrderID]
		if !ok {
			continue
		}

		var paymentValue float64
		var installments int64
		var paymentType any
		if agg, ok := paymentsByOrder[item.OrderID]; ok {
			paymentValue = agg.value
			installments = agg.installments
			paymentType = agg.mode()
		}

		// Mean score is cast, not rounded; 0 doubles as the no-review
		// sentinel since genuine scores start at 1.
		var reviewScore int64
		if agg, ok := reviewsByOrder[item.OrderID]; ok && agg.count > 0 {
			reviewScore = agg.sum / agg.count
		}

		t.Rows = append(t.Rows, []any{
			item.OrderID,
			item.OrderItemID,
			item.ProductID,
			item.SellerID,
			oc.customer.CustomerUniqueID,
			oc.order.Status,
			tsCell(oc.order.PurchaseTS),
			floatCell(item.Price),
			floatCell(item.FreightValue),
			paymentValue,
			installments,
			paymentType,
			reviewScore,
		})
	}
	stats.Rows = len(t.Rows)

	return t, stats
}
