package transform

import (
	"testing"
)

func i64(v int64) *int64 { return &v }

// Column positions in fact_order_items.
const (
	colOrderID = iota
	colOrderItemID
	colProductID
	colSellerID
	colCustomerUniqueID
	colStatus
	colPurchaseTS
	colPrice
	colFreight
	colPaymentValue
	colInstallments
	colPaymentType
	colReviewScore
)

func TestFactPaymentAggregation(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1", Status: "delivered"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{{OrderID: "o1", OrderItemID: 1, ProductID: "p1", SellerID: "s1"}}
	payments := []Payment{
		{OrderID: "o1", Type: "credit", Installments: 1, Value: 10},
		{OrderID: "o1", Type: "credit", Installments: 2, Value: 5},
	}

	fact, _ := BuildFactOrderItems(orders, customers, items, payments, nil)

	if len(fact.Rows) != 1 {
		t.Fatalf("Expected 1 fact row, got %d", len(fact.Rows))
	}
	row := fact.Rows[0]
	if row[colPaymentValue] != 15.0 {
		t.Errorf("payment_value = %v, want 15", row[colPaymentValue])
	}
	if row[colInstallments] != int64(2) {
		t.Errorf("payment_installments = %v, want 2", row[colInstallments])
	}
	if row[colPaymentType] != "credit" {
		t.Errorf("payment_type = %v, want credit", row[colPaymentType])
	}
}

func TestFactPaymentTypeModeTieBreak(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{{OrderID: "o1", OrderItemID: 1}}
	// voucher and credit both occur twice; voucher appears first.
	payments := []Payment{
		{OrderID: "o1", Type: "voucher", Value: 1},
		{OrderID: "o1", Type: "credit", Value: 2},
		{OrderID: "o1", Type: "voucher", Value: 3},
		{OrderID: "o1", Type: "credit", Value: 4},
	}

	fact, _ := BuildFactOrderItems(orders, customers, items, payments, nil)
	if fact.Rows[0][colPaymentType] != "voucher" {
		t.Errorf("Mode tie should break to first encountered, got %v",
			fact.Rows[0][colPaymentType])
	}
}

func TestFactMissingPaymentAndReviewFillZero(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{{OrderID: "o1", OrderItemID: 1}}

	fact, _ := BuildFactOrderItems(orders, customers, items, nil, nil)

	row := fact.Rows[0]
	if row[colPaymentValue] != 0.0 {
		t.Errorf("Missing payment_value should fill 0, got %v", row[colPaymentValue])
	}
	if row[colInstallments] != int64(0) {
		t.Errorf("Missing payment_installments should fill 0, got %v", row[colInstallments])
	}
	if row[colReviewScore] != int64(0) {
		t.Errorf("Zero reviews should yield score 0, not a missing marker, got %v",
			row[colReviewScore])
	}
	if row[colPaymentType] != nil {
		t.Errorf("Missing payment_type stays a missing marker, got %v", row[colPaymentType])
	}
}

func TestFactReviewScoreMean(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{{OrderID: "o1", OrderItemID: 1}}
	reviews := []Review{
		{OrderID: "o1", Score: i64(4)},
		{OrderID: "o1", Score: i64(5)},
	}

	fact, _ := BuildFactOrderItems(orders, customers, items, nil, reviews)

	// mean 4.5 casts to integer 4.
	if fact.Rows[0][colReviewScore] != int64(4) {
		t.Errorf("review_score = %v, want 4", fact.Rows[0][colReviewScore])
	}
}

func TestFactRowCountMatchesInnerJoin(t *testing.T) {
	orders := []Order{
		{OrderID: "o1", CustomerID: "c1"},
		{OrderID: "o2", CustomerID: "c2"},
		{OrderID: "o3", CustomerID: "missing"},
	}
	customers := []Customer{
		{CustomerID: "c1", CustomerUniqueID: "u1"},
		{CustomerID: "c2", CustomerUniqueID: "u2"},
	}
	items := []OrderItem{
		{OrderID: "o1", OrderItemID: 1},
		{OrderID: "o1", OrderItemID: 2},
		{OrderID: "o2", OrderItemID: 1},
		{OrderID: "o3", OrderItemID: 1}, // dropped with its order
		{OrderID: "orphan", OrderItemID: 1},
	}

	fact, stats := BuildFactOrderItems(orders, customers, items, nil, nil)

	// Left joins of aggregates never drop rows: count equals the
	// orders x customers x items inner join.
	if len(fact.Rows) != 3 {
		t.Errorf("Expected 3 fact rows, got %d", len(fact.Rows))
	}
	if stats.DroppedOrders != 1 {
		t.Errorf("Expected 1 dropped order, got %d", stats.DroppedOrders)
	}
	if stats.Rows != len(fact.Rows) {
		t.Errorf("Stats.Rows %d disagrees with table %d", stats.Rows, len(fact.Rows))
	}
}

func TestFactItemsShareOrderAggregates(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1", Status: "shipped"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{
		{OrderID: "o1", OrderItemID: 1, ProductID: "p1", SellerID: "s1"},
		{OrderID: "o1", OrderItemID: 2, ProductID: "p2", SellerID: "s1"},
	}
	payments := []Payment{
		{OrderID: "o1", Type: "credit", Installments: 1, Value: 10},
		{OrderID: "o1", Type: "credit", Installments: 2, Value: 5},
	}
	reviews := []Review{{OrderID: "o1", Score: i64(5)}}

	fact, _ := BuildFactOrderItems(orders, customers, items, payments, reviews)

	if len(fact.Rows) != 2 {
		t.Fatalf("Expected 2 fact rows for 2 items, got %d", len(fact.Rows))
	}
	for _, row := range fact.Rows {
		if row[colPaymentValue] != 15.0 || row[colInstallments] != int64(2) ||
			row[colReviewScore] != int64(5) {
			t.Errorf("Item rows should share order aggregates, got %v", row)
		}
	}
	if fact.Rows[0][colOrderItemID] == fact.Rows[1][colOrderItemID] {
		t.Error("Item rows should keep distinct order_item_id")
	}
}

func TestFactUnscoredReviewsExcluded(t *testing.T) {
	orders := []Order{{OrderID: "o1", CustomerID: "c1"}}
	customers := []Customer{{CustomerID: "c1", CustomerUniqueID: "u1"}}
	items := []OrderItem{{OrderID: "o1", OrderItemID: 1}}
	reviews := []Review{
		{OrderID: "o1", Score: nil},
		{OrderID: "o1", Score: i64(3)},
	}

	fact, _ := BuildFactOrderItems(orders, customers, items, nil, reviews)
	if fact.Rows[0][colReviewScore] != int64(3) {
		t.Errorf("Unscored review should not dilute mean, got %v",
			fact.Rows[0][colReviewScore])
	}
}
