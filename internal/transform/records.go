package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopwright/storefront-etl/internal/extract"
)

// Typed records decoded from normalized extracts. Optional fields are
// pointers; nil is the explicit missing marker. Fill policies are applied
// at aggregation boundaries, not here.

// Order is one row of the orders extract.
type Order struct {
	OrderID           string
	CustomerID        string
	Status            string
	PurchaseTS        *time.Time
	ApprovedAt        *time.Time
	DeliveredCarrier  *time.Time
	DeliveredCustomer *time.Time
	EstimatedDelivery *time.Time
}

// Customer is one row of the customers extract.
type Customer struct {
	CustomerID       string
	CustomerUniqueID string
	ZipPrefix        string
	City             string
	State            string
}

// OrderItem is one row of the order_items extract.
type OrderItem struct {
	OrderID      string
	OrderItemID  int64
	ProductID    string
	SellerID     string
	Price        *float64
	FreightValue *float64
}

// Payment is one row of the payments extract.
type Payment struct {
	OrderID      string
	Type         string
	Installments int64
	Value        float64
}

// Review is one row of the reviews extract.
type Review struct {
	OrderID    string
	Score      *int64
	CreatedAt  *time.Time
	AnsweredAt *time.Time
}

// Product is one row of the products extract. The four physical
// measurements stay fractional until the dimension builder casts them.
type Product struct {
	ProductID    string
	CategoryName string
	WeightG      *float64
	LengthCM     *float64
	HeightCM     *float64
	WidthCM      *float64
}

// Seller is one row of the sellers extract.
type Seller struct {
	SellerID  string
	ZipPrefix string
	City      string
	State     string
}

// Geolocation is one row of the geolocation extract.
type Geolocation struct {
	ZipPrefix string
	Lat       *float64
	Lng       *float64
}

// CategoryTranslation maps a category name to its English label.
type CategoryTranslation struct {
	CategoryName string
	English      string
}

// cell returns the i-th field of a possibly ragged row.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseFloat returns nil for empty or unparseable cells.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseInt returns nil for empty or unparseable cells.
func parseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some extracts serialize integral values as floats.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			n := int64(f)
			return &n
		}
		return nil
	}
	return &v
}

// DecodeOrders decodes the orders extract, coercing the five lifecycle
// timestamp columns. Unparseable timestamps become missing markers.
func DecodeOrders(ex *extract.Extract) ([]Order, error) {
	idx, err := ex.RequireColumns(
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at",
		"order_delivered_carrier_date", "order_delivered_customer_date",
		"order_estimated_delivery_date",
	)
	if err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		orders = append(orders, Order{
			OrderID:           cell(row, idx[0]),
			CustomerID:        cell(row, idx[1]),
			Status:            cell(row, idx[2]),
			PurchaseTS:        ParseTimestamp(cell(row, idx[3])),
			ApprovedAt:        ParseTimestamp(cell(row, idx[4])),
			DeliveredCarrier:  ParseTimestamp(cell(row, idx[5])),
			DeliveredCustomer: ParseTimestamp(cell(row, idx[6])),
			EstimatedDelivery: ParseTimestamp(cell(row, idx[7])),
		})
	}
	return orders, nil
}

// DecodeCustomers decodes the customers extract.
func DecodeCustomers(ex *extract.Extract) ([]Customer, error) {
	idx, err := ex.RequireColumns(
		"customer_id", "customer_unique_id",
		"customer_zip_code_prefix", "customer_city", "customer_state",
	)
	if err != nil {
		return nil, err
	}
	customers := make([]Customer, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		customers = append(customers, Customer{
			CustomerID:       cell(row, idx[0]),
			CustomerUniqueID: cell(row, idx[1]),
			ZipPrefix:        cell(row, idx[2]),
			City:             cell(row, idx[3]),
			State:            cell(row, idx[4]),
		})
	}
	return customers, nil
}

// DecodeOrderItems decodes the order_items extract. A malformed
// order_item_id breaks the fact-table grain and is fatal.
func DecodeOrderItems(ex *extract.Extract) ([]OrderItem, error) {
	idx, err := ex.RequireColumns(
		"order_id", "order_item_id", "product_id", "seller_id",
		"price", "freight_value",
	)
	if err != nil {
		return nil, err
	}
	items := make([]OrderItem, 0, len(ex.Rows))
	for i, row := range ex.Rows {
		itemID := parseInt(cell(row, idx[1]))
		if itemID == nil {
			return nil, fmt.Errorf("dataset %s row %d: malformed order_item_id %q",
				ex.Name, i+1, cell(row, idx[1]))
		}
		items = append(items, OrderItem{
			OrderID:      cell(row, idx[0]),
			OrderItemID:  *itemID,
			ProductID:    cell(row, idx[2]),
			SellerID:     cell(row, idx[3]),
			Price:        parseFloat(cell(row, idx[4])),
			FreightValue: parseFloat(cell(row, idx[5])),
		})
	}
	return items, nil
}

// DecodePayments decodes the payments extract. Malformed numeric cells
// resolve to 0, a data-quality condition rather than an error.
func DecodePayments(ex *extract.Extract) ([]Payment, error) {
	idx, err := ex.RequireColumns(
		"order_id", "payment_type", "payment_installments", "payment_value",
	)
	if err != nil {
		return nil, err
	}
	payments := make([]Payment, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		var installments int64
		if v := parseInt(cell(row, idx[2])); v != nil {
			installments = *v
		}
		var value float64
		if v := parseFloat(cell(row, idx[3])); v != nil {
			value = *v
		}
		payments = append(payments, Payment{
			OrderID:      cell(row, idx[0]),
			Type:         cell(row, idx[1]),
			Installments: installments,
			Value:        value,
		})
	}
	return payments, nil
}

// DecodeReviews decodes the reviews extract, coercing the two review
// timestamp columns. An unparseable score is a missing marker and is
// excluded from aggregation.
func DecodeReviews(ex *extract.Extract) ([]Review, error) {
	idx, err := ex.RequireColumns(
		"order_id", "review_score", "review_creation_date", "review_answer_timestamp",
	)
	if err != nil {
		return nil, err
	}
	reviews := make([]Review, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		reviews = append(reviews, Review{
			OrderID:    cell(row, idx[0]),
			Score:      parseInt(cell(row, idx[1])),
			CreatedAt:  ParseTimestamp(cell(row, idx[2])),
			AnsweredAt: ParseTimestamp(cell(row, idx[3])),
		})
	}
	return reviews, nil
}

// DecodeProducts decodes the products extract.
func DecodeProducts(ex *extract.Extract) ([]Product, error) {
	idx, err := ex.RequireColumns(
		"product_id", "product_category_name",
		"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm",
	)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		products = append(products, Product{
			ProductID:    cell(row, idx[0]),
			CategoryName: cell(row, idx[1]),
			WeightG:      parseFloat(cell(row, idx[2])),
			LengthCM:     parseFloat(cell(row, idx[3])),
			HeightCM:     parseFloat(cell(row, idx[4])),
			WidthCM:      parseFloat(cell(row, idx[5])),
		})
	}
	return products, nil
}

// DecodeSellers decodes the sellers extract.
func DecodeSellers(ex *extract.Extract) ([]Seller, error) {
	idx, err := ex.RequireColumns(
		"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
	)
	if err != nil {
		return nil, err
	}
	sellers := make([]Seller, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		sellers = append(sellers, Seller{
			SellerID:  cell(row, idx[0]),
			ZipPrefix: cell(row, idx[1]),
			City:      cell(row, idx[2]),
			State:     cell(row, idx[3]),
		})
	}
	return sellers, nil
}

// DecodeGeolocation decodes the geolocation extract.
func DecodeGeolocation(ex *extract.Extract) ([]Geolocation, error) {
	idx, err := ex.RequireColumns(
		"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
	)
	if err != nil {
		return nil, err
	}
	geos := make([]Geolocation, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		geos = append(geos, Geolocation{
			ZipPrefix: cell(row, idx[0]),
			Lat:       parseFloat(cell(row, idx[1])),
			Lng:       parseFloat(cell(row, idx[2])),
		})
	}
	return geos, nil
}

// DecodeCategoryTranslations decodes the category_translation extract.
func DecodeCategoryTranslations(ex *extract.Extract) ([]CategoryTranslation, error) {
	idx, err := ex.RequireColumns(
		"product_category_name", "product_category_name_english",
	)
	if err != nil {
		return nil, err
	}
	translations := make([]CategoryTranslation, 0, len(ex.Rows))
	for _, row := range ex.Rows {
		translations = append(translations, CategoryTranslation{
			CategoryName: cell(row, idx[0]),
			English:      cell(row, idx[1]),
		})
	}
	return translations, nil
}
