//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package transform

import (
	"time"

	"github.com/shopwright/storefront-etl/internal/mart"
)

// Dimension builders project typed records onto fixed column sets and
// deduplicate by the declared business key. Deduplication is stable:
// the first-seen row wins.

// seen tracks dedup keys preserving input order.
type seen map[string]struct{}

func (s seen) first(key string) bool {
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// tsCell converts an optional timestamp to a table cell.
func tsCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// BuildDimCustomers builds dim_customers keyed by customer_unique_id.
func BuildDimCustomers(customers []Customer) mart.Table {
	t := mart.Table{
		Name: mart.DimCustomers,
		Columns: []mart.Column{
			{Name: "customer_unique_id", Type: mart.Varchar},
			{Name: "customer_zip_code_prefix", Type: mart.Varchar},
			{Name: "customer_city", Type: mart.Varchar},
			{Name: "customer_state", Type: mart.Varchar},
		},
	}
	keys := make(seen, len(customers))
	for _, c := range customers {
		if !keys.first(c.CustomerUniqueID) {
			continue
		}
		t.Rows = append(t.Rows, []any{c.CustomerUniqueID, c.ZipPrefix, c.City, c.State})
	}
	return t
}

// BuildDimProducts builds dim_products keyed by product_id. The zero-fill
// of missing physical measurements and the integer cast happen after
// deduplication so the fill cannot affect which rows count as duplicates.
func BuildDimProducts(products []Product) mart.Table {
	t := mart.Table{
		Name: mart.DimProducts,
		Columns: []mart.Column{
			{Name: "product_id", Type: mart.Varchar},
			{Name: "product_category_name", Type: mart.Varchar},
			{Name: "product_weight_g", Type: mart.Bigint},
			{Name: "product_length_cm", Type: mart.Bigint},
			{Name: "product_height_cm", Type: mart.Bigint},
			{Name: "product_width_cm", Type: mart.Bigint},
		},
	}
	keys := make(seen, len(products))
	var deduped []Product
	for _, p := range products {
		if keys.first(p.ProductID) {
			deduped = append(deduped, p)
		}
	}
	for _, p := range deduped {
		t.Rows = append(t.Rows, []any{
			p.ProductID,
			p.CategoryName,
			fillInt(p.WeightG),
			fillInt(p.LengthCM),
			fillInt(p.HeightCM),
			fillInt(p.WidthCM),
		})
	}
	return t
}

// fillInt resolves a missing measurement to 0 and casts to integer.
func fillInt(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(*v)
}

// BuildDimSellers builds dim_sellers keyed by seller_id.
func BuildDimSellers(sellers []Seller) mart.Table {
	t := mart.Table{
		Name: mart.DimSellers,
		Columns: []mart.Column{
			{Name: "seller_id", Type: mart.Varchar},
			{Name: "seller_zip_code_prefix", Type: mart.Varchar},
			{Name: "seller_city", Type: mart.Varchar},
			{Name: "seller_state", Type: mart.Varchar},
		},
	}
	keys := make(seen, len(sellers))
	for _, s := range sellers {
		if !keys.first(s.SellerID) {
			continue
		}
		t.Rows = append(t.Rows, []any{s.SellerID, s.ZipPrefix, s.City, s.State})
	}
	return t
}

// BuildDimGeolocation builds dim_geolocation keyed by zip code prefix.
func BuildDimGeolocation(geos []Geolocation) mart.Table {
	t := mart.Table{
		Name: mart.DimGeolocation,
		Columns: []mart.Column{
			{Name: "geolocation_zip_code_prefix", Type: mart.Varchar},
			{Name: "geolocation_lat", Type: mart.Double},
			{Name: "geolocation_lng", Type: mart.Double},
		},
	}
	keys := make(seen, len(geos))
	for _, g := range geos {
		if !keys.first(g.ZipPrefix) {
			continue
		}
		t.Rows = append(t.Rows, []any{g.ZipPrefix, floatCell(g.Lat), floatCell(g.Lng)})
	}
	return t
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// BuildDimOrders builds dim_orders keyed by order_id, carrying the order
// status and the five lifecycle timestamps.
func BuildDimOrders(orders []Order) mart.Table {
	t := mart.Table{
		Name: mart.DimOrders,
		Columns: []mart.Column{
			{Name: "order_id", Type: mart.Varchar},
			{Name: "customer_id", Type: mart.Varchar},
			{Name: "order_status", Type: mart.Varchar},
			{Name: "order_purchase_timestamp", Type: mart.Timestamp},
			{Name: "order_approved_at", Type: mart.Timestamp},
			{Name: "order_delivered_carrier_date", Type: mart.Timestamp},
			{Name: "order_delivered_customer_date", Type: mart.Timestamp},
			{Name: "order_estimated_delivery_date", Type: mart.Timestamp},
		},
	}
	keys := make(seen, len(orders))
	for _, o := range orders {
		if !keys.first(o.OrderID) {
			continue
		}
		t.Rows = append(t.Rows, []any{
			o.OrderID, o.CustomerID, o.Status,
			tsCell(o.PurchaseTS), tsCell(o.ApprovedAt), tsCell(o.DeliveredCarrier),
			tsCell(o.DeliveredCustomer), tsCell(o.EstimatedDelivery),
		})
	}
	return t
}
