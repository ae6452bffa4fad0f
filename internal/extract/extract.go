//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads the raw e-commerce extract files into memory.
// Each extract is an immutable tabular dataset identified by a dataset
// name; columns are whatever the file header defines.
package extract

import "fmt"

// Dataset names for the nine fixed extracts.
const (
	Orders              = "orders"
	Customers           = "customers"
	OrderItems          = "order_items"
	Payments            = "payments"
	Reviews             = "reviews"
	Products            = "products"
	Sellers             = "sellers"
	Geolocation         = "geolocation"
	CategoryTranslation = "category_translation"
)

// Filenames maps dataset names to the fixed extract filenames delivered
// by the upstream source.
var Filenames = map[string]string{
	Customers:           "olist_customers_dataset.csv",
	Geolocation:         "olist_geolocation_dataset.csv",
	OrderItems:          "olist_order_items_dataset.csv",
	Payments:            "olist_order_payments_dataset.csv",
	Reviews:             "olist_order_reviews_dataset.csv",
	Orders:              "olist_orders_dataset.csv",
	Products:            "olist_products_dataset.csv",
	Sellers:             "olist_sellers_dataset.csv",
	CategoryTranslation: "product_category_name_translation.csv",
}

// Extract is one raw dataset held in memory: a header and string rows.
type Extract struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (e *Extract) ColumnIndex(name string) int {
	for i, c := range e.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// RequireColumns returns the positions of the named columns, erroring on
// the first one absent. Absent required columns are schema mismatches,
// fatal to the run.
func (e *Extract) RequireColumns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j := e.ColumnIndex(name)
		if j < 0 {
			return nil, fmt.Errorf("dataset %s: required column %q not found", e.Name, name)
		}
		idx[i] = j
	}
	return idx, nil
}
