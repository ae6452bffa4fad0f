//-------------------------------------------------------------------------
//
// Storefront Warehouse ETL
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package mart defines the output table model shared by the transform and
// load layers. A Table carries its destination name, typed columns, and
// rows of Go values; a nil cell is an explicit missing value.
package mart

// Output table names. Warehouse tables are named identically.
const (
	DimCustomers   = "dim_customers"
	DimProducts    = "dim_products"
	DimSellers     = "dim_sellers"
	DimGeolocation = "dim_geolocation"
	DimOrders      = "dim_orders"
	FactOrderItems = "fact_order_items"
)

// ColumnType classifies a column for serialization and DDL inference.
type ColumnType int

const (
	Varchar ColumnType = iota
	Bigint
	Double
	Timestamp
)

// Column is one typed output column.
type Column struct {
	Name string
	Type ColumnType
}

// Table is one output table ready for staging and loading.
//
// Cell values are string, int64, float64, time.Time, or nil. The builder
// that produces a Table is responsible for cells matching column types.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
