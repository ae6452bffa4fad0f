package transform

import (
	"fmt"

	"github.com/shopwright/storefront-etl/internal/extract"
	"github.com/shopwright/storefront-etl/internal/mart"
)

// Records holds every extract decoded into typed records.
type Records struct {
	Orders       []Order
	Customers    []Customer
	Items        []OrderItem
	Payments     []Payment
	Reviews      []Review
	Products     []Product
	Sellers      []Seller
	Geolocations []Geolocation
	Translations []CategoryTranslation
}

// DecodeAll decodes the full normalized extract set. Any schema mismatch
// is fatal to the run.
func DecodeAll(extracts map[string]*extract.Extract) (*Records, error) {
	get := func(name string) (*extract.Extract, error) {
		ex, ok := extracts[name]
		if !ok {
			return nil, fmt.Errorf("dataset %s not present in extract set", name)
		}
		return ex, nil
	}

	r := &Records{}
	var err error

	steps := []struct {
		dataset string
		decode  func(*extract.Extract) error
	}{
		{extract.Orders, func(ex *extract.Extract) (err error) { r.Orders, err = DecodeOrders(ex); return }},
		{extract.Customers, func(ex *extract.Extract) (err error) { r.Customers, err = DecodeCustomers(ex); return }},
		{extract.OrderItems, func(ex *extract.Extract) (err error) { r.Items, err = DecodeOrderItems(ex); return }},
		{extract.Payments, func(ex *extract.Extract) (err error) { r.Payments, err = DecodePayments(ex); return }},
		{extract.Reviews, func(ex *extract.Extract) (err error) { r.Reviews, err = DecodeReviews(ex); return }},
		{extract.Products, func(ex *extract.Extract) (err error) { r.Products, err = DecodeProducts(ex); return }},
		{extract.Sellers, func(ex *extract.Extract) (err error) { r.Sellers, err = DecodeSellers(ex); return }},
		{extract.Geolocation, func(ex *extract.Extract) (err error) { r.Geolocations, err = DecodeGeolocation(ex); return }},
		{extract.CategoryTranslation, func(ex *extract.Extract) (err error) { r.Translations, err = DecodeCategoryTranslations(ex); return }},
	}
	for _, step := range steps {
		ex, gerr := get(step.dataset)
		if gerr != nil {
			return nil, gerr
		}
		if err = step.decode(ex); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// BuildAll produces the six output tables in load order: the five
// dimensions first, the fact table last.
func BuildAll(r *Records) ([]*mart.Table, FactStats) {
	r.Products = ApplyCategoryTranslation(r.Products, r.Translations)

	dimCustomers := BuildDimCustomers(r.Customers)
	dimProducts := BuildDimProducts(r.Products)
	dimSellers := BuildDimSellers(r.Sellers)
	dimGeolocation := BuildDimGeolocation(r.Geolocations)
	dimOrders := BuildDimOrders(r.Orders)
	fact, stats := BuildFactOrderItems(r.Orders, r.Customers, r.Items, r.Payments, r.Reviews)

	return []*mart.Table{
		&dimCustomers, &dimProducts, &dimSellers, &dimGeolocation, &dimOrders, &fact,
	}, stats
}

// OutputSchemas returns schema-only tables, in load order, for
// provisioning destinations out-of-band.
func OutputSchemas() []*mart.Table {
	tables, _ := BuildAll(&Records{})
	for _, t := range tables {
		t.Rows = nil
	}
	return tables
}
