package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopwright/storefront-etl/internal/extract"
	"github.com/shopwright/storefront-etl/internal/logging"
)

const sampleTimeFormat = "2006-01-02 15:04:05"

var paymentTypes = []string{"credit_card", "boleto", "voucher", "debit_card"}

var orderStatuses = []string{"delivered", "shipped", "invoiced", "processing"}

// GenerateExtracts writes a coherent nine-file sample extract set into dir:
// shared keys across datasets, one customer per order, one to three items
// per order, and deliberate gaps (missing product measurements, orders
// without reviews, blank timestamps) so downstream fill policies are
// exercised.
func GenerateExtracts(dir string, orders int, seed uint64) error {
	if orders < 1 {
		return fmt.Errorf("order count must be at least 1")
	}
	f := NewFakerWithSeed(seed)

	nProducts := orders/2 + 1
	nSellers := orders/5 + 1

	categories := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		categories = append(categories, f.ProductCategory())
	}

	productIDs := make([]string, nProducts)
	productRows := [][]string{{
		"product_id", "product_category_name",
		"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm",
	}}
	for i := range productIDs {
		productIDs[i] = f.UUID()
		weight := strconv.Itoa(f.Number(50, 20000))
		if i%7 == 0 {
			// Missing measurement, resolved to 0 by the dimension builder.
			weight = ""
		}
		productRows = append(productRows, []string{
			productIDs[i], f.Pick(categories),
			weight,
			strconv.Itoa(f.Number(5, 100)),
			strconv.Itoa(f.Number(2, 60)),
			strconv.Itoa(f.Number(5, 80)),
		})
	}

	translationRows := [][]string{{"product_category_name", "product_category_name_english"}}
	for i, c := range categories {
		if i%3 == 0 {
			// Leave some categories untranslated.
			continue
		}
		translationRows = append(translationRows, []string{c, c + "_en"})
	}

	sellerIDs := make([]string, nSellers)
	sellerRows := [][]string{{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"}}
	for i := range sellerIDs {
		sellerIDs[i] = f.UUID()
		sellerRows = append(sellerRows, []string{sellerIDs[i], f.Zip(), f.City(), f.State()})
	}

	geoRows := [][]string{{
		"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
		"geolocation_city", "geolocation_state",
	}}

	customerRows := [][]string{{
		"customer_id", "customer_unique_id",
		"customer_zip_code_prefix", "customer_city", "customer_state",
	}}
	orderRows := [][]string{{
		"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date",
	}}
	itemRows := [][]string{{
		"order_id", "order_item_id", "product_id", "seller_id",
		"shipping_limit_date", "price", "freight_value",
	}}
	paymentRows := [][]string{{
		"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value",
	}}
	reviewRows := [][]string{{
		"review_id", "order_id", "review_score",
		"review_creation_date", "review_answer_timestamp",
	}}

	windowStart := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < orders; i++ {
		orderID := f.UUID()
		customerID := f.UUID()
		zip := f.Zip()

		customerRows = append(customerRows, []string{
			customerID, f.UUID(), zip, f.City(), f.State(),
		})
		geoRows = append(geoRows, []string{
			zip,
			strconv.FormatFloat(f.Latitude(), 'f', 6, 64),
			strconv.FormatFloat(f.Longitude(), 'f', 6, 64),
			f.City(), f.State(),
		})

		purchase := f.DateBetween(windowStart, windowEnd)
		approved := purchase.Add(time.Duration(f.Number(1, 48)) * time.Hour)
		carrier := approved.Add(time.Duration(f.Number(1, 96)) * time.Hour)
		delivered := carrier.Add(time.Duration(f.Number(24, 400)) * time.Hour)
		estimated := purchase.Add(time.Duration(f.Number(5, 30)) * 24 * time.Hour)

		deliveredStr := delivered.Format(sampleTimeFormat)
		if i%9 == 0 {
			// Undelivered order: blank timestamp becomes a missing marker.
			deliveredStr = ""
		}
		orderRows = append(orderRows, []string{
			orderID, customerID, f.Pick(orderStatuses),
			purchase.Format(sampleTimeFormat),
			approved.Format(sampleTimeFormat),
			carrier.Format(sampleTimeFormat),
			deliveredStr,
			estimated.Format(sampleTimeFormat),
		})

		items := f.Number(1, 3)
		total := 0.0
		for item := 1; item <= items; item++ {
			price := f.Price(10, 500)
			freight := f.Price(5, 60)
			total += price + freight
			itemRows = append(itemRows, []string{
				orderID, strconv.Itoa(item),
				productIDs[f.Number(0, nProducts-1)],
				sellerIDs[f.Number(0, nSellers-1)],
				purchase.Add(72 * time.Hour).Format(sampleTimeFormat),
				strconv.FormatFloat(price, 'f', 2, 64),
				strconv.FormatFloat(freight, 'f', 2, 64),
			})
		}

		installments := f.Number(1, 10)
		paymentRows = append(paymentRows, []string{
			orderID, "1", f.Pick(paymentTypes),
			strconv.Itoa(installments),
			strconv.FormatFloat(total, 'f', 2, 64),
		})

		if i%4 != 0 {
			reviewRows = append(reviewRows, []string{
				f.UUID(), orderID, strconv.Itoa(f.Number(1, 5)),
				delivered.Format(sampleTimeFormat),
				delivered.Add(24 * time.Hour).Format(sampleTimeFormat),
			})
		}
	}

	files := map[string][][]string{
		extract.Filenames[extract.Customers]:           customerRows,
		extract.Filenames[extract.Geolocation]:         geoRows,
		extract.Filenames[extract.OrderItems]:          itemRows,
		extract.Filenames[extract.Payments]:            paymentRows,
		extract.Filenames[extract.Reviews]:             reviewRows,
		extract.Filenames[extract.Orders]:              orderRows,
		extract.Filenames[extract.Products]:            productRows,
		extract.Filenames[extract.Sellers]:             sellerRows,
		extract.Filenames[extract.CategoryTranslation]: translationRows,
	}
	for filename, rows := range files {
		if err := writeCSV(filepath.Join(dir, filename), rows); err != nil {
			return err
		}
		logging.Debug().
			Str("file", filename).
			Int("rows", len(rows)-1).
			Msg("Wrote sample extract")
	}

	logging.Info().
		Str("dir", dir).
		Int("orders", orders).
		Msg("Generated sample extract set")
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
