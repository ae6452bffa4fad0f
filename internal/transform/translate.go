package transform

// ApplyCategoryTranslation replaces each product's category name with its
// English translation where one exists; products without a translation
// keep the original value. The translation table is keyed by category
// name, first match wins, so product row count is unchanged.
func ApplyCategoryTranslation(products []Product, translations []CategoryTranslation) []Product {
	english := make(map[string]string, len(translations))
	for _, tr := range translations {
		if _, seen := english[tr.CategoryName]; !seen {
			english[tr.CategoryName] = tr.English
		}
	}
	for i := range products {
		if tr, ok := english[products[i].CategoryName]; ok && tr != "" {
			products[i].CategoryName = tr
		}
	}
	return products
}
