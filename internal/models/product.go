package models

// ProductRecord is one scraped item from a brand listing. Price fields are
// pointers: nil means the rendered card did not expose a parseable value.
// Records are immutable once extracted.
type ProductRecord struct {
	Category        string   `json:"category"`
	BrandName       string   `json:"brand_name"`
	ProductName     string   `json:"product_name"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountRate    *float64 `json:"discount_rate,omitempty"`
	ActualSalePrice *float64 `json:"actual_sale_price,omitempty"`
}

// SummaryRow is one aggregated statistic line for a (category, brand)
// group or a category rollup. Metric is the display label required by the
// report formats; Count and DiscountRate carry the embedded value in
// structured form.
type SummaryRow struct {
	Category     string  `json:"category"`
	BrandName    string  `json:"brand_name"`
	Metric       string  `json:"metric"`
	Max          float64 `json:"max"`
	Min          float64 `json:"min"`
	AvgMaxMin    float64 `json:"avg_max_min"`
	Avg          float64 `json:"avg"`
	Count        int     `json:"count"`
	DiscountRate float64 `json:"discount_rate"`
}

// Float returns a pointer to v. Convenience for building records.
func Float(v float64) *float64 {
	return &v
}
