// Package analytics computes grouped summary statistics over scraped
// product records.
package analytics

import (
	"fmt"
	"sort"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

type groupKey struct {
	category string
	brand    string
}

// Summarize computes the two summary tables over the scraped records: one
// row set grouped by (category, brand) in first-seen order, and one rolled
// up per category, sorted by category, with the synthetic brand label
// "ALL (<category>)". Each group yields up to two rows, one per tracked
// price field; a field with no present values in the group yields none.
func Summarize(records []models.ProductRecord) (brandRows, categoryRows []models.SummaryRow) {
	brandGroups := make(map[groupKey][]models.ProductRecord)
	var brandOrder []groupKey
	catGroups := make(map[string][]models.ProductRecord)
	var categories []string

	for _, r := range records {
		key := groupKey{category: r.Category, brand: r.BrandName}
		if _, ok := brandGroups[key]; !ok {
			brandOrder = append(brandOrder, key)
		}
		brandGroups[key] = append(brandGroups[key], r)

		if _, ok := catGroups[r.Category]; !ok {
			categories = append(categories, r.Category)
		}
		catGroups[r.Category] = append(catGroups[r.Category], r)
	}

	for _, key := range brandOrder {
		brandRows = append(brandRows, summarizeGroup(key.category, key.brand, brandGroups[key])...)
	}

	sort.Strings(categories)
	for _, cat := range categories {
		label := fmt.Sprintf("ALL (%s)", cat)
		categoryRows = append(categoryRows, summarizeGroup(cat, label, catGroups[cat])...)
	}

	return brandRows, categoryRows
}

func summarizeGroup(category, brandName string, group []models.ProductRecord) []models.SummaryRow {
	original := presentValues(group, func(r models.ProductRecord) *float64 { return r.OriginalPrice })
	sale := presentValues(group, func(r models.ProductRecord) *float64 { return r.ActualSalePrice })
	discounts := presentValues(group, func(r models.ProductRecord) *float64 { return r.DiscountRate })

	var rows []models.SummaryRow

	if len(original) > 0 {
		row := statsRow(category, brandName, original)
		row.Metric = fmt.Sprintf("Original Price (%d)", len(original))
		rows = append(rows, row)
	}

	if len(sale) > 0 {
		var avgDiscount float64
		if len(discounts) > 0 {
			avgDiscount = mean(discounts)
		}
		row := statsRow(category, brandName, sale)
		row.Metric = fmt.Sprintf("Actual Sale Price (%.2f%%)", avgDiscount)
		row.DiscountRate = avgDiscount
		rows = append(rows, row)
	}

	return rows
}

func statsRow(category, brandName string, values []float64) models.SummaryRow {
	maxV, minV := values[0], values[0]
	for _, v := range values[1:] {
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
	}

	return models.SummaryRow{
		Category:  category,
		BrandName: brandName,
		Max:       maxV,
		Min:       minV,
		AvgMaxMin: (maxV + minV) / 2,
		Avg:       mean(values),
		Count:     len(values),
	}
}

func presentValues(group []models.ProductRecord, field func(models.ProductRecord) *float64) []float64 {
	var values []float64
	for _, r := range group {
		if v := field(r); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

func mean(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
