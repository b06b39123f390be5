package scraper

import (
	"log/slog"
	"strings"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
	"github.com/minjae-dev/musinsa-price-report/internal/parser"
)

// currencyMarker distinguishes the struck-through list price from other
// numeric spans on a discounted card.
const currencyMarker = "원"

// sentinelName marks a (category, brand) pair whose listing had no cards,
// so empty brands stay visible in the aggregated output.
const sentinelName = "X"

// ExtractProducts turns the rendered cards of one (category, brand)
// listing into product records. Sale prices are deduplicated within this
// call, absent treated as a value of its own: a card whose sale price was
// already seen contributes nothing. A field that cannot be read degrades
// to nil or "N/A"; it never drops the card or aborts the batch.
func ExtractProducts(cards []Card, category, brandName string, logger *slog.Logger) []models.ProductRecord {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "extractor", "category", category, "brand", brandName)

	if len(cards) == 0 {
		logger.Info("no products found, recording sentinel")
		return []models.ProductRecord{{
			Category:    category,
			BrandName:   brandName,
			ProductName: sentinelName,
		}}
	}

	records := make([]models.ProductRecord, 0, len(cards))
	seenPrices := make(map[float64]struct{})
	seenAbsent := false

	for _, card := range cards {
		name, ok := card.DisplayName()
		if !ok {
			logger.Warn("card has no display name")
			name = "N/A"
		}

		var salePrice *float64
		saleText, ok := card.SalePriceText()
		if ok {
			salePrice = parser.ParsePrice(saleText)
		}

		if salePrice == nil {
			if seenAbsent {
				continue
			}
			seenAbsent = true
		} else {
			if _, dup := seenPrices[*salePrice]; dup {
				continue
			}
			seenPrices[*salePrice] = struct{}{}
		}

		var discountRate *float64
		for _, entry := range card.Prices() {
			if entry.Discounted {
				discountRate = parser.ParseDiscountRate(entry.Text)
				break
			}
		}

		originalPrice := salePrice
		if discountRate != nil {
			originalPrice = findOriginalPrice(card.Prices(), saleText, salePrice)
		}

		records = append(records, models.ProductRecord{
			Category:        category,
			BrandName:       brandName,
			ProductName:     name,
			OriginalPrice:   originalPrice,
			DiscountRate:    discountRate,
			ActualSalePrice: salePrice,
		})
	}

	logger.Info("extracted records", "cards", len(cards), "records", len(records))
	return records
}

// findOriginalPrice scans a discounted card for the struck-through list
// price: the first price entry whose text differs from the sale-price text
// and carries the currency marker. Falls back to the sale price when no
// such entry exists, even though a discount rate was detected.
func findOriginalPrice(entries []PriceEntry, saleText string, salePrice *float64) *float64 {
	for _, entry := range entries {
		if entry.Text != "" && entry.Text != saleText && strings.Contains(entry.Text, currencyMarker) {
			return parser.ParsePrice(entry.Text)
		}
	}
	return salePrice
}
