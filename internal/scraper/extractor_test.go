package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCard builds a Card without HTML for extractor tests.
type fakeCard struct {
	name   string
	noName bool
	sale   string
	noSale bool
	prices []PriceEntry
}

func (c *fakeCard) DisplayName() (string, bool) {
	if c.noName {
		return "", false
	}
	return c.name, true
}

func (c *fakeCard) SalePriceText() (string, bool) {
	if c.noSale {
		return "", false
	}
	return c.sale, true
}

func (c *fakeCard) Prices() []PriceEntry {
	return c.prices
}

func TestExtractProductsEmptyListing(t *testing.T) {
	records := ExtractProducts(nil, "shirts", "acme", nil)

	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].ProductName)
	assert.Equal(t, "shirts", records[0].Category)
	assert.Equal(t, "acme", records[0].BrandName)
	assert.Nil(t, records[0].OriginalPrice)
	assert.Nil(t, records[0].DiscountRate)
	assert.Nil(t, records[0].ActualSalePrice)
}

func TestExtractProductsDeduplicatesSalePrice(t *testing.T) {
	cards := []Card{
		&fakeCard{name: "tee one", sale: "19,900원", prices: []PriceEntry{{Text: "19,900원"}}},
		&fakeCard{name: "tee two", sale: "19,900원", prices: []PriceEntry{{Text: "19,900원"}}},
		&fakeCard{name: "tee three", sale: "29,900원", prices: []PriceEntry{{Text: "29,900원"}}},
	}

	records := ExtractProducts(cards, "shirts", "acme", nil)

	require.Len(t, records, 2)
	assert.Equal(t, "tee one", records[0].ProductName)
	assert.Equal(t, "tee three", records[1].ProductName)
}

func TestExtractProductsDeduplicatesAbsentPrice(t *testing.T) {
	cards := []Card{
		&fakeCard{name: "no price one", noSale: true},
		&fakeCard{name: "no price two", noSale: true},
	}

	records := ExtractProducts(cards, "shirts", "acme", nil)

	// Absent counts as one value: the second card is skipped.
	require.Len(t, records, 1)
	assert.Equal(t, "no price one", records[0].ProductName)
	assert.Nil(t, records[0].ActualSalePrice)
	assert.Nil(t, records[0].OriginalPrice)
}

func TestExtractProductsMissingNameFallsBack(t *testing.T) {
	cards := []Card{
		&fakeCard{noName: true, sale: "10,000원", prices: []PriceEntry{{Text: "10,000원"}}},
	}

	records := ExtractProducts(cards, "shirts", "acme", nil)

	require.Len(t, records, 1)
	assert.Equal(t, "N/A", records[0].ProductName)
}

func TestExtractProductsDiscountedCard(t *testing.T) {
	cards := []Card{
		&fakeCard{
			name: "jacket",
			sale: "45,000원",
			prices: []PriceEntry{
				{Text: "30%", Discounted: true},
				{Text: "45,000원"},
				{Text: "64,900원"},
			},
		},
	}

	records := ExtractProducts(cards, "outer", "acme", nil)

	require.Len(t, records, 1)
	r := records[0]
	require.NotNil(t, r.DiscountRate)
	assert.Equal(t, 30.0, *r.DiscountRate)
	require.NotNil(t, r.ActualSalePrice)
	assert.Equal(t, 45000.0, *r.ActualSalePrice)
	require.NotNil(t, r.OriginalPrice)
	assert.Equal(t, 64900.0, *r.OriginalPrice)
}

func TestExtractProductsDiscountWithoutDistinctListPrice(t *testing.T) {
	// The discount rate entry has no currency marker and the only priced
	// entry matches the sale text, so the original price falls back to
	// the sale price.
	cards := []Card{
		&fakeCard{
			name: "hoodie",
			sale: "45,000원",
			prices: []PriceEntry{
				{Text: "30%", Discounted: true},
				{Text: "45,000원"},
			},
		},
	}

	records := ExtractProducts(cards, "outer", "acme", nil)

	require.Len(t, records, 1)
	r := records[0]
	require.NotNil(t, r.OriginalPrice)
	require.NotNil(t, r.ActualSalePrice)
	assert.Equal(t, *r.ActualSalePrice, *r.OriginalPrice)
}

func TestExtractProductsNoDiscountKeepsPricesEqual(t *testing.T) {
	cards := []Card{
		&fakeCard{name: "basic tee", sale: "19,900원", prices: []PriceEntry{{Text: "19,900원"}}},
		&fakeCard{name: "no price", noSale: true},
	}

	records := ExtractProducts(cards, "shirts", "acme", nil)

	for _, r := range records {
		if r.DiscountRate != nil {
			continue
		}
		if r.ActualSalePrice == nil {
			assert.Nil(t, r.OriginalPrice)
			continue
		}
		require.NotNil(t, r.OriginalPrice)
		assert.Equal(t, *r.ActualSalePrice, *r.OriginalPrice)
	}
}
