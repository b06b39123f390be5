package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `
<html><body>
<div class="sc-widb61-1 leHifG">
  <span class="sc-dIMoHT xyz">오버사이즈 셔츠</span>
  <span class="sc-fWnslK text-red abc">20%</span>
  <span class="sc-fWnslK abc">39,900원</span>
  <span class="sc-fWnslK abc">49,900원</span>
</div>
<div class="sc-widb61-1 leHifG">
  <span class="sc-dIMoHT xyz">베이직 팬츠</span>
  <span class="sc-fWnslK abc">29,000원</span>
</div>
<div class="sc-widb61-1 leHifG">
  <span class="sc-fWnslK abc">15,000원</span>
</div>
</body></html>`

func TestCardsFromHTML(t *testing.T) {
	cards, err := CardsFromHTML(listingHTML)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	name, ok := cards[0].DisplayName()
	require.True(t, ok)
	assert.Equal(t, "오버사이즈 셔츠", name)

	sale, ok := cards[0].SalePriceText()
	require.True(t, ok)
	assert.Equal(t, "39,900원", sale)

	prices := cards[0].Prices()
	require.Len(t, prices, 3)
	assert.True(t, prices[0].Discounted)
	assert.Equal(t, "20%", prices[0].Text)
	assert.False(t, prices[1].Discounted)

	// Third card has no name element.
	_, ok = cards[2].DisplayName()
	assert.False(t, ok)
}

func TestCardsFromHTMLNoCards(t *testing.T) {
	cards, err := CardsFromHTML("<html><body><p>empty</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardsFromHTMLEndToEndExtraction(t *testing.T) {
	cards, err := CardsFromHTML(listingHTML)
	require.NoError(t, err)

	records := ExtractProducts(cards, "셔츠", "acme", nil)
	require.Len(t, records, 3)

	first := records[0]
	require.NotNil(t, first.DiscountRate)
	assert.Equal(t, 20.0, *first.DiscountRate)
	require.NotNil(t, first.ActualSalePrice)
	assert.Equal(t, 39900.0, *first.ActualSalePrice)
	require.NotNil(t, first.OriginalPrice)
	assert.Equal(t, 49900.0, *first.OriginalPrice)

	second := records[1]
	assert.Nil(t, second.DiscountRate)
	require.NotNil(t, second.OriginalPrice)
	assert.Equal(t, 29000.0, *second.OriginalPrice)

	third := records[2]
	assert.Equal(t, "N/A", third.ProductName)
}
