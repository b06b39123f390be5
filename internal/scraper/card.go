package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Musinsa renders styled-components class names, so selectors match on the
// stable prefix rather than the full generated class.
const (
	cardSelector  = "div[class*='sc-widb61-1']"
	nameSelector  = "span[class*='sc-dIMoHT']"
	priceSelector = "span[class*='sc-fWnslK']"
	discountClass = "text-red"
)

// PriceEntry is one price text on a card, in document order. Discounted
// marks the highlighted discount-rate element rather than a plain price.
type PriceEntry struct {
	Text       string
	Discounted bool
}

// Card is one rendered product entry on a listing page. Accessors return
// ok=false when the underlying element is missing.
type Card interface {
	DisplayName() (string, bool)
	SalePriceText() (string, bool)
	Prices() []PriceEntry
}

type htmlCard struct {
	sel *goquery.Selection
}

func (c *htmlCard) DisplayName() (string, bool) {
	name := c.sel.Find(nameSelector).First()
	if name.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(name.Text()), true
}

// SalePriceText returns the first price element that is not the highlighted
// discount rate.
func (c *htmlCard) SalePriceText() (string, bool) {
	var text string
	found := false
	c.sel.Find(priceSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if strings.Contains(class, discountClass) {
			return true
		}
		text = strings.TrimSpace(s.Text())
		found = true
		return false
	})
	return text, found
}

func (c *htmlCard) Prices() []PriceEntry {
	var entries []PriceEntry
	c.sel.Find(priceSelector).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		entries = append(entries, PriceEntry{
			Text:       strings.TrimSpace(s.Text()),
			Discounted: strings.Contains(class, discountClass),
		})
	})
	return entries
}

// CardsFromHTML parses a rendered listing page into its product cards.
func CardsFromHTML(html string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var cards []Card
	doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, &htmlCard{sel: s})
	})
	return cards, nil
}
