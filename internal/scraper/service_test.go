package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingURL(t *testing.T) {
	svc := NewService(nil, DefaultOptions(), nil)

	got := svc.ListingURL("musinsastandard", "셔츠")
	assert.Contains(t, got, "https://www.musinsa.com/brands/musinsastandard?")
	assert.Contains(t, got, "includeKeywords=%EC%85%94%EC%B8%A0")
	assert.Contains(t, got, "sortCode=NEW")
	assert.Contains(t, got, "size=120")
	assert.Contains(t, got, "listViewType=3GridView")
}

type fakePage struct{ playwright.Page }

func (fakePage) Close(...playwright.PageCloseOptions) error { return nil }

// fakeDriver serves canned HTML per listing URL and can fail navigation
// or the content read for selected URLs.
type fakeDriver struct {
	pages   map[string]string
	navErr  map[string]error
	readErr map[string]error
	current string
}

func (d *fakeDriver) NewPage() (playwright.Page, error) { return fakePage{}, nil }

func (d *fakeDriver) NavigateWithRetry(_ playwright.Page, url string, _ int) error {
	if err := d.navErr[url]; err != nil {
		return err
	}
	d.current = url
	return nil
}

func (d *fakeDriver) ScrollToBottom(playwright.Page, int, time.Duration) {}

func (d *fakeDriver) Content(playwright.Page) (string, error) {
	if err := d.readErr[d.current]; err != nil {
		return "", err
	}
	return d.pages[d.current], nil
}

func newFakeService(d *fakeDriver) *Service {
	opts := DefaultOptions()
	opts.PageWait = 0
	opts.ScrollPause = 0
	opts.RateLimitMin = 0
	opts.RateLimitMax = 0
	return NewService(d, opts, nil)
}

func TestCollectAllNavigationFailureIsFatal(t *testing.T) {
	driver := &fakeDriver{
		pages:  map[string]string{},
		navErr: map[string]error{},
	}
	svc := newFakeService(driver)
	driver.pages[svc.ListingURL("acme", "셔츠")] = listingHTML
	driver.navErr[svc.ListingURL("beta", "셔츠")] = errors.New("net::ERR_CONNECTION_RESET")

	records, err := svc.CollectAll(context.Background(), []string{"acme", "beta"}, []string{"셔츠"})

	// The loop stops at the failed pair but keeps what it collected.
	require.Error(t, err)
	assert.Contains(t, err.Error(), `brand "beta"`)
	require.Len(t, records, 3)
	assert.Equal(t, "acme", records[0].BrandName)
}

func TestCollectAllContentFailureSkipsPair(t *testing.T) {
	driver := &fakeDriver{
		pages:   map[string]string{},
		readErr: map[string]error{},
	}
	svc := newFakeService(driver)
	driver.readErr[svc.ListingURL("acme", "셔츠")] = errors.New("page crashed")
	driver.pages[svc.ListingURL("beta", "셔츠")] = listingHTML

	records, err := svc.CollectAll(context.Background(), []string{"acme", "beta"}, []string{"셔츠"})

	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "beta", r.BrandName)
	}
}

func TestCollectAllEmptyListingYieldsSentinel(t *testing.T) {
	driver := &fakeDriver{pages: map[string]string{}}
	svc := newFakeService(driver)
	driver.pages[svc.ListingURL("acme", "셔츠")] = "<html><body></body></html>"

	records, err := svc.CollectAll(context.Background(), []string{"acme"}, []string{"셔츠"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0].ProductName)
}
