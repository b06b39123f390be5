package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextHeadersIncludeAcceptLanguage(t *testing.T) {
	opts := DefaultOptions()

	headers := contextHeaders(opts)

	assert.Equal(t, opts.AcceptLanguage, headers["Accept-Language"])
	assert.Equal(t, "1", headers["DNT"])
	// The input map stays untouched.
	assert.NotContains(t, opts.ExtraHeaders, "Accept-Language")
}

func TestContextHeadersWithoutAcceptLanguage(t *testing.T) {
	opts := &Options{ExtraHeaders: map[string]string{"DNT": "1"}}

	headers := contextHeaders(opts)

	assert.NotContains(t, headers, "Accept-Language")
	assert.Equal(t, "1", headers["DNT"])
}
