package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookPathDateStamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 14, 30, 15, 0, time.UTC)

	got := WorkbookPath(dir, now)
	assert.Equal(t, filepath.Join(dir, "musinsa_products_20240601.xlsx"), got)
}

func TestWorkbookPathCollision(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 14, 30, 15, 0, time.UTC)

	first := WorkbookPath(dir, now)
	require.NoError(t, os.WriteFile(first, []byte("x"), 0o644))

	second := WorkbookPath(dir, now)
	assert.Equal(t, filepath.Join(dir, "musinsa_products_20240601_143015.xlsx"), second)
	assert.NotEqual(t, first, second)
}

func TestDocumentPath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC)

	got := DocumentPath(dir, now)
	assert.Equal(t, filepath.Join(dir, "report_20240601.docx"), got)

	require.NoError(t, os.WriteFile(got, []byte("x"), 0o644))
	assert.Equal(t, filepath.Join(dir, "report_20240601_090500.docx"), DocumentPath(dir, now))
}
