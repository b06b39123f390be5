// Package report writes the run artifacts: the spreadsheet workbook and
// the document report with per-category charts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WorkbookPath returns the date-stamped workbook path inside dir,
// disambiguated if the name is already taken.
func WorkbookPath(dir string, now time.Time) string {
	return uniquePath(filepath.Join(dir, fmt.Sprintf("musinsa_products_%s.xlsx", now.Format("20060102"))), now)
}

// DocumentPath returns the date-stamped document path inside dir,
// disambiguated if the name is already taken.
func DocumentPath(dir string, now time.Time) string {
	return uniquePath(filepath.Join(dir, fmt.Sprintf("report_%s.docx", now.Format("20060102"))), now)
}

// uniquePath keeps path as-is when free; an existing file gets a
// time-of-day suffix before the extension instead of being overwritten.
func uniquePath(path string, now time.Time) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%s%s", base, now.Format("150405"), ext)
}
