package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

var docxTableHeader = []string{"Metric (Count or Rate)", "Max", "Min", "Avg Max Min", "Avg"}

// WriteDocument writes the formatted report: a title, one heading per
// category, one sub-heading and metric table per brand, and an embedded
// bar chart comparing average original and sale prices across the
// category's brands. Chart PNGs are rendered into a temporary directory
// that is removed once the document is saved.
func WriteDocument(path string, brandRows []models.SummaryRow) error {
	chartDir, err := os.MkdirTemp("", "price-report-charts")
	if err != nil {
		return fmt.Errorf("failed to create chart dir: %w", err)
	}
	defer os.RemoveAll(chartDir)

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText("Product Price Analysis Report").Size("40").Bold()

	for _, category := range categoriesInOrder(brandRows) {
		catRows := rowsForCategory(brandRows, category)

		w.AddParagraph().AddText(fmt.Sprintf("Category: %s", category)).Size("32").Bold()

		for _, brand := range brandsInOrder(catRows) {
			w.AddParagraph().AddText(fmt.Sprintf("Brand: %s", brand)).Size("28").Bold()
			if err := addMetricTable(w, rowsForBrand(catRows, brand)); err != nil {
				return err
			}
		}

		chartPath := filepath.Join(chartDir, fmt.Sprintf("chart_%s.png", sanitizeFilename(category)))
		if err := WriteCategoryChart(chartPath, category, catRows); err != nil {
			return err
		}
		if _, err := w.AddParagraph().AddInlineDrawingFrom(chartPath); err != nil {
			return fmt.Errorf("failed to embed chart: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	defer f.Close()

	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func addMetricTable(w *docx.Docx, rows []models.SummaryRow) error {
	tbl := w.AddTable(len(rows)+1, len(docxTableHeader), 8640, nil)
	if len(tbl.TableRows) != len(rows)+1 {
		return fmt.Errorf("unexpected table shape")
	}

	for col, name := range docxTableHeader {
		tbl.TableRows[0].TableCells[col].AddParagraph().AddText(name).Bold()
	}

	for i, row := range rows {
		cells := tbl.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(row.Metric)
		cells[1].AddParagraph().AddText(strconv.Itoa(int(row.Max)))
		cells[2].AddParagraph().AddText(strconv.Itoa(int(row.Min)))
		cells[3].AddParagraph().AddText(strconv.Itoa(int(row.AvgMaxMin)))
		cells[4].AddParagraph().AddText(strconv.Itoa(int(row.Avg)))
	}
	return nil
}

func categoriesInOrder(rows []models.SummaryRow) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

func brandsInOrder(rows []models.SummaryRow) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seen[r.BrandName]; ok {
			continue
		}
		seen[r.BrandName] = struct{}{}
		out = append(out, r.BrandName)
	}
	return out
}

func rowsForCategory(rows []models.SummaryRow, category string) []models.SummaryRow {
	var out []models.SummaryRow
	for _, r := range rows {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func rowsForBrand(rows []models.SummaryRow, brand string) []models.SummaryRow {
	var out []models.SummaryRow
	for _, r := range rows {
		if r.BrandName == brand {
			out = append(out, r)
		}
	}
	return out
}

func isOriginalPriceRow(row models.SummaryRow) bool {
	return strings.HasPrefix(row.Metric, "Original Price")
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
