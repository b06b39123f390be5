package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

const (
	summarySheet  = "Summary"
	productsSheet = "Products"
)

var (
	summaryHeader = []string{"Category", "Brand Name", "Metric", "Max", "Min", "Avg Max Min", "Avg"}
	productHeader = []string{"Category", "Brand Name", "Product Name", "Original Price", "Discount Rate", "Actual Sale Price"}

	// Alternating fills for category bands in the brand summary block.
	bandColors = []string{"F0F0F0", "F8F8F8"}
)

// WriteWorkbook writes the full product table and both summary tables to a
// single workbook: a Summary sheet with the category rollup on top and the
// per-brand block below it, and a Products sheet with every record.
// Summary statistics are written as truncated integers, matching the
// document report.
func WriteWorkbook(path string, records []models.ProductRecord, brandRows, categoryRows []models.SummaryRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeSummaryBlock(f, 1, categoryRows); err != nil {
		return err
	}

	// One blank row between the rollup block and the brand block.
	brandHeaderRow := len(categoryRows) + 3
	if err := writeSummaryBlock(f, brandHeaderRow, brandRows); err != nil {
		return err
	}
	if err := bandByCategory(f, brandHeaderRow+1, brandRows); err != nil {
		return err
	}
	autoSizeSummaryColumns(f, brandRows, categoryRows)

	if _, err := f.NewSheet(productsSheet); err != nil {
		return fmt.Errorf("failed to create products sheet: %w", err)
	}
	if err := writeProducts(f, records); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummaryBlock(f *excelize.File, headerRow int, rows []models.SummaryRow) error {
	for col, name := range summaryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, name); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.Category,
			row.BrandName,
			row.Metric,
			int(row.Max),
			int(row.Min),
			int(row.AvgMaxMin),
			int(row.Avg),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}

	filterRange := fmt.Sprintf("A%d:G%d", headerRow, headerRow+len(rows))
	if err := f.AutoFilter(summarySheet, filterRange, nil); err != nil {
		return fmt.Errorf("failed to set autofilter: %w", err)
	}
	return nil
}

// bandByCategory colors the brand summary rows with alternating fills so
// each category reads as one band.
func bandByCategory(f *excelize.File, firstDataRow int, rows []models.SummaryRow) error {
	styles := make(map[string]int, len(bandColors))
	for _, color := range bandColors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: []excelize.Border{
				{Type: "left", Color: "000000", Style: 1},
				{Type: "right", Color: "000000", Style: 1},
				{Type: "top", Color: "000000", Style: 1},
				{Type: "bottom", Color: "000000", Style: 1},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create band style: %w", err)
		}
		styles[color] = id
	}

	bandIdx := -1
	lastCategory := ""
	for i, row := range rows {
		if i == 0 || row.Category != lastCategory {
			bandIdx++
			lastCategory = row.Category
		}
		styleID := styles[bandColors[bandIdx%len(bandColors)]]
		sheetRow := firstDataRow + i
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", sheetRow), fmt.Sprintf("G%d", sheetRow), styleID); err != nil {
			return err
		}
	}
	return nil
}

func autoSizeSummaryColumns(f *excelize.File, brandRows, categoryRows []models.SummaryRow) {
	widths := make([]int, len(summaryHeader))
	for i, name := range summaryHeader {
		widths[i] = len(name)
	}
	for _, row := range append(append([]models.SummaryRow{}, categoryRows...), brandRows...) {
		cells := []string{
			row.Category,
			row.BrandName,
			row.Metric,
			fmt.Sprintf("%d", int(row.Max)),
			fmt.Sprintf("%d", int(row.Min)),
			fmt.Sprintf("%d", int(row.AvgMaxMin)),
			fmt.Sprintf("%d", int(row.Avg)),
		}
		for i, c := range cells {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}
	applyColumnWidths(f, summarySheet, widths)
}

func writeProducts(f *excelize.File, records []models.ProductRecord) error {
	widths := make([]int, len(productHeader))
	for col, name := range productHeader {
		widths[col] = len(name)
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(productsSheet, cell, name); err != nil {
			return err
		}
	}

	for i, r := range records {
		values := []interface{}{
			r.Category,
			r.BrandName,
			r.ProductName,
			floatOrBlank(r.OriginalPrice),
			floatOrBlank(r.DiscountRate),
			floatOrBlank(r.ActualSalePrice),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(productsSheet, cell, v); err != nil {
				return err
			}
			if w := len(fmt.Sprintf("%v", v)); w > widths[col] {
				widths[col] = w
			}
		}
	}
	applyColumnWidths(f, productsSheet, widths)

	filterRange := fmt.Sprintf("A1:F%d", len(records)+1)
	if err := f.AutoFilter(productsSheet, filterRange, nil); err != nil {
		return fmt.Errorf("failed to set autofilter: %w", err)
	}
	return nil
}

func applyColumnWidths(f *excelize.File, sheet string, widths []int) {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		f.SetColWidth(sheet, col, col, float64(w+2))
	}
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
