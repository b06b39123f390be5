package report

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

// WriteCategoryChart renders the average original versus actual sale price
// per brand within one category as a bar chart PNG. A brand missing one of
// the metrics contributes a zero-height bar for it.
func WriteCategoryChart(path, category string, rows []models.SummaryRow) error {
	brands, averages := brandAverages(rows)
	if len(brands) == 0 {
		return fmt.Errorf("no summary rows for category %q", category)
	}

	bars := make([]chart.Value, 0, len(brands)*2)
	for _, brand := range brands {
		avg := averages[brand]
		bars = append(bars,
			chart.Value{Label: brand + "\noriginal", Value: avg.original},
			chart.Value{Label: brand + "\nsale", Value: avg.actual},
		)
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Average Prices for %s", category),
		Width:    1000,
		Height:   500,
		BarWidth: 40,
		Bars:     bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

type priceAverages struct {
	original float64
	actual   float64
}

func brandAverages(rows []models.SummaryRow) ([]string, map[string]priceAverages) {
	var brands []string
	averages := make(map[string]priceAverages)

	for _, row := range rows {
		avg, seen := averages[row.BrandName]
		if !seen {
			brands = append(brands, row.BrandName)
		}
		if isOriginalPriceRow(row) {
			avg.original = row.Avg
		} else {
			avg.actual = row.Avg
		}
		averages[row.BrandName] = avg
	}

	return brands, averages
}
