package report

import (
	"fmt"

	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"
)

// RenderBucketChart draws the expenses/budget/remaining series as a grouped
// bar chart. Returns PNG image bytes.
func RenderBucketChart(series BucketSeries, view View) ([]byte, error) {
	values := [][]float64{
		toFloats(series.Expenses),
		toFloats(series.Budget),
		toFloats(series.Remaining),
	}

	p, err := charts.BarRender(
		values,
		charts.XAxisLabelsOptionFunc(series.Labels),
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Expenses vs Budget - %s", view),
		}),
		charts.LegendLabelsOptionFunc([]string{"Expenses", "Budget", "Remaining"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

// RenderCategoryChart draws the category breakdown as a pie chart. Returns
// PNG image bytes, or an error for an empty summary.
func RenderCategoryChart(categories []CategoryTotal) ([]byte, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	var values []float64
	var names []string
	for _, c := range categories {
		names = append(names, c.Category)
		values = append(values, c.Amount.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: "Expense Breakdown by Category",
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

func toFloats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
