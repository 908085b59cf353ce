// Package report derives summaries, chart series and CSV documents from a
// ledger snapshot.
package report

import (
	"fmt"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
)

// View selects the time bucketing of chart series and reports.
type View string

// Supported views.
const (
	ViewWeekly  View = "weekly"
	ViewMonthly View = "monthly"
)

// NoDataLabel is the synthetic bucket rendered for an empty ledger.
const NoDataLabel = "No Data"

// ParseView normalizes a raw view string, defaulting to monthly.
func ParseView(s string) View {
	if s == string(ViewWeekly) {
		return ViewWeekly
	}
	return ViewMonthly
}

// Totals holds the derived budget arithmetic for a ledger.
type Totals struct {
	TotalSpent decimal.Decimal
	// Remaining is budget minus spent and may be negative; it drives the
	// over-budget warning.
	Remaining decimal.Decimal
	// ClampedRemaining is Remaining floored at zero, the value shown to users.
	ClampedRemaining decimal.Decimal
}

// ComputeTotals sums the ledger against the budget.
func ComputeTotals(records []models.Expense, budget decimal.Decimal) Totals {
	spent := decimal.Zero
	for i := range records {
		spent = spent.Add(records[i].Amount)
	}
	remaining := budget.Sub(spent)
	clamped := remaining
	if clamped.IsNegative() {
		clamped = decimal.Zero
	}
	return Totals{TotalSpent: spent, Remaining: remaining, ClampedRemaining: clamped}
}

// CategoryTotal is one category's summed amount.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// CategorySummary groups the ledger by exact category string, in order of
// first occurrence. An empty ledger yields an empty slice.
func CategorySummary(records []models.Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for i := range records {
		cat := records[i].Category
		if at, ok := index[cat]; ok {
			totals[at].Amount = totals[at].Amount.Add(records[i].Amount)
			continue
		}
		index[cat] = len(totals)
		totals = append(totals, CategoryTotal{Category: cat, Amount: records[i].Amount})
	}
	return totals
}

// BucketSeries is the three parallel series handed to the charting surface.
// Budget and Remaining repeat the same value per bucket; they are reference
// lines, not per-bucket figures.
type BucketSeries struct {
	Labels    []string
	Expenses  []decimal.Decimal
	Budget    []decimal.Decimal
	Remaining []decimal.Decimal
}

// BucketSummary groups the ledger into weekly or monthly buckets, ordered by
// first occurrence. Weekly buckets are month-relative: day 1-7 is "Week 1",
// day 8-14 "Week 2", and so on; they do not run across month boundaries.
// An empty ledger produces a single zero-valued "No Data" bucket.
func BucketSummary(records []models.Expense, view View, budget decimal.Decimal) BucketSeries {
	totals := ComputeTotals(records, budget)

	index := make(map[string]int)
	var series BucketSeries
	for i := range records {
		key := BucketLabel(records[i].Date, view)
		if at, ok := index[key]; ok {
			series.Expenses[at] = series.Expenses[at].Add(records[i].Amount)
			continue
		}
		index[key] = len(series.Labels)
		series.Labels = append(series.Labels, key)
		series.Expenses = append(series.Expenses, records[i].Amount)
	}

	if len(series.Labels) == 0 {
		series.Labels = []string{NoDataLabel}
		series.Expenses = []decimal.Decimal{decimal.Zero}
	}

	for range series.Labels {
		series.Budget = append(series.Budget, budget)
		series.Remaining = append(series.Remaining, totals.ClampedRemaining)
	}
	return series
}

// BucketLabel returns the bucket key for a date under the given view.
func BucketLabel(date time.Time, view View) string {
	if view == ViewWeekly {
		week := (date.Day() + 6) / 7
		return fmt.Sprintf("Week %d", week)
	}
	return date.Month().String()
}
