package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
)

// csvDateLayout is used for the per-row expense date and the filename suffix.
const csvDateLayout = "2006-01-02"

// BuildCSV serializes the ledger into the downloadable report.
//
// Layout: a header row, one denormalized row per expense (budget, total spent
// and clamped remaining repeated on every row), one summary row per category,
// then three trailing aggregate rows. Fields pass through encoding/csv, so
// commas or quotes inside descriptions are escaped.
func BuildCSV(records []models.Expense, budget decimal.Decimal, currency string) ([]byte, error) {
	totals := ComputeTotals(records, budget)
	categories := CategorySummary(records)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Date",
		"Description",
		"Category",
		fmt.Sprintf("Amount (%s)", currency),
		fmt.Sprintf("Budget Set (%s)", currency),
		fmt.Sprintf("Total Spent (%s)", currency),
		fmt.Sprintf("Remaining Budget (%s)", currency),
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range records {
		row := []string{
			records[i].Date.Format(csvDateLayout),
			records[i].Description,
			records[i].Category,
			records[i].Amount.String(),
			budget.String(),
			totals.TotalSpent.String(),
			totals.ClampedRemaining.String(),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	for _, c := range categories {
		row := []string{"", "", c.Category, c.Amount.String(), "", "", ""}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	trailing := [][]string{
		{"", "", "Total Budget", budget.String(), "", "", ""},
		{"", "", "Total Spent", totals.TotalSpent.String(), "", "", ""},
		{"", "", "Remaining Budget", totals.ClampedRemaining.String(), "", "", ""},
	}
	for _, row := range trailing {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write aggregate row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename creates the report filename for a view, user and date, e.g.
// "Expense_Report_monthly_alice_2026-08-31.csv".
func Filename(view View, username string, date time.Time) string {
	return fmt.Sprintf("Expense_Report_%s_%s_%s.csv", view, username, date.Format(csvDateLayout))
}
