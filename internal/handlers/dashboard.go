package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendtrack/internal/ledger"
	"spendtrack/internal/logger"
	"spendtrack/internal/report"
)

// ExpenseRow represents one ledger entry in the list view.
type ExpenseRow struct {
	Date        string
	Description string
	Category    string
	Amount      string
}

// CategoryRow represents one category total in the summary view.
type CategoryRow struct {
	Category string
	Amount   string
	Percent  float64
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Username    string
	IsAdmin     bool
	Currency    string
	BudgetInput string
	TotalSpent  string
	Remaining   string
	OverBudget  bool
	View        report.View
	Expenses    []ExpenseRow
	Categories  []CategoryRow
	Notice      string
	Warning     string
	Error       string
}

// Dashboard renders the main page: budget strip, add form, summaries, list.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	snap, err := h.ledger.Snapshot(user)
	if err != nil {
		logger.Log.Error().Err(err).Msg("dashboard snapshot failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	totals := report.ComputeTotals(snap.Records, snap.Budget)
	view := report.ParseView(r.URL.Query().Get("view"))

	vm := DashboardViewModel{
		Username:   user.Username,
		IsAdmin:    user.IsAdmin,
		Currency:   h.currency,
		TotalSpent: totals.TotalSpent.String(),
		Remaining:  totals.ClampedRemaining.String(),
		OverBudget: snap.Budget.IsPositive() && totals.Remaining.IsNegative(),
		View:       view,
		Notice:     r.URL.Query().Get("notice"),
		Warning:    r.URL.Query().Get("warn"),
		Error:      r.URL.Query().Get("error"),
	}
	if snap.BudgetSet {
		vm.BudgetInput = snap.Budget.String()
	}

	for i := range snap.Records {
		e := snap.Records[i]
		vm.Expenses = append(vm.Expenses, ExpenseRow{
			Date:        e.Date.Format(ledger.DateLayout),
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount.String(),
		})
	}

	for _, c := range report.CategorySummary(snap.Records) {
		percent := 0.0
		if totals.TotalSpent.IsPositive() {
			percent = c.Amount.Div(totals.TotalSpent).InexactFloat64() * 100
		}
		vm.Categories = append(vm.Categories, CategoryRow{
			Category: c.Category,
			Amount:   c.Amount.String(),
			Percent:  percent,
		})
	}

	h.render(w, r, "dashboard.html", vm)
}

// AddExpense handles the add-expense form submission.
func (h *Handlers) AddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/dashboard", "error", "Invalid form submission")
		return
	}

	result, err := h.ledger.Add(GetUserFromContext(r), ledger.AddInput{
		Amount:      r.FormValue("amount"),
		Category:    r.FormValue("category"),
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		redirectFlash(w, r, "/dashboard", "error", userErrorMessage(err))
		return
	}

	if result.OverBudget {
		redirectFlash(w, r, "/dashboard", "warn", "Warning: You are exceeding your budget!")
		return
	}
	redirectFlash(w, r, "/dashboard", "notice", "Expense added successfully!")
}

// ResetConfirmViewModel holds data for the reset confirmation page.
type ResetConfirmViewModel struct {
	Username string
	Count    int
}

// ResetForm renders the reset confirmation page (step one of two).
func (h *Handlers) ResetForm(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	records, err := h.ledger.Records(user)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "reset.html", ResetConfirmViewModel{
		Username: user.Username,
		Count:    len(records),
	})
}

// Reset destroys the ledger, but only when the confirmation field is present
// (step two). A bare POST is bounced back to the confirmation page.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, "/expenses/reset", http.StatusSeeOther)
		return
	}
	if err := h.ledger.Reset(GetUserFromContext(r)); err != nil {
		redirectFlash(w, r, "/dashboard", "error", userErrorMessage(err))
		return
	}
	redirectFlash(w, r, "/dashboard", "notice", "All expenses reset successfully!")
}

// SetBudget handles the budget form submission.
func (h *Handlers) SetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/dashboard", "error", "Invalid form submission")
		return
	}

	result, err := h.ledger.SetBudget(GetUserFromContext(r), r.FormValue("budget"))
	if err != nil {
		redirectFlash(w, r, "/dashboard", "error", userErrorMessage(err))
		return
	}

	switch {
	case result.Coerced:
		redirectFlash(w, r, "/dashboard", "warn", "Budget cannot be negative! Setting to 0.")
	case result.Unset:
		redirectFlash(w, r, "/dashboard", "notice", "Budget cleared.")
	default:
		redirectFlash(w, r, "/dashboard", "notice", "Budget updated.")
	}
}

// Report streams the CSV report for the requested view.
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	snap, err := h.ledger.Snapshot(user)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view := report.ParseView(r.URL.Query().Get("view"))
	doc, err := report.BuildCSV(snap.Records, snap.Budget, h.currency)
	if err != nil {
		logger.Log.Error().Err(err).Msg("report generation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	filename := report.Filename(view, user.Username, time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(doc)
}

// BucketChart streams the bucket series bar chart as PNG.
func (h *Handlers) BucketChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Snapshot(GetUserFromContext(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view := report.ParseView(r.URL.Query().Get("view"))
	series := report.BucketSummary(snap.Records, view, snap.Budget)
	png, err := report.RenderBucketChart(series, view)
	if err != nil {
		logger.Log.Error().Err(err).Msg("bucket chart render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// CategoryChart streams the category pie chart as PNG, or 204 when the
// ledger is empty.
func (h *Handlers) CategoryChart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Snapshot(GetUserFromContext(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	categories := report.CategorySummary(snap.Records)
	if len(categories) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	png, err := report.RenderCategoryChart(categories)
	if err != nil {
		logger.Log.Error().Err(err).Msg("category chart render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// SubmitFeedback stores a feedback entry from the signed-in user.
func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/dashboard", "error", "Invalid form submission")
		return
	}

	message := strings.TrimSpace(r.FormValue("message"))
	if message == "" {
		redirectFlash(w, r, "/dashboard", "error", "Feedback cannot be empty!")
		return
	}

	user := GetUserFromContext(r)
	if err := h.db.AddFeedback(user.Username, message); err != nil {
		logger.Log.Error().Err(err).Msg("feedback save failed")
		redirectFlash(w, r, "/dashboard", "error", "An error occurred. Please try again.")
		return
	}
	redirectFlash(w, r, "/dashboard", "notice", "Thanks for your feedback!")
}
