package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"spendtrack/internal/logger"
	"spendtrack/internal/models"
	"spendtrack/internal/report"
)

// AdminUserRow summarizes one user's ledger for the admin overview.
type AdminUserRow struct {
	Username     string
	IsAdmin      bool
	ExpenseCount int
	TotalSpent   string
	Budget       string
	OverBudget   bool
}

// AdminViewModel is the data passed to the admin template.
type AdminViewModel struct {
	Username string
	Currency string
	Users    []AdminUserRow
	Feedback []models.Feedback
	Query    string
	Notice   string
	Error    string
}

// Admin renders the admin overview: every user's ledger summary plus the
// feedback inbox with an optional substring filter.
func (h *Handlers) Admin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	users, err := h.db.ListUsers()
	if err != nil {
		logger.Log.Error().Err(err).Msg("admin user listing failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	vm := AdminViewModel{
		Username: user.Username,
		Currency: h.currency,
		Query:    r.URL.Query().Get("q"),
		Notice:   r.URL.Query().Get("notice"),
		Error:    r.URL.Query().Get("error"),
	}

	for i := range users {
		u := users[i]
		records, err := h.db.ListExpenses(u.ID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		budget, budgetSet, err := h.db.Budget(u.ID)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		totals := report.ComputeTotals(records, budget)

		row := AdminUserRow{
			Username:     u.Username,
			IsAdmin:      u.IsAdmin,
			ExpenseCount: len(records),
			TotalSpent:   totals.TotalSpent.String(),
			OverBudget:   budget.IsPositive() && totals.Remaining.IsNegative(),
		}
		if budgetSet {
			row.Budget = budget.String()
		}
		vm.Users = append(vm.Users, row)
	}

	feedback, err := h.db.ListFeedback()
	if err != nil {
		logger.Log.Error().Err(err).Msg("admin feedback listing failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	vm.Feedback = filterFeedback(feedback, vm.Query)

	h.render(w, r, "admin.html", vm)
}

// filterFeedback keeps entries whose username or message contains the query,
// case-insensitively. An empty query keeps everything.
func filterFeedback(entries []models.Feedback, query string) []models.Feedback {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	var out []models.Feedback
	for _, f := range entries {
		if strings.Contains(strings.ToLower(f.Username), q) ||
			strings.Contains(strings.ToLower(f.Message), q) {
			out = append(out, f)
		}
	}
	return out
}

// DeleteFeedback removes one feedback entry (by id) or, with all=yes, every
// entry. The destructive all-delete requires the explicit confirmation field.
func (h *Handlers) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectFlash(w, r, "/admin", "error", "Invalid form submission")
		return
	}

	if r.FormValue("all") == "yes" {
		if err := h.db.DeleteAllFeedback(); err != nil {
			logger.Log.Error().Err(err).Msg("delete all feedback failed")
			redirectFlash(w, r, "/admin", "error", "An error occurred. Please try again.")
			return
		}
		redirectFlash(w, r, "/admin", "notice", "All feedbacks deleted successfully!")
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		redirectFlash(w, r, "/admin", "error", "Invalid feedback id")
		return
	}
	if err := h.db.DeleteFeedback(id); err != nil {
		logger.Log.Error().Err(err).Msg("delete feedback failed")
		redirectFlash(w, r, "/admin", "error", "An error occurred. Please try again.")
		return
	}
	redirectFlash(w, r, "/admin", "notice", "Feedback deleted successfully!")
}
