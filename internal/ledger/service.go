// Package ledger implements the expense ledger and budget tracking rules.
//
// The ledger is append-only: entries are added one at a time and removed only
// by a full reset. The budget is advisory; exceeding it warns but never
// blocks a recorded expense.
package ledger

import (
	"strings"
	"time"

	"spendtrack/internal/logger"
	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format accepted on add.
const DateLayout = "2006-01-02"

// Store is the persistence interface the service depends on. *storage.DB
// satisfies it; tests use an in-memory implementation.
type Store interface {
	AppendExpense(e *models.Expense) error
	ListExpenses(userID int64) ([]models.Expense, error)
	ClearExpenses(userID int64) error
	Budget(userID int64) (decimal.Decimal, bool, error)
	SetBudget(userID int64, amount decimal.Decimal) error
	ClearBudget(userID int64) error
}

// Service coordinates ledger and budget operations for one user at a time.
type Service struct {
	store Store
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddInput carries the raw form fields of an add-expense request.
type AddInput struct {
	Amount      string
	Category    string
	Date        string
	Description string
}

// AddResult is the outcome of a successful add.
type AddResult struct {
	Expense    models.Expense
	TotalSpent decimal.Decimal
	Budget     decimal.Decimal
	OverBudget bool
}

// Add validates the input, appends a new expense to the user's ledger and
// returns the updated totals. The expense is recorded even when it pushes the
// total past the budget; OverBudget signals the advisory warning.
func (s *Service) Add(user *models.User, in AddInput) (*AddResult, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	required := []struct {
		field string
		value string
	}{
		{"amount", in.Amount},
		{"category", in.Category},
		{"date", in.Date},
		{"description", in.Description},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{Field: r.field}
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil || amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, ErrInvalidDate
	}

	expense := models.Expense{
		UserID:      user.ID,
		Amount:      amount,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
	}
	if err := s.store.AppendExpense(&expense); err != nil {
		return nil, err
	}

	records, err := s.store.ListExpenses(user.ID)
	if err != nil {
		return nil, err
	}
	budget, _, err := s.store.Budget(user.ID)
	if err != nil {
		return nil, err
	}

	total := sumAmounts(records)
	result := &AddResult{
		Expense:    expense,
		TotalSpent: total,
		Budget:     budget,
		OverBudget: budget.IsPositive() && total.GreaterThan(budget),
	}

	logger.Log.Debug().
		Str("user", user.Username).
		Str("amount", amount.String()).
		Str("category", expense.Category).
		Bool("over_budget", result.OverBudget).
		Msg("expense added")

	return result, nil
}

// Records returns the user's ledger in insertion order.
func (s *Service) Records(user *models.User) ([]models.Expense, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return s.store.ListExpenses(user.ID)
}

// Reset clears the user's ledger. Idempotent: resetting an empty ledger is a
// no-op. Confirmation is the caller's responsibility.
func (s *Service) Reset(user *models.User) error {
	if user == nil {
		return ErrNotAuthenticated
	}
	if err := s.store.ClearExpenses(user.ID); err != nil {
		return err
	}
	logger.Log.Info().Str("user", user.Username).Msg("ledger reset")
	return nil
}

// BudgetResult is the outcome of a set-budget request.
type BudgetResult struct {
	Value   decimal.Decimal
	Unset   bool
	Coerced bool
}

// SetBudget parses and stores the user's budget. An empty input unsets the
// budget; a negative value is coerced to zero and flagged.
func (s *Service) SetBudget(user *models.User, raw string) (*BudgetResult, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		if err := s.store.ClearBudget(user.ID); err != nil {
			return nil, err
		}
		return &BudgetResult{Value: decimal.Zero, Unset: true}, nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	coerced := false
	if value.IsNegative() {
		value = decimal.Zero
		coerced = true
	}

	if err := s.store.SetBudget(user.ID, value); err != nil {
		return nil, err
	}
	return &BudgetResult{Value: value, Coerced: coerced}, nil
}

// Budget returns the user's current budget, zero when unset.
func (s *Service) Budget(user *models.User) (decimal.Decimal, error) {
	if user == nil {
		return decimal.Zero, ErrNotAuthenticated
	}
	budget, _, err := s.store.Budget(user.ID)
	return budget, err
}

// Snapshot bundles the ledger state the dashboard and reports read from.
type Snapshot struct {
	Records    []models.Expense
	Budget     decimal.Decimal
	BudgetSet  bool
	TotalSpent decimal.Decimal
}

// Snapshot loads the user's records, budget and total in one call.
func (s *Service) Snapshot(user *models.User) (*Snapshot, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	records, err := s.store.ListExpenses(user.ID)
	if err != nil {
		return nil, err
	}
	budget, set, err := s.store.Budget(user.ID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Records:    records,
		Budget:     budget,
		BudgetSet:  set,
		TotalSpent: sumAmounts(records),
	}, nil
}

func sumAmounts(records []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for i := range records {
		total = total.Add(records[i].Amount)
	}
	return total
}
