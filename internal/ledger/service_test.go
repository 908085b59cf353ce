package ledger

import (
	"testing"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// memStore is an in-memory Store used to test the service without sqlite.
type memStore struct {
	nextID   int64
	expenses map[int64][]models.Expense
	budgets  map[int64]decimal.Decimal
}

func newMemStore() *memStore {
	return &memStore{
		expenses: make(map[int64][]models.Expense),
		budgets:  make(map[int64]decimal.Decimal),
	}
}

func (m *memStore) AppendExpense(e *models.Expense) error {
	m.nextID++
	e.ID = m.nextID
	m.expenses[e.UserID] = append(m.expenses[e.UserID], *e)
	return nil
}

func (m *memStore) ListExpenses(userID int64) ([]models.Expense, error) {
	return append([]models.Expense(nil), m.expenses[userID]...), nil
}

func (m *memStore) ClearExpenses(userID int64) error {
	delete(m.expenses, userID)
	return nil
}

func (m *memStore) Budget(userID int64) (decimal.Decimal, bool, error) {
	b, ok := m.budgets[userID]
	if !ok {
		return decimal.Zero, false, nil
	}
	return b, true, nil
}

func (m *memStore) SetBudget(userID int64, amount decimal.Decimal) error {
	m.budgets[userID] = amount
	return nil
}

func (m *memStore) ClearBudget(userID int64) error {
	delete(m.budgets, userID)
	return nil
}

// ServiceTestSuite provides a test suite for ledger operations.
type ServiceTestSuite struct {
	suite.Suite
	store *memStore
	svc   *Service
	user  *models.User
}

// SetupTest runs before each test
func (suite *ServiceTestSuite) SetupTest() {
	suite.store = newMemStore()
	suite.svc = NewService(suite.store)
	suite.user = &models.User{ID: 1, Username: "testuser"}
}

func (suite *ServiceTestSuite) validInput() AddInput {
	return AddInput{
		Amount:      "42.50",
		Category:    "Food",
		Date:        "2024-03-05",
		Description: "Lunch",
	}
}

func (suite *ServiceTestSuite) TestAdd() {
	result, err := suite.svc.Add(suite.user, suite.validInput())
	require.NoError(suite.T(), err)

	assert.NotZero(suite.T(), result.Expense.ID)
	assert.Equal(suite.T(), "Food", result.Expense.Category)
	assert.True(suite.T(), result.TotalSpent.Equal(decimal.RequireFromString("42.50")))
	assert.False(suite.T(), result.OverBudget)
}

func (suite *ServiceTestSuite) TestAddRejectsMissingFields() {
	cases := []struct {
		name   string
		mutate func(*AddInput)
		field  string
	}{
		{"empty amount", func(in *AddInput) { in.Amount = "" }, "amount"},
		{"empty category", func(in *AddInput) { in.Category = "" }, "category"},
		{"empty date", func(in *AddInput) { in.Date = "" }, "date"},
		{"empty description", func(in *AddInput) { in.Description = "  " }, "description"},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			in := suite.validInput()
			tc.mutate(&in)

			_, err := suite.svc.Add(suite.user, in)
			require.Error(suite.T(), err)
			assert.True(suite.T(), IsValidationError(err))
			assert.Contains(suite.T(), err.Error(), tc.field)

			// Ledger must be unchanged after a rejected add.
			records, err := suite.svc.Records(suite.user)
			require.NoError(suite.T(), err)
			assert.Empty(suite.T(), records)
		})
	}
}

func (suite *ServiceTestSuite) TestAddRejectsNegativeAmount() {
	in := suite.validInput()
	in.Amount = "-5"

	_, err := suite.svc.Add(suite.user, in)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *ServiceTestSuite) TestAddRejectsUnparsableAmount() {
	in := suite.validInput()
	in.Amount = "ten"

	_, err := suite.svc.Add(suite.user, in)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *ServiceTestSuite) TestAddRejectsBadDate() {
	in := suite.validInput()
	in.Date = "05/03/2024"

	_, err := suite.svc.Add(suite.user, in)
	assert.ErrorIs(suite.T(), err, ErrInvalidDate)
}

func (suite *ServiceTestSuite) TestAddRequiresAuthentication() {
	_, err := suite.svc.Add(nil, suite.validInput())
	assert.ErrorIs(suite.T(), err, ErrNotAuthenticated)
}

func (suite *ServiceTestSuite) TestAddOverBudgetIsAdvisory() {
	_, err := suite.svc.SetBudget(suite.user, "100")
	require.NoError(suite.T(), err)

	in := suite.validInput()
	in.Amount = "60"
	_, err = suite.svc.Add(suite.user, in)
	require.NoError(suite.T(), err)

	in.Amount = "50"
	result, err := suite.svc.Add(suite.user, in)
	require.NoError(suite.T(), err)

	// The expense is still recorded; the flag only warns.
	assert.True(suite.T(), result.OverBudget)
	records, err := suite.svc.Records(suite.user)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 2)
	assert.True(suite.T(), result.TotalSpent.Equal(decimal.NewFromInt(110)))
}

func (suite *ServiceTestSuite) TestAddExactlyAtBudgetIsNotOver() {
	_, err := suite.svc.SetBudget(suite.user, "100")
	require.NoError(suite.T(), err)

	in := suite.validInput()
	in.Amount = "100"
	result, err := suite.svc.Add(suite.user, in)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), result.OverBudget)
}

func (suite *ServiceTestSuite) TestResetIdempotent() {
	// Resetting an empty ledger is a no-op.
	require.NoError(suite.T(), suite.svc.Reset(suite.user))

	_, err := suite.svc.Add(suite.user, suite.validInput())
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.svc.Reset(suite.user))
	records, err := suite.svc.Records(suite.user)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)

	// Resetting again still yields an empty ledger.
	require.NoError(suite.T(), suite.svc.Reset(suite.user))
	records, err = suite.svc.Records(suite.user)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)
}

func (suite *ServiceTestSuite) TestResetRequiresAuthentication() {
	assert.ErrorIs(suite.T(), suite.svc.Reset(nil), ErrNotAuthenticated)
}

func (suite *ServiceTestSuite) TestSetBudget() {
	result, err := suite.svc.SetBudget(suite.user, "250.75")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Value.Equal(decimal.RequireFromString("250.75")))
	assert.False(suite.T(), result.Coerced)

	budget, err := suite.svc.Budget(suite.user)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), budget.Equal(decimal.RequireFromString("250.75")))
}

func (suite *ServiceTestSuite) TestSetBudgetEmptyUnsets() {
	_, err := suite.svc.SetBudget(suite.user, "100")
	require.NoError(suite.T(), err)

	result, err := suite.svc.SetBudget(suite.user, "")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Unset)

	budget, err := suite.svc.Budget(suite.user)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), budget.IsZero())
}

func (suite *ServiceTestSuite) TestSetBudgetNegativeCoercedToZero() {
	result, err := suite.svc.SetBudget(suite.user, "-50")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), result.Coerced)
	assert.True(suite.T(), result.Value.IsZero())

	budget, err := suite.svc.Budget(suite.user)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), budget.IsZero())
}

func (suite *ServiceTestSuite) TestSetBudgetRejectsGarbage() {
	_, err := suite.svc.SetBudget(suite.user, "lots")
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *ServiceTestSuite) TestSnapshot() {
	_, err := suite.svc.SetBudget(suite.user, "120")
	require.NoError(suite.T(), err)

	in := suite.validInput()
	in.Amount = "100"
	_, err = suite.svc.Add(suite.user, in)
	require.NoError(suite.T(), err)
	in.Amount = "50"
	in.Date = "2024-03-20"
	_, err = suite.svc.Add(suite.user, in)
	require.NoError(suite.T(), err)

	snap, err := suite.svc.Snapshot(suite.user)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), snap.Records, 2)
	assert.True(suite.T(), snap.BudgetSet)
	assert.True(suite.T(), snap.Budget.Equal(decimal.NewFromInt(120)))
	assert.True(suite.T(), snap.TotalSpent.Equal(decimal.NewFromInt(150)))
}

func (suite *ServiceTestSuite) TestLedgersAreIsolatedPerUser() {
	other := &models.User{ID: 2, Username: "other"}

	_, err := suite.svc.Add(suite.user, suite.validInput())
	require.NoError(suite.T(), err)

	records, err := suite.svc.Records(other)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)

	require.NoError(suite.T(), suite.svc.Reset(other))
	records, err = suite.svc.Records(suite.user)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 1)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
