package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	st := NewState("")
	assert.Equal(t, DefaultCurrency, st.Currency)
	assert.Zero(t, st.Income)
	assert.Zero(t, st.Expense)
	assert.Empty(t, st.Messages)
	assert.Empty(t, st.Expenses)

	st = NewState("USD")
	assert.Equal(t, "USD", st.Currency)
}

func TestAppendExpenseReconciles(t *testing.T) {
	st := NewState("")
	st.AppendExpense(ExpenseRecord{Description: "transport", Amount: 5000})
	st.AppendExpense(ExpenseRecord{Description: "food", Amount: 1200})

	require.Len(t, st.Expenses, 2)
	assert.Equal(t, 6200.0, st.Expense)
	assert.Equal(t, st.Expense, st.ExpensesTotal())
}

func TestRemainingBudget(t *testing.T) {
	st := NewState("")
	st.BudgetForExpenses = 400000
	st.Expense = 5000
	assert.Equal(t, 395000.0, st.RemainingBudget())
}

func TestCloneIsDeep(t *testing.T) {
	st := NewState("")
	st.Username = "Ada"
	st.AppendMessage(NewUserMessage("hello"))
	st.AppendExpense(ExpenseRecord{Description: "transport", Amount: 5000})

	clone := st.Clone()
	clone.Username = "Grace"
	clone.AppendMessage(NewAssistantMessage("hi"))
	clone.Expenses[0].Amount = 1

	assert.Equal(t, "Ada", st.Username)
	assert.Len(t, st.Messages, 1)
	assert.Equal(t, 5000.0, st.Expenses[0].Amount)
	assert.Len(t, clone.Messages, 2)
}

func TestMessageConstructors(t *testing.T) {
	u := NewUserMessage("set my budget")
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.IsActionCall())

	call := NewActionCallMessage("call-1", "budget", `{"income":500000}`)
	assert.Equal(t, RoleAssistant, call.Role)
	assert.True(t, call.IsActionCall())

	ok := NewActionResultMessage("call-1", "budget", "Budget created!", nil)
	assert.Equal(t, RoleAction, ok.Role)
	assert.False(t, ok.IsError)
	assert.Equal(t, "Budget created!", ok.Content)

	bad := NewActionResultMessage("call-2", "budget", "", NewValidationError("income", -1, "must be positive"))
	assert.True(t, bad.IsError)
	assert.Contains(t, bad.Content, "income")
}
