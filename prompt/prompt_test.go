package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Blaqadonis/azaman/core"
)

func TestRenderFreshSession(t *testing.T) {
	out := Render(core.NewState(""))

	assert.Contains(t, out, "Aza Man")
	assert.Contains(t, out, "Name: (not set)")
	assert.Contains(t, out, "Currency: NGN")
	assert.Contains(t, out, "Income: (not set)")
	assert.NotContains(t, out, "Summary of the conversation")
}

func TestRenderReflectsState(t *testing.T) {
	st := core.NewState("USD")
	st.Username = "Ada"
	st.Income = 500000
	st.SavingsGoal = 100000
	st.Savings = 100000
	st.BudgetForExpenses = 400000
	st.Expense = 5000
	st.Summary = "Ada set up a budget."

	out := Render(st)
	assert.Contains(t, out, "Name: Ada")
	assert.Contains(t, out, "Currency: USD")
	assert.Contains(t, out, "Income: 500000.00")
	assert.Contains(t, out, "Expense budget: 400000.00")
	assert.Contains(t, out, "Spent so far: 5000.00")
	assert.Contains(t, out, "Remaining budget: 395000.00")
	assert.Contains(t, out, "Ada set up a budget.")
}
