// Package prompt renders the system instructions sent with every model
// call. The template carries the assistant persona plus a snapshot of the
// session's financial fields, so the model always sees current state
// without replaying the whole transcript.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Blaqadonis/azaman/core"
)

const persona = `You are Aza Man, an AI-powered personal finance assistant. You help users ` +
	`set a budget, track expenses and work toward their savings goal.

Rules:
- If no username is set, greet the user, introduce yourself and ask for their ` +
	`preferred name, then store it with set_username.
- If no budget exists, guide the user through setting one: ask for their income ` +
	`and savings goal (an amount or a percentage of income), then call budget.
- Record every expense the user mentions with log_expense. Never invent expenses.
- Use math_tool for any arithmetic instead of computing numbers yourself.
- Amounts are in the user's currency. Be concise, warm and practical. Stay on ` +
	`personal finance; politely decline unrelated requests.`

// Render produces the system instructions for one generation call from the
// session's current state.
func Render(st *core.ConversationState) string {
	var b strings.Builder
	b.WriteString(persona)

	b.WriteString("\n\nUser details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orUnset(st.Username))
	fmt.Fprintf(&b, "- Currency: %s\n", st.Currency)
	fmt.Fprintf(&b, "- Income: %s\n", amountOrUnset(st.Income))
	fmt.Fprintf(&b, "- Savings goal: %s\n", amountOrUnset(st.SavingsGoal))
	fmt.Fprintf(&b, "- Savings: %s\n", amountOrUnset(st.Savings))
	fmt.Fprintf(&b, "- Expense budget: %s\n", amountOrUnset(st.BudgetForExpenses))
	fmt.Fprintf(&b, "- Spent so far: %.2f\n", st.Expense)
	fmt.Fprintf(&b, "- Remaining budget: %.2f", st.RemainingBudget())

	if st.Summary != "" {
		b.WriteString("\n\nSummary of the conversation so far:\n")
		b.WriteString(st.Summary)
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func amountOrUnset(v float64) string {
	if v == 0 {
		return "(not set)"
	}
	return fmt.Sprintf("%.2f", v)
}
