package action

import (
	"fmt"
	"time"

	"github.com/Blaqadonis/azaman/core"
	"github.com/Blaqadonis/azaman/internal/schema"
)

// LogExpenseArgs are the arguments for log_expense.
type LogExpenseArgs struct {
	Description string  `json:"description" description:"What the money was spent on"`
	Amount      float64 `json:"amount" description:"Positive amount in the session currency"`
}

// NewLogExpense returns the log_expense action. An expense that would
// overdraw the remaining expense budget by more than tolerance is rejected
// outright: nothing is logged and the model is told why. With no budget
// set the remaining budget is zero, so expenses require a prior budget
// action.
func NewLogExpense(tolerance float64) *FuncAction {
	params := schema.FromStruct(LogExpenseArgs{})
	if props, ok := params["properties"].(map[string]any); ok {
		if amount, ok := props["amount"].(map[string]any); ok {
			amount["exclusiveMinimum"] = 0
		}
	}

	return NewFuncAction(
		"log_expense",
		"Log a single expense against the budget",
		params,
		func(st *core.ConversationState, args map[string]any) (string, error) {
			description, _ := args["description"].(string)
			if description == "" {
				return "", core.NewValidationError("description", args["description"], "description cannot be empty")
			}
			amount, ok := args["amount"].(float64)
			if !ok || amount <= 0 {
				return "", core.NewValidationError("amount", args["amount"], "amount must be a positive number")
			}

			remaining := st.RemainingBudget()
			if amount > remaining+tolerance {
				return "", core.NewValidationError("amount", amount,
					fmt.Sprintf("expense exceeds remaining budget of %s", money(remaining, st.Currency)))
			}

			st.AppendExpense(core.ExpenseRecord{
				Description: description,
				Amount:      amount,
				Timestamp:   time.Now().UTC(),
			})

			return fmt.Sprintf("Expense logged! %s: %s. Total expenses: %s, remaining budget: %s",
				description, money(amount, st.Currency),
				money(st.Expense, st.Currency), money(st.RemainingBudget(), st.Currency)), nil
		},
	)
}
