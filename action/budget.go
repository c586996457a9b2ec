package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Blaqadonis/azaman/core"
)

// NewBudget returns the budget action. It sets income and the savings
// goal, and derives the expense budget as income minus the goal, floored
// at zero. The goal may be an absolute amount or a percentage string like
// "40%".
func NewBudget() *FuncAction {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"income": map[string]any{
				"type":             "number",
				"description":      "Total income for the period",
				"exclusiveMinimum": 0,
			},
			"savings_goal": map[string]any{
				// No type: accepts a number or a percentage string like "40%".
				"description": "Target savings, as an amount or a percentage of income (e.g. \"40%\")",
			},
			"currency": map[string]any{
				"type":        "string",
				"description": "ISO-like currency code (e.g. \"NGN\")",
			},
		},
		"required": []string{"income", "savings_goal"},
	}

	return NewFuncAction(
		"budget",
		"Allocate a budget from income and a savings goal",
		params,
		applyBudget,
	)
}

func applyBudget(st *core.ConversationState, args map[string]any) (string, error) {
	income, ok := args["income"].(float64)
	if !ok {
		return "", core.NewValidationError("income", args["income"], "income must be a number")
	}

	goal, err := resolveSavingsGoal(args["savings_goal"], income)
	if err != nil {
		return "", err
	}
	if goal > income {
		return "", core.NewValidationError("savings_goal", args["savings_goal"],
			"savings goal cannot exceed income")
	}

	currency := st.Currency
	if c, ok := args["currency"].(string); ok && c != "" {
		currency = strings.ToUpper(strings.TrimSpace(c))
	}

	st.Income = income
	st.SavingsGoal = goal
	st.Savings = goal
	st.BudgetForExpenses = income - goal
	st.Currency = currency

	return fmt.Sprintf("Budget created! Income: %s, Savings: %s, Expenses: %s",
		money(st.Income, currency), money(st.Savings, currency), money(st.BudgetForExpenses, currency)), nil
}

// resolveSavingsGoal accepts an absolute amount or a percentage of income.
func resolveSavingsGoal(raw any, income float64) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, core.NewValidationError("savings_goal", v, "savings goal must be non-negative")
		}
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if !strings.HasSuffix(s, "%") {
			return 0, core.NewValidationError("savings_goal", v, "percentage goals must end with '%'")
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || pct < 0 || pct > 100 {
			return 0, core.NewValidationError("savings_goal", v, "percentage must be between 0% and 100%")
		}
		return pct / 100 * income, nil
	default:
		return 0, core.NewValidationError("savings_goal", raw, "savings goal must be a number or a percentage string")
	}
}
