package action

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Blaqadonis/azaman/core"
)

// NewMathTool returns the math_tool action: a restricted arithmetic
// evaluator over numeric literals and the session's financial fields. The
// expression is parsed here, never handed to a general evaluator, so
// malformed or unsafe input fails validation. The action never mutates
// state.
//
// Grammar:
//
//	expr    = term  (("+" | "-") term)*
//	term    = unary (("*" | "/") unary)*
//	unary   = "-"? primary
//	primary = number | identifier | "(" expr ")"
//
// Identifiers: income, savings, savings_goal, budget_for_expenses, expense,
// remaining_budget.
func NewMathTool() *FuncAction {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"expression": map[string]any{
				"type": "string",
				"description": "Arithmetic over numbers and the fields income, savings, " +
					"savings_goal, budget_for_expenses, expense, remaining_budget " +
					"(e.g. \"budget_for_expenses - 2500 * 3\")",
			},
		},
		"required": []string{"expression"},
	}

	return NewFuncAction(
		"math_tool",
		"Evaluate an arithmetic expression over the session's financial fields",
		params,
		func(st *core.ConversationState, args map[string]any) (string, error) {
			expression, _ := args["expression"].(string)
			result, err := evalExpression(expression, stateVars(st))
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(result, 'f', -1, 64), nil
		},
	)
}

func stateVars(st *core.ConversationState) map[string]float64 {
	return map[string]float64{
		"income":              st.Income,
		"savings":             st.Savings,
		"savings_goal":        st.SavingsGoal,
		"budget_for_expenses": st.BudgetForExpenses,
		"expense":             st.Expense,
		"remaining_budget":    st.RemainingBudget(),
	}
}

// evalExpression parses and evaluates a restricted arithmetic expression.
func evalExpression(input string, vars map[string]float64) (float64, error) {
	p := &exprParser{input: input, vars: vars}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, p.errorf("unexpected %q", p.input[p.pos:])
	}
	return result, nil
}

type exprParser struct {
	input string
	pos   int
	vars  map[string]float64
}

func (p *exprParser) errorf(format string, args ...any) error {
	return core.NewValidationError("expression", p.input, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, p.errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parsePrimary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case unicode.IsLetter(rune(c)) || c == '_':
		return p.parseIdentifier()
	case c == 0:
		return 0, p.errorf("unexpected end of expression")
	default:
		return 0, p.errorf("unexpected character %q", string(c))
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			break
		}
		p.pos++
	}
	// Tolerate thousands separators ("2,500") in model output.
	lit := strings.ReplaceAll(p.input[start:p.pos], ",", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *exprParser) parseIdentifier() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := rune(p.input[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	name := p.input[start:p.pos]
	v, ok := p.vars[name]
	if !ok {
		return 0, p.errorf("unknown field %q", name)
	}
	return v, nil
}
