package core

import "time"

// DefaultCurrency is used when neither configuration nor a budget action
// has supplied a currency code.
const DefaultCurrency = "NGN"

// ExpenseRecord is a single logged expense. Records are append-only; the
// running total lives in ConversationState.Expense.
type ExpenseRecord struct {
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// ConversationState is the durable per-session record: the user's financial
// status plus the conversation transcript. One instance exists per session
// id; the latest persisted snapshot is authoritative.
//
// Contract:
//   - Monetary fields are non-negative; actions validate before mutating
//   - Messages and Expenses are append-only during normal operation; only
//     the summarizer may compact Messages
//   - ExpensesTotal() must reconcile with Expense after every log_expense
//
// JSON tags keep the snake_case wire names of the original snapshots so
// previously persisted sessions load unchanged.
type ConversationState struct {
	Username          string          `json:"username"`
	Income            float64         `json:"income"`
	BudgetForExpenses float64         `json:"budget_for_expenses"`
	SavingsGoal       float64         `json:"savings_goal"`
	Savings           float64         `json:"savings"`
	Expense           float64         `json:"expense"`
	Expenses          []ExpenseRecord `json:"expenses"`
	Currency          string          `json:"currency"`
	Summary           string          `json:"summary"`
	Messages          []Message       `json:"messages"`
}

// NewState returns a fresh state with zeroed financial fields and an empty
// transcript. An empty currency falls back to DefaultCurrency.
func NewState(currency string) *ConversationState {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &ConversationState{
		Expenses: []ExpenseRecord{},
		Currency: currency,
		Messages: []Message{},
	}
}

// AppendMessage appends a transcript message. Messages are never reordered
// or rewritten.
func (s *ConversationState) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
}

// AppendExpense records an expense and advances the running total.
func (s *ConversationState) AppendExpense(r ExpenseRecord) {
	s.Expenses = append(s.Expenses, r)
	s.Expense += r.Amount
}

// ExpensesTotal sums the individual expense records. After every successful
// log_expense it must equal Expense.
func (s *ConversationState) ExpensesTotal() float64 {
	var total float64
	for _, r := range s.Expenses {
		total += r.Amount
	}
	return total
}

// RemainingBudget is the portion of the expense budget not yet spent.
func (s *ConversationState) RemainingBudget() float64 {
	return s.BudgetForExpenses - s.Expense
}

// Clone returns a deep copy safe for independent mutation.
func (s *ConversationState) Clone() *ConversationState {
	clone := *s
	clone.Expenses = make([]ExpenseRecord, len(s.Expenses))
	copy(clone.Expenses, s.Expenses)
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}
