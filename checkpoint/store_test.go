package checkpoint

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blaqadonis/azaman/core"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "azaman.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestLoadUnknownSessionReturnsDefaults(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			st, err := s.Load(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Equal(t, core.DefaultCurrency, st.Currency)
			assert.Empty(t, st.Username)
			assert.Zero(t, st.Income)
			assert.NotNil(t, st.Expenses)
			assert.NotNil(t, st.Messages)
		})
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			st := core.NewState("NGN")
			st.Username = "Ada"
			st.Income = 500000
			st.SavingsGoal = 100000
			st.Savings = 100000
			st.BudgetForExpenses = 400000
			st.AppendExpense(core.ExpenseRecord{
				Description: "transport",
				Amount:      5000,
				Timestamp:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			})
			st.AppendMessage(core.NewUserMessage("I spent 5000 on transport"))
			st.AppendMessage(core.NewAssistantMessage("Logged it!"))

			require.NoError(t, s.Save(ctx, "ada", st))

			loaded, err := s.Load(ctx, "ada")
			require.NoError(t, err)
			assert.Equal(t, st, loaded)

			// A second save replaces, never duplicates.
			st.AppendMessage(core.NewUserMessage("thanks"))
			require.NoError(t, s.Save(ctx, "ada", st))
			loaded, err = s.Load(ctx, "ada")
			require.NoError(t, err)
			assert.Len(t, loaded.Messages, 3)
			assert.Equal(t, 5000.0, loaded.Expense)
		})
	}
}

func TestLoadedStateIsIndependent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			st := core.NewState("")
			st.Username = "Ada"
			require.NoError(t, s.Save(ctx, "ada", st))

			// Mutating what the caller saved or loaded must not leak into
			// the stored snapshot.
			st.Username = "changed"
			first, err := s.Load(ctx, "ada")
			require.NoError(t, err)
			first.Username = "also changed"

			second, err := s.Load(ctx, "ada")
			require.NoError(t, err)
			assert.Equal(t, "Ada", second.Username)
		})
	}
}

func TestDeleteAndSessions(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Save(ctx, "b", core.NewState("")))
			require.NoError(t, s.Save(ctx, "a", core.NewState("")))

			ids, err := s.Sessions(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, ids)

			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "missing"))

			ids, err = s.Sessions(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, ids)

			st, err := s.Load(ctx, "a")
			require.NoError(t, err)
			assert.Empty(t, st.Username)
		})
	}
}

func TestConcurrentSessionsDoNotInterfere(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var wg sync.WaitGroup
			for _, id := range []string{"s1", "s2", "s3", "s4"} {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					for i := 0; i < 20; i++ {
						st, err := s.Load(ctx, id)
						assert.NoError(t, err)
						st.Username = id
						st.AppendMessage(core.NewUserMessage("hi"))
						assert.NoError(t, s.Save(ctx, id, st))
					}
				}(id)
			}
			wg.Wait()

			for _, id := range []string{"s1", "s2", "s3", "s4"} {
				st, err := s.Load(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, id, st.Username)
				assert.Len(t, st.Messages, 20)
			}
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "azaman.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	st := core.NewState("USD")
	st.Username = "Ada"
	st.Income = 1000
	require.NoError(t, s.Save(ctx, "ada", st))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", loaded.Username)
	assert.Equal(t, 1000.0, loaded.Income)
	assert.Equal(t, "USD", loaded.Currency)
}

func TestSQLiteLoadsLegacySnapshot(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	// A snapshot written before expenses, currency and summary existed.
	legacy := `{"username":"Ada","income":500000,"budget_for_expenses":400000,` +
		`"savings_goal":100000,"savings":100000,"expense":0,"messages":[]}`
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (session_id, state, updated_at) VALUES (?, ?, ?)`,
		"ada", legacy, time.Now().UTC())
	require.NoError(t, err)

	st, err := s.Load(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", st.Username)
	assert.Equal(t, 500000.0, st.Income)
	assert.Equal(t, core.DefaultCurrency, st.Currency)
	assert.NotNil(t, st.Expenses)
	assert.Empty(t, st.Summary)
}

func TestSQLiteLoadRejectsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (session_id, state, updated_at) VALUES (?, ?, ?)`,
		"ada", `{"username":`, time.Now().UTC())
	require.NoError(t, err)

	_, err = s.Load(ctx, "ada")
	var pErr *core.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "load", pErr.Op)
	assert.Equal(t, "ada", pErr.SessionID)
}
