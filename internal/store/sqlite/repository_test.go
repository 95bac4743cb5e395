package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testExpense(id string, cents int64, d core.Date) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "expense " + id,
		Amount:      core.Money{Cents: cents},
		Date:        d,
		Method:      core.Credit,
		Source:      core.SourceRef{Type: core.SourceCard, ID: "card-1"},
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	e := testExpense("e1", 1234, core.NewDate(2024, 3, 10))
	e.Installments = 3
	e.InstallmentGroupID = "g1"
	e.IsSaving = true

	if err := repo.AddExpense(ctx, e); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := repo.Expenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d expenses, want 1", len(all))
	}
	got := all[0]
	if got.ID != "e1" || got.Amount.Cents != 1234 || got.Installments != 3 ||
		got.InstallmentGroupID != "g1" || !got.IsSaving {
		t.Fatalf("round trip mangled record: %+v", got)
	}
	if got.Date.String() != "2024-03-10" {
		t.Errorf("date = %s", got.Date)
	}
	if got.Method != core.Credit || got.Source.Type != core.SourceCard || got.Source.ID != "card-1" {
		t.Errorf("method/source mangled: %+v", got)
	}
}

func TestExpensesOrderedByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_ = repo.AddExpenses(ctx, []core.Expense{
		testExpense("later", 100, core.NewDate(2024, 5, 1)),
		testExpense("earlier", 100, core.NewDate(2024, 1, 1)),
	})

	all, _ := repo.Expenses(ctx)
	if len(all) != 2 || all[0].ID != "earlier" || all[1].ID != "later" {
		t.Fatalf("expected date order, got %+v", all)
	}
}

func TestReplaceExpensesIsTransactional(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_ = repo.AddExpenses(ctx, []core.Expense{
		testExpense("a", 100, core.NewDate(2024, 1, 1)),
		testExpense("b", 100, core.NewDate(2024, 2, 1)),
	})

	// A duplicate id in the add set violates the primary key and must roll
	// the whole swap back.
	err := repo.ReplaceExpenses(ctx, []string{"a"}, []core.Expense{
		testExpense("c", 100, core.NewDate(2024, 3, 1)),
		testExpense("b", 100, core.NewDate(2024, 4, 1)),
	})
	if err == nil {
		t.Fatal("expected constraint violation")
	}

	all, _ := repo.Expenses(ctx)
	ids := map[string]bool{}
	for _, e := range all {
		ids[e.ID] = true
	}
	if len(all) != 2 || !ids["a"] || !ids["b"] {
		t.Fatalf("failed replace must leave the store untouched, got %v", ids)
	}

	// A clean swap applies both halves.
	if err := repo.ReplaceExpenses(ctx, []string{"a", "b"}, []core.Expense{
		testExpense("c", 100, core.NewDate(2024, 3, 1)),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	all, _ = repo.Expenses(ctx)
	if len(all) != 1 || all[0].ID != "c" {
		t.Fatalf("after replace got %+v", all)
	}
}

func TestUpdateMissingRecords(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.UpdateExpense(ctx, testExpense("ghost", 100, core.NewDate(2024, 1, 1))); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing expense: got %v, want ErrNotFound", err)
	}

	income := core.Income{
		ID: "ghost", Description: "x", Amount: core.Money{Cents: 100},
		Date: core.NewDate(2024, 1, 1), Source: core.SourceRef{Type: core.SourceBank, ID: "b"},
	}
	if err := repo.UpdateIncome(ctx, income); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing income: got %v, want ErrNotFound", err)
	}
}

func TestBankWithAccounts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	bank := core.Bank{
		ID:   "b1",
		Name: "First National",
		Accounts: []core.Account{
			{ID: "a1", Name: "Checking", CBU: "000111", Alias: "main", Balance: core.Money{Cents: 250000}},
			{ID: "a2", Name: "Savings", Balance: core.Money{Cents: 100000}},
		},
	}
	if err := repo.PutBank(ctx, bank); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Upserting with fewer accounts rewrites the set.
	bank.Accounts = bank.Accounts[:1]
	if err := repo.PutBank(ctx, bank); err != nil {
		t.Fatalf("second put: %v", err)
	}

	banks, err := repo.Banks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(banks) != 1 {
		t.Fatalf("got %d banks, want 1", len(banks))
	}
	if len(banks[0].Accounts) != 1 || banks[0].Accounts[0].ID != "a1" {
		t.Fatalf("accounts not rewritten: %+v", banks[0].Accounts)
	}
	if banks[0].Accounts[0].Balance.Cents != 250000 {
		t.Errorf("balance = %d", banks[0].Accounts[0].Balance.Cents)
	}

	if err := repo.DeleteBank(ctx, "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	banks, _ = repo.Banks(ctx)
	if len(banks) != 0 {
		t.Fatal("bank should be gone")
	}
}

func TestSavingsGoalSeededByMigration(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	goal, err := repo.SavingsGoal(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if goal != 10 {
		t.Fatalf("seeded goal = %d, want 10", goal)
	}

	if err := repo.SetSavingsGoal(ctx, 35); err != nil {
		t.Fatalf("set: %v", err)
	}
	goal, _ = repo.SavingsGoal(ctx)
	if goal != 35 {
		t.Fatalf("goal = %d, want 35", goal)
	}
}

func TestImportReplacesEverything(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_ = repo.AddExpense(ctx, testExpense("old", 100, core.NewDate(2023, 1, 1)))

	snap := core.Snapshot{
		Banks:       []core.Bank{{ID: "b1", Name: "First", Accounts: []core.Account{{ID: "a1", Name: "Checking"}}}},
		Cards:       []core.Card{{ID: "c1", Name: "Visa", BankID: "b1", LastFourDigits: "4242", ClosingDay: 10, DueDay: 20}},
		Wallets:     []core.Wallet{{ID: "w1", Name: "Wallet", Balance: core.Money{Cents: 5000}}},
		Incomes:     []core.Income{{ID: "i1", Description: "Salary", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 1), Source: core.SourceRef{Type: core.SourceBank, ID: "b1"}}},
		Expenses:    []core.Expense{testExpense("new", 200, core.NewDate(2024, 2, 1))},
		SavingsGoal: 50,
	}
	if err := repo.Import(ctx, snap); err != nil {
		t.Fatalf("import: %v", err)
	}

	expenses, _ := repo.Expenses(ctx)
	if len(expenses) != 1 || expenses[0].ID != "new" {
		t.Fatalf("import should replace expenses, got %+v", expenses)
	}
	cards, _ := repo.Cards(ctx)
	if len(cards) != 1 || cards[0].LastFourDigits != "4242" || cards[0].DueDay != 20 {
		t.Fatalf("cards = %+v", cards)
	}
	goal, _ := repo.SavingsGoal(ctx)
	if goal != 50 {
		t.Fatalf("goal = %d, want 50", goal)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	expenses, _ = repo.Expenses(ctx)
	incomes, _ := repo.Incomes(ctx)
	if len(expenses) != 0 || len(incomes) != 0 {
		t.Fatal("reset left records behind")
	}
}
