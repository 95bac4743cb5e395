package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

func testExpense(id string) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "expense " + id,
		Amount:      core.Money{Cents: 1000},
		Date:        core.NewDate(2024, 3, 10),
		Method:      core.Debit,
		Source:      core.SourceRef{Type: core.SourceBank, ID: "b1"},
	}
}

func TestExpenseCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.AddExpense(ctx, testExpense("e1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddExpenses(ctx, []core.Expense{testExpense("e2"), testExpense("e3")}); err != nil {
		t.Fatalf("add batch: %v", err)
	}

	all, err := s.Expenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d expenses, want 3", len(all))
	}

	updated := testExpense("e2")
	updated.Description = "changed"
	if err := s.UpdateExpense(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, _ = s.Expenses(ctx)
	if all[1].Description != "changed" {
		t.Errorf("update not applied: %q", all[1].Description)
	}

	if err := s.UpdateExpense(ctx, testExpense("missing")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update of missing expense: got %v, want ErrNotFound", err)
	}

	if err := s.DeleteExpense(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteExpenses(ctx, []string{"e2", "e3"}); err != nil {
		t.Fatalf("delete batch: %v", err)
	}
	all, _ = s.Expenses(ctx)
	if len(all) != 0 {
		t.Fatalf("got %d expenses after deletes, want 0", len(all))
	}
}

func TestReplaceExpensesIsAtomicSwap(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.AddExpenses(ctx, []core.Expense{testExpense("a"), testExpense("b"), testExpense("c")})

	err := s.ReplaceExpenses(ctx, []string{"a", "b"}, []core.Expense{testExpense("x"), testExpense("y")})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	all, _ := s.Expenses(ctx)
	ids := map[string]bool{}
	for _, e := range all {
		ids[e.ID] = true
	}
	if len(all) != 3 || !ids["c"] || !ids["x"] || !ids["y"] {
		t.Fatalf("after replace got %v, want c, x, y", ids)
	}
}

func TestBanksDeepCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	bank := core.Bank{ID: "b1", Name: "First", Accounts: []core.Account{{ID: "a1", Name: "Checking"}}}
	if err := s.PutBank(ctx, bank); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, _ := s.Banks(ctx)
	got[0].Accounts[0].Name = "mutated"

	again, _ := s.Banks(ctx)
	if again[0].Accounts[0].Name != "Checking" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestPutUpserts(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.PutCard(ctx, core.Card{ID: "c1", Name: "Visa"})
	_ = s.PutCard(ctx, core.Card{ID: "c1", Name: "Visa Gold"})

	cards, _ := s.Cards(ctx)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	if cards[0].Name != "Visa Gold" {
		t.Errorf("put did not replace: %q", cards[0].Name)
	}

	_ = s.PutWallet(ctx, core.Wallet{ID: "w1", Name: "Cash App"})
	_ = s.DeleteWallet(ctx, "w1")
	wallets, _ := s.Wallets(ctx)
	if len(wallets) != 0 {
		t.Fatalf("got %d wallets after delete, want 0", len(wallets))
	}
}

func TestSavingsGoalDefaults(t *testing.T) {
	ctx := context.Background()
	s := New()

	goal, err := s.SavingsGoal(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if goal != 10 {
		t.Fatalf("default goal = %d, want 10", goal)
	}

	if err := s.SetSavingsGoal(ctx, 25); err != nil {
		t.Fatalf("set: %v", err)
	}
	goal, _ = s.SavingsGoal(ctx)
	if goal != 25 {
		t.Fatalf("goal = %d, want 25", goal)
	}
}

func TestImportAndReset(t *testing.T) {
	ctx := context.Background()
	s := New()

	snap := core.Snapshot{
		Banks:       []core.Bank{{ID: "b1", Name: "First"}},
		Cards:       []core.Card{{ID: "c1", Name: "Visa"}},
		Wallets:     []core.Wallet{{ID: "w1", Name: "Wallet"}},
		Incomes:     []core.Income{{ID: "i1", Description: "Salary", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 1), Source: core.SourceRef{Type: core.SourceBank, ID: "b1"}}},
		Expenses:    []core.Expense{testExpense("e1")},
		SavingsGoal: 42,
	}
	if err := s.Import(ctx, snap); err != nil {
		t.Fatalf("import: %v", err)
	}

	banks, _ := s.Banks(ctx)
	expenses, _ := s.Expenses(ctx)
	goal, _ := s.SavingsGoal(ctx)
	if len(banks) != 1 || len(expenses) != 1 || goal != 42 {
		t.Fatalf("import incomplete: banks=%d expenses=%d goal=%d", len(banks), len(expenses), goal)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	banks, _ = s.Banks(ctx)
	expenses, _ = s.Expenses(ctx)
	incomes, _ := s.Incomes(ctx)
	goal, _ = s.SavingsGoal(ctx)
	if len(banks) != 0 || len(expenses) != 0 || len(incomes) != 0 {
		t.Fatal("reset left records behind")
	}
	if goal != 10 {
		t.Fatalf("reset goal = %d, want default 10", goal)
	}
}
