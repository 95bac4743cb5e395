// Package store defines the record store ports the services operate
// against, plus the error contract shared by all backends.
package store

import (
	"context"
	"errors"

	"github.com/goya962/FinanceFlow/internal/core"
)

// ErrNotFound is returned by the update operations when the target record
// does not exist. Delete of a missing id is a no-op, not an error.
var ErrNotFound = errors.New("record not found")

// ExpenseStore persists expense records. Multi-record operations are
// atomic: either every record is applied or none is.
type ExpenseStore interface {
	AddExpense(ctx context.Context, e core.Expense) error
	AddExpenses(ctx context.Context, es []core.Expense) error
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	DeleteExpenses(ctx context.Context, ids []string) error
	// ReplaceExpenses deletes removeIDs and creates add in one atomic step.
	// It is the transaction boundary for the edit path, which rebuilds an
	// installment group from scratch.
	ReplaceExpenses(ctx context.Context, removeIDs []string, add []core.Expense) error
	Expenses(ctx context.Context) ([]core.Expense, error)
}

// IncomeStore persists income records. Incomes have no fan-out, so the
// surface is plain single-record CRUD.
type IncomeStore interface {
	AddIncome(ctx context.Context, i core.Income) error
	UpdateIncome(ctx context.Context, i core.Income) error
	DeleteIncome(ctx context.Context, id string) error
	Incomes(ctx context.Context) ([]core.Income, error)
}

// ReferenceStore holds the payment instrument lookup tables. Put is an
// upsert; these entities have no algorithmic lifecycle.
type ReferenceStore interface {
	PutBank(ctx context.Context, b core.Bank) error
	DeleteBank(ctx context.Context, id string) error
	Banks(ctx context.Context) ([]core.Bank, error)

	PutCard(ctx context.Context, c core.Card) error
	DeleteCard(ctx context.Context, id string) error
	Cards(ctx context.Context) ([]core.Card, error)

	PutWallet(ctx context.Context, w core.Wallet) error
	DeleteWallet(ctx context.Context, id string) error
	Wallets(ctx context.Context) ([]core.Wallet, error)
}

// SettingsStore persists the savings goal percentage.
type SettingsStore interface {
	SavingsGoal(ctx context.Context) (int, error)
	SetSavingsGoal(ctx context.Context, goal int) error
}

// Store is the full backend surface a data backend must provide.
type Store interface {
	ExpenseStore
	IncomeStore
	ReferenceStore
	SettingsStore

	// Import atomically replaces the entire data set with the snapshot.
	Import(ctx context.Context, snap core.Snapshot) error
	// Reset atomically clears every table.
	Reset(ctx context.Context) error
}
