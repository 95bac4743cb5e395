// Package memory provides an in-memory Store used as the default backend
// and as the test double for the services.
package memory

import (
	"context"
	"sync"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

const defaultSavingsGoal = 10

// Store keeps every table in mutex-guarded slices. All multi-record
// operations mutate under one lock acquisition, so they are atomic with
// respect to readers.
type Store struct {
	mu          sync.Mutex
	expenses    []core.Expense
	incomes     []core.Income
	banks       []core.Bank
	cards       []core.Card
	wallets     []core.Wallet
	savingsGoal int
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{savingsGoal: defaultSavingsGoal}
}

func (s *Store) AddExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) AddExpenses(_ context.Context, es []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, es...)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = e
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = removeExpenses(s.expenses, map[string]struct{}{id: {}})
	return nil
}

func (s *Store) DeleteExpenses(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = removeExpenses(s.expenses, idSet(ids))
	return nil
}

func (s *Store) ReplaceExpenses(_ context.Context, removeIDs []string, add []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(removeExpenses(s.expenses, idSet(removeIDs)), add...)
	return nil
}

func (s *Store) Expenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) AddIncome(_ context.Context, i core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, i)
	return nil
}

func (s *Store) UpdateIncome(_ context.Context, in core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incomes {
		if s.incomes[i].ID == in.ID {
			s.incomes[i] = in
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.incomes[:0]
	for _, in := range s.incomes {
		if in.ID != id {
			out = append(out, in)
		}
	}
	s.incomes = out
	return nil
}

func (s *Store) Incomes(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Income(nil), s.incomes...), nil
}

func (s *Store) PutBank(_ context.Context, b core.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.banks {
		if s.banks[i].ID == b.ID {
			s.banks[i] = b
			return nil
		}
	}
	s.banks = append(s.banks, b)
	return nil
}

func (s *Store) DeleteBank(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.banks[:0]
	for _, b := range s.banks {
		if b.ID != id {
			out = append(out, b)
		}
	}
	s.banks = out
	return nil
}

func (s *Store) Banks(_ context.Context) ([]core.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Bank, len(s.banks))
	for i, b := range s.banks {
		b.Accounts = append([]core.Account(nil), b.Accounts...)
		out[i] = b
	}
	return out, nil
}

func (s *Store) PutCard(_ context.Context, c core.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cards {
		if s.cards[i].ID == c.ID {
			s.cards[i] = c
			return nil
		}
	}
	s.cards = append(s.cards, c)
	return nil
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.cards[:0]
	for _, c := range s.cards {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.cards = out
	return nil
}

func (s *Store) Cards(_ context.Context) ([]core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Card(nil), s.cards...), nil
}

func (s *Store) PutWallet(_ context.Context, w core.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.wallets {
		if s.wallets[i].ID == w.ID {
			s.wallets[i] = w
			return nil
		}
	}
	s.wallets = append(s.wallets, w)
	return nil
}

func (s *Store) DeleteWallet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.wallets[:0]
	for _, w := range s.wallets {
		if w.ID != id {
			out = append(out, w)
		}
	}
	s.wallets = out
	return nil
}

func (s *Store) Wallets(_ context.Context) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Wallet(nil), s.wallets...), nil
}

func (s *Store) SavingsGoal(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savingsGoal, nil
}

func (s *Store) SetSavingsGoal(_ context.Context, goal int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savingsGoal = goal
	return nil
}

func (s *Store) Import(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks = append([]core.Bank(nil), snap.Banks...)
	s.cards = append([]core.Card(nil), snap.Cards...)
	s.wallets = append([]core.Wallet(nil), snap.Wallets...)
	s.incomes = append([]core.Income(nil), snap.Incomes...)
	s.expenses = append([]core.Expense(nil), snap.Expenses...)
	s.savingsGoal = snap.SavingsGoal
	return nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks, s.cards, s.wallets = nil, nil, nil
	s.incomes, s.expenses = nil, nil
	s.savingsGoal = defaultSavingsGoal
	return nil
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func removeExpenses(es []core.Expense, ids map[string]struct{}) []core.Expense {
	out := es[:0]
	for _, e := range es {
		if _, drop := ids[e.ID]; !drop {
			out = append(out, e)
		}
	}
	return out
}
