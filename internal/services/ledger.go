package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

// Ledger manages the payment instrument reference data: banks with their
// nested accounts, cards, and wallets, plus the savings goal setting.
// These are lookup tables the expense core consults by id but does not own.
type Ledger struct {
	refs     store.ReferenceStore
	settings store.SettingsStore
}

func NewLedger(refs store.ReferenceStore, settings store.SettingsStore) *Ledger {
	return &Ledger{refs: refs, settings: settings}
}

func (l *Ledger) AddBank(ctx context.Context, name string) (core.Bank, error) {
	bank := core.Bank{ID: uuid.NewString(), Name: name, Accounts: []core.Account{}}
	if err := l.refs.PutBank(ctx, bank); err != nil {
		return core.Bank{}, fmt.Errorf("add bank: %w", err)
	}
	return bank, nil
}

func (l *Ledger) UpdateBank(ctx context.Context, b core.Bank) error {
	if err := l.refs.PutBank(ctx, b); err != nil {
		return fmt.Errorf("update bank %s: %w", b.ID, err)
	}
	return nil
}

func (l *Ledger) DeleteBank(ctx context.Context, id string) error {
	if err := l.refs.DeleteBank(ctx, id); err != nil {
		return fmt.Errorf("delete bank %s: %w", id, err)
	}
	return nil
}

func (l *Ledger) Banks(ctx context.Context) ([]core.Bank, error) {
	return l.refs.Banks(ctx)
}

// AddAccount appends an account to a bank. Accounts live inside their bank
// record, so this is a bank update underneath.
func (l *Ledger) AddAccount(ctx context.Context, bankID string, a core.Account) (core.Account, error) {
	a.ID = uuid.NewString()
	err := l.modifyBank(ctx, bankID, func(b *core.Bank) {
		b.Accounts = append(b.Accounts, a)
	})
	if err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (l *Ledger) UpdateAccount(ctx context.Context, bankID string, a core.Account) error {
	return l.modifyBank(ctx, bankID, func(b *core.Bank) {
		for i := range b.Accounts {
			if b.Accounts[i].ID == a.ID {
				b.Accounts[i] = a
			}
		}
	})
}

func (l *Ledger) DeleteAccount(ctx context.Context, bankID, accountID string) error {
	return l.modifyBank(ctx, bankID, func(b *core.Bank) {
		out := b.Accounts[:0]
		for _, acc := range b.Accounts {
			if acc.ID != accountID {
				out = append(out, acc)
			}
		}
		b.Accounts = out
	})
}

func (l *Ledger) modifyBank(ctx context.Context, bankID string, fn func(*core.Bank)) error {
	banks, err := l.refs.Banks(ctx)
	if err != nil {
		return fmt.Errorf("load banks: %w", err)
	}
	for _, b := range banks {
		if b.ID == bankID {
			fn(&b)
			if err := l.refs.PutBank(ctx, b); err != nil {
				return fmt.Errorf("update bank %s: %w", bankID, err)
			}
			return nil
		}
	}
	return fmt.Errorf("bank %s: %w", bankID, store.ErrNotFound)
}

func (l *Ledger) AddCard(ctx context.Context, c core.Card) (core.Card, error) {
	c.ID = uuid.NewString()
	if err := l.refs.PutCard(ctx, c); err != nil {
		return core.Card{}, fmt.Errorf("add card: %w", err)
	}
	return c, nil
}

func (l *Ledger) UpdateCard(ctx context.Context, c core.Card) error {
	if err := l.refs.PutCard(ctx, c); err != nil {
		return fmt.Errorf("update card %s: %w", c.ID, err)
	}
	return nil
}

func (l *Ledger) DeleteCard(ctx context.Context, id string) error {
	if err := l.refs.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

func (l *Ledger) Cards(ctx context.Context) ([]core.Card, error) {
	return l.refs.Cards(ctx)
}

func (l *Ledger) AddWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	w.ID = uuid.NewString()
	if err := l.refs.PutWallet(ctx, w); err != nil {
		return core.Wallet{}, fmt.Errorf("add wallet: %w", err)
	}
	return w, nil
}

func (l *Ledger) UpdateWallet(ctx context.Context, w core.Wallet) error {
	if err := l.refs.PutWallet(ctx, w); err != nil {
		return fmt.Errorf("update wallet %s: %w", w.ID, err)
	}
	return nil
}

func (l *Ledger) DeleteWallet(ctx context.Context, id string) error {
	if err := l.refs.DeleteWallet(ctx, id); err != nil {
		return fmt.Errorf("delete wallet %s: %w", id, err)
	}
	return nil
}

func (l *Ledger) Wallets(ctx context.Context) ([]core.Wallet, error) {
	return l.refs.Wallets(ctx)
}

func (l *Ledger) SavingsGoal(ctx context.Context) (int, error) {
	return l.settings.SavingsGoal(ctx)
}

func (l *Ledger) SetSavingsGoal(ctx context.Context, goal int) error {
	if goal < 0 || goal > 100 {
		return core.ErrInvalidSavingsGoal
	}
	if err := l.settings.SetSavingsGoal(ctx, goal); err != nil {
		return fmt.Errorf("set savings goal: %w", err)
	}
	return nil
}
