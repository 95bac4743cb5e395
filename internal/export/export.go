// Package export serializes the full data set for backup and analysis:
// a JSON snapshot with round-trip fidelity and a flat CSV summary of all
// movements. The core never depends on these formats.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Snapshot collects the entire data set.
func (s *Service) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	var err error

	if snap.Banks, err = s.store.Banks(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export banks: %w", err)
	}
	if snap.Cards, err = s.store.Cards(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export cards: %w", err)
	}
	if snap.Wallets, err = s.store.Wallets(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export wallets: %w", err)
	}
	if snap.Incomes, err = s.store.Incomes(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export incomes: %w", err)
	}
	if snap.Expenses, err = s.store.Expenses(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export expenses: %w", err)
	}
	if snap.SavingsGoal, err = s.store.SavingsGoal(ctx); err != nil {
		return core.Snapshot{}, fmt.Errorf("export savings goal: %w", err)
	}
	return snap, nil
}

// WriteJSON streams the snapshot as indented JSON.
func (s *Service) WriteJSON(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Import replaces the entire data set with the JSON snapshot read from r.
// The swap is atomic: a malformed file leaves the store untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) error {
	var snap core.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.store.Import(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// WriteCSV writes the movement summary: one row per income and expense,
// expense amounts negated. Column layout: type,date,description,amount,
// source,method.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	incomes, err := s.store.Incomes(ctx)
	if err != nil {
		return fmt.Errorf("export incomes: %w", err)
	}
	expenses, err := s.store.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("export expenses: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "date", "description", "amount", "source", "method"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, i := range incomes {
		row := []string{"income", i.Date.String(), i.Description, i.Amount.String(), string(i.Source.Type), "N/A"}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write income row: %w", err)
		}
	}
	for _, e := range expenses {
		negated := core.Money{Cents: -e.Amount.Cents}
		row := []string{"expense", e.Date.String(), e.Description, negated.String(), string(e.Source.Type), string(e.Method)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write expense row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Reset clears the entire data set.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	return nil
}
