package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

// IncomeInput carries the user-entered fields of an income.
type IncomeInput struct {
	Description string         `json:"description"`
	Amount      core.Money     `json:"amount"`
	Date        core.Date      `json:"date"`
	Source      core.SourceRef `json:"source"`
}

// IncomeService provides single-record CRUD over incomes. There is no
// fan-out: incomes never split.
type IncomeService struct {
	incomes store.IncomeStore
}

func NewIncomeService(incomes store.IncomeStore) *IncomeService {
	return &IncomeService{incomes: incomes}
}

func (s *IncomeService) Add(ctx context.Context, in IncomeInput) (core.Income, error) {
	income := core.Income{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		Source:      in.Source,
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}
	if err := s.incomes.AddIncome(ctx, income); err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	slog.InfoContext(ctx, "Income created",
		"income_id", income.ID,
		"description", income.Description,
		"amount_cents", income.Amount.Cents)
	return income, nil
}

func (s *IncomeService) Update(ctx context.Context, i core.Income) error {
	if err := i.Validate(); err != nil {
		return fmt.Errorf("update income %s: %w", i.ID, err)
	}
	if err := s.incomes.UpdateIncome(ctx, i); err != nil {
		return fmt.Errorf("update income %s: %w", i.ID, err)
	}
	return nil
}

// Delete removes an income; a missing id is a no-op.
func (s *IncomeService) Delete(ctx context.Context, id string) error {
	if err := s.incomes.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income %s: %w", id, err)
	}
	return nil
}

func (s *IncomeService) List(ctx context.Context) ([]core.Income, error) {
	return s.incomes.Incomes(ctx)
}
