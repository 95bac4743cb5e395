package services

import (
	"context"
	"fmt"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

// Reports reads the current record sets and derives the presentation
// summaries. It holds no state; results depend only on the stored records
// and the requested period, so calls are safe to repeat and to run
// concurrently with each other.
type Reports struct {
	incomes  store.IncomeStore
	expenses store.ExpenseStore
}

func NewReports(incomes store.IncomeStore, expenses store.ExpenseStore) *Reports {
	return &Reports{incomes: incomes, expenses: expenses}
}

// Monthly computes the dashboard summary for the month of ref.
func (r *Reports) Monthly(ctx context.Context, ref core.Date) (core.MonthlySummary, error) {
	incomes, expenses, err := r.load(ctx)
	if err != nil {
		return core.MonthlySummary{}, err
	}
	return core.Summarize(incomes, expenses, ref), nil
}

// Yearly computes the 12 chart points for the given year.
func (r *Reports) Yearly(ctx context.Context, year int) ([12]core.MonthPoint, error) {
	incomes, expenses, err := r.load(ctx)
	if err != nil {
		return [12]core.MonthPoint{}, err
	}
	return core.YearSeries(incomes, expenses, year), nil
}

func (r *Reports) load(ctx context.Context) ([]core.Income, []core.Expense, error) {
	incomes, err := r.incomes.Incomes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load incomes: %w", err)
	}
	expenses, err := r.expenses.Expenses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load expenses: %w", err)
	}
	return incomes, expenses, nil
}
