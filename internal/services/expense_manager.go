// Package services orchestrates the domain operations over the record
// store: installment fan-out and cascade for expenses, plain CRUD for
// incomes and reference data, and the period reports.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"
)

// EventPublisher notifies external listeners about expense mutations.
// A nil publisher disables events; publish failures never fail the
// operation, the local write already committed.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, action string, ids []string, groupID string) error
}

// ExpenseInput carries the user-entered fields of a purchase before any
// splitting. Installments is only honored for credit purchases; zero means
// absent and defaults to a single payment.
type ExpenseInput struct {
	Description  string             `json:"description"`
	Amount       core.Money         `json:"amount"`
	Date         core.Date          `json:"date"`
	Method       core.PaymentMethod `json:"method"`
	Source       core.SourceRef     `json:"source"`
	Installments int                `json:"installments,omitempty"`
	IsSaving     bool               `json:"isSaving"`
}

// ExpenseManager maintains the installment group invariant across adds,
// edits, and deletes of expense records.
type ExpenseManager struct {
	expenses store.ExpenseStore
	events   EventPublisher
}

func NewExpenseManager(expenses store.ExpenseStore, events EventPublisher) *ExpenseManager {
	return &ExpenseManager{expenses: expenses, events: events}
}

// Add validates the input and persists it, fanning a multi-installment
// credit purchase out into one dated record per installment. The whole
// group is written atomically. It returns the created records.
func (m *ExpenseManager) Add(ctx context.Context, in ExpenseInput) ([]core.Expense, error) {
	records, err := expandInput(in)
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	if len(records) == 1 {
		err = m.expenses.AddExpense(ctx, records[0])
	} else {
		err = m.expenses.AddExpenses(ctx, records)
	}
	if err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"description", in.Description,
		"amount_cents", in.Amount.Cents,
		"method", string(in.Method),
		"records", len(records),
		"group_id", records[0].InstallmentGroupID)

	m.publish(ctx, "created", records)
	return records, nil
}

// Update applies an edit by rebuilding from scratch: the edited record and
// every other member of its installment group are deleted, and the edited
// field values are expanded again as if freshly added. The swap happens in
// one atomic store operation, so readers never see a partial group.
func (m *ExpenseManager) Update(ctx context.Context, e core.Expense) ([]core.Expense, error) {
	all, err := m.expenses.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	current, ok := findExpense(all, e.ID)
	if !ok {
		return nil, fmt.Errorf("update expense %s: %w", e.ID, store.ErrNotFound)
	}

	removeIDs := []string{current.ID}
	if current.IsGrouped() {
		removeIDs = groupIDs(all, current.InstallmentGroupID)
	}

	records, err := expandInput(ExpenseInput{
		Description:  e.Description,
		Amount:       e.Amount,
		Date:         e.Date,
		Method:       e.Method,
		Source:       e.Source,
		Installments: e.Installments,
		IsSaving:     e.IsSaving,
	})
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", e.ID, err)
	}

	if err := m.expenses.ReplaceExpenses(ctx, removeIDs, records); err != nil {
		return nil, fmt.Errorf("replace expense group: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated",
		"expense_id", e.ID,
		"removed", len(removeIDs),
		"created", len(records))

	m.publish(ctx, "updated", records)
	return records, nil
}

// Delete removes the record, cascading to every member of its installment
// group: the user deletes the purchase, not one month of it. A missing id
// is a no-op so the operation stays idempotent under retry.
func (m *ExpenseManager) Delete(ctx context.Context, id string) error {
	all, err := m.expenses.Expenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	target, ok := findExpense(all, id)
	if !ok {
		slog.DebugContext(ctx, "Delete of missing expense ignored", "expense_id", id)
		return nil
	}

	removed := []core.Expense{target}
	if target.IsGrouped() {
		ids := groupIDs(all, target.InstallmentGroupID)
		if err := m.expenses.DeleteExpenses(ctx, ids); err != nil {
			return fmt.Errorf("delete expense group %s: %w", target.InstallmentGroupID, err)
		}
		removed = groupMembers(all, target.InstallmentGroupID)
	} else if err := m.expenses.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense deleted",
		"expense_id", id,
		"group_id", target.InstallmentGroupID,
		"records", len(removed))

	m.publish(ctx, "deleted", removed)
	return nil
}

// List returns the current expense record set.
func (m *ExpenseManager) List(ctx context.Context) ([]core.Expense, error) {
	return m.expenses.Expenses(ctx)
}

// expandInput turns user input into the record set to persist. A credit
// purchase with n > 1 installments becomes n records sharing a fresh group
// id, each carrying an even split of the amount, the date advanced by its
// installment offset, and a "(k/n)" description suffix.
func expandInput(in ExpenseInput) ([]core.Expense, error) {
	if in.Installments < 0 {
		return nil, core.ErrInvalidInstallments
	}

	n := 1
	if in.Method == core.Credit && in.Installments > 1 {
		n = in.Installments
	}

	prototype := core.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		Method:      in.Method,
		Source:      in.Source,
		IsSaving:    in.IsSaving,
	}
	if err := prototype.Validate(); err != nil {
		return nil, err
	}

	if n == 1 {
		prototype.ID = uuid.NewString()
		return []core.Expense{prototype}, nil
	}

	groupID := uuid.NewString()
	shares := in.Amount.SplitEven(n)
	records := make([]core.Expense, n)
	for k := 0; k < n; k++ {
		member := prototype
		member.ID = uuid.NewString()
		member.Amount = shares[k]
		member.Date = in.Date.AddMonths(k)
		member.Description = fmt.Sprintf("%s (%d/%d)", in.Description, k+1, n)
		member.Installments = n
		member.InstallmentGroupID = groupID
		records[k] = member
	}
	return records, nil
}

func (m *ExpenseManager) publish(ctx context.Context, action string, records []core.Expense) {
	if m.events == nil || len(records) == 0 {
		return
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	if err := m.events.PublishExpenseEvent(ctx, action, ids, records[0].InstallmentGroupID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action,
			"record_count", len(ids),
			"error", err)
	}
}

func findExpense(all []core.Expense, id string) (core.Expense, bool) {
	for _, e := range all {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

func groupMembers(all []core.Expense, groupID string) []core.Expense {
	var out []core.Expense
	for _, e := range all {
		if e.InstallmentGroupID == groupID {
			out = append(out, e)
		}
	}
	return out
}

func groupIDs(all []core.Expense, groupID string) []string {
	var out []string
	for _, e := range all {
		if e.InstallmentGroupID == groupID {
			out = append(out, e.ID)
		}
	}
	return out
}
