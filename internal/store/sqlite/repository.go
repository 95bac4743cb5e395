// Package sqlite implements the record store on a local SQLite database.
// Multi-record writes run inside a single transaction so an installment
// group is always created or deleted as a whole.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/store"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (r *Repository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const insertExpenseSQL = `INSERT INTO expenses
	(id, description, amount_cents, date, method, source_type, source_id, installments, installment_group_id, is_saving)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func insertExpense(ctx context.Context, tx *sql.Tx, e core.Expense) error {
	_, err := tx.ExecContext(ctx, insertExpenseSQL,
		e.ID, e.Description, e.Amount.Cents, e.Date.String(), string(e.Method),
		string(e.Source.Type), e.Source.ID, e.Installments, e.InstallmentGroupID, boolToInt(e.IsSaving))
	if err != nil {
		return fmt.Errorf("insert expense %s: %w", e.ID, err)
	}
	return nil
}

func (r *Repository) AddExpense(ctx context.Context, e core.Expense) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return insertExpense(ctx, tx, e)
	})
}

func (r *Repository) AddExpenses(ctx context.Context, es []core.Expense) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range es {
			if err := insertExpense(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET
		description = ?, amount_cents = ?, date = ?, method = ?, source_type = ?,
		source_id = ?, installments = ?, installment_group_id = ?, is_saving = ?
		WHERE id = ?`,
		e.Description, e.Amount.Cents, e.Date.String(), string(e.Method), string(e.Source.Type),
		e.Source.ID, e.Installments, e.InstallmentGroupID, boolToInt(e.IsSaving), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	return requireRow(res, e.ID)
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (r *Repository) DeleteExpenses(ctx context.Context, ids []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return deleteExpenses(ctx, tx, ids)
	})
}

func (r *Repository) ReplaceExpenses(ctx context.Context, removeIDs []string, add []core.Expense) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteExpenses(ctx, tx, removeIDs); err != nil {
			return err
		}
		for _, e := range add {
			if err := insertExpense(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteExpenses(ctx context.Context, tx *sql.Tx, ids []string) error {
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete expense %s: %w", id, err)
		}
	}
	return nil
}

func (r *Repository) Expenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, amount_cents, date, method,
		source_type, source_id, installments, installment_group_id, is_saving
		FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			date    string
			method  string
			srcType string
			saving  int
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount.Cents, &date, &method,
			&srcType, &e.Source.ID, &e.Installments, &e.InstallmentGroupID, &saving); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		e.Method = core.PaymentMethod(method)
		e.Source.Type = core.SourceType(srcType)
		e.IsSaving = saving != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertIncome(ctx context.Context, tx *sql.Tx, i core.Income) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO incomes
		(id, description, amount_cents, date, source_type, source_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		i.ID, i.Description, i.Amount.Cents, i.Date.String(), string(i.Source.Type), i.Source.ID)
	if err != nil {
		return fmt.Errorf("insert income %s: %w", i.ID, err)
	}
	return nil
}

func (r *Repository) AddIncome(ctx context.Context, i core.Income) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return insertIncome(ctx, tx, i)
	})
}

func (r *Repository) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := r.db.ExecContext(ctx, `UPDATE incomes SET
		description = ?, amount_cents = ?, date = ?, source_type = ?, source_id = ?
		WHERE id = ?`,
		i.Description, i.Amount.Cents, i.Date.String(), string(i.Source.Type), i.Source.ID, i.ID)
	if err != nil {
		return fmt.Errorf("update income %s: %w", i.ID, err)
	}
	return requireRow(res, i.ID)
}

func (r *Repository) DeleteIncome(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete income %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Incomes(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, description, amount_cents, date, source_type, source_id
		FROM incomes ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			i       core.Income
			date    string
			srcType string
		)
		if err := rows.Scan(&i.ID, &i.Description, &i.Amount.Cents, &date, &srcType, &i.Source.ID); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if i.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse income date %q: %w", date, err)
		}
		i.Source.Type = core.SourceType(srcType)
		out = append(out, i)
	}
	return out, rows.Err()
}

func putBank(ctx context.Context, tx *sql.Tx, b core.Bank) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO banks (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, b.ID, b.Name); err != nil {
		return fmt.Errorf("upsert bank %s: %w", b.ID, err)
	}
	// Accounts are owned by their bank; rewrite the set wholesale.
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE bank_id = ?`, b.ID); err != nil {
		return fmt.Errorf("clear accounts for bank %s: %w", b.ID, err)
	}
	for _, a := range b.Accounts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (id, bank_id, name, cbu, alias, balance_cents)
			VALUES (?, ?, ?, ?, ?, ?)`, a.ID, b.ID, a.Name, a.CBU, a.Alias, a.Balance.Cents); err != nil {
			return fmt.Errorf("insert account %s: %w", a.ID, err)
		}
	}
	return nil
}

func (r *Repository) PutBank(ctx context.Context, b core.Bank) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return putBank(ctx, tx, b)
	})
}

func (r *Repository) DeleteBank(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE bank_id = ?`, id); err != nil {
			return fmt.Errorf("delete accounts for bank %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM banks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete bank %s: %w", id, err)
		}
		return nil
	})
}

func (r *Repository) Banks(ctx context.Context) ([]core.Bank, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM banks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	defer rows.Close()

	var out []core.Bank
	for rows.Next() {
		var b core.Bank
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		accounts, err := r.accountsForBank(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Accounts = accounts
	}
	return out, nil
}

func (r *Repository) accountsForBank(ctx context.Context, bankID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, cbu, alias, balance_cents
		FROM accounts WHERE bank_id = ? ORDER BY name`, bankID)
	if err != nil {
		return nil, fmt.Errorf("query accounts for bank %s: %w", bankID, err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.CBU, &a.Alias, &a.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func putCard(ctx context.Context, tx *sql.Tx, c core.Card) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO cards (id, name, bank_id, last_four, closing_day, due_day)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, bank_id = excluded.bank_id,
			last_four = excluded.last_four, closing_day = excluded.closing_day, due_day = excluded.due_day`,
		c.ID, c.Name, c.BankID, c.LastFourDigits, c.ClosingDay, c.DueDay)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", c.ID, err)
	}
	return nil
}

func (r *Repository) PutCard(ctx context.Context, c core.Card) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return putCard(ctx, tx, c)
	})
}

func (r *Repository) DeleteCard(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Cards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, bank_id, last_four, closing_day, due_day
		FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		var c core.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.BankID, &c.LastFourDigits, &c.ClosingDay, &c.DueDay); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func putWallet(ctx context.Context, tx *sql.Tx, w core.Wallet) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO wallets (id, name, balance_cents) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, balance_cents = excluded.balance_cents`,
		w.ID, w.Name, w.Balance.Cents)
	if err != nil {
		return fmt.Errorf("upsert wallet %s: %w", w.ID, err)
	}
	return nil
}

func (r *Repository) PutWallet(ctx context.Context, w core.Wallet) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return putWallet(ctx, tx, w)
	})
}

func (r *Repository) DeleteWallet(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wallets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete wallet %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Wallets(ctx context.Context) ([]core.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, balance_cents FROM wallets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	var out []core.Wallet
	for rows.Next() {
		var w core.Wallet
		if err := rows.Scan(&w.ID, &w.Name, &w.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repository) SavingsGoal(ctx context.Context) (int, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'savings_goal'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query savings goal: %w", err)
	}
	goal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse savings goal %q: %w", value, err)
	}
	return goal, nil
}

func (r *Repository) SetSavingsGoal(ctx context.Context, goal int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('savings_goal', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(goal))
	if err != nil {
		return fmt.Errorf("set savings goal: %w", err)
	}
	return nil
}

func (r *Repository) Import(ctx context.Context, snap core.Snapshot) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := clearAll(ctx, tx); err != nil {
			return err
		}
		for _, b := range snap.Banks {
			if err := putBank(ctx, tx, b); err != nil {
				return err
			}
		}
		for _, c := range snap.Cards {
			if err := putCard(ctx, tx, c); err != nil {
				return err
			}
		}
		for _, w := range snap.Wallets {
			if err := putWallet(ctx, tx, w); err != nil {
				return err
			}
		}
		for _, i := range snap.Incomes {
			if err := insertIncome(ctx, tx, i); err != nil {
				return err
			}
		}
		for _, e := range snap.Expenses {
			if err := insertExpense(ctx, tx, e); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('savings_goal', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, strconv.Itoa(snap.SavingsGoal)); err != nil {
			return fmt.Errorf("set savings goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Snapshot imported",
		"banks", len(snap.Banks),
		"cards", len(snap.Cards),
		"wallets", len(snap.Wallets),
		"incomes", len(snap.Incomes),
		"expenses", len(snap.Expenses))
	return nil
}

func (r *Repository) Reset(ctx context.Context) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return clearAll(ctx, tx)
	})
}

func clearAll(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"accounts", "banks", "cards", "wallets", "incomes", "expenses", "settings"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
