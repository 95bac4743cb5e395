package core

import (
	"errors"
	"strings"
)

const (
	Debit    PaymentMethod = "debit"
	Credit   PaymentMethod = "credit"
	Cash     PaymentMethod = "cash"
	Transfer PaymentMethod = "transfer"
)

const (
	SourceBank   SourceType = "bank"
	SourceWallet SourceType = "wallet"
	SourceCard   SourceType = "card"
	SourceCash   SourceType = "cash"
)

type (
	PaymentMethod string
	SourceType    string

	// SourceRef identifies the instrument that funded a movement.
	// The type tag is always supplied by the caller, never inferred
	// by scanning the reference tables.
	SourceRef struct {
		Type SourceType `json:"type"`
		ID   string     `json:"id"`
	}

	Expense struct {
		ID          string        `json:"id"`
		Description string        `json:"description"`
		Amount      Money         `json:"amount"`
		Date        Date          `json:"date"`
		Method      PaymentMethod `json:"method"`
		Source      SourceRef     `json:"source"`
		// Installments is the total group size; set on every member of a
		// split credit purchase, zero for single-payment expenses.
		Installments       int    `json:"installments,omitempty"`
		InstallmentGroupID string `json:"installmentGroupId,omitempty"`
		IsSaving           bool   `json:"isSaving"`
	}

	Income struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Date        Date      `json:"date"`
		Source      SourceRef `json:"source"`
	}

	Account struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		CBU     string `json:"cbu"`
		Alias   string `json:"alias"`
		Balance Money  `json:"balance"`
	}

	Bank struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Accounts []Account `json:"accounts"`
	}

	Card struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		BankID         string `json:"bankId"`
		LastFourDigits string `json:"lastFourDigits"`
		ClosingDay     int    `json:"closingDay"`
		DueDay         int    `json:"dueDay"`
	}

	Wallet struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Balance Money  `json:"balance"`
	}

	// Snapshot is the full data set, used by import/export and reset.
	Snapshot struct {
		Banks       []Bank    `json:"banks"`
		Cards       []Card    `json:"cards"`
		Wallets     []Wallet  `json:"wallets"`
		Incomes     []Income  `json:"incomes"`
		Expenses    []Expense `json:"expenses"`
		SavingsGoal int       `json:"savingsGoal"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrInvalidSource       = errors.New("invalid source reference")
	ErrInvalidInstallments = errors.New("invalid installment count")
	ErrInvalidSavingsGoal  = errors.New("savings goal must be between 0 and 100")
)

// IsValidation reports whether err is one of the input validation errors,
// which are rejected before any store mutation.
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrInvalidAmount, ErrInvalidDate, ErrEmptyDescription, ErrDescriptionTooLong,
		ErrInvalidMethod, ErrInvalidSource, ErrInvalidInstallments, ErrInvalidSavingsGoal,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func (m PaymentMethod) Validate() error {
	switch m {
	case Debit, Credit, Cash, Transfer:
		return nil
	default:
		return ErrInvalidMethod
	}
}

func (r SourceRef) validate(allowed ...SourceType) error {
	if strings.TrimSpace(r.ID) == "" && r.Type != SourceCash {
		return ErrInvalidSource
	}
	for _, t := range allowed {
		if r.Type == t {
			return nil
		}
	}
	return ErrInvalidSource
}

func validateDescription(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return ErrEmptyDescription
	}
	if len(s) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Method.Validate(); err != nil {
		return err
	}
	if err := e.Source.validate(SourceBank, SourceWallet, SourceCard, SourceCash); err != nil {
		return err
	}
	if e.Installments < 0 {
		return ErrInvalidInstallments
	}
	return nil
}

// IsGrouped reports whether the expense belongs to an installment group.
func (e Expense) IsGrouped() bool {
	return e.InstallmentGroupID != ""
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	// Incomes arrive on a bank account or a digital wallet only.
	return i.Source.validate(SourceBank, SourceWallet)
}
