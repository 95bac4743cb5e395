package http

import (
	"net/http"

	"github.com/goya962/FinanceFlow/internal/core"
)

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.ledger.Banks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if banks == nil {
		banks = []core.Bank{}
	}
	writeJSON(w, http.StatusOK, banks)
}

func (s *Server) handleCreateBank(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil || in.Name == "" {
		badRequest(w, "bank name is required")
		return
	}

	bank, err := s.ledger.AddBank(r.Context(), in.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bank)
}

func (s *Server) handleUpdateBank(w http.ResponseWriter, r *http.Request) {
	var bank core.Bank
	if err := decodeJSON(r, &bank); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	bank.ID = r.PathValue("id")

	if err := s.ledger.UpdateBank(r.Context(), bank); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

func (s *Server) handleDeleteBank(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBank(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := decodeJSON(r, &account); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.ledger.AddAccount(r.Context(), r.PathValue("id"), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := decodeJSON(r, &account); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	account.ID = r.PathValue("accountID")

	if err := s.ledger.UpdateAccount(r.Context(), r.PathValue("id"), account); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), r.PathValue("id"), r.PathValue("accountID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ledger.Cards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cards == nil {
		cards = []core.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var card core.Card
	if err := decodeJSON(r, &card); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.ledger.AddCard(r.Context(), card)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var card core.Card
	if err := decodeJSON(r, &card); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	card.ID = r.PathValue("id")

	if err := s.ledger.UpdateCard(r.Context(), card); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteCard(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.ledger.Wallets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if wallets == nil {
		wallets = []core.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var wallet core.Wallet
	if err := decodeJSON(r, &wallet); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.ledger.AddWallet(r.Context(), wallet)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWallet(w http.ResponseWriter, r *http.Request) {
	var wallet core.Wallet
	if err := decodeJSON(r, &wallet); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	wallet.ID = r.PathValue("id")

	if err := s.ledger.UpdateWallet(r.Context(), wallet); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteWallet(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.ledger.SavingsGoal(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"goal": goal})
}

func (s *Server) handleSetSavingsGoal(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Goal int `json:"goal"`
	}
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := s.ledger.SetSavingsGoal(r.Context(), in.Goal); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"goal": in.Goal})
}
