package http

import (
	"context"
	"net/http"

	"huishoudboekje/internal/core"
)

type incomeRequest struct {
	Month       string `json:"month"`
	Member      string `json:"member"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}

func (req incomeRequest) toDomain() (core.Income, error) {
	m, err := core.ParseMonthKey(req.Month)
	if err != nil {
		return core.Income{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Income{}, err
	}
	in := core.Income{
		Month:       m,
		Member:      core.Member(sanitizeInput(req.Member)),
		Description: sanitizeInput(req.Description),
		Amount:      amount,
		Type:        core.IncomeType(sanitizeInput(req.Type)),
	}
	return in, in.Validate()
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertIncome(r.Context(), in)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	in.ID = id

	s.invalidateMonth(in.Month)
	respondJSON(w, http.StatusCreated, incomeToJSON(in))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	in.ID = id

	if err := s.store.UpdateIncome(r.Context(), in); err != nil {
		respondDomainError(w, r, err)
		return
	}

	// The update may have moved the row to another month; the old month's
	// cached payload is stale too, so drop everything.
	s.monthCache.Purge()
	respondJSON(w, http.StatusOK, incomeToJSON(in))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteIncome)
}

type taxRequest struct {
	Month       string `json:"month"`
	Member      string `json:"member"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (req taxRequest) toDomain() (core.Tax, error) {
	m, err := core.ParseMonthKey(req.Month)
	if err != nil {
		return core.Tax{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Tax{}, err
	}
	t := core.Tax{
		Month:       m,
		Member:      core.Member(sanitizeInput(req.Member)),
		Description: sanitizeInput(req.Description),
		Amount:      amount,
	}
	return t, t.Validate()
}

func (s *Server) handleCreateTax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertTax(r.Context(), t)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	t.ID = id

	s.invalidateMonth(t.Month)
	respondJSON(w, http.StatusCreated, taxToJSON(t))
}

func (s *Server) handleUpdateTax(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req taxRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	t.ID = id

	if err := s.store.UpdateTax(r.Context(), t); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.monthCache.Purge()
	respondJSON(w, http.StatusOK, taxToJSON(t))
}

func (s *Server) handleDeleteTax(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteTax)
}

type expenseRequest struct {
	Month            string `json:"month"`
	Member           string `json:"member"`
	Description      string `json:"description"`
	Amount           string `json:"amount"`
	Category         string `json:"category"`
	Shared           bool   `json:"shared"`
	Recurring        bool   `json:"recurring"`
	Paid             bool   `json:"paid"`
	IncludeVAT       bool   `json:"include_vat"`
	Note             string `json:"note"`
	BalanceAccountID *int64 `json:"balance_account_id"`
}

func (req expenseRequest) toDomain() (core.Expense, error) {
	m, err := core.ParseMonthKey(req.Month)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Month:            m,
		Member:           core.Member(sanitizeInput(req.Member)),
		Description:      sanitizeInput(req.Description),
		Amount:           amount,
		Category:         core.ExpenseCategory(sanitizeInput(req.Category)),
		Shared:           req.Shared,
		Recurring:        req.Recurring,
		Paid:             req.Paid,
		IncludeVAT:       req.IncludeVAT,
		Note:             sanitizeInput(req.Note),
		BalanceAccountID: req.BalanceAccountID,
	}
	return e, e.Validate()
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertExpense(r.Context(), e)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	e.ID = id

	s.invalidateMonth(e.Month)
	respondJSON(w, http.StatusCreated, expenseToJSON(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	e.ID = id

	if err := s.store.UpdateExpense(r.Context(), e); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.monthCache.Purge()
	respondJSON(w, http.StatusOK, expenseToJSON(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteExpense)
}

type discretionaryRequest struct {
	Month       string `json:"month"`
	Member      string `json:"member"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (req discretionaryRequest) toDomain() (core.DiscretionaryExpense, error) {
	m, err := core.ParseMonthKey(req.Month)
	if err != nil {
		return core.DiscretionaryExpense{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.DiscretionaryExpense{}, err
	}
	d := core.DiscretionaryExpense{
		Month:       m,
		Member:      core.Member(sanitizeInput(req.Member)),
		Description: sanitizeInput(req.Description),
		Amount:      amount,
	}
	return d, d.Validate()
}

func (s *Server) handleCreateDiscretionary(w http.ResponseWriter, r *http.Request) {
	var req discretionaryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertDiscretionary(r.Context(), d)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	d.ID = id

	s.invalidateMonth(d.Month)
	respondJSON(w, http.StatusCreated, discretionaryToJSON(d))
}

func (s *Server) handleUpdateDiscretionary(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req discretionaryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	d.ID = id

	if err := s.store.UpdateDiscretionary(r.Context(), d); err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.monthCache.Purge()
	respondJSON(w, http.StatusOK, discretionaryToJSON(d))
}

func (s *Server) handleDeleteDiscretionary(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.store.DeleteDiscretionary)
}

// deleteByID handles the shared shape of row deletions. The deleted row's
// month is not in the request, so the month cache is purged wholesale.
func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := del(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.monthCache.Purge()
	respondJSON(w, http.StatusNoContent, nil)
}
