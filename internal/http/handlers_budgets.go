package http

import (
	"net/http"

	"huishoudboekje/internal/core"
)

type budgetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (req budgetRequest) toDomain() (core.BudgetEntry, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.BudgetEntry{}, err
	}
	b := core.BudgetEntry{
		Name:        sanitizeInput(req.Name),
		Description: sanitizeInput(req.Description),
		Amount:      amount,
	}
	return b, b.Validate()
}

// handleListBudgets returns every budget with its spent total.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		expenses, err := s.store.BudgetExpenses(r.Context(), b.ID)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		var spent core.Money
		for _, e := range expenses {
			spent = spent.Add(e.Amount)
		}
		out = append(out, budgetToJSON(b, spent))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertBudget(r.Context(), b)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	b.ID = id

	respondJSON(w, http.StatusCreated, budgetToJSON(b, core.Money{}))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	b.ID = id

	if err := s.store.UpdateBudget(r.Context(), b); err != nil {
		respondDomainError(w, r, err)
		return
	}

	expenses, err := s.store.BudgetExpenses(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	var spent core.Money
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	respondJSON(w, http.StatusOK, budgetToJSON(b, spent))
}

// handleDeleteBudget removes the budget; its expenses go with it.
func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type budgetExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (s *Server) handleCreateBudgetExpense(w http.ResponseWriter, r *http.Request) {
	budgetID, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req budgetExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	e := core.BudgetExpense{
		BudgetID:    budgetID,
		Description: sanitizeInput(req.Description),
		Amount:      amount,
	}
	if err := e.Validate(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertBudgetExpense(r.Context(), e)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	e.ID = id

	respondJSON(w, http.StatusCreated, budgetExpenseToJSON(e))
}

func (s *Server) handleDeleteBudgetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteBudgetExpense(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
