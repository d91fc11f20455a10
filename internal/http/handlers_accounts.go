package http

import (
	"net/http"
	"time"

	"huishoudboekje/internal/core"
)

type accountRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	InitialBalance   string `json:"initial_balance"`
	MonthlyDeduction string `json:"monthly_deduction"`
	StartMonth       string `json:"start_month"`
}

func (req accountRequest) toDomain() (core.BalanceAccount, error) {
	start, err := core.ParseMonthKey(req.StartMonth)
	if err != nil {
		return core.BalanceAccount{}, err
	}
	initial, err := parseAmount(req.InitialBalance)
	if err != nil {
		return core.BalanceAccount{}, err
	}
	deduction, err := parseAmount(req.MonthlyDeduction)
	if err != nil {
		return core.BalanceAccount{}, err
	}
	a := core.BalanceAccount{
		Name:             sanitizeInput(req.Name),
		Description:      sanitizeInput(req.Description),
		InitialBalance:   initial,
		MonthlyDeduction: deduction,
		StartMonth:       start,
	}
	return a, a.Validate()
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListBalanceAccounts(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountToJSON(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	id, err := s.store.InsertBalanceAccount(r.Context(), a)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	a.ID = id

	respondJSON(w, http.StatusCreated, accountToJSON(a))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := req.toDomain()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	a.ID = id

	if err := s.store.UpdateBalanceAccount(r.Context(), a); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, accountToJSON(a))
}

// handleDeleteAccount removes the account. Expenses that referenced it keep
// their rows but lose the link; months that showed those links are stale,
// so the month cache is purged.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteBalanceAccount(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.monthCache.Purge()
	respondJSON(w, http.StatusNoContent, nil)
}

// handleAccountProjection reconciles the schedule and actual balance models
// for one account at the month in the query (default: current month).
func (s *Server) handleAccountProjection(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := currentMonth()
	if v := r.URL.Query().Get("month"); v != "" {
		m, err = core.ParseMonthKey(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	account, err := s.store.GetBalanceAccount(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	expenses, err := s.store.ExpensesByAccount(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, projectionToJSON(core.Project(account, m, expenses)))
}

func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.store.GetBalanceAccount(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	snapshots, err := s.store.SnapshotsByAccount(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]snapshotJSON, 0, len(snapshots))
	for _, snap := range snapshots {
		out = append(out, snapshotToJSON(snap))
	}
	respondJSON(w, http.StatusOK, out)
}

func currentMonth() core.MonthKey {
	now := time.Now()
	return core.MonthKey{Year: now.Year(), Month: int(now.Month())}
}
