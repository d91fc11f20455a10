package http

import (
	"net/http"

	"huishoudboekje/internal/core"
	applog "huishoudboekje/internal/log"
	"huishoudboekje/internal/services"
)

func (s *Server) handleGetMonth(w http.ResponseWriter, r *http.Request) {
	m, err := monthFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cached, found := s.monthCache.Get(m.String()); found {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Month cache hit", applog.FieldMonth, m.String())
		respondJSON(w, http.StatusOK, cached)
		return
	}

	data, carried, err := s.orchestrator.LoadMonth(r.Context(), m)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	payload := monthToJSON(data, carried || s.orchestrator.Carried(m))
	s.monthCache.Set(m.String(), payload)
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	m, err := monthFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if cached, found := s.monthCache.Get(m.String()); found {
		respondJSON(w, http.StatusOK, cached.Summary)
		return
	}

	data, carried, err := s.orchestrator.LoadMonth(r.Context(), m)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	payload := monthToJSON(data, carried || s.orchestrator.Carried(m))
	s.monthCache.Set(m.String(), payload)
	respondJSON(w, http.StatusOK, payload.Summary)
}

type manualCarryRequest struct {
	From          string  `json:"from"`
	ExpenseIDs    []int64 `json:"expense_ids"`
	RecurringOnly bool    `json:"recurring_only"`
}

// handleManualCarry copies selected expenses from a source month into the
// month in the path. With no explicit selection the recurring expenses of
// the source month are carried.
func (s *Server) handleManualCarry(w http.ResponseWriter, r *http.Request) {
	target, err := monthFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req manualCarryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, err := core.ParseMonthKey(req.From)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	available, err := s.store.ExpensesByMonth(r.Context(), from)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	var selection []core.Expense
	if len(req.ExpenseIDs) > 0 {
		wanted := make(map[int64]struct{}, len(req.ExpenseIDs))
		for _, id := range req.ExpenseIDs {
			wanted[id] = struct{}{}
		}
		for _, e := range available {
			if _, ok := wanted[e.ID]; ok {
				selection = append(selection, e)
			}
		}
		if len(selection) != len(req.ExpenseIDs) {
			respondError(w, http.StatusUnprocessableEntity, "selection contains unknown expense ids")
			return
		}
	} else if req.RecurringOnly {
		selection = services.PreselectRecurring(available)
	} else {
		selection = available
	}

	rows, err := s.orchestrator.CarrySelected(r.Context(), target, selection)
	if err != nil {
		s.invalidateMonth(target)
		respondDomainError(w, r, err)
		return
	}

	s.invalidateMonth(target)
	respondJSON(w, http.StatusOK, map[string]any{
		"month": target.String(),
		"rows":  rows,
	})
}
