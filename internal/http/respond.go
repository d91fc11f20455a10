package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"huishoudboekje/internal/core"
	applog "huishoudboekje/internal/log"
	"huishoudboekje/internal/services"
	"huishoudboekje/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Component(applog.ComponentHTTP).Error("Failed to encode response", applog.FieldError, err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// respondDomainError maps errors to status codes: validation failures are
// 422, missing rows 404, partial writes 500 with the row count surfaced,
// everything else a plain 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		var partial *services.PartialWriteError
		if errors.As(err, &partial) {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Partial write",
				applog.FieldOperation, partial.Op, "kind", partial.Kind,
				"inserted", partial.Inserted, applog.FieldError, partial.Err)
			respondError(w, http.StatusInternalServerError, partial.Error())
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path, applog.FieldError, err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidMonthKey,
		core.ErrInvalidAmount,
		core.ErrInvalidMember,
		core.ErrInvalidType,
		core.ErrInvalidCategory,
		core.ErrEmptyDescription,
		core.ErrEmptyName,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
