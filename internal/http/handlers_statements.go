package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"huishoudboekje/internal/blob"
	"huishoudboekje/internal/core"
)

func (s *Server) handleListStatements(w http.ResponseWriter, r *http.Request) {
	m, err := monthFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	statements, err := s.statements.ListMonth(r.Context(), m)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]statementJSON, 0, len(statements))
	for _, st := range statements {
		out = append(out, statementToJSON(st))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleUploadStatement accepts a multipart form with a "file" part plus
// "uploaded_by" and optional "note" fields.
func (s *Server) handleUploadStatement(w http.ResponseWriter, r *http.Request) {
	m, err := monthFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, blob.MaxObjectSize+maxJSONBody)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	meta := core.FinancialStatement{
		Month:      m,
		Filename:   sanitizeInput(header.Filename),
		Size:       header.Size,
		MIMEType:   header.Header.Get("Content-Type"),
		UploadedBy: core.Member(sanitizeInput(r.FormValue("uploaded_by"))),
		Note:       sanitizeInput(r.FormValue("note")),
	}

	stored, err := s.statements.Upload(r.Context(), meta, file)
	if err != nil {
		switch {
		case errors.Is(err, blob.ErrTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, blob.ErrUnsupportedMIME):
			respondError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			respondDomainError(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, statementToJSON(stored))
}

func (s *Server) handleDownloadStatement(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	meta, rc, err := s.statements.Open(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", meta.MIMEType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

func (s *Server) handleDeleteStatement(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, s.statements.Delete)
}
