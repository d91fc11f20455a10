package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

func (r *SQLiteRepository) InsertStatement(ctx context.Context, s core.FinancialStatement) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO financial_statements (month, filename, blob_key, size_bytes, mime_type, uploaded_by, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Month.String(), s.Filename, s.Key, s.Size, s.MIMEType, string(s.UploadedBy), s.Note)
	if err != nil {
		return 0, fmt.Errorf("insert statement: %w", err)
	}
	r.log.InfoContext(ctx, "Statement metadata saved",
		"id", id, "month", s.Month.String(), "filename", s.Filename, "size_bytes", s.Size)
	return id, nil
}

func (r *SQLiteRepository) GetStatement(ctx context.Context, id int64) (core.FinancialStatement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, month, filename, blob_key, size_bytes, mime_type, uploaded_by, note, created_at
		 FROM financial_statements WHERE id = ?`, id)
	s, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.FinancialStatement{}, fmt.Errorf("get statement %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.FinancialStatement{}, fmt.Errorf("get statement %d: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteRepository) DeleteStatement(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM financial_statements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete statement %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) StatementsByMonth(ctx context.Context, m core.MonthKey) ([]core.FinancialStatement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, month, filename, blob_key, size_bytes, mime_type, uploaded_by, note, created_at
		 FROM financial_statements WHERE month = ? ORDER BY id`, m.String())
	if err != nil {
		return nil, fmt.Errorf("query statements by month: %w", err)
	}
	defer rows.Close()

	var out []core.FinancialStatement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStatement(row rowScanner) (core.FinancialStatement, error) {
	var (
		s          core.FinancialStatement
		month      string
		uploadedBy string
		createdAt  time.Time
	)
	if err := row.Scan(&s.ID, &month, &s.Filename, &s.Key, &s.Size, &s.MIMEType, &uploadedBy, &s.Note, &createdAt); err != nil {
		return core.FinancialStatement{}, err
	}
	var err error
	if s.Month, err = scanMonth(month); err != nil {
		return core.FinancialStatement{}, err
	}
	s.UploadedBy = core.Member(uploadedBy)
	s.CreatedAt = createdAt
	return s, nil
}
