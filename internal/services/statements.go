package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"huishoudboekje/internal/blob"
	"huishoudboekje/internal/core"
	applog "huishoudboekje/internal/log"
)

// StatementStore is the metadata side of statement handling.
type StatementStore interface {
	InsertStatement(ctx context.Context, s core.FinancialStatement) (int64, error)
	GetStatement(ctx context.Context, id int64) (core.FinancialStatement, error)
	DeleteStatement(ctx context.Context, id int64) error
	StatementsByMonth(ctx context.Context, m core.MonthKey) ([]core.FinancialStatement, error)
}

// StatementService stores uploaded documents: bytes in the blob store,
// metadata rows in the repository.
type StatementService struct {
	store StatementStore
	blobs blob.Store
	now   func() time.Time
}

func NewStatementService(store StatementStore, blobs blob.Store) *StatementService {
	return &StatementService{store: store, blobs: blobs, now: time.Now}
}

// Upload writes the blob first and the metadata row second. When the row
// insert fails the blob is orphaned, so a best-effort cleanup removes it;
// cleanup failures are logged, not escalated, because the upload itself has
// already failed and that is the outcome the caller asked about.
func (s *StatementService) Upload(ctx context.Context, meta core.FinancialStatement, r io.Reader) (core.FinancialStatement, error) {
	if err := meta.Validate(); err != nil {
		return core.FinancialStatement{}, err
	}
	meta.Key = blob.Key(meta.Month, s.now().Unix(), meta.Filename)

	if err := s.blobs.Put(ctx, meta.Key, meta.MIMEType, meta.Size, r); err != nil {
		return core.FinancialStatement{}, fmt.Errorf("store statement blob: %w", err)
	}

	id, err := s.store.InsertStatement(ctx, meta)
	if err != nil {
		if cleanupErr := s.blobs.Delete(ctx, meta.Key); cleanupErr != nil {
			applog.FromContext(ctx).ErrorContext(ctx, "Failed to clean up orphaned statement blob",
				"key", meta.Key, "error", cleanupErr)
		}
		return core.FinancialStatement{}, fmt.Errorf("save statement metadata: %w", err)
	}
	meta.ID = id

	applog.FromContext(ctx).InfoContext(ctx, "Statement uploaded",
		"id", id, "month", meta.Month.String(), "filename", meta.Filename, "key", meta.Key)
	return meta, nil
}

// Delete removes the metadata row, then the blob. A blob deletion failure
// after the row is gone is logged only; the row was the primary record.
func (s *StatementService) Delete(ctx context.Context, id int64) error {
	meta, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteStatement(ctx, id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, meta.Key); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to delete statement blob",
			"id", id, "key", meta.Key, "error", err)
	}
	return nil
}

// Open returns the statement's metadata and a reader over its bytes.
func (s *StatementService) Open(ctx context.Context, id int64) (core.FinancialStatement, io.ReadCloser, error) {
	meta, err := s.store.GetStatement(ctx, id)
	if err != nil {
		return core.FinancialStatement{}, nil, err
	}
	rc, err := s.blobs.Get(ctx, meta.Key)
	if err != nil {
		return core.FinancialStatement{}, nil, fmt.Errorf("open statement blob: %w", err)
	}
	return meta, rc, nil
}

// ListMonth returns the month's statement metadata rows.
func (s *StatementService) ListMonth(ctx context.Context, m core.MonthKey) ([]core.FinancialStatement, error) {
	return s.store.StatementsByMonth(ctx, m)
}
