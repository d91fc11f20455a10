package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"huishoudboekje/internal/core"
)

func TestKey(t *testing.T) {
	k := Key(core.MonthKey{Year: 2025, Month: 3}, 1700000000, "statement.pdf")
	if k != "2025-03/1700000000-statement.pdf" {
		t.Fatalf("got %q", k)
	}
}

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	body := "hello statement"
	key := Key(core.MonthKey{Year: 2025, Month: 1}, 1700000000, "bank.csv")
	if err := store.Put(ctx, key, "text/csv", int64(len(body)), strings.NewReader(body)); err != nil {
		t.Fatalf("put: %v", err)
	}

	rc, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(got) != body {
		t.Fatalf("read back %q (%v), want %q", got, err, body)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); err == nil {
		t.Fatalf("expected error reading deleted object")
	}
}

func TestFSStorePolicy(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	err = store.Put(ctx, "2025-01/1-x.bin", "application/octet-stream", 4, strings.NewReader("data"))
	if !errors.Is(err, ErrUnsupportedMIME) {
		t.Fatalf("expected ErrUnsupportedMIME, got %v", err)
	}

	err = store.Put(ctx, "2025-01/1-x.pdf", "application/pdf", MaxObjectSize+1, strings.NewReader(""))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	// Declared size smaller than the body is rejected too.
	err = store.Put(ctx, "2025-01/2-x.pdf", "application/pdf", 2, strings.NewReader("data"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge for oversized body, got %v", err)
	}
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Put(ctx, "../escape", "text/csv", 1, strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}
