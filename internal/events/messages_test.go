package events

import (
	"testing"
	"time"

	"huishoudboekje/internal/core"
)

func TestNewMonthCarriedMessage(t *testing.T) {
	m := core.MonthKey{Year: 2025, Month: 4}

	msg := NewMonthCarriedMessage(m, 6)

	if msg.Month != "2025-04" {
		t.Errorf("Month = %q, want 2025-04", msg.Month)
	}
	if msg.Rows != 6 {
		t.Errorf("Rows = %d, want 6", msg.Rows)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestMonthCarriedMessage_JSON(t *testing.T) {
	msg := &MonthCarriedMessage{
		Month:     "2025-04",
		Rows:      3,
		Timestamp: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := MonthCarriedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("MonthCarriedMessageFromJSON() error = %v", err)
	}

	if parsed.Month != msg.Month {
		t.Errorf("Parsed Month = %q, want %q", parsed.Month, msg.Month)
	}
	if parsed.Rows != msg.Rows {
		t.Errorf("Parsed Rows = %d, want %d", parsed.Rows, msg.Rows)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}

	key, err := parsed.MonthKey()
	if err != nil {
		t.Fatalf("MonthKey() error = %v", err)
	}
	if (key != core.MonthKey{Year: 2025, Month: 4}) {
		t.Errorf("MonthKey() = %v", key)
	}
}

func TestMonthCarriedMessage_InvalidJSON(t *testing.T) {
	if _, err := MonthCarriedMessageFromJSON([]byte(`{"rows": "three"}`)); err == nil {
		t.Error("MonthCarriedMessageFromJSON() should fail with invalid JSON")
	}
}

func TestMonthCarriedMessage_BadMonth(t *testing.T) {
	msg := &MonthCarriedMessage{Month: "april-2025"}
	if _, err := msg.MonthKey(); err == nil {
		t.Error("MonthKey() should fail for a malformed month")
	}

	// A malformed month is a permanent failure and must surface at decode
	// time, where the consumer drops the delivery instead of requeueing it.
	if _, err := MonthCarriedMessageFromJSON([]byte(`{"month":"april-2025","rows":2}`)); err == nil {
		t.Error("MonthCarriedMessageFromJSON() should reject a malformed month")
	}
}
