package events

import (
	"encoding/json"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

// MonthCarriedMessage announces that a month was populated by carry-over.
// It is deliberately small; the worker fetches the month's rows and account
// state from the database when it records the balance snapshot.
type MonthCarriedMessage struct {
	Month     string    `json:"month"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMonthCarriedMessage(m core.MonthKey, rows int) *MonthCarriedMessage {
	return &MonthCarriedMessage{
		Month:     m.String(),
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// MonthKey parses the message's month field.
func (m *MonthCarriedMessage) MonthKey() (core.MonthKey, error) {
	return core.ParseMonthKey(m.Month)
}

func (m *MonthCarriedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthCarriedMessageFromJSON decodes and validates a delivery body. A
// month that does not parse is as permanent a failure as broken JSON, so
// both surface here and the consumer rejects the delivery without requeue.
func MonthCarriedMessageFromJSON(data []byte) (*MonthCarriedMessage, error) {
	var msg MonthCarriedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := msg.MonthKey(); err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	return &msg, nil
}
