package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSavedMessage announces a completed ledger save. It carries the
// revision number and table names only; the mirror worker reads the full
// snapshot from the database.
type LedgerSavedMessage struct {
	Revision  int64     `json:"revision"`
	Tables    []string  `json:"tables"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerSavedMessage creates a saved-ledger notification.
func NewLedgerSavedMessage(revision int64, tables ...string) *LedgerSavedMessage {
	return &LedgerSavedMessage{
		Revision:  revision,
		Tables:    tables,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSavedMessageFromJSON creates a message from JSON bytes.
func LedgerSavedMessageFromJSON(data []byte) (*LedgerSavedMessage, error) {
	var msg LedgerSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
