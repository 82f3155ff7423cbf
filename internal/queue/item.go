package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item is one pending charge: a reference to a customer and one of its
// debts. The full records are fetched from the repository at delivery time,
// keeping the queue payload small and the database authoritative.
type Item struct {
	CustomerID string
	DebtID     string
	EnqueuedAt time.Time
	Attempts   int
}

// envelope is the versioned wire format stored on the Redis list.
// Unknown fields are ignored on decode so fields can be added without
// breaking items already sitting in the queue.
type envelope struct {
	Version    int    `json:"v"`
	CustomerID string `json:"customerId"`
	DebtID     string `json:"debtId"`
	EnqueuedAt int64  `json:"enqueuedAt"` // epoch milliseconds
	Attempts   int    `json:"attempts,omitempty"`
}

const envelopeVersion = 1

// Encode serialises the item into its wire form.
func (it Item) Encode() ([]byte, error) {
	return json.Marshal(envelope{
		Version:    envelopeVersion,
		CustomerID: it.CustomerID,
		DebtID:     it.DebtID,
		EnqueuedAt: it.EnqueuedAt.UnixMilli(),
		Attempts:   it.Attempts,
	})
}

// Decode parses a wire-form payload. A missing attempts field defaults to 0.
func Decode(data []byte) (Item, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Item{}, fmt.Errorf("decode queue item: %w", err)
	}
	if e.CustomerID == "" || e.DebtID == "" {
		return Item{}, fmt.Errorf("decode queue item: missing customerId or debtId")
	}
	return Item{
		CustomerID: e.CustomerID,
		DebtID:     e.DebtID,
		EnqueuedAt: time.UnixMilli(e.EnqueuedAt),
		Attempts:   e.Attempts,
	}, nil
}
