package amqp

import (
	"encoding/json"
	"time"

	"banco/internal/core"
)

// MovementMessage is the event published after every successful deposit or
// withdrawal. It carries everything the archive worker needs so the worker
// never has to call back into the ledger.
type MovementMessage struct {
	Branch        string    `json:"branch"`
	AccountNumber int64     `json:"account_number"`
	OwnerTaxID    string    `json:"owner_tax_id"`
	Kind          string    `json:"kind"`
	AmountCents   int64     `json:"amount_cents"`
	BalanceCents  int64     `json:"balance_cents"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// NewMovementMessage builds the event for one completed movement, with the
// balance as observed right after it was applied.
func NewMovementMessage(a *core.Account, r core.TransactionRecord, balance core.Money) *MovementMessage {
	return &MovementMessage{
		Branch:        a.Branch,
		AccountNumber: a.Number,
		OwnerTaxID:    a.Owner.TaxID,
		Kind:          string(r.Kind),
		AmountCents:   r.Amount.Cents,
		BalanceCents:  balance.Cents,
		RecordedAt:    r.At,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *MovementMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MovementMessageFromJSON creates a message from JSON bytes.
func MovementMessageFromJSON(data []byte) (*MovementMessage, error) {
	var msg MovementMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
