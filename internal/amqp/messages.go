package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/core"
)

// TransactionRecordedMessage announces a transaction that has been applied
// and persisted. It carries the full entry so consumers need no access to
// the snapshot store.
type TransactionRecordedMessage struct {
	Transaction      core.Transaction `json:"transaction"`
	MilestoneCrossed bool             `json:"milestoneCrossed"`
	Timestamp        time.Time        `json:"timestamp"`
}

func NewTransactionRecordedMessage(tx core.Transaction, milestone bool) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		Transaction:      tx,
		MilestoneCrossed: milestone,
		Timestamp:        time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
