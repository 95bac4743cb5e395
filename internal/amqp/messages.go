package amqp

import (
	"encoding/json"
	"time"
)

// Expense event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEventMessage notifies listeners that an expense mutation happened.
// It carries only identifiers; consumers fetch current state themselves.
type ExpenseEventMessage struct {
	Action    string    `json:"action"`
	IDs       []string  `json:"ids"`
	GroupID   string    `json:"groupId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(action string, ids []string, groupID string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Action:    action,
		IDs:       ids,
		GroupID:   groupID,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
