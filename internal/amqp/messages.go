package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

var ErrUnknownAction = errors.New("unknown invoice event action")

// InvoiceEvent is the message published for every invoice mutation.
// The audit worker consumes these and persists the trail; consumers
// needing more than the id re-read the store.
type InvoiceEvent struct {
	InvoiceID string    `json:"invoice_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvoiceEvent creates a mutation event stamped with the current time.
func NewInvoiceEvent(invoiceID, action, detail string) *InvoiceEvent {
	return &InvoiceEvent{
		InvoiceID: invoiceID,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now(),
	}
}

// Validate checks the action against the known mutation set.
func (e *InvoiceEvent) Validate() error {
	switch e.Action {
	case ActionUpdated, ActionDeleted:
		return nil
	default:
		return ErrUnknownAction
	}
}

// ToJSON converts the event to JSON bytes.
func (e *InvoiceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InvoiceEventFromJSON parses an event from JSON bytes.
func InvoiceEventFromJSON(data []byte) (*InvoiceEvent, error) {
	var e InvoiceEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
