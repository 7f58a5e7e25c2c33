package amqp

import (
	"errors"
	"testing"
	"time"
)

func TestInvoiceEventJSONRoundTrip(t *testing.T) {
	event := NewInvoiceEvent("3958dc9e-712f-4377-85e9-fec4b6a6442a", ActionDeleted, "delete confirmed")

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := InvoiceEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.InvoiceID != event.InvoiceID || decoded.Action != event.Action || decoded.Detail != event.Detail {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, event)
	}
	if decoded.Timestamp.IsZero() || time.Since(decoded.Timestamp) > time.Minute {
		t.Fatalf("timestamp not preserved: %v", decoded.Timestamp)
	}
}

func TestInvoiceEventValidate(t *testing.T) {
	for _, action := range []string{ActionUpdated, ActionDeleted} {
		e := NewInvoiceEvent("id", action, "")
		if err := e.Validate(); err != nil {
			t.Fatalf("%q should be valid: %v", action, err)
		}
	}
	for _, action := range []string{"", "created", "DELETED"} {
		e := NewInvoiceEvent("id", action, "")
		if err := e.Validate(); !errors.Is(err, ErrUnknownAction) {
			t.Fatalf("%q should be rejected, got %v", action, err)
		}
	}
}

func TestInvoiceEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := InvoiceEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
