package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestBookingEvent_JSONShape(t *testing.T) {
	t.Parallel()

	event := BookingEvent{
		Type:       TypeOfferAccepted,
		BookingID:  "b-1",
		CustomerID: "c-1",
		DriverID:   "d-1",
		Fare:       250,
		Status:     "ASSIGNED",
		At:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded BookingEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != event {
		t.Errorf("expected %+v, got %+v", event, decoded)
	}
}

func TestNilProducer_PublishIsNoop(t *testing.T) {
	t.Parallel()

	var p *Producer

	// Must not panic.
	p.Publish(context.Background(), BookingEvent{Type: TypeBookingCreated, BookingID: "b-1"})
	if err := p.Close(); err != nil {
		t.Errorf("close nil producer: %v", err)
	}
}
