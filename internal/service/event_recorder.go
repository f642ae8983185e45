package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"outreach/internal/models"
	"outreach/internal/repository"
)

// EventPublisher fans a recorded event out to the delivery-event stream.
// Publishing is best-effort; the audit row in the store is authoritative.
type EventPublisher interface {
	PublishEvent(event *models.Event) error
}

// EventRecorder appends exactly one immutable event per processing
// attempt. An append failure fails the enrollment's run for this pass.
type EventRecorder struct {
	events    repository.EventRepository
	publisher EventPublisher // optional
}

// NewEventRecorder creates an event recorder. publisher may be nil.
func NewEventRecorder(events repository.EventRepository, publisher EventPublisher) *EventRecorder {
	return &EventRecorder{
		events:    events,
		publisher: publisher,
	}
}

// Record appends one event row and, on success, publishes it to the
// event stream. deliveryID and errMsg may be nil depending on outcome.
func (r *EventRecorder) Record(ctx context.Context, enrollmentID, stepIndex int, channel models.Channel, outcome models.EventOutcome, deliveryID, errMsg *string) (*models.Event, error) {
	event := &models.Event{
		ID:           uuid.NewString(),
		EnrollmentID: enrollmentID,
		StepIndex:    stepIndex,
		Channel:      channel,
		Outcome:      outcome,
		DeliveryID:   deliveryID,
		Error:        errMsg,
	}

	if err := r.events.Append(ctx, event); err != nil {
		return nil, &PersistenceError{Op: "append event", Err: err}
	}

	if r.publisher != nil {
		if err := r.publisher.PublishEvent(event); err != nil {
			log.Printf("Warning: failed to publish event %s to stream: %v", event.ID, err)
		}
	}

	return event, nil
}
