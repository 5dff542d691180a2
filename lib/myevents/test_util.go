package myevents

import (
	"encoding/json"
	"time"
)

// CreatePushRequestBody is used by tests that simulate a pubsub delivery.
func CreatePushRequestBody(topic string, event Event, createdAt time.Time) string {
	eventBytes, _ := json.Marshal(event)
	reqBytes, _ := NewPushRequest(topic, EventEnvelope{
		UID:           "123",
		CreatedAt:     createdAt,
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	})
	return string(reqBytes)
}
