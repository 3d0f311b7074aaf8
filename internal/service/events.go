package service

import (
	"sync"

	"translatedtext/internal/domain"
)

// EventType defines the type of event
type EventType string

const (
	EventValuesSet   EventType = "values_set"
	EventValuesUnset EventType = "values_unset"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ValuesChanged describes the rows touched in one language
type ValuesChanged struct {
	Attribute domain.AttributeID  `json:"attribute"`
	Language  domain.LanguageCode `json:"language"`
	Inserted  []domain.EntityID   `json:"inserted,omitempty"`
	Updated   []domain.EntityID   `json:"updated,omitempty"`
	Deleted   []domain.EntityID   `json:"deleted,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers. A nil bus drops the event.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
