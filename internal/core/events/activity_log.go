package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ActivityEntry is the log row exposed through the admin API.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
}

// ActivityLog keeps the most recent domain events in a fixed-size ring so the
// admin log endpoint has real content without a log store.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []ActivityEntry
	next    int
	full    bool
}

const defaultActivityCapacity = 256

func NewActivityLog(capacity int) *ActivityLog {
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityLog{
		entries: make([]ActivityEntry, capacity),
	}
}

// SubscribeAll registers the log as a handler for every known event type.
func (al *ActivityLog) SubscribeAll(bus *EventBus) {
	for _, eventType := range []string{
		EventTypeQuoteCreated,
		EventTypeQuoteStatusChanged,
		EventTypeQuoteDeleted,
		EventTypeUserRegistered,
		EventTypeUserRoleChanged,
	} {
		bus.Subscribe(eventType, al.Record)
	}
}

func (al *ActivityLog) Record(_ context.Context, event Event) error {
	entry := ActivityEntry{
		Timestamp: event.OccurredAt(),
		Level:     "info",
		Message:   describe(event),
		Source:    sourceOf(event.EventType()),
	}

	al.mu.Lock()
	al.entries[al.next] = entry
	al.next = (al.next + 1) % len(al.entries)
	if al.next == 0 {
		al.full = true
	}
	al.mu.Unlock()
	return nil
}

// Recent returns up to limit entries, newest first.
func (al *ActivityLog) Recent(limit int) []ActivityEntry {
	al.mu.RLock()
	defer al.mu.RUnlock()

	size := al.next
	if al.full {
		size = len(al.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]ActivityEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (al.next - 1 - i + len(al.entries)) % len(al.entries)
		out = append(out, al.entries[idx])
	}
	return out
}

func describe(event Event) string {
	switch e := event.(type) {
	case *QuoteCreatedEvent:
		return fmt.Sprintf("quote %s created", e.QuoteNumber)
	case *QuoteStatusChangedEvent:
		return fmt.Sprintf("quote %s status changed from %s to %s", e.QuoteNumber, e.OldStatus, e.NewStatus)
	case *QuoteDeletedEvent:
		return fmt.Sprintf("quote %s deleted", e.QuoteNumber)
	case *UserRegisteredEvent:
		return fmt.Sprintf("user %s registered", e.Username)
	case *UserRoleChangedEvent:
		return fmt.Sprintf("user %d role changed from %s to %s", e.UserID, e.OldRole, e.NewRole)
	default:
		return event.EventType()
	}
}

func sourceOf(eventType string) string {
	switch eventType {
	case EventTypeQuoteCreated, EventTypeQuoteStatusChanged, EventTypeQuoteDeleted:
		return "quotes"
	case EventTypeUserRegistered, EventTypeUserRoleChanged:
		return "users"
	default:
		return "server"
	}
}
