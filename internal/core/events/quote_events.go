package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeQuoteCreated       = "quote.created"
	EventTypeQuoteStatusChanged = "quote.status_changed"
	EventTypeQuoteDeleted       = "quote.deleted"
	EventTypeUserRegistered     = "user.registered"
	EventTypeUserRoleChanged    = "user.role_changed"
)

type QuoteCreatedEvent struct {
	BaseEvent
	QuoteID     int64  `json:"quote_id"`
	QuoteNumber string `json:"quote_number"`
	SalesPerson int64  `json:"sales_person"`
	TotalAmount int64  `json:"total_amount"`
}

func NewQuoteCreatedEvent(quoteID int64, quoteNumber string, salesPerson, totalAmount int64) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeQuoteCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"quote_id":     quoteID,
				"quote_number": quoteNumber,
				"sales_person": salesPerson,
				"total_amount": totalAmount,
			},
		},
		QuoteID:     quoteID,
		QuoteNumber: quoteNumber,
		SalesPerson: salesPerson,
		TotalAmount: totalAmount,
	}
}

type QuoteStatusChangedEvent struct {
	BaseEvent
	QuoteID     int64  `json:"quote_id"`
	QuoteNumber string `json:"quote_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
}

func NewQuoteStatusChangedEvent(quoteID int64, quoteNumber, oldStatus, newStatus string) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeQuoteStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"quote_id":     quoteID,
				"quote_number": quoteNumber,
				"old_status":   oldStatus,
				"new_status":   newStatus,
			},
		},
		QuoteID:     quoteID,
		QuoteNumber: quoteNumber,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
	}
}

type QuoteDeletedEvent struct {
	BaseEvent
	QuoteID     int64  `json:"quote_id"`
	QuoteNumber string `json:"quote_number"`
}

func NewQuoteDeletedEvent(quoteID int64, quoteNumber string) *QuoteDeletedEvent {
	return &QuoteDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeQuoteDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"quote_id":     quoteID,
				"quote_number": quoteNumber,
			},
		},
		QuoteID:     quoteID,
		QuoteNumber: quoteNumber,
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func NewUserRegisteredEvent(userID int64, username string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"username": username,
			},
		},
		UserID:   userID,
		Username: username,
	}
}

type UserRoleChangedEvent struct {
	BaseEvent
	UserID  int64  `json:"user_id"`
	OldRole string `json:"old_role"`
	NewRole string `json:"new_role"`
}

func NewUserRoleChangedEvent(userID int64, oldRole, newRole string) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserRoleChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"old_role": oldRole,
				"new_role": newRole,
			},
		},
		UserID:  userID,
		OldRole: oldRole,
		NewRole: newRole,
	}
}
