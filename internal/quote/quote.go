package quote

import (
	"fmt"
	"time"

	"github.com/cuckooquote/quote-management/internal/auth"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
)

const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// DefaultDescription fills the description when a quote is created without
// one.
const DefaultDescription = "제품 설명 및 혜택이 입력되지 않았습니다."

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// DeriveTotals recomputes every line total and the quote total from rental
// fee and quantity. Client-supplied totals are always discarded.
func DeriveTotals(products []quote.ProductLine) ([]quote.ProductLine, int64) {
	derived := make([]quote.ProductLine, len(products))
	var total int64
	for i, p := range products {
		p.Total = p.RentalFee * int64(p.Quantity)
		derived[i] = p
		total += p.Total
	}
	return derived, total
}

// ResolveStatusChange applies the expiry guard: a quote cannot be marked
// expired while its validity window is still open, it falls back to sent.
func ResolveStatusChange(requested string, validUntil, now time.Time) string {
	if requested == StatusExpired && now.Before(validUntil) {
		return StatusSent
	}
	return requested
}

// FormatQuoteNumber renders the printable quote number for a creation day
// and its daily sequence.
func FormatQuoteNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("CQ-%s-%03d", day.Format("20060102"), seq)
}

// Customer is the embedded customer block on a quote.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// SalesPersonSummary is the denormalized owner block returned with quotes.
type SalesPersonSummary struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// View is the API representation of a quote.
type View struct {
	ID          int64               `json:"id"`
	QuoteNumber string              `json:"quoteNumber"`
	Customer    Customer            `json:"customer"`
	SalesPerson *SalesPersonSummary `json:"salesPerson,omitempty"`
	SalesPhone  string              `json:"salesPhone"`
	QuoteDate   time.Time           `json:"quoteDate"`
	ValidUntil  time.Time           `json:"validUntil"`
	Description string              `json:"description"`
	Products    []quote.ProductLine `json:"products"`
	TotalAmount int64               `json:"totalAmount"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	PDFURL      string              `json:"pdfUrl,omitempty"`
	IsActive    bool                `json:"isActive"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func NewView(record *quote.Quote, owner *auth.User) *View {
	v := &View{
		ID:          record.ID,
		QuoteNumber: record.QuoteNumber,
		Customer: Customer{
			Name:    record.CustomerName,
			Phone:   record.CustomerPhone,
			Email:   record.CustomerEmail,
			Address: record.CustomerAddress,
		},
		SalesPhone:  record.SalesPhone,
		QuoteDate:   record.QuoteDate,
		ValidUntil:  record.ValidUntil,
		Description: record.Description,
		Products:    record.Products,
		TotalAmount: record.TotalAmount,
		Status:      record.Status,
		Notes:       record.Notes,
		PDFURL:      record.PDFURL,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if owner != nil {
		v.SalesPerson = &SalesPersonSummary{
			ID:         owner.ID,
			Username:   owner.Username,
			Name:       owner.Profile.Name,
			Phone:      owner.Profile.Phone,
			Department: owner.Profile.Department,
			Position:   owner.Profile.Position,
		}
	}
	return v
}
