package quote

import (
	"strings"
	"time"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
)

type CustomerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type ProductLineDTO struct {
	Name           string `json:"name"`
	Model          string `json:"model"`
	RentalFee      int64  `json:"rentalFee"`
	UsagePeriod    int    `json:"usagePeriod"`
	ContractPeriod int    `json:"contractPeriod"`
	Quantity       int    `json:"quantity"`
}

// QuoteDTO is the create and full-update payload. Validation reports the
// first failing field, matching what clients already display.
type QuoteDTO struct {
	Customer    CustomerDTO      `json:"customer"`
	SalesPhone  string           `json:"salesPhone"`
	QuoteDate   *time.Time       `json:"quoteDate"`
	ValidUntil  *time.Time       `json:"validUntil"`
	Description string           `json:"description"`
	Products    []ProductLineDTO `json:"products"`
	Notes       string           `json:"notes"`
}

func (d *QuoteDTO) Validate() error {
	d.Customer.Name = strings.TrimSpace(d.Customer.Name)
	d.Customer.Email = strings.TrimSpace(strings.ToLower(d.Customer.Email))
	d.SalesPhone = strings.TrimSpace(d.SalesPhone)

	if d.Customer.Name == "" {
		return internal.NewValidationError("customer name is required")
	}
	if d.Customer.Email != "" && !strings.Contains(d.Customer.Email, "@") {
		return internal.NewValidationError("customer email is invalid")
	}
	if d.SalesPhone == "" {
		return internal.NewValidationError("sales contact phone is required")
	}
	if len(d.Products) == 0 {
		return internal.NewValidationError("at least one product is required")
	}
	for _, p := range d.Products {
		if strings.TrimSpace(p.Name) == "" {
			return internal.NewValidationError("product name is required")
		}
		if strings.TrimSpace(p.Model) == "" {
			return internal.NewValidationError("product model is required")
		}
		if p.RentalFee < 0 {
			return internal.NewValidationError("rental fee must be zero or greater")
		}
		if p.UsagePeriod < 1 {
			return internal.NewValidationError("usage period must be at least 1 month")
		}
		if p.ContractPeriod < 1 {
			return internal.NewValidationError("contract period must be at least 1 month")
		}
		if p.Quantity < 1 {
			return internal.NewValidationError("quantity must be at least 1")
		}
	}
	return nil
}

// ProductLines converts the payload lines to the persistence shape. Totals
// are left zero; DeriveTotals fills them.
func (d *QuoteDTO) ProductLines() quote.ProductLines {
	lines := make(quote.ProductLines, len(d.Products))
	for i, p := range d.Products {
		lines[i] = quote.ProductLine{
			Name:           strings.TrimSpace(p.Name),
			Model:          strings.TrimSpace(p.Model),
			RentalFee:      p.RentalFee,
			UsagePeriod:    p.UsagePeriod,
			ContractPeriod: p.ContractPeriod,
			Quantity:       p.Quantity,
		}
	}
	return lines
}

type ChangeStatusDTO struct {
	Status string `json:"status"`
}

func (d *ChangeStatusDTO) Validate() error {
	if !IsValidStatus(d.Status) {
		return internal.NewInvalidStatusError("status must be one of draft, sent, accepted, rejected, expired")
	}
	return nil
}

// ListParams are the quote listing query parameters. SalesPersonID is set
// by the service for non-admin callers.
type ListParams struct {
	Page          int
	Limit         int
	Status        string
	Search        string
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
	SalesPersonID int64
}

var quoteSortColumns = map[string]string{
	"createdAt":   "created_at",
	"quoteDate":   "quote_date",
	"quoteNumber": "quote_number",
	"validUntil":  "valid_until",
	"totalAmount": "total_amount",
	"status":      "status",
}

func (p *ListParams) Normalize() error {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Status != "" && !IsValidStatus(p.Status) {
		return internal.NewValidationError("unknown status filter")
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if _, ok := quoteSortColumns[p.SortBy]; !ok {
		return internal.NewValidationError("unsupported sort field")
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		return internal.NewValidationError("sortOrder must be asc or desc")
	}
	return nil
}

func (p *ListParams) SortColumn() string {
	return quoteSortColumns[p.SortBy]
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the page envelope on list responses.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

type ListResponse struct {
	Quotes     []*View    `json:"quotes"`
	Pagination Pagination `json:"pagination"`
}

// Stats is the quote statistics overview, scoped to the caller unless the
// caller is an admin.
type Stats struct {
	TotalQuotes int64            `json:"totalQuotes"`
	StatusStats map[string]int64 `json:"statusStats"`
	MonthlyStat []MonthlyStat    `json:"monthlyStats"`
	TotalAmount int64            `json:"totalAmount"`
}

type MonthlyStat struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	Count       int64 `json:"count"`
	TotalAmount int64 `json:"totalAmount"`
}
