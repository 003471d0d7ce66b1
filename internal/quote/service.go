package quote

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/auth"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
	"github.com/cuckooquote/quote-management/internal/core/events"
)

type Repository interface {
	NextDaySequence(ctx context.Context, day string) (int64, error)
	Create(ctx context.Context, q *quote.Quote) error
	GetByID(ctx context.Context, id int64) (*quote.Quote, error)
	Update(ctx context.Context, q *quote.Quote) error
	List(ctx context.Context, params ListParams) ([]*quote.Quote, int64, error)
	CountByStatus(ctx context.Context, salesPersonID int64) (map[string]int64, error)
	SumTotalAmount(ctx context.Context, salesPersonID int64) (int64, error)
	CreatedSince(ctx context.Context, salesPersonID int64, since time.Time) ([]CreatedRow, error)
}

// CreatedRow is the projection used for monthly statistics.
type CreatedRow struct {
	CreatedAt   time.Time
	TotalAmount int64
}

// OwnerLookup resolves quote owners for the denormalized salesPerson block
// on responses.
type OwnerLookup interface {
	CurrentUser(ctx context.Context, userID int64) (*auth.User, error)
}

type ServiceAPI interface {
	CreateQuote(ctx context.Context, actor *auth.User, dto QuoteDTO) (*View, error)
	GetQuote(ctx context.Context, actor *auth.User, id int64) (*View, error)
	ListQuotes(ctx context.Context, actor *auth.User, params ListParams) (*ListResponse, error)
	UpdateQuote(ctx context.Context, actor *auth.User, id int64, dto QuoteDTO) (*View, error)
	ChangeStatus(ctx context.Context, actor *auth.User, id int64, dto ChangeStatusDTO) (string, error)
	DeleteQuote(ctx context.Context, actor *auth.User, id int64) error
	GetStats(ctx context.Context, actor *auth.User) (*Stats, error)
}

type Service struct {
	repo         Repository
	owners       OwnerLookup
	eventBus     *events.EventBus
	logger       *slog.Logger
	validityDays int
	now          func() time.Time
}

func NewService(repo Repository, owners OwnerLookup, eventBus *events.EventBus, logger *slog.Logger, validityDays int) *Service {
	if validityDays <= 0 {
		validityDays = 30
	}
	return &Service{
		repo:         repo,
		owners:       owners,
		eventBus:     eventBus,
		logger:       logger,
		validityDays: validityDays,
		now:          time.Now,
	}
}

// CreateQuote builds a quote from the payload. The quote number and all
// money totals are assigned here, never taken from the client.
func (s *Service) CreateQuote(ctx context.Context, actor *auth.User, dto QuoteDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.repo.NextDaySequence(ctx, now.Format("20060102"))
	if err != nil {
		return nil, internal.NewInternalError("failed to assign quote number", err)
	}

	products, totalAmount := DeriveTotals(dto.ProductLines())

	quoteDate := now
	if dto.QuoteDate != nil && !dto.QuoteDate.IsZero() {
		quoteDate = *dto.QuoteDate
	}
	// Omitted validity dates fall back to the configured window.
	validUntil := quoteDate.AddDate(0, 0, s.validityDays)
	if dto.ValidUntil != nil && !dto.ValidUntil.IsZero() {
		validUntil = *dto.ValidUntil
	}
	description := dto.Description
	if description == "" {
		description = DefaultDescription
	}

	record := &quote.Quote{
		QuoteNumber:     FormatQuoteNumber(now, seq),
		CustomerName:    dto.Customer.Name,
		CustomerPhone:   dto.Customer.Phone,
		CustomerEmail:   dto.Customer.Email,
		CustomerAddress: dto.Customer.Address,
		SalesPersonID:   actor.ID,
		SalesPhone:      dto.SalesPhone,
		QuoteDate:       quoteDate,
		ValidUntil:      validUntil,
		Description:     description,
		Notes:           dto.Notes,
		Products:        products,
		TotalAmount:     totalAmount,
		Status:          StatusDraft,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to create quote", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewQuoteCreatedEvent(record.ID, record.QuoteNumber, actor.ID, totalAmount))
	}
	s.logger.Info("quote created",
		"quote_id", record.ID, "quote_number", record.QuoteNumber, "total_amount", totalAmount)

	return s.view(ctx, record), nil
}

func (s *Service) GetQuote(ctx context.Context, actor *auth.User, id int64) (*View, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(actor, record.SalesPersonID); err != nil {
		return nil, err
	}
	return s.view(ctx, record), nil
}

// ListQuotes returns the caller's quotes; admins see everyone's. Soft
// deleted quotes never appear.
func (s *Service) ListQuotes(ctx context.Context, actor *auth.User, params ListParams) (*ListResponse, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		params.SalesPersonID = actor.ID
	}

	records, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, internal.NewInternalError("failed to list quotes", err)
	}

	views := make([]*View, 0, len(records))
	for _, record := range records {
		views = append(views, s.view(ctx, record))
	}

	return &ListResponse{
		Quotes:     views,
		Pagination: NewPagination(params.Page, params.Limit, total),
	}, nil
}

// UpdateQuote replaces the editable fields wholesale and re-derives totals.
// The quote number, owner and status are immutable here.
func (s *Service) UpdateQuote(ctx context.Context, actor *auth.User, id int64, dto QuoteDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(actor, record.SalesPersonID); err != nil {
		return nil, err
	}

	products, totalAmount := DeriveTotals(dto.ProductLines())

	record.CustomerName = dto.Customer.Name
	record.CustomerPhone = dto.Customer.Phone
	record.CustomerEmail = dto.Customer.Email
	record.CustomerAddress = dto.Customer.Address
	record.SalesPhone = dto.SalesPhone
	if dto.QuoteDate != nil && !dto.QuoteDate.IsZero() {
		record.QuoteDate = *dto.QuoteDate
	}
	if dto.ValidUntil != nil && !dto.ValidUntil.IsZero() {
		record.ValidUntil = *dto.ValidUntil
	}
	if dto.Description != "" {
		record.Description = dto.Description
	}
	record.Notes = dto.Notes
	record.Products = products
	record.TotalAmount = totalAmount

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to update quote", err)
	}

	s.logger.Info("quote updated", "quote_id", record.ID, "quote_number", record.QuoteNumber)
	return s.view(ctx, record), nil
}

// ChangeStatus moves a quote through its lifecycle. Marking a quote expired
// while it is still valid downgrades the request to sent.
func (s *Service) ChangeStatus(ctx context.Context, actor *auth.User, id int64, dto ChangeStatusDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := auth.CheckOwnership(actor, record.SalesPersonID); err != nil {
		return "", err
	}

	oldStatus := record.Status
	record.Status = ResolveStatusChange(dto.Status, record.ValidUntil, s.now())
	if err := s.repo.Update(ctx, record); err != nil {
		return "", internal.NewInternalError("failed to update quote status", err)
	}

	if s.eventBus != nil && oldStatus != record.Status {
		s.eventBus.Publish(ctx, events.NewQuoteStatusChangedEvent(record.ID, record.QuoteNumber, oldStatus, record.Status))
	}
	s.logger.Info("quote status changed",
		"quote_id", record.ID, "old_status", oldStatus, "new_status", record.Status)

	return record.Status, nil
}

// DeleteQuote is a soft delete: the row stays for audit, lists and stats
// skip it.
func (s *Service) DeleteQuote(ctx context.Context, actor *auth.User, id int64) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.CheckOwnership(actor, record.SalesPersonID); err != nil {
		return err
	}

	record.IsActive = false
	if err := s.repo.Update(ctx, record); err != nil {
		return internal.NewInternalError("failed to delete quote", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewQuoteDeletedEvent(record.ID, record.QuoteNumber))
	}
	s.logger.Info("quote deleted", "quote_id", record.ID, "quote_number", record.QuoteNumber)
	return nil
}

func (s *Service) GetStats(ctx context.Context, actor *auth.User) (*Stats, error) {
	var scope int64
	if !actor.IsAdmin() {
		scope = actor.ID
	}

	statusStats, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, internal.NewInternalError("failed to count quotes", err)
	}
	var total int64
	for _, c := range statusStats {
		total += c
	}

	totalAmount, err := s.repo.SumTotalAmount(ctx, scope)
	if err != nil {
		return nil, internal.NewInternalError("failed to sum quote amounts", err)
	}

	sixMonthsAgo := s.now().AddDate(0, -6, 0)
	rows, err := s.repo.CreatedSince(ctx, scope, sixMonthsAgo)
	if err != nil {
		return nil, internal.NewInternalError("failed to load quote history", err)
	}

	return &Stats{
		TotalQuotes: total,
		StatusStats: statusStats,
		MonthlyStat: bucketByMonth(rows),
		TotalAmount: totalAmount,
	}, nil
}

func (s *Service) view(ctx context.Context, record *quote.Quote) *View {
	var owner *auth.User
	if s.owners != nil {
		if u, err := s.owners.CurrentUser(ctx, record.SalesPersonID); err == nil {
			owner = u
		}
	}
	return NewView(record, owner)
}

// bucketByMonth groups creation rows into ascending year/month buckets.
// Grouping stays in Go so the underlying query works on any driver.
func bucketByMonth(rows []CreatedRow) []MonthlyStat {
	type key struct {
		year  int
		month int
	}
	counts := make(map[key]*MonthlyStat)
	for _, row := range rows {
		k := key{row.CreatedAt.Year(), int(row.CreatedAt.Month())}
		stat, ok := counts[k]
		if !ok {
			stat = &MonthlyStat{Year: k.year, Month: k.month}
			counts[k] = stat
		}
		stat.Count++
		stat.TotalAmount += row.TotalAmount
	}

	buckets := make([]MonthlyStat, 0, len(counts))
	for _, stat := range counts {
		buckets = append(buckets, *stat)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}
