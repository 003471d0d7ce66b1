package quote_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/auth"
	datamodel "github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
	"github.com/cuckooquote/quote-management/internal/quote"
)

func TestQuoteService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quote Service Suite")
}

type mockQuoteRepository struct {
	quotes    map[int64]*datamodel.Quote
	sequences map[string]int64
	nextID    int64
}

func newMockQuoteRepository() *mockQuoteRepository {
	return &mockQuoteRepository{
		quotes:    make(map[int64]*datamodel.Quote),
		sequences: make(map[string]int64),
		nextID:    1,
	}
}

func (m *mockQuoteRepository) NextDaySequence(ctx context.Context, day string) (int64, error) {
	m.sequences[day]++
	return m.sequences[day], nil
}

func (m *mockQuoteRepository) Create(ctx context.Context, q *datamodel.Quote) error {
	q.ID = m.nextID
	m.nextID++
	q.CreatedAt = time.Now()
	q.UpdatedAt = time.Now()
	m.quotes[q.ID] = q
	return nil
}

func (m *mockQuoteRepository) GetByID(ctx context.Context, id int64) (*datamodel.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, internal.ErrQuoteNotFound
	}
	return q, nil
}

func (m *mockQuoteRepository) Update(ctx context.Context, q *datamodel.Quote) error {
	if _, ok := m.quotes[q.ID]; !ok {
		return internal.ErrQuoteNotFound
	}
	q.UpdatedAt = time.Now()
	m.quotes[q.ID] = q
	return nil
}

func (m *mockQuoteRepository) live(salesPersonID int64) []*datamodel.Quote {
	var out []*datamodel.Quote
	for _, q := range m.quotes {
		if !q.IsActive {
			continue
		}
		if salesPersonID != 0 && q.SalesPersonID != salesPersonID {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockQuoteRepository) List(ctx context.Context, params quote.ListParams) ([]*datamodel.Quote, int64, error) {
	var filtered []*datamodel.Quote
	for _, q := range m.live(params.SalesPersonID) {
		if params.Status != "" && q.Status != params.Status {
			continue
		}
		if params.StartDate != nil && q.QuoteDate.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && q.QuoteDate.After(*params.EndDate) {
			continue
		}
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(q.CustomerName), needle) &&
				!strings.Contains(strings.ToLower(q.CustomerEmail), needle) &&
				!strings.Contains(strings.ToLower(q.QuoteNumber), needle) &&
				!strings.Contains(strings.ToLower(q.Description), needle) {
				continue
			}
		}
		filtered = append(filtered, q)
	}

	total := int64(len(filtered))
	start := params.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (m *mockQuoteRepository) CountByStatus(ctx context.Context, salesPersonID int64) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, q := range m.live(salesPersonID) {
		stats[q.Status]++
	}
	return stats, nil
}

func (m *mockQuoteRepository) SumTotalAmount(ctx context.Context, salesPersonID int64) (int64, error) {
	var total int64
	for _, q := range m.live(salesPersonID) {
		total += q.TotalAmount
	}
	return total, nil
}

func (m *mockQuoteRepository) CreatedSince(ctx context.Context, salesPersonID int64, since time.Time) ([]quote.CreatedRow, error) {
	var rows []quote.CreatedRow
	for _, q := range m.live(salesPersonID) {
		if !q.CreatedAt.Before(since) {
			rows = append(rows, quote.CreatedRow{CreatedAt: q.CreatedAt, TotalAmount: q.TotalAmount})
		}
	}
	return rows, nil
}

type mockOwnerLookup struct{}

func (mockOwnerLookup) CurrentUser(ctx context.Context, userID int64) (*auth.User, error) {
	return &auth.User{
		ID:       userID,
		Username: fmt.Sprintf("user%d", userID),
		Role:     auth.RoleSales,
		Profile:  auth.Profile{Name: "Owner"},
	}, nil
}

var _ = Describe("QuoteService", func() {
	var (
		repo    *mockQuoteRepository
		service *quote.Service
		ctx     context.Context
		sales   *auth.User
		admin   *auth.User
	)

	validDTO := func() quote.QuoteDTO {
		validUntil := time.Now().AddDate(0, 1, 0)
		return quote.QuoteDTO{
			Customer:   quote.CustomerDTO{Name: "Acme Corp", Email: "buyer@acme.example"},
			SalesPhone: "010-1234-5678",
			ValidUntil: &validUntil,
			Products: []quote.ProductLineDTO{
				{Name: "정수기", Model: "CP-7310", RentalFee: 45000, UsagePeriod: 36, ContractPeriod: 36, Quantity: 2},
				{Name: "공기청정기", Model: "AP-1019C", RentalFee: 30000, UsagePeriod: 24, ContractPeriod: 24, Quantity: 1},
			},
		}
	}

	BeforeEach(func() {
		repo = newMockQuoteRepository()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		service = quote.NewService(repo, mockOwnerLookup{}, nil, logger, 30)
		ctx = context.Background()
		sales = &auth.User{ID: 2, Username: "sales1", Role: auth.RoleSales}
		admin = &auth.User{ID: 1, Username: "admin", Role: auth.RoleAdmin}
	})

	Describe("CreateQuote", func() {
		It("assigns a dated quote number with a daily sequence", func() {
			first, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			second, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			today := time.Now().Format("20060102")
			Expect(first.QuoteNumber).To(Equal("CQ-" + today + "-001"))
			Expect(second.QuoteNumber).To(Equal("CQ-" + today + "-002"))
		})

		It("derives line totals and the quote total server side", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(view.Products[0].Total).To(Equal(int64(90000)))
			Expect(view.Products[1].Total).To(Equal(int64(30000)))
			Expect(view.TotalAmount).To(Equal(int64(120000)))
		})

		It("starts quotes as drafts owned by the caller", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Status).To(Equal(quote.StatusDraft))
			Expect(repo.quotes[view.ID].SalesPersonID).To(Equal(sales.ID))
		})

		It("fills a default description when none is given", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Description).To(Equal(quote.DefaultDescription))
		})

		It("defaults the validity date to the configured window", func() {
			dto := validDTO()
			dto.ValidUntil = nil
			view, err := service.CreateQuote(ctx, sales, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.ValidUntil).To(BeTemporally("~", time.Now().AddDate(0, 0, 30), time.Minute))
		})

		It("keeps an explicit validity date as given", func() {
			dto := validDTO()
			view, err := service.CreateQuote(ctx, sales, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.ValidUntil).To(BeTemporally("~", *dto.ValidUntil, time.Second))
		})

		It("rejects a payload without products", func() {
			dto := validDTO()
			dto.Products = nil
			_, err := service.CreateQuote(ctx, sales, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindValidation))
		})

		It("rejects a missing customer name first", func() {
			dto := validDTO()
			dto.Customer.Name = "  "
			_, err := service.CreateQuote(ctx, sales, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(ContainSubstring("customer name"))
		})
	})

	Describe("GetQuote", func() {
		It("denies access to another salesperson's quote", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			other := &auth.User{ID: 99, Role: auth.RoleSales}
			_, err = service.GetQuote(ctx, other, view.ID)
			Expect(err).To(Equal(internal.ErrNotOwner))
		})

		It("lets admins read any quote", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			got, err := service.GetQuote(ctx, admin, view.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.QuoteNumber).To(Equal(view.QuoteNumber))
			Expect(got.SalesPerson).NotTo(BeNil())
			Expect(got.SalesPerson.ID).To(Equal(sales.ID))
		})
	})

	Describe("ListQuotes", func() {
		BeforeEach(func() {
			_, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			other := &auth.User{ID: 3, Role: auth.RoleSales}
			_, err = service.CreateQuote(ctx, other, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("scopes non-admins to their own quotes", func() {
			resp, err := service.ListQuotes(ctx, sales, quote.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Quotes).To(HaveLen(1))
			Expect(resp.Pagination.TotalItems).To(Equal(int64(1)))
		})

		It("shows admins everything", func() {
			resp, err := service.ListQuotes(ctx, admin, quote.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Quotes).To(HaveLen(2))
		})

		It("filters by status", func() {
			resp, err := service.ListQuotes(ctx, admin, quote.ListParams{Status: quote.StatusSent})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Quotes).To(BeEmpty())
		})

		It("searches by quote number", func() {
			today := time.Now().Format("20060102")
			resp, err := service.ListQuotes(ctx, admin, quote.ListParams{Search: "CQ-" + today + "-001"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Quotes).To(HaveLen(1))
		})

		It("excludes soft-deleted quotes", func() {
			resp, err := service.ListQuotes(ctx, sales, quote.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteQuote(ctx, sales, resp.Quotes[0].ID)).To(Succeed())

			resp, err = service.ListQuotes(ctx, sales, quote.ListParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Quotes).To(BeEmpty())
		})
	})

	Describe("UpdateQuote", func() {
		It("re-derives totals from the new lines", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.Products = []quote.ProductLineDTO{
				{Name: "비데", Model: "BA-13", RentalFee: 20000, UsagePeriod: 12, ContractPeriod: 12, Quantity: 3},
			}
			updated, err := service.UpdateQuote(ctx, sales, view.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.TotalAmount).To(Equal(int64(60000)))
			Expect(updated.Products).To(HaveLen(1))
		})

		It("keeps the original quote number", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateQuote(ctx, sales, view.ID, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.QuoteNumber).To(Equal(view.QuoteNumber))
		})

		It("denies updates by non-owners", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			other := &auth.User{ID: 99, Role: auth.RoleSales}
			_, err = service.UpdateQuote(ctx, other, view.ID, validDTO())
			Expect(err).To(Equal(internal.ErrNotOwner))
		})
	})

	Describe("ChangeStatus", func() {
		It("moves a quote through its lifecycle", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			status, err := service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: quote.StatusSent})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(quote.StatusSent))

			status, err = service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: quote.StatusAccepted})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(quote.StatusAccepted))
		})

		It("downgrades expired to sent while the quote is still valid", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			status, err := service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: quote.StatusExpired})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(quote.StatusSent))
		})

		It("accepts expired once the validity window has passed", func() {
			dto := validDTO()
			past := time.Now().AddDate(0, 0, -1)
			dto.ValidUntil = &past
			view, err := service.CreateQuote(ctx, sales, dto)
			Expect(err).NotTo(HaveOccurred())

			status, err := service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: quote.StatusExpired})
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(quote.StatusExpired))
		})

		It("rejects an unknown status", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: "archived"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Kind).To(Equal(internal.KindInvalidStatus))
		})
	})

	Describe("DeleteQuote", func() {
		It("soft deletes but keeps the quote fetchable by id", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteQuote(ctx, sales, view.ID)).To(Succeed())
			Expect(repo.quotes[view.ID].IsActive).To(BeFalse())

			// the detail endpoint still serves the record for auditing
			got, err := service.GetQuote(ctx, sales, view.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.IsActive).To(BeFalse())
		})

		It("denies deletion by non-owners", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())

			other := &auth.User{ID: 99, Role: auth.RoleSales}
			Expect(service.DeleteQuote(ctx, other, view.ID)).To(Equal(internal.ErrNotOwner))
		})
	})

	Describe("GetStats", func() {
		It("aggregates counts, amounts and monthly buckets per caller", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ChangeStatus(ctx, sales, view.ID, quote.ChangeStatusDTO{Status: quote.StatusSent})
			Expect(err).NotTo(HaveOccurred())

			other := &auth.User{ID: 3, Role: auth.RoleSales}
			_, err = service.CreateQuote(ctx, other, validDTO())
			Expect(err).NotTo(HaveOccurred())

			stats, err := service.GetStats(ctx, sales)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalQuotes).To(Equal(int64(2)))
			Expect(stats.StatusStats[quote.StatusDraft]).To(Equal(int64(1)))
			Expect(stats.StatusStats[quote.StatusSent]).To(Equal(int64(1)))
			Expect(stats.TotalAmount).To(Equal(int64(240000)))
			Expect(stats.MonthlyStat).To(HaveLen(1))
			Expect(stats.MonthlyStat[0].Count).To(Equal(int64(2)))
			Expect(stats.MonthlyStat[0].TotalAmount).To(Equal(int64(240000)))

			adminStats, err := service.GetStats(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(adminStats.TotalQuotes).To(Equal(int64(3)))
		})

		It("excludes soft-deleted quotes from every aggregate", func() {
			view, err := service.CreateQuote(ctx, sales, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(service.DeleteQuote(ctx, sales, view.ID)).To(Succeed())

			stats, err := service.GetStats(ctx, sales)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalQuotes).To(BeZero())
			Expect(stats.TotalAmount).To(BeZero())
		})
	})
})
