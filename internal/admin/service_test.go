package admin_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/admin"
	"github.com/cuckooquote/quote-management/internal/core/events"
)

func TestAdminService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Admin Service Suite")
}

type mockAdminRepository struct {
	pingError   error
	users       int64
	quotes      int64
	totalAmount int64
	recentUsers []admin.RecentUser
	creations   []admin.CreationRow
	exports     []admin.ExportRow
}

func (m *mockAdminRepository) Ping(ctx context.Context) error { return m.pingError }
func (m *mockAdminRepository) CountUsers(ctx context.Context) (int64, error) {
	return m.users, nil
}
func (m *mockAdminRepository) CountQuotes(ctx context.Context) (int64, error) {
	return m.quotes, nil
}
func (m *mockAdminRepository) SumQuoteAmount(ctx context.Context) (int64, error) {
	return m.totalAmount, nil
}
func (m *mockAdminRepository) RecentUsers(ctx context.Context, limit int) ([]admin.RecentUser, error) {
	return m.recentUsers, nil
}
func (m *mockAdminRepository) RecentQuotes(ctx context.Context, limit int) ([]admin.RecentQuote, error) {
	return []admin.RecentQuote{}, nil
}
func (m *mockAdminRepository) QuoteStatusCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"draft": m.quotes}, nil
}
func (m *mockAdminRepository) UserRoleCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{"admin": 1}, nil
}
func (m *mockAdminRepository) TopSalespeople(ctx context.Context, limit int) ([]admin.SalesPerformance, error) {
	return []admin.SalesPerformance{}, nil
}
func (m *mockAdminRepository) QuotesCreatedSince(ctx context.Context, since time.Time) ([]admin.CreationRow, error) {
	return m.creations, nil
}
func (m *mockAdminRepository) ExportQuotes(ctx context.Context, startDate, endDate *time.Time) ([]admin.ExportRow, error) {
	return m.exports, nil
}

var _ = Describe("AdminService", func() {
	var (
		repo     *mockAdminRepository
		activity *events.ActivityLog
		service  *admin.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = &mockAdminRepository{users: 3, quotes: 5, totalAmount: 500000}
		activity = events.NewActivityLog(16)
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		cfg := &internal.Config{}
		cfg.Security.PasswordMinLen = 6
		cfg.Security.MaxLoginAttempts = 5
		cfg.Security.LockoutDuration = 2 * time.Hour
		cfg.Security.TokenDuration = 24 * time.Hour
		cfg.Quotes.DefaultValidityDays = 30
		cfg.Quotes.AutoExpire = true
		service = admin.NewService(repo, activity, logger, cfg)
		ctx = context.Background()
	})

	Describe("GetDashboard", func() {
		It("assembles overview totals and monthly buckets", func() {
			now := time.Now()
			repo.creations = []admin.CreationRow{
				{CreatedAt: now, TotalAmount: 100000},
				{CreatedAt: now, TotalAmount: 200000},
				{CreatedAt: now.AddDate(0, -1, 0), TotalAmount: 50000},
			}

			dashboard, err := service.GetDashboard(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dashboard.Overview.TotalUsers).To(Equal(int64(3)))
			Expect(dashboard.Overview.TotalQuotes).To(Equal(int64(5)))
			Expect(dashboard.Overview.TotalAmount).To(Equal(int64(500000)))
			Expect(dashboard.MonthlyStats).To(HaveLen(2))
			// ascending months, current month last
			Expect(dashboard.MonthlyStats[1].Count).To(Equal(int64(2)))
			Expect(dashboard.MonthlyStats[1].TotalAmount).To(Equal(int64(300000)))
		})
	})

	Describe("GetSystemStatus", func() {
		It("reports a healthy database", func() {
			status := service.GetSystemStatus(ctx)
			Expect(status.Database).To(Equal("connected"))
			Expect(status.Server).To(Equal("running"))
			Expect(status.Version).NotTo(BeEmpty())
		})

		It("reports a failed database ping", func() {
			repo.pingError = context.DeadlineExceeded
			status := service.GetSystemStatus(ctx)
			Expect(status.Database).To(Equal("disconnected"))
		})
	})

	Describe("GetLogs", func() {
		It("returns recorded activity newest first with level filtering", func() {
			Expect(activity.Record(ctx, events.NewUserRegisteredEvent(1, "alice"))).To(Succeed())
			Expect(activity.Record(ctx, events.NewQuoteCreatedEvent(1, "CQ-20260829-001", 1, 90000))).To(Succeed())

			logs, total := service.GetLogs(ctx, "", 10)
			Expect(total).To(Equal(2))
			Expect(logs[0].Source).To(Equal("quotes"))
			Expect(logs[1].Source).To(Equal("users"))

			logs, total = service.GetLogs(ctx, "info", 1)
			Expect(total).To(Equal(2))
			Expect(logs).To(HaveLen(1))
		})
	})

	Describe("Settings", func() {
		It("mirrors the runtime configuration", func() {
			settings := service.GetSettings(ctx)
			Expect(settings.Security.PasswordMinLength).To(Equal(6))
			Expect(settings.Security.MaxLoginAttempts).To(Equal(5))
			Expect(settings.Security.LockoutDuration).To(Equal("2h0m0s"))
			Expect(settings.Quotes.DefaultValidityDays).To(Equal(30))
		})

		It("echoes requested settings with audit fields", func() {
			var s admin.Settings
			s.System.MaintenanceMode = true
			updated := service.UpdateSettings(ctx, 7, s)
			Expect(updated["updatedBy"]).To(Equal(int64(7)))
			Expect(updated["updatedAt"]).NotTo(BeNil())
		})
	})
})
