package admin

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/events"
)

type Repository interface {
	Ping(ctx context.Context) error
	CountUsers(ctx context.Context) (int64, error)
	CountQuotes(ctx context.Context) (int64, error)
	SumQuoteAmount(ctx context.Context) (int64, error)
	RecentUsers(ctx context.Context, limit int) ([]RecentUser, error)
	RecentQuotes(ctx context.Context, limit int) ([]RecentQuote, error)
	QuoteStatusCounts(ctx context.Context) (map[string]int64, error)
	UserRoleCounts(ctx context.Context) (map[string]int64, error)
	TopSalespeople(ctx context.Context, limit int) ([]SalesPerformance, error)
	QuotesCreatedSince(ctx context.Context, since time.Time) ([]CreationRow, error)
	ExportQuotes(ctx context.Context, startDate, endDate *time.Time) ([]ExportRow, error)
}

type ServiceAPI interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetSystemStatus(ctx context.Context) *SystemStatus
	GetBackupInfo(ctx context.Context) *BackupInfo
	GetLogs(ctx context.Context, level string, limit int) ([]events.ActivityEntry, int)
	GetSettings(ctx context.Context) *Settings
	UpdateSettings(ctx context.Context, updatedBy int64, s Settings) map[string]interface{}
	ExportQuotes(ctx context.Context, startDate, endDate *time.Time) ([]ExportRow, error)
}

type Service struct {
	repo      Repository
	activity  *events.ActivityLog
	logger    *slog.Logger
	config    *internal.Config
	startedAt time.Time
}

func NewService(repo Repository, activity *events.ActivityLog, logger *slog.Logger, cfg *internal.Config) *Service {
	return &Service{
		repo:      repo,
		activity:  activity,
		logger:    logger,
		config:    cfg,
		startedAt: time.Now(),
	}
}

func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{}

	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}
	totalQuotes, err := s.repo.CountQuotes(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count quotes", err)
	}
	totalAmount, err := s.repo.SumQuoteAmount(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to sum quote amounts", err)
	}
	dashboard.Overview.TotalUsers = totalUsers
	dashboard.Overview.TotalQuotes = totalQuotes
	dashboard.Overview.TotalAmount = totalAmount

	recentUsers, err := s.repo.RecentUsers(ctx, 5)
	if err != nil {
		return nil, internal.NewInternalError("failed to load recent users", err)
	}
	recentQuotes, err := s.repo.RecentQuotes(ctx, 5)
	if err != nil {
		return nil, internal.NewInternalError("failed to load recent quotes", err)
	}
	dashboard.RecentActivity.Users = recentUsers
	dashboard.RecentActivity.Quotes = recentQuotes

	rows, err := s.repo.QuotesCreatedSince(ctx, time.Now().AddDate(0, -6, 0))
	if err != nil {
		return nil, internal.NewInternalError("failed to load quote history", err)
	}
	dashboard.MonthlyStats = bucketByMonth(rows)

	statusStats, err := s.repo.QuoteStatusCounts(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count quote statuses", err)
	}
	dashboard.StatusStats = statusStats

	roleStats, err := s.repo.UserRoleCounts(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to count user roles", err)
	}
	dashboard.RoleStats = roleStats

	top, err := s.repo.TopSalespeople(ctx, 5)
	if err != nil {
		return nil, internal.NewInternalError("failed to rank salespeople", err)
	}
	dashboard.TopSalespeople = top

	return dashboard, nil
}

func (s *Service) GetSystemStatus(ctx context.Context) *SystemStatus {
	status := &SystemStatus{
		Database:  "connected",
		Server:    "running",
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startedAt).Seconds(),
		Version:   runtime.Version(),
	}

	if err := s.repo.Ping(ctx); err != nil {
		status.Database = "disconnected"
		s.logger.Error("database ping failed", "error", err)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	status.Memory.Alloc = mem.Alloc
	status.Memory.TotalAlloc = mem.TotalAlloc
	status.Memory.Sys = mem.Sys
	status.Memory.NumGC = mem.NumGC

	return status
}

func (s *Service) GetBackupInfo(ctx context.Context) *BackupInfo {
	return &BackupInfo{
		NextBackup:    time.Now().Add(24 * time.Hour),
		BackupSize:    "0 MB",
		Tables:        []string{"users", "quotes"},
		AutoBackup:    true,
		RetentionDays: 30,
	}
}

// GetLogs returns recent in-process activity, newest first, optionally
// filtered by level.
func (s *Service) GetLogs(ctx context.Context, level string, limit int) ([]events.ActivityEntry, int) {
	if limit < 1 {
		limit = 100
	}

	entries := s.activity.Recent(0)
	if level != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Level == level {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, total
}

func (s *Service) GetSettings(ctx context.Context) *Settings {
	settings := &Settings{}
	settings.System.AllowRegistration = true
	settings.System.SessionTimeout = s.config.Security.TokenDuration.String()
	settings.Security.PasswordMinLength = s.config.Security.PasswordMinLen
	settings.Security.MaxLoginAttempts = s.config.Security.MaxLoginAttempts
	settings.Security.LockoutDuration = s.config.Security.LockoutDuration.String()
	settings.Quotes.DefaultValidityDays = s.config.Quotes.ValidityDays()
	settings.Quotes.AutoExpire = s.config.Quotes.AutoExpire
	settings.Quotes.AllowMultipleProducts = true
	return settings
}

// UpdateSettings acknowledges the requested values. Persisting admin
// settings is not implemented; configuration comes from the environment.
func (s *Service) UpdateSettings(ctx context.Context, updatedBy int64, settings Settings) map[string]interface{} {
	s.logger.Info("admin settings update requested", "updated_by", updatedBy)
	return map[string]interface{}{
		"system":    settings.System,
		"security":  settings.Security,
		"quotes":    settings.Quotes,
		"updatedAt": time.Now(),
		"updatedBy": updatedBy,
	}
}

func (s *Service) ExportQuotes(ctx context.Context, startDate, endDate *time.Time) ([]ExportRow, error) {
	rows, err := s.repo.ExportQuotes(ctx, startDate, endDate)
	if err != nil {
		return nil, internal.NewInternalError("failed to export quotes", err)
	}
	return rows, nil
}

func bucketByMonth(rows []CreationRow) []MonthlyStat {
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
