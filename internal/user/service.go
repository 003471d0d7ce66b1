package user

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/auth"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/user"
	"github.com/cuckooquote/quote-management/internal/core/events"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]*user.User, int64, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	CountByFilter(ctx context.Context, role string, isActive *bool, createdAfter *time.Time) (int64, error)
	LastLoginTimes(ctx context.Context) ([]time.Time, error)
}

type ServiceAPI interface {
	ListUsers(ctx context.Context, params ListParams) (*ListResponse, error)
	GetUser(ctx context.Context, id int64) (*auth.User, error)
	UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO) (*auth.User, error)
	ToggleStatus(ctx context.Context, actor *auth.User, id int64) (bool, error)
	ChangeRole(ctx context.Context, actor *auth.User, id int64, dto ChangeRoleDTO) (string, error)
	GetStats(ctx context.Context) (*Stats, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*auth.User, error)
}

type Service struct {
	repo     Repository
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) ListUsers(ctx context.Context, params ListParams) (*ListResponse, error) {
	if err := params.Normalize(); err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*auth.User, 0, len(records))
	for _, record := range records {
		users = append(users, toPrincipal(record))
	}

	return &ListResponse{
		Users:      users,
		Pagination: NewPagination(params.Page, params.Limit, total),
	}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPrincipal(record), nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Profile != nil {
		applyProfile(record, *dto.Profile)
	}
	if dto.Role != nil {
		record.Role = *dto.Role
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return toPrincipal(record), nil
}

// ToggleStatus flips an account's active flag. Admins cannot deactivate
// themselves.
func (s *Service) ToggleStatus(ctx context.Context, actor *auth.User, id int64) (bool, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	if record.ID == actor.ID {
		return false, internal.NewValidationError("cannot change the status of your own account")
	}

	record.IsActive = !record.IsActive
	if err := s.repo.Update(ctx, record); err != nil {
		return false, internal.NewInternalError("failed to update user status", err)
	}

	s.logger.Info("user status toggled", "user_id", id, "is_active", record.IsActive)
	return record.IsActive, nil
}

// ChangeRole assigns a new role. Admins cannot change their own role, which
// keeps at least one admin able to undo a mistake.
func (s *Service) ChangeRole(ctx context.Context, actor *auth.User, id int64, dto ChangeRoleDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if record.ID == actor.ID {
		return "", internal.NewValidationError("cannot change the role of your own account")
	}

	oldRole := record.Role
	record.Role = dto.Role
	if err := s.repo.Update(ctx, record); err != nil {
		return "", internal.NewInternalError("failed to update user role", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewUserRoleChangedEvent(record.ID, oldRole, record.Role))
	}
	s.logger.Info("user role changed", "user_id", id, "old_role", oldRole, "new_role", record.Role)
	return record.Role, nil
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountByFilter(ctx, "", nil, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to count users", err)
	}

	roleStats := make(map[string]int64, 3)
	for _, role := range []string{auth.RoleUser, auth.RoleSales, auth.RoleAdmin} {
		count, err := s.repo.CountByFilter(ctx, role, nil, nil)
		if err != nil {
			return nil, internal.NewInternalError("failed to count users by role", err)
		}
		if count > 0 {
			roleStats[role] = count
		}
	}

	active := true
	activeCount, err := s.repo.CountByFilter(ctx, "", &active, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to count active users", err)
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	recent, err := s.repo.CountByFilter(ctx, "", nil, &thirtyDaysAgo)
	if err != nil {
		return nil, internal.NewInternalError("failed to count recent users", err)
	}

	logins, err := s.repo.LastLoginTimes(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to load login history", err)
	}

	return &Stats{
		TotalUsers:     total,
		RoleStats:      roleStats,
		ActiveUsers:    activeCount,
		InactiveUsers:  total - activeCount,
		RecentUsers:    recent,
		LastLoginStats: bucketByMonth(logins, 6),
	}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfile(record, dto.Profile)
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to update profile", err)
	}

	return toPrincipal(record), nil
}

func applyProfile(record *user.User, p ProfileDTO) {
	if p.Name != nil && *p.Name != "" {
		record.Name = *p.Name
	}
	if p.Phone != nil && *p.Phone != "" {
		record.Phone = *p.Phone
	}
	if p.Department != nil && *p.Department != "" {
		record.Department = *p.Department
	}
	if p.Position != nil && *p.Position != "" {
		record.Position = *p.Position
	}
}

// bucketByMonth groups timestamps into year/month counts, newest first.
// Grouping happens here rather than in SQL so the query stays portable
// across drivers.
func bucketByMonth(times []time.Time, limit int) []MonthlyCount {
	type key struct {
		year  int
		month int
	}
	counts := make(map[key]int64)
	for _, t := range times {
		counts[key{t.Year(), int(t.Month())}]++
	}

	buckets := make([]MonthlyCount, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, MonthlyCount{Year: k.year, Month: k.month, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

func toPrincipal(record *user.User) *auth.User {
	return &auth.User{
		ID:       record.ID,
		Username: record.Username,
		Email:    record.Email,
		Role:     record.Role,
		Profile: auth.Profile{
			Name:       record.Name,
			Phone:      record.Phone,
			Department: record.Department,
			Position:   record.Position,
		},
		IsActive:  record.IsActive,
		LastLogin: record.LastLogin,
		CreatedAt: record.CreatedAt,
	}
}
