package auth

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/user"
	"github.com/cuckooquote/quote-management/internal/core/events"
)

type Repository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	GetUserByLogin(ctx context.Context, login string) (*user.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	UpdateLoginTracking(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*LoginResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	ValidateAccessToken(ctx context.Context, tokenString string) (*User, error)
	CurrentUser(ctx context.Context, userID int64) (*User, error)
}

type Service struct {
	repo     Repository
	tokens   TokenGenerator
	eventBus *events.EventBus
	logger   *slog.Logger

	bcryptCost       int
	passwordMinLen   int
	maxLoginAttempts int
	lockoutDuration  time.Duration
}

func NewService(repo Repository, tokens TokenGenerator, eventBus *events.EventBus, logger *slog.Logger, sec internal.SecurityConfig) *Service {
	return &Service{
		repo:             repo,
		tokens:           tokens,
		eventBus:         eventBus,
		logger:           logger,
		bcryptCost:       sec.BCryptCost,
		passwordMinLen:   sec.PasswordMinLen,
		maxLoginAttempts: sec.MaxLoginAttempts,
		lockoutDuration:  sec.LockoutDuration,
	}
}

// Register creates an account and logs it straight in. Username and email
// uniqueness is reported as a single duplicate error so callers cannot tell
// which of the two is taken.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*LoginResponse, error) {
	if err := dto.Validate(s.passwordMinLen); err != nil {
		return nil, err
	}

	exists, err := s.repo.UserExists(ctx, dto.Username, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing users", err)
	}
	if exists {
		return nil, internal.ErrDuplicateUser
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	record := &user.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         dto.Role,
		Name:         dto.Profile.Name,
		Phone:        dto.Profile.Phone,
		Department:   dto.Profile.Department,
		Position:     dto.Profile.Position,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, record); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	token, err := s.tokens.GenerateAccessToken(record.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewUserRegisteredEvent(record.ID, record.Username))
	}
	s.logger.Info("user registered", "user_id", record.ID, "username", record.Username)

	return &LoginResponse{Token: token, User: toPrincipal(record)}, nil
}

// Login verifies credentials with a failed-attempt counter. Accounts lock for
// a fixed window once the attempt limit is reached; a successful login resets
// the counter.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetUserByLogin(ctx, dto.Username)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Kind == internal.KindNotFound {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	if !record.IsActive {
		return nil, internal.ErrAccountDisabled
	}

	now := time.Now()
	if record.LockUntil != nil {
		if now.Before(*record.LockUntil) {
			return nil, internal.ErrAccountLocked
		}
		record.LockUntil = nil
		record.FailedLoginAttempts = 0
	}

	if err := VerifyPassword(record.PasswordHash, dto.Password); err != nil {
		record.FailedLoginAttempts++
		if record.FailedLoginAttempts >= s.maxLoginAttempts {
			lockUntil := now.Add(s.lockoutDuration)
			record.LockUntil = &lockUntil
			s.logger.Warn("account locked after repeated failures",
				"user_id", record.ID, "attempts", record.FailedLoginAttempts)
		}
		if trackErr := s.repo.UpdateLoginTracking(ctx, record); trackErr != nil {
			s.logger.Error("failed to record login failure", "user_id", record.ID, "error", trackErr)
		}
		if record.LockUntil != nil {
			return nil, internal.ErrAccountLocked
		}
		return nil, internal.ErrInvalidCredentials
	}

	record.FailedLoginAttempts = 0
	record.LockUntil = nil
	record.LastLogin = &now
	if err := s.repo.UpdateLoginTracking(ctx, record); err != nil {
		s.logger.Error("failed to record login", "user_id", record.ID, "error", err)
	}

	token, err := s.tokens.GenerateAccessToken(record.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	s.logger.Info("user logged in", "user_id", record.ID, "username", record.Username)
	return &LoginResponse{Token: token, User: toPrincipal(record)}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(s.passwordMinLen); err != nil {
		return err
	}

	record, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := VerifyPassword(record.PasswordHash, dto.CurrentPassword); err != nil {
		return internal.NewValidationError("current password is incorrect")
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// ValidateAccessToken resolves a bearer token to a live principal. A token
// whose account has been deactivated since issuance is rejected.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}

	record, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Kind == internal.KindNotFound {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if !record.IsActive {
		return nil, internal.ErrAccountDisabled
	}

	return toPrincipal(record), nil
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*User, error) {
	record, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toPrincipal(record), nil
}

func toPrincipal(record *user.User) *User {
	return &User{
		ID:       record.ID,
		Username: record.Username,
		Email:    record.Email,
		Role:     record.Role,
		Profile: Profile{
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
