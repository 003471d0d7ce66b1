package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, u *user.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two registrations can pass the existence pre-check at once; the
		// unique index is the arbiter.
		return internal.ErrDuplicateUser
	}
	return err
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByLogin matches the identifier against username or email, so the
// login form accepts either.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "username = ? OR email = ?", login, login).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLoginTracking persists only the lockout bookkeeping columns so a
// concurrent profile edit cannot be clobbered.
func (r *Repository) UpdateLoginTracking(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"failed_login_attempts": u.FailedLoginAttempts,
			"lock_until":            u.LockUntil,
			"last_login":            u.LastLogin,
		}).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
