package user

import (
	"time"
)

// User is the persistence model for accounts. PasswordHash never leaves the
// repository layer.
type User struct {
	ID                  int64      `gorm:"primaryKey"`
	Username            string     `gorm:"column:username;uniqueIndex;not null"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	Role                string     `gorm:"column:role;default:user"`
	Name                string     `gorm:"column:profile_name"`
	Phone               string     `gorm:"column:profile_phone"`
	Department          string     `gorm:"column:profile_department"`
	Position            string     `gorm:"column:profile_position"`
	IsActive            bool       `gorm:"column:is_active;default:true"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts;default:0"`
	LockUntil           *time.Time `gorm:"column:lock_until"`
	LastLogin           *time.Time `gorm:"column:last_login"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
