package auth

import (
	"strings"

	"github.com/cuckooquote/quote-management/internal"
)

type RegisterDTO struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Profile  Profile `json:"profile"`
	Role     string  `json:"role"`
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

func (d *RegisterDTO) Validate(passwordMinLen int) error {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	d.Profile.Name = strings.TrimSpace(d.Profile.Name)

	if d.Username == "" {
		return internal.NewValidationError("username is required")
	}
	if len(d.Username) < 3 || len(d.Username) > 20 {
		return internal.NewValidationError("username must be between 3 and 20 characters")
	}
	if !isAlphanumeric(d.Username) {
		return internal.NewValidationError("username may only contain letters and digits")
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("a valid email is required")
	}
	if len(d.Password) < passwordMinLen {
		return internal.NewValidationError("password is too short")
	}
	if d.Profile.Name == "" {
		return internal.NewValidationError("profile name is required")
	}
	if d.Role == "" {
		d.Role = RoleUser
	}
	if !IsValidRole(d.Role) {
		return internal.NewValidationError("role must be one of user, sales, admin")
	}
	return nil
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	if d.Username == "" || d.Password == "" {
		return internal.NewValidationError("username and password are required")
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (d *ChangePasswordDTO) Validate(passwordMinLen int) error {
	if d.CurrentPassword == "" {
		return internal.NewValidationError("current password is required")
	}
	if len(d.NewPassword) < passwordMinLen {
		return internal.NewValidationError("new password is too short")
	}
	if d.NewPassword == d.CurrentPassword {
		return internal.NewValidationError("new password must differ from the current one")
	}
	return nil
}

// LoginResponse is what a successful login or registration returns.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
