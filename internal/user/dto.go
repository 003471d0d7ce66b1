package user

import (
	"strings"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/auth"
)

// ListParams are the query parameters for the admin user listing.
type ListParams struct {
	Page      int
	Limit     int
	Role      string
	Search    string
	IsActive  *bool
	SortBy    string
	SortOrder string
}

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
	"role":      "role",
	"lastLogin": "last_login",
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
	if p.Role != "" && !auth.IsValidRole(p.Role) {
		return internal.NewValidationError("role must be one of user, sales, admin")
	}
	if p.SortBy == "" {
		p.SortBy = "createdAt"
	}
	if _, ok := userSortColumns[p.SortBy]; !ok {
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
	return userSortColumns[p.SortBy]
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// UpdateUserDTO is the admin-side update payload. Nil fields are untouched.
type UpdateUserDTO struct {
	Profile  *ProfileDTO `json:"profile"`
	Role     *string     `json:"role"`
	IsActive *bool       `json:"isActive"`
}

type ProfileDTO struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
}

func (d *UpdateUserDTO) Validate() error {
	if d.Role != nil && !auth.IsValidRole(*d.Role) {
		return internal.NewValidationError("role must be one of user, sales, admin")
	}
	if d.Profile != nil {
		d.Profile.trim()
	}
	return nil
}

func (p *ProfileDTO) trim() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.Name)
	trim(p.Phone)
	trim(p.Department)
	trim(p.Position)
}

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (d *ChangeRoleDTO) Validate() error {
	if !auth.IsValidRole(d.Role) {
		return internal.NewValidationError("role must be one of user, sales, admin")
	}
	return nil
}

// UpdateProfileDTO is the self-service profile edit. Only non-empty fields
// are applied.
type UpdateProfileDTO struct {
	Profile ProfileDTO `json:"profile"`
}

func (d *UpdateProfileDTO) Validate() error {
	d.Profile.trim()
	return nil
}

// Pagination is the page envelope shared by list endpoints.
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
	Users      []*auth.User `json:"users"`
	Pagination Pagination   `json:"pagination"`
}

// Stats is the admin user statistics overview.
type Stats struct {
	TotalUsers     int64            `json:"totalUsers"`
	RoleStats      map[string]int64 `json:"roleStats"`
	ActiveUsers    int64            `json:"activeUsers"`
	InactiveUsers  int64            `json:"inactiveUsers"`
	RecentUsers    int64            `json:"recentUsers"`
	LastLoginStats []MonthlyCount   `json:"lastLoginStats"`
}

type MonthlyCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}
