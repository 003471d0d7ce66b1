package admin

import (
	"time"
)

// RecentUser is a dashboard row for the latest registrations.
type RecentUser struct {
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"profile_name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// RecentQuote is a dashboard row for the latest quotes.
type RecentQuote struct {
	QuoteNumber  string    `db:"quote_number" json:"quoteNumber"`
	CustomerName string    `db:"customer_name" json:"customerName"`
	SalesName    string    `db:"sales_name" json:"salesName"`
	TotalAmount  int64     `db:"total_amount" json:"totalAmount"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// SalesPerformance ranks salespeople by quoted amount.
type SalesPerformance struct {
	Username    string `db:"username" json:"username"`
	Name        string `db:"profile_name" json:"name"`
	TotalQuotes int64  `db:"total_quotes" json:"totalQuotes"`
	TotalAmount int64  `db:"total_amount" json:"totalAmount"`
}

// CreationRow feeds the monthly dashboard buckets.
type CreationRow struct {
	CreatedAt   time.Time `db:"created_at"`
	TotalAmount int64     `db:"total_amount"`
}

// ExportRow is one quote in an export file.
type ExportRow struct {
	QuoteNumber  string    `db:"quote_number" json:"quoteNumber"`
	CustomerName string    `db:"customer_name" json:"customerName"`
	SalesName    string    `db:"sales_name" json:"salesName"`
	TotalAmount  int64     `db:"total_amount" json:"totalAmount"`
	Status       string    `db:"status" json:"status"`
	QuoteDate    time.Time `db:"quote_date" json:"quoteDate"`
	ValidUntil   time.Time `db:"valid_until" json:"validUntil"`
}

type MonthlyStat struct {
	Year        int   `json:"year"`
	Month       int   `json:"month"`
	Count       int64 `json:"count"`
	TotalAmount int64 `json:"totalAmount"`
}

// Dashboard is the admin overview response.
type Dashboard struct {
	Overview struct {
		TotalUsers  int64 `json:"totalUsers"`
		TotalQuotes int64 `json:"totalQuotes"`
		TotalAmount int64 `json:"totalAmount"`
	} `json:"overview"`
	RecentActivity struct {
		Users  []RecentUser  `json:"users"`
		Quotes []RecentQuote `json:"quotes"`
	} `json:"recentActivity"`
	MonthlyStats   []MonthlyStat    `json:"monthlyStats"`
	StatusStats    map[string]int64 `json:"statusStats"`
	RoleStats      map[string]int64 `json:"roleStats"`
	TopSalespeople []SalesPerformance `json:"topSalespeople"`
}

// SystemStatus reports process and database health.
type SystemStatus struct {
	Database  string    `json:"database"`
	Server    string    `json:"server"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
	Memory    struct {
		Alloc      uint64 `json:"alloc"`
		TotalAlloc uint64 `json:"totalAlloc"`
		Sys        uint64 `json:"sys"`
		NumGC      uint32 `json:"numGC"`
	} `json:"memory"`
	Version string `json:"version"`
}

// BackupInfo describes the backup schedule. The backup itself runs out of
// process.
type BackupInfo struct {
	LastBackup    *time.Time `json:"lastBackup"`
	NextBackup    time.Time  `json:"nextBackup"`
	BackupSize    string     `json:"backupSize"`
	Tables        []string   `json:"tables"`
	AutoBackup    bool       `json:"autoBackup"`
	RetentionDays int        `json:"retentionDays"`
}

// Settings is the admin-visible configuration snapshot.
type Settings struct {
	System struct {
		MaintenanceMode   bool   `json:"maintenanceMode"`
		AllowRegistration bool   `json:"allowRegistration"`
		SessionTimeout    string `json:"sessionTimeout"`
	} `json:"system"`
	Security struct {
		PasswordMinLength        int    `json:"passwordMinLength"`
		MaxLoginAttempts         int    `json:"maxLoginAttempts"`
		LockoutDuration          string `json:"lockoutDuration"`
		RequireEmailVerification bool   `json:"requireEmailVerification"`
	} `json:"security"`
	Quotes struct {
		DefaultValidityDays   int  `json:"defaultValidityDays"`
		AutoExpire            bool `json:"autoExpire"`
		AllowMultipleProducts bool `json:"allowMultipleProducts"`
	} `json:"quotes"`
}
