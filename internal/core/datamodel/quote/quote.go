package quote

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProductLine is one rented product on a quote. Total is derived server-side
// from RentalFee and Quantity before every persist.
type ProductLine struct {
	Name           string `json:"name"`
	Model          string `json:"model"`
	RentalFee      int64  `json:"rentalFee"`
	UsagePeriod    int    `json:"usagePeriod"`
	ContractPeriod int    `json:"contractPeriod"`
	Quantity       int    `json:"quantity"`
	Total          int64  `json:"total"`
}

// ProductLines is stored as a JSON document column, keeping the embedded
// shape of the original quote documents.
type ProductLines []ProductLine

func (p ProductLines) Value() (driver.Value, error) {
	if p == nil {
		p = ProductLines{}
	}
	return json.Marshal(p)
}

func (p *ProductLines) Scan(value interface{}) error {
	if value == nil {
		*p = ProductLines{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for product lines: %T", value)
	}
}

// Quote is the persistence model for quotes. QuoteNumber is assigned once at
// creation and unique; IsActive false marks a soft-deleted row.
type Quote struct {
	ID              int64        `gorm:"primaryKey"`
	QuoteNumber     string       `gorm:"column:quote_number;uniqueIndex;not null"`
	CustomerName    string       `gorm:"column:customer_name;not null"`
	CustomerPhone   string       `gorm:"column:customer_phone"`
	CustomerEmail   string       `gorm:"column:customer_email"`
	CustomerAddress string       `gorm:"column:customer_address"`
	SalesPersonID   int64        `gorm:"column:sales_person_id;index;not null"`
	SalesPhone      string       `gorm:"column:sales_phone;not null"`
	QuoteDate       time.Time    `gorm:"column:quote_date;index"`
	ValidUntil      time.Time    `gorm:"column:valid_until"`
	Description     string       `gorm:"column:description"`
	Notes           string       `gorm:"column:notes"`
	Products        ProductLines `gorm:"column:products;type:text"`
	TotalAmount     int64        `gorm:"column:total_amount;not null"`
	Status          string       `gorm:"column:status;default:draft;index"`
	PDFURL          string       `gorm:"column:pdf_url"`
	IsActive        bool         `gorm:"column:is_active;default:true"`
	CreatedAt       time.Time    `gorm:"column:created_at;index"`
	UpdatedAt       time.Time    `gorm:"column:updated_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// DaySequence backs quote-number assignment: one counter row per calendar
// day, incremented atomically.
type DaySequence struct {
	Day     string `gorm:"column:day;primaryKey"`
	Counter int64  `gorm:"column:counter;not null"`
}

func (DaySequence) TableName() string {
	return "quote_sequences"
}
