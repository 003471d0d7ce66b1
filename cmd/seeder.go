package cmd

import (
	"fmt"
	"log"
	"time"

	quotedm "github.com/cuckooquote/quote-management/internal/core/datamodel/quote"
	userdm "github.com/cuckooquote/quote-management/internal/core/datamodel/user"
	quotedomain "github.com/cuckooquote/quote-management/internal/quote"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an administrator account and sample quotes for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := gorm.Open(gormpostgres.Open(cfg.Database.Source), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}

		seedUser(db, userdm.User{
			Username:   "admin",
			Email:      "admin@cuckoo.com",
			Role:       "admin",
			Name:       "시스템 관리자",
			Phone:      "010-0000-0000",
			Department: "경영지원팀",
			IsActive:   true,
		}, "admin123")

		sales := seedUser(db, userdm.User{
			Username:   "sales01",
			Email:      "sales01@cuckoo.com",
			Role:       "sales",
			Name:       "김영업",
			Phone:      "010-1234-5678",
			Department: "영업1팀",
			Position:   "대리",
			IsActive:   true,
		}, "sales123")

		if sales != nil {
			seedQuote(db, sales.ID)
		}
	},
}

func seedUser(db *gorm.DB, u userdm.User, password string) *userdm.User {
	var count int64
	db.Model(&userdm.User{}).Where("username = ?", u.Username).Count(&count)
	if count > 0 {
		fmt.Printf("user %s already exists, skipping\n", u.Username)
		var existing userdm.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err != nil {
			return nil
		}
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u.PasswordHash = string(hash)

	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", u.Username, err)
	}
	fmt.Printf("seeded user %s (%s)\n", u.Username, u.Role)
	return &u
}

func seedQuote(db *gorm.DB, salesPersonID int64) {
	var count int64
	db.Model(&quotedm.Quote{}).Count(&count)
	if count > 0 {
		fmt.Println("quotes already exist, skipping sample quote")
		return
	}

	now := time.Now()
	day := now.Format("20060102")

	var seq int64
	err := db.Raw(
		"INSERT INTO quote_sequences (day, counter) VALUES (?, 1) ON CONFLICT (day) DO UPDATE SET counter = quote_sequences.counter + 1 RETURNING counter",
		day,
	).Scan(&seq).Error
	if err != nil {
		log.Fatalf("failed to reserve quote number: %v", err)
	}

	products, total := quotedomain.DeriveTotals([]quotedm.ProductLine{
		{
			Name:           "정수기",
			Model:          "CHP-242R",
			RentalFee:      50000,
			UsagePeriod:    36,
			ContractPeriod: 36,
			Quantity:       1,
		},
	})

	q := quotedm.Quote{
		QuoteNumber:   quotedomain.FormatQuoteNumber(now, seq),
		CustomerName:  "홍길동",
		CustomerPhone: "010-9876-5432",
		CustomerEmail: "hong@example.com",
		SalesPersonID: salesPersonID,
		SalesPhone:    "010-1234-5678",
		QuoteDate:     now,
		ValidUntil:    now.AddDate(0, 0, 30),
		Description:   quotedomain.DefaultDescription,
		Products:      products,
		TotalAmount:   total,
		Status:        quotedomain.StatusDraft,
		IsActive:      true,
	}

	if err := db.Create(&q).Error; err != nil {
		log.Fatalf("failed to seed quote: %v", err)
	}
	fmt.Printf("seeded quote %s\n", q.QuoteNumber)
}
