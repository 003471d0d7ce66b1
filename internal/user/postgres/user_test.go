package postgres

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cuckooquote/quote-management/internal"
	datamodel "github.com/cuckooquote/quote-management/internal/core/datamodel/user"
	userdomain "github.com/cuckooquote/quote-management/internal/user"
)

func TestUserRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserRepository Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
		ctx  context.Context
	)

	seed := func(username, email, name, department string) {
		u := &datamodel.User{
			Username:     username,
			Email:        email,
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			Role:         "user",
			Name:         name,
			Department:   department,
			IsActive:     true,
		}
		Expect(db.Create(u).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&datamodel.User{})).To(Succeed())

		repo = NewRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("List", func() {
		BeforeEach(func() {
			seed("alice", "alice@example.com", "Alice Kim", "Sales Team 1")
			seed("bob", "bob@example.com", "Bob Lee", "Support")
		})

		It("searches across username, email, name and department", func() {
			params := userdomain.ListParams{Search: "support"}
			Expect(params.Normalize()).To(Succeed())

			records, total, err := repo.List(ctx, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(records[0].Username).To(Equal("bob"))
		})

		It("matches the search term regardless of letter case", func() {
			params := userdomain.ListParams{Search: "ALICE"}
			Expect(params.Normalize()).To(Succeed())

			_, total, err := repo.List(ctx, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))

			params = userdomain.ListParams{Search: "sales team"}
			Expect(params.Normalize()).To(Succeed())

			_, total, err = repo.List(ctx, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("reports a missing id as not found", func() {
			_, err := repo.GetByID(ctx, 42)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
