package postgres

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/core/datamodel/user"
)

func TestAuthRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthRepository Suite")
}

var _ = Describe("AuthRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
		ctx  context.Context
	)

	newUser := func(username, email string) *user.User {
		return &user.User{
			Username:     username,
			Email:        email,
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			Role:         "user",
			Name:         "테스트",
			IsActive:     true,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&user.User{})).To(Succeed())

		repo = NewRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("CreateUser", func() {
		It("persists a new account", func() {
			u := newUser("alice", "alice@example.com")
			Expect(repo.CreateUser(ctx, u)).To(Succeed())
			Expect(u.ID).NotTo(BeZero())
		})

		It("translates a unique-index violation into the duplicate-user error", func() {
			Expect(repo.CreateUser(ctx, newUser("alice", "alice@example.com"))).To(Succeed())

			err := repo.CreateUser(ctx, newUser("alice", "other@example.com"))
			Expect(err).To(Equal(internal.ErrDuplicateUser))

			err = repo.CreateUser(ctx, newUser("alice2", "alice@example.com"))
			Expect(err).To(Equal(internal.ErrDuplicateUser))
		})
	})

	Describe("GetUserByLogin", func() {
		It("matches the identifier against username or email", func() {
			Expect(repo.CreateUser(ctx, newUser("bob", "bob@example.com"))).To(Succeed())

			byName, err := repo.GetUserByLogin(ctx, "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(byName.Email).To(Equal("bob@example.com"))

			byEmail, err := repo.GetUserByLogin(ctx, "bob@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(byEmail.Username).To(Equal("bob"))
		})

		It("reports an unknown identifier as not found", func() {
			_, err := repo.GetUserByLogin(ctx, "nobody")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("UpdatePassword", func() {
		It("reports a missing user as not found", func() {
			err := repo.UpdatePassword(ctx, 999, "$2a$10$newhash")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
