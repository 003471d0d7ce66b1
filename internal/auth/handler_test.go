package auth_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cuckooquote/quote-management/internal/auth"
)

type stubAuthService struct {
	principal       *auth.User
	changedFor      int64
	changePwdError  error
	validateError   error
	lastChangeDTO   auth.ChangePasswordDTO
	validatedTokens []string
}

func (s *stubAuthService) Register(ctx context.Context, dto auth.RegisterDTO) (*auth.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, dto auth.LoginDTO) (*auth.LoginResponse, error) {
	return nil, nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID int64, dto auth.ChangePasswordDTO) error {
	s.changedFor = userID
	s.lastChangeDTO = dto
	return s.changePwdError
}

func (s *stubAuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.User, error) {
	s.validatedTokens = append(s.validatedTokens, tokenString)
	if s.validateError != nil {
		return nil, s.validateError
	}
	return s.principal, nil
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID int64) (*auth.User, error) {
	return s.principal, nil
}

var _ = Describe("AuthHandler routes", func() {
	var (
		stub   *stubAuthService
		router *chi.Mux
	)

	BeforeEach(func() {
		stub = &stubAuthService{
			principal: &auth.User{ID: 7, Username: "alice", Role: auth.RoleUser, IsActive: true},
		}
		handler := auth.NewHandler(stub, slog.New(slog.NewTextHandler(os.Stderr, nil)))

		router = chi.NewRouter()
		handler.RegisterPublicRoutes(router)
		router.Group(func(r chi.Router) {
			r.Use(handler.Middleware)
			handler.RegisterProtectedRoutes(r)
		})
	})

	Describe("change password", func() {
		It("is mounted as PUT and reaches the service", func() {
			body := strings.NewReader(`{"currentPassword":"old123456","newPassword":"new123456"}`)
			req := httptest.NewRequest(http.MethodPut, "/auth/change-password", body)
			req.Header.Set("Authorization", "Bearer token-1")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.changedFor).To(Equal(int64(7)))
			Expect(stub.lastChangeDTO.NewPassword).To(Equal("new123456"))
		})

		It("rejects POST with method not allowed", func() {
			body := strings.NewReader(`{"currentPassword":"old123456","newPassword":"new123456"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/change-password", body)
			req.Header.Set("Authorization", "Bearer token-1")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
		})

		It("requires a bearer token", func() {
			req := httptest.NewRequest(http.MethodPut, "/auth/change-password", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
