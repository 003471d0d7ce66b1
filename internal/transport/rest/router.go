package rest

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cuckooquote/quote-management/internal"
	"github.com/cuckooquote/quote-management/internal/admin"
	"github.com/cuckooquote/quote-management/internal/auth"
	"github.com/cuckooquote/quote-management/internal/catalog"
	"github.com/cuckooquote/quote-management/internal/quote"
	"github.com/cuckooquote/quote-management/internal/transport/middleware"
	"github.com/cuckooquote/quote-management/internal/transport/swagger"
	"github.com/cuckooquote/quote-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires every handler into the router under the /api
// prefix, with public and authenticated route groups.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, authHandler *auth.Handler, userHandler *user.Handler, quoteHandler *quote.Handler, catalogHandler *catalog.Handler, adminHandler *admin.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   internal.KindNotFound,
			"message": "route not found",
		})
	})

	// OpenAPI spec and Swagger UI live outside the API prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			authHandler.RegisterPublicRoutes(r)
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.Middleware)

				authHandler.RegisterProtectedRoutes(pr)

				if userHandler != nil {
					userHandler.RegisterRoutes(pr)
				}
				if quoteHandler != nil {
					quoteHandler.RegisterRoutes(pr)
				}
				if catalogHandler != nil {
					catalogHandler.RegisterRoutes(pr)
				}
				if adminHandler != nil {
					adminHandler.RegisterRoutes(pr)
				}
			})
		}
	})
}
