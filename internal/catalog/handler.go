package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/cuckooquote/quote-management/internal/auth"
	"github.com/cuckooquote/quote-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
	}
}

// RegisterRoutes mounts the catalog endpoints. Browsing is open to any
// authenticated user; pricing and recommendations need the sales role.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products/categories", h.Categories)
	r.Get("/products/categories/{categoryId}/models", h.Models)
	r.Get("/products/search", h.Search)
	r.Post("/products/compare", h.Compare)

	r.Group(func(sales chi.Router) {
		sales.Use(auth.RequireRoles(h.BaseHandler, auth.RoleSales, auth.RoleAdmin))
		sales.Post("/products/calculate-price", h.CalculatePrice)
		sales.Post("/products/recommendations", h.Recommend)
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.service.ListCategories(),
	})
}

func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	cat, err := h.service.CategoryModels(chi.URLParam(r, "categoryId"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"category": map[string]string{"id": cat.ID, "name": cat.Name},
		"models":   cat.Models,
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	categoryID := r.URL.Query().Get("category")

	results := h.service.Search(query, categoryID)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   map[string]string{"q": query, "category": categoryID},
		"total":   len(results),
		"results": results,
	})
}

func (h *Handler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	var dto CalculatePriceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	calc, err := h.service.CalculatePrice(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, calc)
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var dto RecommendationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.service.Recommend(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var dto CompareDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp, err := h.service.Compare(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
