package quote

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/cuckooquote/quote-management/internal"
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

// RegisterRoutes mounts the quote endpoints. All of them require the sales
// or admin role.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(sales chi.Router) {
		sales.Use(auth.RequireRoles(h.BaseHandler, auth.RoleSales, auth.RoleAdmin))
		sales.Post("/quotes", h.Create)
		sales.Get("/quotes", h.List)
		sales.Get("/quotes/stats/overview", h.Stats)
		sales.Get("/quotes/{id}", h.Get)
		sales.Put("/quotes/{id}", h.Update)
		sales.Patch("/quotes/{id}/status", h.ChangeStatus)
		sales.Delete("/quotes/{id}", h.Delete)
	})
}

// Create godoc
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body QuoteDTO true "quote payload"
// @Success 201 {object} View
// @Security BearerAuth
// @Router /api/quotes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var dto QuoteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.service.CreateQuote(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "quote created",
		"quote":   view,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	q := r.URL.Query()
	params := ListParams{
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	if t, ok := parseDate(q.Get("startDate")); ok {
		params.StartDate = &t
	}
	if t, ok := parseDate(q.Get("endDate")); ok {
		params.EndDate = &t
	}

	resp, err := h.service.ListQuotes(r.Context(), actor, params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.service.GetQuote(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"quote": view})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto QuoteDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.service.UpdateQuote(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "quote updated",
		"quote":   view,
	})
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto ChangeStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status, err := h.service.ChangeStatus(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "quote status updated",
		"status":  status,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	id, err := h.pathID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.service.DeleteQuote(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "quote deleted"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	stats, err := h.service.GetStats(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, internal.NewValidationError("invalid quote id")
	}
	return id, nil
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
