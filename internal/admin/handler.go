package admin

import (
	"encoding/csv"
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

// RegisterRoutes mounts the admin surface, all behind the admin role.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(admin chi.Router) {
		admin.Use(auth.RequireAdmin(h.BaseHandler))
		admin.Get("/admin/dashboard", h.Dashboard)
		admin.Get("/admin/system-status", h.SystemStatus)
		admin.Get("/admin/backup-info", h.BackupInfo)
		admin.Get("/admin/logs", h.Logs)
		admin.Get("/admin/settings", h.GetSettings)
		admin.Put("/admin/settings", h.UpdateSettings)
		admin.Get("/admin/export/quotes", h.ExportQuotes)
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.service.GetSystemStatus(r.Context()))
}

func (h *Handler) BackupInfo(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.service.GetBackupInfo(r.Context()))
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, total := h.service.GetLogs(r.Context(), level, limit)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
	})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.service.GetSettings(r.Context()))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingToken)
		return
	}

	var settings Settings
	if err := h.DecodeJSON(r, &settings); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	updated := h.service.UpdateSettings(r.Context(), actor.ID, settings)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "settings updated",
		"settings": updated,
	})
}

// ExportQuotes streams all live quotes as JSON or CSV, optionally limited
// to a creation date range.
func (h *Handler) ExportQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var startDate, endDate *time.Time
	if t, ok := parseDate(q.Get("startDate")); ok {
		startDate = &t
	}
	if t, ok := parseDate(q.Get("endDate")); ok {
		endDate = &t
	}

	rows, err := h.service.ExportQuotes(r.Context(), startDate, endDate)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if q.Get("format") == "csv" {
		h.writeCSV(w, rows)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exportDate":   time.Now(),
		"totalRecords": len(rows),
		"data":         rows,
	})
}

func (h *Handler) writeCSV(w http.ResponseWriter, rows []ExportRow) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=quotes.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	record := []string{"quoteNumber", "customerName", "salesName", "totalAmount", "status", "quoteDate", "validUntil"}
	if err := writer.Write(record); err != nil {
		h.Logger.Error("failed to write export header", "error", err)
		return
	}
	for _, row := range rows {
		record = []string{
			row.QuoteNumber,
			row.CustomerName,
			row.SalesName,
			strconv.FormatInt(row.TotalAmount, 10),
			row.Status,
			row.QuoteDate.Format(time.RFC3339),
			row.ValidUntil.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			h.Logger.Error("failed to write export row", "error", err)
			return
		}
	}
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
