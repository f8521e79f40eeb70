package audit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/auditoria", listAuditHandler(svc))
}

type entryResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Source      Source    `json:"source"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Outcome     Outcome   `json:"outcome"`
	Code        string    `json:"code,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Model       string    `json:"model,omitempty"`
	AnalysisID  string    `json:"analysis_id,omitempty"`
	CalendarLen int       `json:"calendar_days"`
	HistoryLen  int       `json:"history_rows"`
	DurationMS  int64     `json:"duration_ms"`
}

// listAuditHandler godoc
// @Summary      Listar auditoría de extracciones
// @Description  Últimas peticiones de extracción (metadatos operativos, sin datos clínicos)
// @Tags         auditoria
// @Produce      json
// @Param        limit  query     int  false  "Máximo de entradas (default 50, máx 500)"
// @Success      200    {array}   audit.entryResponse
// @Failure      400    {string}  string  "invalid limit"
// @Failure      500    {string}  string  "internal error"
// @Router       /auditoria [get]
func listAuditHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		CreatedAt:   e.CreatedAt,
		Source:      e.Source,
		ContentType: e.ContentType,
		SizeBytes:   e.SizeBytes,
		Outcome:     e.Outcome,
		Code:        e.Code,
		Confidence:  e.Confidence,
		Model:       e.Model,
		AnalysisID:  e.AnalysisID,
		CalendarLen: e.CalendarLen,
		HistoryLen:  e.HistoryLen,
		DurationMS:  e.DurationMS,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
