package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/NaiduBugata/MahoAccom/internal/service"
)

// ExportHandler serves point-in-time xlsx snapshots.
type ExportHandler struct {
	svc *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeWorkbook(w http.ResponseWriter, prefix string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_%d.xlsx", prefix, time.Now().Unix()))
	_, _ = w.Write(data)
}

// Rooms handles GET /api/export/rooms (admin only)
func (h *ExportHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Rooms(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeWorkbook(w, "Rooms", data)
}

// Occupancy handles GET /api/export/occupancy (admin only)
func (h *ExportHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Occupancy(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeWorkbook(w, "Room_Occupancy", data)
}

// Participants handles GET /api/export/participants with optional
// gender, payment, and allocation query filters.
func (h *ExportHandler) Participants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data, err := h.svc.Participants(r.Context(), q.Get("gender"), q.Get("payment"), q.Get("allocation"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeWorkbook(w, "Participants", data)
}
