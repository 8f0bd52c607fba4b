package handlers

import (
	"net/http"

	"github.com/username/investrack/backend/src/services"
)

type SummaryHandler struct {
	recordService services.RecordService
}

func NewSummaryHandler(recordService services.RecordService) *SummaryHandler {
	return &SummaryHandler{recordService: recordService}
}

// HandleGetSummary returns the invested totals per asset class.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.recordService.GetSummary()
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
