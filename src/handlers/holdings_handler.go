package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/investrack/backend/src/models"
	"github.com/username/investrack/backend/src/services"
	"github.com/username/investrack/backend/src/utils"
)

type HoldingsHandler struct {
	recordService services.RecordService
}

func NewHoldingsHandler(recordService services.RecordService) *HoldingsHandler {
	return &HoldingsHandler{recordService: recordService}
}

// HandleGetHoldings returns the open holdings for the asset class in the
// route (stocks, funds or cryptos).
func (h *HoldingsHandler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.recordService.GetHoldings(chi.URLParam(r, "class"))
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}

// HandleGetProfitLoss evaluates one holding at a caller-supplied price.
func (h *HoldingsHandler) HandleGetProfitLoss(w http.ResponseWriter, r *http.Request) {
	instrumentKey := r.URL.Query().Get("key")
	if instrumentKey == "" {
		utils.SendJSONError(w, "key query parameter is required", http.StatusBadRequest)
		return
	}
	price, err := strconv.ParseFloat(r.URL.Query().Get("price"), 64)
	if err != nil {
		utils.SendJSONError(w, "price query parameter must be a number", http.StatusBadRequest)
		return
	}

	result, err := h.recordService.GetProfitLoss(chi.URLParam(r, "class"), instrumentKey, price)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
