package handlers

import (
	"net/http"
	"strings"

	"github.com/username/investrack/backend/src/security/validation"
	"github.com/username/investrack/backend/src/services"
	"github.com/username/investrack/backend/src/utils"
)

type NameHandler struct {
	nameService services.NameService
}

func NewNameHandler(nameService services.NameService) *NameHandler {
	return &NameHandler{nameService: nameService}
}

// HandleGetStockName resolves a display name for a ticker. The response is
// always 200 with a name field; unresolvable codes come back bare.
func (h *NameHandler) HandleGetStockName(w http.ResponseWriter, r *http.Request) {
	market := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("market")))
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code")))

	if err := validation.ValidateMarket(market); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStockCode(code); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := h.nameService.StockDisplayName(r.Context(), market, code)
	writeJSON(w, http.StatusOK, map[string]string{"market": market, "code": code, "name": name})
}
