package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/investrack/backend/src/logger"
	"github.com/username/investrack/backend/src/models"
	"github.com/username/investrack/backend/src/security/validation"
	"github.com/username/investrack/backend/src/services"
	"github.com/username/investrack/backend/src/store"
	"github.com/username/investrack/backend/src/utils"
)

// maxImportBodyBytes bounds the snapshot import payload.
const maxImportBodyBytes = 10 << 20

type RecordHandler struct {
	recordService services.RecordService
	nameService   services.NameService
}

func NewRecordHandler(recordService services.RecordService, nameService services.NameService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		nameService:   nameService,
	}
}

// statusForServiceError maps service-layer sentinels onto HTTP statuses.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidationFailed),
		errors.Is(err, services.ErrInsufficientQuantity),
		errors.Is(err, services.ErrUnknownAssetClass):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrRecordNotFound),
		errors.Is(err, services.ErrHoldingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForServiceError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "internal server error", status)
		return
	}
	utils.SendJSONError(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// HandleGetAllRecords returns the full snapshot with an ETag so unchanged
// data collapses to a 304.
func (h *RecordHandler) HandleGetAllRecords(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.recordService.GetAllRecords()
	if err != nil {
		sendServiceError(w, r, err)
		return
	}

	etag, err := utils.GenerateETag(snapshot)
	if err == nil {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *RecordHandler) HandleAddStock(w http.ResponseWriter, r *http.Request) {
	var input services.StockRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	// Resolve a display name when the client sent none.
	if input.Name == "" {
		input.Name = h.nameService.StockDisplayName(r.Context(), input.Market, input.Code)
	}

	record, err := h.recordService.AddStockRecord(input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) HandleAddFund(w http.ResponseWriter, r *http.Request) {
	var input services.FundRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	record, err := h.recordService.AddFundRecord(input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) HandleAddCrypto(w http.ResponseWriter, r *http.Request) {
	var input services.CryptoRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	record, err := h.recordService.AddCryptoRecord(input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) HandleAddProperty(w http.ResponseWriter, r *http.Request) {
	var input services.PropertyRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	record, err := h.recordService.AddPropertyRecord(input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) HandleAddPayment(w http.ResponseWriter, r *http.Request) {
	var input services.PaymentRecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	record, err := h.recordService.AddPaymentRecord(input)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// HandleDelete removes one record; the asset class comes from the route.
func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "invalid record id", http.StatusBadRequest)
		return
	}

	assetClass := chi.URLParam(r, "class")
	switch assetClass {
	case "stocks":
		err = h.recordService.DeleteStockRecord(id)
	case "funds":
		err = h.recordService.DeleteFundRecord(id)
	case "cryptos":
		err = h.recordService.DeleteCryptoRecord(id)
	case "properties":
		err = h.recordService.DeletePropertyRecord(id)
	case "payments":
		err = h.recordService.DeletePaymentRecord(id)
	default:
		utils.SendJSONError(w, fmt.Sprintf("unknown asset class %q", assetClass), http.StatusBadRequest)
		return
	}
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleExport streams the full snapshot as a downloadable JSON document.
func (h *RecordHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.recordService.GetAllRecords()
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="investrack-export.json"`)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(snapshot)
}

// HandleImport replaces all records with an uploaded snapshot.
func (h *RecordHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var snapshot models.Snapshot
	body := http.MaxBytesReader(w, r.Body, maxImportBodyBytes)
	if err := json.NewDecoder(body).Decode(&snapshot); err != nil {
		utils.SendJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := h.recordService.ImportSnapshot(snapshot); err != nil {
		sendServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
