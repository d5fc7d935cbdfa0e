package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/rental-service/internal/service"
	"github.com/go-chi/chi/v5"
)

// RentalHandler exposes the rental registry over HTTP.
type RentalHandler struct {
	registry service.RegistryService
	rentals  service.RentalService
	escrow   service.EscrowService
	receipts service.ReceiptService
	logger   logger.Logger
}

func NewRentalHandler(
	registry service.RegistryService,
	rentals service.RentalService,
	escrow service.EscrowService,
	receipts service.ReceiptService,
	log logger.Logger,
) *RentalHandler {
	return &RentalHandler{
		registry: registry,
		rentals:  rentals,
		escrow:   escrow,
		receipts: receipts,
		logger:   log,
	}
}

type createListingRequest struct {
	Title      string `json:"title"`
	DailyPrice int64  `json:"daily_price"`
	Deposit    int64  `json:"deposit"`
}

type rentRequest struct {
	Amount int64 `json:"amount"`
}

func (h *RentalHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("HandleCreateListing: failed to decode request", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.registry.CreateListing(r.Context(), caller, req.Title, req.DailyPrice, req.Deposit)
	if err != nil {
		h.writeDomainError(w, "HandleCreateListing", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, listing)
}

func (h *RentalHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.registry.ListAll(r.Context())
	if err != nil {
		h.writeDomainError(w, "HandleListListings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

func (h *RentalHandler) HandleGetCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.GetCount(r.Context())
	if err != nil {
		h.writeDomainError(w, "HandleGetCount", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *RentalHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	listing, err := h.registry.GetListing(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "HandleGetListing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *RentalHandler) HandleGetRental(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	rental, err := h.rentals.GetRental(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "HandleGetRental", err)
		return
	}
	h.writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) HandleRent(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	var req rentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("HandleRent: failed to decode request", "error", err.Error())
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.rentals.Rent(r.Context(), caller, id, req.Amount)
	if err != nil {
		h.writeDomainError(w, "HandleRent", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *RentalHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	settlement, err := h.rentals.Return(r.Context(), caller, id)
	if err != nil {
		h.writeDomainError(w, "HandleReturn", err)
		return
	}
	h.writeJSON(w, http.StatusOK, settlement)
}

func (h *RentalHandler) HandleMyRentals(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	listings, err := h.rentals.ListRentedBy(r.Context(), caller)
	if err != nil {
		h.writeDomainError(w, "HandleMyRentals", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

func (h *RentalHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	var after, limit int64
	if v := r.URL.Query().Get("after"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'after' parameter", http.StatusBadRequest)
			return
		}
		after = parsed
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.rentals.ListEvents(r.Context(), after, limit)
	if err != nil {
		h.writeDomainError(w, "HandleListEvents", err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *RentalHandler) HandleEscrowBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.escrow.CustodyBalance(r.Context())
	if err != nil {
		h.writeDomainError(w, "HandleEscrowBalance", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func (h *RentalHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		http.Error(w, "Account id is required", http.StatusBadRequest)
		return
	}
	// Callers may only inspect their own account.
	if accountID != caller {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	account, err := h.escrow.GetAccount(r.Context(), accountID)
	if err != nil {
		h.writeDomainError(w, "HandleGetAccount", err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

func (h *RentalHandler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}

	data, filename, err := h.receipts.GenerateSettlementReceipt(r.Context(), id, caller)
	if err != nil {
		h.writeDomainError(w, "HandleReceipt", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("HandleReceipt: failed to write response", "error", err.Error())
	}
}

func (h *RentalHandler) listingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *RentalHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err.Error())
	}
}

func (h *RentalHandler) writeDomainError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientPayment):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrAlreadyRented), errors.Is(err, domain.ErrNotRented):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(op+": request failed", "error", err.Error())
		http.Error(w, "Internal server error", status)
		return
	}

	h.logger.Warn(op+": request rejected", "error", err.Error())
	http.Error(w, err.Error(), status)
}
