package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/winr/fiat-onramp-app/backend/internal/usecases"
)

var (
	_ KYCService     = (*usecases.KYCService)(nil)
	_ DepositService = (*usecases.DepositService)(nil)
	_ SwapService    = (*usecases.SwapService)(nil)
)

// envelope is the uniform response shape of the JSON API.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type HTTPHandler struct {
	logger *slog.Logger

	// gateCtx outlives individual requests; gate pollers started from a
	// request must not die with it.
	gateCtx context.Context

	kycService     KYCService
	depositService DepositService
	swapService    SwapService
	chatClient     ChatClient
	gate           Gate
}

func NewHTTPHandler(
	logger *slog.Logger,
	gateCtx context.Context,
	kycService KYCService,
	depositService DepositService,
	swapService SwapService,
	chatClient ChatClient,
	gate Gate,
) *HTTPHandler {
	return &HTTPHandler{
		logger:         logger,
		gateCtx:        gateCtx,
		kycService:     kycService,
		depositService: depositService,
		swapService:    swapService,
		chatClient:     chatClient,
		gate:           gate,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	// KYC registry
	router.HandleFunc("/kyc", h.GetKYC).Methods("GET")
	router.HandleFunc("/kyc", h.InitializeKYC).Methods("POST")
	router.HandleFunc("/kyc", h.SetKYCStatus).Methods("PATCH")
	router.HandleFunc("/kyc", h.RemoveKYC).Methods("DELETE")

	// Deposit ledger
	router.HandleFunc("/deposits", h.GetDeposits).Methods("GET")
	router.HandleFunc("/deposits", h.CreateDeposit).Methods("POST")
	router.HandleFunc("/deposits", h.UpdateDeposit).Methods("PATCH")
	router.HandleFunc("/deposits", h.DeleteDeposit).Methods("DELETE")

	// Swap stub
	router.HandleFunc("/swap/quote", h.SwapQuote).Methods("GET")
	router.HandleFunc("/swap/execute", h.SwapExecute).Methods("POST")

	// Chat proxy
	router.HandleFunc("/chat", h.Chat).Methods("POST")

	// Mint gate
	router.HandleFunc("/gate/track", h.GateTrack).Methods("POST")
	router.HandleFunc("/gate/stop", h.GateStop).Methods("POST")
	router.HandleFunc("/gate/status", h.GateStatus).Methods("GET")
	router.HandleFunc("/gate/visibility", h.GateVisibility).Methods("POST")

	router.HandleFunc("/healthz", h.Healthz).Methods("GET")
}

func (h *HTTPHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeData writes a successful envelope.
func (h *HTTPHandler) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{OK: true, Data: data}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes a failure envelope with the given status.
func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{OK: false, Error: message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps domain errors to HTTP statuses per the error
// taxonomy: validation 422, lookups 404, everything else 500.
func (h *HTTPHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecases.ErrInvalidAddress),
		errors.Is(err, usecases.ErrInvalidAmount),
		errors.Is(err, usecases.ErrInvalidStatus):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, usecases.ErrDepositNotFound),
		errors.Is(err, usecases.ErrQuoteNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// noStore marks registry responses uncacheable; clients poll them.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

// decodeBody parses a JSON request body, surfacing MalformedRequest as 400.
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
