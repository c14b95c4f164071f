package handlers

import (
	"context"
	"net/http"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

type KYCService interface {
	GetStatus(ctx context.Context, address string) (entities.KYCRecord, error)
	ListRecords(ctx context.Context) ([]entities.KYCRecord, error)
	Initialize(ctx context.Context, address, notes string) (entities.KYCRecord, bool, error)
	SetStatus(ctx context.Context, address, status, notes string) (entities.KYCRecord, entities.KYCRecord, error)
	Remove(ctx context.Context, address string) (bool, error)
}

// GetKYC returns a single record when ?address= is given (synthesizing a
// pending view for unknown addresses), otherwise lists all persisted records.
func (h *HTTPHandler) GetKYC(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	address := r.URL.Query().Get("address")
	if address == "" {
		records, err := h.kycService.ListRecords(r.Context())
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		h.writeData(w, http.StatusOK, map[string]any{"count": len(records), "records": records})
		return
	}

	rec, err := h.kycService.GetStatus(r.Context(), address)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, rec)
}

// InitializeKYC creates a pending record, answering 201 for a new record and
// 200 when one already existed.
func (h *HTTPHandler) InitializeKYC(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	rec, created, err := h.kycService.Initialize(r.Context(), body.Address, body.Notes)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeData(w, status, rec)
}

// SetKYCStatus overwrites the status and returns both the previous and new
// record for audit display.
func (h *HTTPHandler) SetKYCStatus(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		Address string `json:"address"`
		Status  string `json:"status"`
		Notes   string `json:"notes"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	previous, current, err := h.kycService.SetStatus(r.Context(), body.Address, body.Status, body.Notes)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{"previous": previous, "current": current})
}

// RemoveKYC deletes the record if present.
func (h *HTTPHandler) RemoveKYC(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		Address string `json:"address"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	deleted, err := h.kycService.Remove(r.Context(), body.Address)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	addr, _ := entities.NormalizeAddress(body.Address)
	h.writeData(w, http.StatusOK, map[string]any{"deleted": deleted, "address": addr})
}
