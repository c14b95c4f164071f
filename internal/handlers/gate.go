package handlers

import (
	"context"
	"net/http"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases"
	"github.com/winr/fiat-onramp-app/backend/internal/workers"
)

// Gate is the mint gate surface the API exposes.
type Gate interface {
	TrackIdentity(ctx context.Context, address string)
	StartPolling(ctx context.Context, depositID string, onUpdate func(entities.DepositView))
	StopPolling()
	SetVisible(visible bool)
	Snapshot() workers.GateStatus
}

// GateTrack activates an identity (starting the continuous KYC poller) and
// optionally begins polling a deposit. Pollers run on the gate's own
// context, not the request's.
func (h *HTTPHandler) GateTrack(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address   string `json:"address"`
		DepositID string `json:"depositId"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	addr, ok := entities.NormalizeAddress(body.Address)
	if !ok {
		h.respondServiceError(w, usecases.ErrInvalidAddress)
		return
	}

	h.gate.TrackIdentity(h.gateCtx, addr)
	if body.DepositID != "" {
		h.gate.StartPolling(h.gateCtx, body.DepositID, nil)
	}
	h.writeData(w, http.StatusOK, h.gate.Snapshot())
}

// GateStop cancels the deposit poller. Idempotent.
func (h *HTTPHandler) GateStop(w http.ResponseWriter, _ *http.Request) {
	h.gate.StopPolling()
	h.writeData(w, http.StatusOK, h.gate.Snapshot())
}

// GateStatus reports the current composition result.
func (h *HTTPHandler) GateStatus(w http.ResponseWriter, _ *http.Request) {
	noStore(w)
	h.writeData(w, http.StatusOK, h.gate.Snapshot())
}

// GateVisibility toggles poll-tick dropping while the consuming surface is
// hidden.
func (h *HTTPHandler) GateVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Visible bool `json:"visible"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	h.gate.SetVisible(body.Visible)
	h.writeData(w, http.StatusOK, h.gate.Snapshot())
}
