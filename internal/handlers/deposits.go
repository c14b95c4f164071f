package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

type DepositService interface {
	Create(ctx context.Context, params ports.CreateDepositParams) (entities.DepositView, error)
	Get(ctx context.Context, id string) (entities.DepositView, error)
	ListByAddress(ctx context.Context, address string) ([]entities.DepositView, error)
	ListAll(ctx context.Context) ([]entities.DepositView, error)
	Update(ctx context.Context, id string, params ports.UpdateDepositParams) (entities.DepositView, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// amountValue accepts either a JSON string or a JSON number, preserving the
// literal digits as submitted so the stored amount round-trips exactly.
type amountValue string

func (a *amountValue) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountValue(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	*a = amountValue(b)
	return nil
}

// GetDeposits dispatches on query shape: ?id= fetches one, ?address= lists
// by owner, no query lists the whole ledger. Auto-advance applies to every
// record read.
func (h *HTTPHandler) GetDeposits(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	if id := r.URL.Query().Get("id"); id != "" {
		view, err := h.depositService.Get(r.Context(), id)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		h.writeData(w, http.StatusOK, view)
		return
	}

	if address := r.URL.Query().Get("address"); address != "" {
		views, err := h.depositService.ListByAddress(r.Context(), address)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		h.writeData(w, http.StatusOK, map[string]any{"count": len(views), "deposits": views})
		return
	}

	views, err := h.depositService.ListAll(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{"count": len(views), "deposits": views})
}

// CreateDeposit submits a new deposit intent.
func (h *HTTPHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		Address  string      `json:"address"`
		Amount   amountValue `json:"amount"`
		Currency string      `json:"currency"`
		Notes    string      `json:"notes"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	view, err := h.depositService.Create(r.Context(), ports.CreateDepositParams{
		Address:  body.Address,
		Amount:   string(body.Amount),
		Currency: body.Currency,
		Notes:    body.Notes,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, view)
}

// UpdateDeposit applies the administrative partial update.
func (h *HTTPHandler) UpdateDeposit(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		ID            string   `json:"id"`
		Status        *string  `json:"status"`
		ReadyToMint   *bool    `json:"readyToMint"`
		Notes         *string  `json:"notes"`
		Confirmations *float64 `json:"confirmations"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}
	if body.ID == "" {
		h.writeError(w, http.StatusUnprocessableEntity, "missing deposit id")
		return
	}

	view, err := h.depositService.Update(r.Context(), body.ID, ports.UpdateDepositParams{
		Status:        body.Status,
		ReadyToMint:   body.ReadyToMint,
		Notes:         body.Notes,
		Confirmations: body.Confirmations,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, view)
}

// DeleteDeposit removes a deposit; deleting an unknown id is not an error.
func (h *HTTPHandler) DeleteDeposit(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var body struct {
		ID string `json:"id"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	deleted, err := h.depositService.Delete(r.Context(), body.ID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{"deleted": deleted, "id": body.ID})
}
