package handlers

import (
	"context"
	"net/http"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

type SwapService interface {
	Quote(ctx context.Context, tokenIn, tokenOut, amountIn string) (entities.SwapQuote, error)
	Execute(ctx context.Context, quoteID string) (entities.SwapExecution, error)
}

// SwapQuote fabricates a quote for the requested pair.
func (h *HTTPHandler) SwapQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tokenIn := q.Get("tokenIn")
	tokenOut := q.Get("tokenOut")
	amountIn := q.Get("amountIn")

	if tokenIn == "" || tokenOut == "" || amountIn == "" {
		h.writeError(w, http.StatusUnprocessableEntity, "missing required parameters: tokenIn, tokenOut, amountIn")
		return
	}

	quote, err := h.swapService.Quote(r.Context(), tokenIn, tokenOut, amountIn)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, quote)
}

// SwapExecute fabricates an execution for an issued quote.
func (h *HTTPHandler) SwapExecute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QuoteID string `json:"quoteId"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}

	exec, err := h.swapService.Execute(r.Context(), body.QuoteID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, exec)
}
