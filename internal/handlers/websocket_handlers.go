package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases"
)

// Manager wraps the websocket upgrader.
type Manager struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (m *Manager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return m.upgrader.Upgrade(w, r, nil)
}

// WebSocketHandler streams deposit snapshots to subscribed clients. It is
// the push variant of the polling contract: snapshots flow until the
// deposit reaches a terminal state, then the stream closes.
type WebSocketHandler struct {
	logger           *slog.Logger
	depositService   DepositService
	websocketManager *Manager
	pushInterval     time.Duration
}

func NewWebSocketHandler(
	logger *slog.Logger,
	depositService DepositService,
	websocketManager *Manager,
	pushInterval time.Duration,
) *WebSocketHandler {
	return &WebSocketHandler{
		logger:           logger,
		depositService:   depositService,
		websocketManager: websocketManager,
		pushInterval:     pushInterval,
	}
}

func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/deposits/{id}", h.HandleConnection)
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	// Reject unknown deposits before upgrading.
	view, err := h.depositService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecases.ErrDepositNotFound) {
			http.Error(w, "Deposit not found", http.StatusNotFound)
		} else {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	conn, err := h.websocketManager.Upgrade(w, r)
	if err != nil {
		h.logger.Error("error upgrading connection", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Info("new deposit stream", "deposit_id", id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	if err = conn.WriteJSON(view); err != nil {
		h.logger.Error("error writing deposit snapshot", "error", err, "deposit_id", id)
		return
	}
	if streamFinished(view) {
		return
	}

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Info("deposit stream closed by client", "deposit_id", id)
			return
		case <-ticker.C:
			view, err = h.depositService.Get(r.Context(), id)
			if err != nil {
				h.logger.Error("deposit stream fetch failed", "error", err, "deposit_id", id)
				return
			}
			if err = conn.WriteJSON(view); err != nil {
				h.logger.Error("error writing deposit snapshot", "error", err, "deposit_id", id)
				return
			}
			if streamFinished(view) {
				h.logger.Info("deposit stream finished", "deposit_id", id, "status", view.Status)
				return
			}
		}
	}
}

func streamFinished(view entities.DepositView) bool {
	return view.ReadyToMint || view.Status == entities.DepositStatusFailed
}
