package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases/repository"
)

func TestDepositStreamPushesUntilConfirmed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	window := 50 * time.Millisecond

	repo := repository.NewDepositsRepository(logger, nil, window, nil)
	depositService := usecases.NewDepositService(logger, repo, nil, window, nil)

	wsHandler := NewWebSocketHandler(logger, depositService, NewWebSocketManager(logger), 10*time.Millisecond)
	router := mux.NewRouter()
	wsHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	defer server.Close()

	created, err := depositService.Create(context.Background(), ports.CreateDepositParams{
		Address: testAddress,
		Amount:  "500",
	})
	require.NoError(t, err)

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/ws/deposits/" + created.ID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var last entities.DepositView
	for {
		var view entities.DepositView
		if readErr := conn.ReadJSON(&view); readErr != nil {
			break // server closes the stream after the terminal snapshot
		}
		last = view
	}

	require.Equal(t, entities.DepositStatusConfirmed, last.Status)
	require.True(t, last.ReadyToMint)
}

func TestDepositStreamRejectsUnknownDeposit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewDepositsRepository(logger, nil, time.Second, nil)
	depositService := usecases.NewDepositService(logger, repo, nil, time.Second, nil)

	wsHandler := NewWebSocketHandler(logger, depositService, NewWebSocketManager(logger), 10*time.Millisecond)
	router := mux.NewRouter()
	wsHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws/deposits/dep_unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
