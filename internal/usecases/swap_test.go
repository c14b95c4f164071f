package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
)

const (
	tokenWINR = "0x1111111111111111111111111111111111111111"
	tokenUSDC = "0x2222222222222222222222222222222222222222"
)

func newSwapFixture(t *testing.T) (*SwapService, *testClock) {
	t.Helper()

	clock := newTestClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSwapService(logger, clock.Now), clock
}

func TestQuoteAndExecute(t *testing.T) {
	svc, _ := newSwapFixture(t)
	ctx := context.Background()

	quote, err := svc.Quote(ctx, tokenWINR, tokenUSDC, "100.50")
	require.NoError(t, err)
	require.NotEmpty(t, quote.QuoteID)
	require.Equal(t, tokenWINR, quote.TokenIn)
	require.Equal(t, tokenUSDC, quote.TokenOut)
	require.Equal(t, "100.50", quote.AmountIn)
	require.NotEmpty(t, quote.AmountOut)
	require.Equal(t, 3000, quote.FeeTier)
	require.Positive(t, quote.PriceImpactBps)

	exec, err := svc.Execute(ctx, quote.QuoteID)
	require.NoError(t, err)
	require.Equal(t, quote.QuoteID, exec.Quote.QuoteID)
	require.Len(t, exec.TxHash, 66, "fabricated hash is 0x plus 64 hex digits")
	require.Equal(t, "submitted", exec.Status)

	// Quotes are single-use.
	_, err = svc.Execute(ctx, quote.QuoteID)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestQuoteValidation(t *testing.T) {
	svc, _ := newSwapFixture(t)
	ctx := context.Background()

	_, err := svc.Quote(ctx, "bad", tokenUSDC, "1")
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = svc.Quote(ctx, tokenWINR, tokenUSDC, "-5")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestExpiredQuoteIsGone(t *testing.T) {
	svc, clock := newSwapFixture(t)
	ctx := context.Background()

	quote, err := svc.Quote(ctx, tokenWINR, tokenUSDC, "1")
	require.NoError(t, err)

	clock.Advance(ports.SwapQuoteTTL + time.Second)

	_, err = svc.Execute(ctx, quote.QuoteID)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestQuoteRateIsStablePerPair(t *testing.T) {
	svc, _ := newSwapFixture(t)
	ctx := context.Background()

	first, err := svc.Quote(ctx, tokenWINR, tokenUSDC, "100")
	require.NoError(t, err)
	second, err := svc.Quote(ctx, tokenWINR, tokenUSDC, "100")
	require.NoError(t, err)
	require.Equal(t, first.AmountOut, second.AmountOut, "same pair and amount quote the same")
}
