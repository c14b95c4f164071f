package usecases

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

// SwapService fabricates Uniswap-v4-shaped quotes and executions so the
// front end has a complete swap flow to render. No chain is ever touched.
type SwapService struct {
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	quotes map[string]entities.SwapQuote
}

// NewSwapService creates the stubbed swap service. The clock is injectable
// for tests (nil means time.Now).
func NewSwapService(logger *slog.Logger, now func() time.Time) *SwapService {
	if now == nil {
		now = time.Now
	}
	return &SwapService{
		logger: logger,
		now:    now,
		quotes: make(map[string]entities.SwapQuote),
	}
}

// Quote fabricates a quote for the pair. The rate is derived from the token
// addresses so repeated quotes for the same pair look consistent.
func (s *SwapService) Quote(_ context.Context, tokenIn, tokenOut, amountIn string) (entities.SwapQuote, error) {
	in, ok := entities.NormalizeAddress(tokenIn)
	if !ok {
		return entities.SwapQuote{}, ErrInvalidAddress
	}
	out, ok := entities.NormalizeAddress(tokenOut)
	if !ok {
		return entities.SwapQuote{}, ErrInvalidAddress
	}
	if !entities.ValidAmount(amountIn) {
		return entities.SwapQuote{}, ErrInvalidAmount
	}

	quote := entities.SwapQuote{
		QuoteID:        "q_" + uuid.NewString(),
		TokenIn:        in,
		TokenOut:       out,
		AmountIn:       amountIn,
		AmountOut:      fabricateAmountOut(in, out, amountIn),
		FeeTier:        3000, // 0.30% pool, the common default
		PriceImpactBps: pairSeed(in, out)%40 + 1,
		ExpiresAt:      s.now().Add(ports.SwapQuoteTTL),
	}

	s.mu.Lock()
	s.quotes[quote.QuoteID] = quote
	s.mu.Unlock()

	s.logger.Info("swap quote issued", "quote_id", quote.QuoteID, "token_in", in, "token_out", out, "amount_in", amountIn)
	return quote, nil
}

// Execute fabricates an execution for a previously issued, unexpired quote.
func (s *SwapService) Execute(_ context.Context, quoteID string) (entities.SwapExecution, error) {
	s.mu.Lock()
	quote, ok := s.quotes[quoteID]
	if ok {
		delete(s.quotes, quoteID)
	}
	s.mu.Unlock()

	if !ok || s.now().After(quote.ExpiresAt) {
		return entities.SwapExecution{}, ErrQuoteNotFound
	}

	exec := entities.SwapExecution{
		Quote:  quote,
		TxHash: crypto.Keccak256Hash([]byte(quoteID)).Hex(),
		Status: "submitted",
	}

	s.logger.Info("swap executed (stub)", "quote_id", quoteID, "tx_hash", exec.TxHash)
	return exec, nil
}

// fabricateAmountOut multiplies amountIn by a pair-derived pseudo rate
// around 1.0 and renders it with 6 fractional digits.
func fabricateAmountOut(tokenIn, tokenOut, amountIn string) string {
	seed := pairSeed(tokenIn, tokenOut)
	rate := 0.95 + float64(seed%1000)/10000 // 0.95 .. 1.05

	amount, _, err := big.ParseFloat(amountIn, 10, 128, big.ToNearestEven)
	if err != nil {
		return amountIn
	}
	amount.Mul(amount, big.NewFloat(rate))
	return amount.Text('f', 6)
}

func pairSeed(tokenIn, tokenOut string) int {
	in := common.HexToAddress(tokenIn)
	out := common.HexToAddress(tokenOut)
	seed := binary.BigEndian.Uint32(in.Bytes()[:4]) ^ binary.BigEndian.Uint32(out.Bytes()[:4])
	return int(seed % 100000)
}
