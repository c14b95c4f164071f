package entities

import "time"

// SwapQuote is a fabricated Uniswap-v4-shaped quote. Nothing here touches a
// chain; the swap flow exists so the front end has something to render.
type SwapQuote struct {
	QuoteID        string    `json:"quoteId"`
	TokenIn        string    `json:"tokenIn"`
	TokenOut       string    `json:"tokenOut"`
	AmountIn       string    `json:"amountIn"`
	AmountOut      string    `json:"amountOut"`
	FeeTier        int       `json:"feeTier"`
	PriceImpactBps int       `json:"priceImpactBps"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// SwapExecution echoes the quote with a fabricated transaction hash.
type SwapExecution struct {
	Quote  SwapQuote `json:"quote"`
	TxHash string    `json:"txHash"`
	Status string    `json:"status"`
}
