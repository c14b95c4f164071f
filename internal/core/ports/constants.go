package ports

import "time"

const (
	DefaultConfirmationWindow  = 8000 * time.Millisecond // Simulated bank settlement delay
	DefaultDepositPollInterval = 2500 * time.Millisecond
	DefaultKYCPollInterval     = 5000 * time.Millisecond

	SwapQuoteTTL = 30 * time.Second // Fabricated quotes expire like real ones would
)
