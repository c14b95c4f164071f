package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/metrics"
)

// DepositFetcher is the slice of the deposit ledger the gate needs.
type DepositFetcher interface {
	Get(ctx context.Context, id string) (entities.DepositView, error)
}

// KYCFetcher is the slice of the KYC registry the gate needs.
type KYCFetcher interface {
	GetStatus(ctx context.Context, address string) (entities.KYCRecord, error)
}

// GateStatus is the externally visible state of the mint gate.
type GateStatus struct {
	Identity       string `json:"identity,omitempty"`
	DepositID      string `json:"depositId,omitempty"`
	KYCApproved    bool   `json:"kycApproved"`
	ReadyToMint    bool   `json:"readyToMint"`
	MintEnabled    bool   `json:"mintEnabled"`
	DepositPolling bool   `json:"depositPolling"`
	KYCPolling     bool   `json:"kycPolling"`
	Visible        bool   `json:"visible"`
}

// MintGate composes KYC approval and deposit readiness into a single
// enablement boolean, driving two independent pollers. Neither registry
// knows about the other; the AND happens only here. The gate owns no state
// beyond the last-observed snapshots.
type MintGate struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	deposits DepositFetcher
	kyc      KYCFetcher

	depositInterval time.Duration
	kycInterval     time.Duration

	mu             sync.Mutex
	visible        bool
	identity       string
	depositID      string
	kycApproved    bool
	lastDeposit    *entities.DepositView
	depositPolling bool
	kycPolling     bool
	depositCancel  context.CancelFunc
	kycCancel      context.CancelFunc
}

// NewMintGate creates a gate polling the given services. Zero intervals fall
// back to the demo defaults (2500 ms deposits, 5000 ms KYC).
func NewMintGate(logger *slog.Logger, deposits DepositFetcher, kyc KYCFetcher, m *metrics.Metrics, depositInterval, kycInterval time.Duration) *MintGate {
	if depositInterval <= 0 {
		depositInterval = ports.DefaultDepositPollInterval
	}
	if kycInterval <= 0 {
		kycInterval = ports.DefaultKYCPollInterval
	}
	return &MintGate{
		logger:          logger,
		metrics:         m,
		deposits:        deposits,
		kyc:             kyc,
		depositInterval: depositInterval,
		kycInterval:     kycInterval,
		visible:         true,
	}
}

// TrackIdentity switches the gate to a new active identity and (re)starts
// the continuous KYC poller. The KYC side never auto-stops; it runs until
// the identity changes or the gate is stopped.
func (g *MintGate) TrackIdentity(ctx context.Context, address string) {
	g.mu.Lock()
	if g.kycCancel != nil {
		g.kycCancel()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	g.kycCancel = cancel
	g.identity = address
	g.kycApproved = false
	g.kycPolling = true
	g.mu.Unlock()

	g.logger.Info("mint gate tracking identity", "address", address, "interval", g.kycInterval.String())
	go g.pollKYC(pollCtx, address)
}

// StartPolling begins the recurring deposit fetch, replacing any poller
// already running. onUpdate fires on every successful fetch. Polling stops
// on readyToMint, failed status, or the first fetch error; no retry.
func (g *MintGate) StartPolling(ctx context.Context, depositID string, onUpdate func(entities.DepositView)) {
	g.mu.Lock()
	if g.depositCancel != nil {
		g.depositCancel()
	}
	pollCtx, cancel := context.WithCancel(ctx)
	g.depositCancel = cancel
	g.depositID = depositID
	g.lastDeposit = nil
	g.depositPolling = true
	g.mu.Unlock()

	g.logger.Info("mint gate polling deposit", "deposit_id", depositID, "interval", g.depositInterval.String())
	go g.pollDeposit(pollCtx, depositID, onUpdate)
}

// StopPolling cancels the deposit poller. Idempotent.
func (g *MintGate) StopPolling() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.depositCancel != nil {
		g.depositCancel()
		g.depositCancel = nil
	}
	g.depositPolling = false
}

// Stop cancels both pollers. Used on shutdown.
func (g *MintGate) Stop() {
	g.StopPolling()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.kycCancel != nil {
		g.kycCancel()
		g.kycCancel = nil
	}
	g.kycPolling = false
}

// SetVisible toggles visibility. While invisible, poll ticks are dropped
// entirely; the cadence is unaffected and skipped ticks are not queued.
func (g *MintGate) SetVisible(visible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = visible
}

// MintEnabled reports kycApproved AND readyToMint. Both conditions are
// independently necessary.
func (g *MintGate) MintEnabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.kycApproved && g.lastDeposit != nil && g.lastDeposit.ReadyToMint
}

// Snapshot returns the current gate state.
func (g *MintGate) Snapshot() GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	readyToMint := g.lastDeposit != nil && g.lastDeposit.ReadyToMint
	return GateStatus{
		Identity:       g.identity,
		DepositID:      g.depositID,
		KYCApproved:    g.kycApproved,
		ReadyToMint:    readyToMint,
		MintEnabled:    g.kycApproved && readyToMint,
		DepositPolling: g.depositPolling,
		KYCPolling:     g.kycPolling,
		Visible:        g.visible,
	}
}

func (g *MintGate) pollDeposit(ctx context.Context, depositID string, onUpdate func(entities.DepositView)) {
	ticker := time.NewTicker(g.depositInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !g.isVisible() {
				g.metrics.IncGatePollTick("deposit", "skipped")
				continue
			}

			view, err := g.deposits.Get(ctx, depositID)
			if err != nil {
				// Fail-fast: any fetch error ends the polling session.
				g.metrics.IncGatePollTick("deposit", "error")
				g.logger.Error("deposit poll failed, stopping", "error", err, "deposit_id", depositID)
				g.finishDepositPolling()
				return
			}

			g.setLastDeposit(view)
			if onUpdate != nil {
				onUpdate(view)
			}

			if view.ReadyToMint || view.Status == entities.DepositStatusFailed {
				g.metrics.IncGatePollTick("deposit", "stopped")
				g.logger.Info("deposit polling finished", "deposit_id", depositID, "status", view.Status, "ready_to_mint", view.ReadyToMint)
				g.finishDepositPolling()
				return
			}
			g.metrics.IncGatePollTick("deposit", "fetched")
		}
	}
}

func (g *MintGate) pollKYC(ctx context.Context, address string) {
	ticker := time.NewTicker(g.kycInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !g.isVisible() {
				g.metrics.IncGatePollTick("kyc", "skipped")
				continue
			}

			rec, err := g.kyc.GetStatus(ctx, address)
			if err != nil {
				g.metrics.IncGatePollTick("kyc", "error")
				g.logger.Error("kyc poll failed, stopping", "error", err, "address", address)
				g.mu.Lock()
				g.kycPolling = false
				g.mu.Unlock()
				return
			}

			g.mu.Lock()
			g.kycApproved = rec.Status == entities.KYCStatusApproved
			g.mu.Unlock()
			g.metrics.IncGatePollTick("kyc", "fetched")
		}
	}
}

func (g *MintGate) isVisible() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.visible
}

func (g *MintGate) setLastDeposit(view entities.DepositView) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastDeposit = &view
}

func (g *MintGate) finishDepositPolling() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.depositPolling = false
}
