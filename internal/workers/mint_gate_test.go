package workers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

const tick = 10 * time.Millisecond

type fakeDepositFetcher struct {
	mu    sync.Mutex
	view  entities.DepositView
	err   error
	calls atomic.Int64
}

func (f *fakeDepositFetcher) Get(context.Context, string) (entities.DepositView, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view, f.err
}

func (f *fakeDepositFetcher) set(view entities.DepositView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = view
}

type fakeKYCFetcher struct {
	mu    sync.Mutex
	rec   entities.KYCRecord
	calls atomic.Int64
}

func (f *fakeKYCFetcher) GetStatus(context.Context, string) (entities.KYCRecord, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec, nil
}

func (f *fakeKYCFetcher) set(status entities.KYCStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec.Status = status
}

func newGateFixture(deposits DepositFetcher, kyc KYCFetcher) *MintGate {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMintGate(logger, deposits, kyc, nil, tick, tick)
}

func pendingView() entities.DepositView {
	return entities.DepositView{
		Deposit: entities.Deposit{
			ID:     "dep_1",
			Status: entities.DepositStatusPending,
		},
		NextAction: entities.NextActionWaitForBank,
	}
}

func confirmedView() entities.DepositView {
	return entities.DepositView{
		Deposit: entities.Deposit{
			ID:          "dep_1",
			Status:      entities.DepositStatusConfirmed,
			ReadyToMint: true,
		},
		NextAction: entities.NextActionMintAvailable,
	}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, time.Second, time.Millisecond, msg)
}

func TestMintEnabledRequiresBothConditions(t *testing.T) {
	deposits := &fakeDepositFetcher{view: pendingView()}
	kyc := &fakeKYCFetcher{rec: entities.KYCRecord{Status: entities.KYCStatusPending}}
	gate := newGateFixture(deposits, kyc)
	defer gate.Stop()

	ctx := context.Background()
	gate.TrackIdentity(ctx, "0x1111111111111111111111111111111111111111")
	gate.StartPolling(ctx, "dep_1", nil)

	eventually(t, func() bool { return deposits.calls.Load() > 0 && kyc.calls.Load() > 0 },
		"both pollers should fetch")
	require.False(t, gate.MintEnabled(), "neither condition holds yet")

	// Deposit becomes ready; still gated on KYC.
	deposits.set(confirmedView())
	eventually(t, func() bool { return gate.Snapshot().ReadyToMint }, "deposit readiness should propagate")
	require.False(t, gate.MintEnabled(), "kyc approval is independently necessary")

	kyc.set(entities.KYCStatusApproved)
	eventually(t, func() bool { return gate.MintEnabled() }, "both conditions should enable minting")

	// Flipping KYC back disables minting without touching the deposit.
	kyc.set(entities.KYCStatusRejected)
	eventually(t, func() bool { return !gate.MintEnabled() }, "rejection should close the gate")
	require.True(t, gate.Snapshot().ReadyToMint, "deposit snapshot is untouched")
}

func TestDepositPollingStopsOnReady(t *testing.T) {
	deposits := &fakeDepositFetcher{view: confirmedView()}
	kyc := &fakeKYCFetcher{}
	gate := newGateFixture(deposits, kyc)
	defer gate.Stop()

	var updates atomic.Int64
	gate.StartPolling(context.Background(), "dep_1", func(entities.DepositView) {
		updates.Add(1)
	})

	eventually(t, func() bool { return !gate.Snapshot().DepositPolling }, "poller should stop on readyToMint")
	require.EqualValues(t, 1, updates.Load(), "terminal fetch still invokes the callback")

	calls := deposits.calls.Load()
	time.Sleep(5 * tick)
	require.Equal(t, calls, deposits.calls.Load(), "no fetches after stopping")
}

func TestDepositPollingFailsFast(t *testing.T) {
	deposits := &fakeDepositFetcher{err: errors.New("boom")}
	kyc := &fakeKYCFetcher{}
	gate := newGateFixture(deposits, kyc)
	defer gate.Stop()

	gate.StartPolling(context.Background(), "dep_1", nil)

	eventually(t, func() bool { return !gate.Snapshot().DepositPolling }, "first error ends the session")
	require.EqualValues(t, 1, deposits.calls.Load(), "no retry after a fetch error")
}

func TestInvisibleTicksAreDropped(t *testing.T) {
	deposits := &fakeDepositFetcher{view: pendingView()}
	kyc := &fakeKYCFetcher{}
	gate := newGateFixture(deposits, kyc)
	defer gate.Stop()

	gate.SetVisible(false)
	gate.StartPolling(context.Background(), "dep_1", nil)

	time.Sleep(10 * tick)
	require.EqualValues(t, 0, deposits.calls.Load(), "invisible ticks must not fetch")

	gate.SetVisible(true)
	eventually(t, func() bool { return deposits.calls.Load() > 0 }, "fetching resumes with visibility")
}

func TestStopPollingIsIdempotent(t *testing.T) {
	deposits := &fakeDepositFetcher{view: pendingView()}
	kyc := &fakeKYCFetcher{}
	gate := newGateFixture(deposits, kyc)

	gate.StartPolling(context.Background(), "dep_1", nil)
	gate.StopPolling()
	gate.StopPolling()
	gate.Stop()

	require.False(t, gate.Snapshot().DepositPolling)
}
