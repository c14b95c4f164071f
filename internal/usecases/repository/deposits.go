package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/maps"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/metrics"
)

// DepositsRepository is the process-lifetime deposit store. Reads carry a
// side effect: the auto-advance rule is applied to every record a read
// touches, while the store lock is held, so the read-and-conditionally-
// mutate sequence stays atomic under concurrent requests and the
// confirmations counter increments exactly once per record.
type DepositsRepository struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	deposits map[string]entities.Deposit
}

// NewDepositsRepository creates an empty deposit store with the given
// confirmation window. The clock is injectable for tests; pass nil for
// time.Now.
func NewDepositsRepository(logger *slog.Logger, m *metrics.Metrics, window time.Duration, now func() time.Time) *DepositsRepository {
	if now == nil {
		now = time.Now
	}
	return &DepositsRepository{
		logger:   logger,
		metrics:  m,
		window:   window,
		now:      now,
		deposits: make(map[string]entities.Deposit),
	}
}

// Insert stores a new deposit record.
func (r *DepositsRepository) Insert(_ context.Context, d entities.Deposit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deposits[d.ID] = d
	return nil
}

// Find retrieves a deposit by id with auto-advance applied. Returns nil
// without error when no record exists.
func (r *DepositsRepository) Find(_ context.Context, id string) (*entities.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.deposits[id]
	if !ok {
		return nil, nil
	}

	r.advanceLocked(&d)
	return &d, nil
}

// FindByAddress returns all deposits owned by the address, each with
// auto-advance applied.
func (r *DepositsRepository) FindByAddress(_ context.Context, address string) ([]entities.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entities.Deposit
	for _, d := range r.deposits {
		if d.Address != address {
			continue
		}
		r.advanceLocked(&d)
		out = append(out, d)
	}
	return out, nil
}

// FindAll returns every deposit with auto-advance applied.
func (r *DepositsRepository) FindAll(_ context.Context) ([]entities.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.deposits {
		r.advanceLocked(&d)
	}
	return maps.Values(r.deposits), nil
}

// Apply mutates the deposit under the store lock without triggering
// auto-advance; explicit administrative updates bypass the guard entirely.
// Returns nil when no record exists.
func (r *DepositsRepository) Apply(_ context.Context, id string, fn func(*entities.Deposit)) (*entities.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.deposits[id]
	if !ok {
		return nil, nil
	}

	fn(&d)
	r.deposits[id] = d
	return &d, nil
}

// Delete removes a deposit, reporting whether it existed.
func (r *DepositsRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.deposits[id]
	if ok {
		delete(r.deposits, id)
	}
	return ok, nil
}

// advanceLocked applies the auto-advance rule to d and persists the result.
// Callers must hold r.mu.
func (r *DepositsRepository) advanceLocked(d *entities.Deposit) {
	if entities.Advance(d, r.now(), r.window) {
		r.metrics.IncAutoAdvances()
		r.deposits[d.ID] = *d
		r.logger.Debug("deposit auto-confirmed", "deposit_id", d.ID, "confirmations", d.Confirmations)
	}
}
