package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/winr/fiat-onramp-app/backend/internal/core/ports"
	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/metrics"
)

// DepositsRepository is the persistence boundary of the deposit ledger.
// Find/FindByAddress/FindAll apply the auto-advance rule under the store
// lock before returning, so reads can have side effects.
type DepositsRepository interface {
	Insert(ctx context.Context, d entities.Deposit) error
	Find(ctx context.Context, id string) (*entities.Deposit, error)
	FindByAddress(ctx context.Context, address string) ([]entities.Deposit, error)
	FindAll(ctx context.Context) ([]entities.Deposit, error)
	Apply(ctx context.Context, id string, fn func(*entities.Deposit)) (*entities.Deposit, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// DepositService represents fiat deposit intents and their progress toward
// mint eligibility.
type DepositService struct {
	logger  *slog.Logger
	repo    DepositsRepository
	metrics *metrics.Metrics
	window  time.Duration
	now     func() time.Time
}

// NewDepositService creates the deposit ledger service. Window is the
// confirmation window for the simulated bank settlement; the clock is
// injectable for tests (nil means time.Now).
func NewDepositService(logger *slog.Logger, repo DepositsRepository, m *metrics.Metrics, window time.Duration, now func() time.Time) *DepositService {
	if window <= 0 {
		window = ports.DefaultConfirmationWindow
	}
	if now == nil {
		now = time.Now
	}
	return &DepositService{logger: logger, repo: repo, metrics: m, window: window, now: now}
}

// Create validates and stores a new deposit intent at pending.
func (s *DepositService) Create(ctx context.Context, params ports.CreateDepositParams) (entities.DepositView, error) {
	addr, ok := entities.NormalizeAddress(params.Address)
	if !ok {
		return entities.DepositView{}, ErrInvalidAddress
	}
	if !entities.ValidAmount(params.Amount) {
		return entities.DepositView{}, ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "INR"
	}

	now := s.now()
	d := entities.Deposit{
		ID:        "dep_" + uuid.NewString(),
		Address:   addr,
		Amount:    params.Amount,
		Currency:  currency,
		Status:    entities.DepositStatusPending,
		Notes:     params.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, d); err != nil {
		return entities.DepositView{}, fmt.Errorf("failed to insert deposit: %w", err)
	}

	s.metrics.IncDepositsCreated()
	s.logger.Info("deposit created", "deposit_id", d.ID, "address", addr, "amount", d.Amount, "currency", currency)
	return s.view(d), nil
}

// Get returns the deposit by id, auto-advance applied.
func (s *DepositService) Get(ctx context.Context, id string) (entities.DepositView, error) {
	d, err := s.repo.Find(ctx, id)
	if err != nil {
		return entities.DepositView{}, fmt.Errorf("failed to find deposit: %w", err)
	}
	if d == nil {
		return entities.DepositView{}, ErrDepositNotFound
	}
	return s.view(*d), nil
}

// ListByAddress returns all deposits owned by the address, auto-advance
// applied to each. The address must be well-formed.
func (s *DepositService) ListByAddress(ctx context.Context, address string) ([]entities.DepositView, error) {
	addr, ok := entities.NormalizeAddress(address)
	if !ok {
		return nil, ErrInvalidAddress
	}

	deposits, err := s.repo.FindByAddress(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits by address: %w", err)
	}
	return s.views(deposits), nil
}

// ListAll returns the whole ledger, auto-advance applied. Administrative use.
func (s *DepositService) ListAll(ctx context.Context) ([]entities.DepositView, error) {
	deposits, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return s.views(deposits), nil
}

// Update applies an administrative partial update, bypassing the
// auto-advance guard entirely. Any status may overwrite any other, and
// readyToMint may be set independently of status; both are deliberate demo
// escape hatches.
func (s *DepositService) Update(ctx context.Context, id string, params ports.UpdateDepositParams) (entities.DepositView, error) {
	if params.Status != nil && !entities.ValidDepositStatus(*params.Status) {
		return entities.DepositView{}, fmt.Errorf("%w: %q", ErrInvalidStatus, *params.Status)
	}
	if params.Confirmations != nil {
		c := *params.Confirmations
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return entities.DepositView{}, fmt.Errorf("%w: confirmations must be a non-negative number", ErrInvalidStatus)
		}
	}

	d, err := s.repo.Apply(ctx, id, func(d *entities.Deposit) {
		if params.Status != nil {
			d.Status = entities.DepositStatus(*params.Status)
		}
		if params.ReadyToMint != nil {
			d.ReadyToMint = *params.ReadyToMint
		}
		if params.Notes != nil {
			d.Notes = *params.Notes
		}
		if params.Confirmations != nil {
			d.Confirmations = int64(*params.Confirmations)
		}
		d.UpdatedAt = s.now()
	})
	if err != nil {
		return entities.DepositView{}, fmt.Errorf("failed to update deposit: %w", err)
	}
	if d == nil {
		return entities.DepositView{}, ErrDepositNotFound
	}

	s.logger.Info("deposit updated", "deposit_id", d.ID, "status", d.Status, "ready_to_mint", d.ReadyToMint)
	return s.view(*d), nil
}

// Delete removes the deposit if present, reporting whether it existed.
func (s *DepositService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete deposit: %w", err)
	}
	if deleted {
		s.logger.Info("deposit deleted", "deposit_id", id)
	}
	return deleted, nil
}

func (s *DepositService) view(d entities.Deposit) entities.DepositView {
	return entities.ViewOf(d, s.now(), s.window)
}

func (s *DepositService) views(deposits []entities.Deposit) []entities.DepositView {
	out := make([]entities.DepositView, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, s.view(d))
	}
	return out
}
