package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/metrics"
)

// KYCRepository is the persistence boundary of the KYC registry.
type KYCRepository interface {
	Find(ctx context.Context, address string) (*entities.KYCRecord, error)
	FindAll(ctx context.Context) ([]entities.KYCRecord, error)
	Upsert(ctx context.Context, rec entities.KYCRecord) error
	Delete(ctx context.Context, address string) (bool, error)
}

// KYCService maps identities to approval status. It is a direct-write
// key-value registry: only the key shape and the status enum are validated,
// transition legality is not.
type KYCService struct {
	logger  *slog.Logger
	repo    KYCRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewKYCService creates the KYC registry service. The clock is injectable
// for tests; pass nil for time.Now.
func NewKYCService(logger *slog.Logger, repo KYCRepository, m *metrics.Metrics, now func() time.Time) *KYCService {
	if now == nil {
		now = time.Now
	}
	return &KYCService{logger: logger, repo: repo, metrics: m, now: now}
}

// GetStatus returns the persisted record for the address, or a synthesized
// pending view for unknown addresses. The synthesized record is never
// written to the store.
func (s *KYCService) GetStatus(ctx context.Context, address string) (entities.KYCRecord, error) {
	addr, ok := entities.NormalizeAddress(address)
	if !ok {
		return entities.KYCRecord{}, ErrInvalidAddress
	}

	rec, err := s.repo.Find(ctx, addr)
	if err != nil {
		return entities.KYCRecord{}, fmt.Errorf("failed to find kyc record: %w", err)
	}
	if rec == nil {
		return s.synthesized(addr), nil
	}
	return *rec, nil
}

// ListRecords returns all persisted records, unsorted. Administrative use.
func (s *KYCService) ListRecords(ctx context.Context) ([]entities.KYCRecord, error) {
	return s.repo.FindAll(ctx)
}

// Initialize creates a pending record if none exists; otherwise it refreshes
// updatedAt and notes while preserving status. The second return value is
// true when a record was created.
func (s *KYCService) Initialize(ctx context.Context, address, notes string) (entities.KYCRecord, bool, error) {
	addr, ok := entities.NormalizeAddress(address)
	if !ok {
		return entities.KYCRecord{}, false, ErrInvalidAddress
	}

	existing, err := s.repo.Find(ctx, addr)
	if err != nil {
		return entities.KYCRecord{}, false, fmt.Errorf("failed to find kyc record: %w", err)
	}

	rec := entities.KYCRecord{
		Address:   addr,
		Status:    entities.KYCStatusPending,
		Notes:     notes,
		UpdatedAt: s.now(),
	}
	created := existing == nil
	if !created {
		rec.Status = existing.Status
	}

	if err = s.repo.Upsert(ctx, rec); err != nil {
		return entities.KYCRecord{}, false, fmt.Errorf("failed to upsert kyc record: %w", err)
	}

	s.logger.Info("kyc record initialized", "address", addr, "created", created, "status", rec.Status)
	return rec, created, nil
}

// SetStatus overwrites the status unconditionally; any status may go to any
// other. Returns the previous record (synthesized pending when none was
// persisted) and the new one for audit display.
func (s *KYCService) SetStatus(ctx context.Context, address, status, notes string) (entities.KYCRecord, entities.KYCRecord, error) {
	addr, ok := entities.NormalizeAddress(address)
	if !ok {
		return entities.KYCRecord{}, entities.KYCRecord{}, ErrInvalidAddress
	}
	if !entities.ValidKYCStatus(status) {
		return entities.KYCRecord{}, entities.KYCRecord{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	existing, err := s.repo.Find(ctx, addr)
	if err != nil {
		return entities.KYCRecord{}, entities.KYCRecord{}, fmt.Errorf("failed to find kyc record: %w", err)
	}

	previous := s.synthesized(addr)
	if existing != nil {
		previous = *existing
	}

	next := entities.KYCRecord{
		Address:   addr,
		Status:    entities.KYCStatus(status),
		Notes:     notes,
		UpdatedAt: s.now(),
	}
	if err = s.repo.Upsert(ctx, next); err != nil {
		return entities.KYCRecord{}, entities.KYCRecord{}, fmt.Errorf("failed to upsert kyc record: %w", err)
	}

	s.metrics.IncKYCTransition(status)
	s.logger.Info("kyc status set", "address", addr, "from", previous.Status, "to", next.Status)
	return previous, next, nil
}

// Remove deletes the record if present, reporting whether it existed. No
// cascading effect on deposits.
func (s *KYCService) Remove(ctx context.Context, address string) (bool, error) {
	addr, ok := entities.NormalizeAddress(address)
	if !ok {
		return false, ErrInvalidAddress
	}

	deleted, err := s.repo.Delete(ctx, addr)
	if err != nil {
		return false, fmt.Errorf("failed to delete kyc record: %w", err)
	}
	if deleted {
		s.logger.Info("kyc record removed", "address", addr)
	}
	return deleted, nil
}

func (s *KYCService) synthesized(addr string) entities.KYCRecord {
	return entities.KYCRecord{
		Address:   addr,
		Status:    entities.KYCStatusPending,
		UpdatedAt: s.now(),
	}
}
