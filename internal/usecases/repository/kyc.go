package repository

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

// KYCRepository is the process-lifetime store for KYC records, keyed by
// normalized address. Not safe for multi-process deployment and never
// intended to be.
type KYCRepository struct {
	logger *slog.Logger

	mu      sync.RWMutex
	records map[string]entities.KYCRecord
}

// NewKYCRepository creates an empty KYC store.
func NewKYCRepository(logger *slog.Logger) *KYCRepository {
	return &KYCRepository{
		logger:  logger,
		records: make(map[string]entities.KYCRecord),
	}
}

// Find retrieves a record by normalized address. Returns nil without error
// when no record exists.
func (r *KYCRepository) Find(_ context.Context, address string) (*entities.KYCRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[address]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// FindAll returns all persisted records, unsorted.
func (r *KYCRepository) FindAll(_ context.Context) ([]entities.KYCRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Values(r.records), nil
}

// Upsert writes the record under its address.
func (r *KYCRepository) Upsert(_ context.Context, rec entities.KYCRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[rec.Address] = rec
	return nil
}

// Delete removes a record, reporting whether it existed.
func (r *KYCRepository) Delete(_ context.Context, address string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.records[address]
	if ok {
		delete(r.records, address)
	}
	return ok, nil
}
