package ports

import (
	"context"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
)

// KYCService is the registry gating downstream financial actions.
type KYCService interface {
	GetStatus(ctx context.Context, address string) (entities.KYCRecord, error)
	ListRecords(ctx context.Context) ([]entities.KYCRecord, error)
	Initialize(ctx context.Context, address, notes string) (entities.KYCRecord, bool, error)
	SetStatus(ctx context.Context, address, status, notes string) (entities.KYCRecord, entities.KYCRecord, error)
	Remove(ctx context.Context, address string) (bool, error)
}

// DepositService tracks fiat deposit intents; every read applies the lazy
// auto-advance rule before returning.
type DepositService interface {
	Create(ctx context.Context, params CreateDepositParams) (entities.DepositView, error)
	Get(ctx context.Context, id string) (entities.DepositView, error)
	ListByAddress(ctx context.Context, address string) ([]entities.DepositView, error)
	ListAll(ctx context.Context) ([]entities.DepositView, error)
	Update(ctx context.Context, id string, params UpdateDepositParams) (entities.DepositView, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateDepositParams carries the deposit-intent submission. Amount is the
// raw decimal literal as submitted (numeric JSON input is re-stringified
// before it gets here).
type CreateDepositParams struct {
	Address  string
	Amount   string
	Currency string
	Notes    string
}

// UpdateDepositParams is the administrative partial update. Nil fields are
// left untouched. No transition legality is checked; this is a deliberate
// escape hatch for demo overrides.
type UpdateDepositParams struct {
	Status        *string
	ReadyToMint   *bool
	Notes         *string
	Confirmations *float64
}
