package usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winr/fiat-onramp-app/backend/internal/entities"
	"github.com/winr/fiat-onramp-app/backend/internal/usecases/repository"
)

func newKYCFixture(t *testing.T) *KYCService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewKYCService(logger, repository.NewKYCRepository(logger), nil, newTestClock().Now)
}

func TestGetUnknownSynthesizesPending(t *testing.T) {
	svc := newKYCFixture(t)
	ctx := context.Background()

	rec, err := svc.GetStatus(ctx, testAddress)
	require.NoError(t, err)
	require.Equal(t, entities.KYCStatusPending, rec.Status)
	require.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", rec.Address)

	// The synthesized view must not leak into the store.
	records, err := svc.ListRecords(ctx)
	require.NoError(t, err)
	require.Empty(t, records, "GetStatus must not persist a record")
}

func TestGetRejectsMalformedAddress(t *testing.T) {
	svc := newKYCFixture(t)

	_, err := svc.GetStatus(context.Background(), "0x123")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestInitializePreservesStatus(t *testing.T) {
	svc := newKYCFixture(t)
	ctx := context.Background()

	rec, created, err := svc.Initialize(ctx, testAddress, "first contact")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, entities.KYCStatusPending, rec.Status)
	require.Equal(t, "first contact", rec.Notes)

	_, _, err = svc.SetStatus(ctx, testAddress, "approved", "docs checked")
	require.NoError(t, err)

	// Re-initializing refreshes notes but keeps the approved status.
	rec, created, err = svc.Initialize(ctx, testAddress, "re-submitted")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, entities.KYCStatusApproved, rec.Status)
	require.Equal(t, "re-submitted", rec.Notes)
}

func TestSetStatusReturnsPreviousAndNew(t *testing.T) {
	svc := newKYCFixture(t)
	ctx := context.Background()

	previous, current, err := svc.SetStatus(ctx, testAddress, "approved", "")
	require.NoError(t, err)
	require.Equal(t, entities.KYCStatusPending, previous.Status, "unknown address reads as pending")
	require.Equal(t, entities.KYCStatusApproved, current.Status)

	// Any status may overwrite any other; rejected after approved is legal.
	previous, current, err = svc.SetStatus(ctx, testAddress, "rejected", "")
	require.NoError(t, err)
	require.Equal(t, entities.KYCStatusApproved, previous.Status)
	require.Equal(t, entities.KYCStatusRejected, current.Status)
}

func TestSetStatusValidation(t *testing.T) {
	svc := newKYCFixture(t)
	ctx := context.Background()

	_, _, err := svc.SetStatus(ctx, testAddress, "verified", "")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, _, err = svc.SetStatus(ctx, "nope", "approved", "")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestRemove(t *testing.T) {
	svc := newKYCFixture(t)
	ctx := context.Background()

	_, _, err := svc.Initialize(ctx, testAddress, "")
	require.NoError(t, err)

	deleted, err := svc.Remove(ctx, testAddress)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Remove(ctx, testAddress)
	require.NoError(t, err)
	require.False(t, deleted, "removing twice reports absence, not an error")
}
