package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/backend/internal/domain/shared"
)

func TestMovementKind(t *testing.T) {
	t.Run("validates known kinds", func(t *testing.T) {
		assert.True(t, MovementKindReceipt.IsValid())
		assert.True(t, MovementKindIssue.IsValid())
		assert.True(t, MovementKindCorrection.IsValid())
		assert.False(t, MovementKind("TRANSFER").IsValid())
		assert.False(t, MovementKind("").IsValid())
	})

	t.Run("string representation", func(t *testing.T) {
		assert.Equal(t, "RECEIPT", MovementKindReceipt.String())
		assert.Equal(t, "ISSUE", MovementKindIssue.String())
		assert.Equal(t, "CORRECTION", MovementKindCorrection.String())
	})
}

func TestNewMovement(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()

	t.Run("creates receipt with positive delta", func(t *testing.T) {
		m, err := NewMovement(itemID, locationID, MovementKindReceipt, decimal.NewFromInt(10), "PO-1", "initial stock", "alice")
		require.NoError(t, err)
		require.NotNil(t, m)

		assert.NotEqual(t, uuid.Nil, m.ID)
		assert.Equal(t, itemID, m.ItemID)
		assert.Equal(t, locationID, m.LocationID)
		assert.Equal(t, MovementKindReceipt, m.Kind)
		assert.True(t, m.Delta.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "PO-1", m.Reference)
		assert.Equal(t, "initial stock", m.Note)
		assert.Equal(t, "alice", m.Actor)
		assert.Equal(t, int64(0), m.Sequence)
		assert.False(t, m.CreatedAt.IsZero())
	})

	t.Run("stores issue as negative delta", func(t *testing.T) {
		m, err := NewMovement(itemID, locationID, MovementKindIssue, decimal.NewFromInt(3), "", "", "")
		require.NoError(t, err)
		assert.True(t, m.Delta.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("keeps correction delta signed as given", func(t *testing.T) {
		m, err := NewMovement(itemID, locationID, MovementKindCorrection, decimal.NewFromInt(-5), "", "count difference", "bob")
		require.NoError(t, err)
		assert.True(t, m.Delta.Equal(decimal.NewFromInt(-5)))

		m, err = NewMovement(itemID, locationID, MovementKindCorrection, decimal.NewFromFloat(2.5), "", "", "")
		require.NoError(t, err)
		assert.True(t, m.Delta.Equal(decimal.NewFromFloat(2.5)))
	})

	t.Run("fails with nil item or location", func(t *testing.T) {
		_, err := NewMovement(uuid.Nil, locationID, MovementKindReceipt, decimal.NewFromInt(1), "", "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnknownReference) || err == shared.ErrUnknownReference)

		_, err = NewMovement(itemID, uuid.Nil, MovementKindReceipt, decimal.NewFromInt(1), "", "", "")
		require.Error(t, err)
	})

	t.Run("fails with unknown kind", func(t *testing.T) {
		_, err := NewMovement(itemID, locationID, MovementKind("TRANSFER"), decimal.NewFromInt(1), "", "", "")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_KIND", domainErr.Code)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		for _, kind := range []MovementKind{MovementKindReceipt, MovementKindIssue, MovementKindCorrection} {
			_, err := NewMovement(itemID, locationID, kind, decimal.Zero, "", "", "")
			require.Error(t, err)

			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
		}
	})

	t.Run("fails with negative receipt quantity", func(t *testing.T) {
		_, err := NewMovement(itemID, locationID, MovementKindReceipt, decimal.NewFromInt(-1), "", "", "")
		require.Error(t, err)
	})

	t.Run("fails with negative issue quantity", func(t *testing.T) {
		_, err := NewMovement(itemID, locationID, MovementKindIssue, decimal.NewFromInt(-1), "", "", "")
		require.Error(t, err)
	})
}

func TestMovementWithSequence(t *testing.T) {
	m, err := NewMovement(uuid.New(), uuid.New(), MovementKindReceipt, decimal.NewFromInt(1), "", "", "")
	require.NoError(t, err)

	same := m.WithSequence(7)
	assert.Same(t, m, same)
	assert.Equal(t, int64(7), m.Sequence)
}

func TestMovementIsOverride(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()

	receipt, err := NewMovement(itemID, locationID, MovementKindReceipt, decimal.NewFromInt(1), "", "", "")
	require.NoError(t, err)
	assert.False(t, receipt.IsOverride())

	issue, err := NewMovement(itemID, locationID, MovementKindIssue, decimal.NewFromInt(1), "", "", "")
	require.NoError(t, err)
	assert.False(t, issue.IsOverride())

	correction, err := NewMovement(itemID, locationID, MovementKindCorrection, decimal.NewFromInt(-1), "", "", "")
	require.NoError(t, err)
	assert.True(t, correction.IsOverride())
}

func TestMovementKey(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()

	key := MovementKey(itemID, locationID)
	assert.Equal(t, itemID.String()+"/"+locationID.String(), key)

	t.Run("differs per pair", func(t *testing.T) {
		other := MovementKey(itemID, uuid.New())
		assert.NotEqual(t, key, other)

		swapped := MovementKey(locationID, itemID)
		assert.NotEqual(t, key, swapped)
	})
}
