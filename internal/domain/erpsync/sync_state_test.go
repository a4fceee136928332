package erpsync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStateAdvance(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		state := NewSyncState()
		assert.Empty(t, state.LastExportCheckpoint)
		assert.Nil(t, state.LastExportAt)
		assert.Nil(t, state.LastImportAt)
	})

	t.Run("advance export records checkpoint", func(t *testing.T) {
		state := NewSyncState()
		v0 := state.GetVersion()
		at := time.Now().Add(-time.Minute)

		state.AdvanceExport("chk-001", at)
		assert.Equal(t, "chk-001", state.LastExportCheckpoint)
		require.NotNil(t, state.LastExportAt)
		assert.True(t, state.LastExportAt.Equal(at))
		assert.Nil(t, state.LastImportAt)
		assert.Equal(t, v0+1, state.GetVersion())
	})

	t.Run("advance import leaves export checkpoint alone", func(t *testing.T) {
		state := NewSyncState()
		state.AdvanceExport("chk-001", time.Now())

		at := time.Now()
		state.AdvanceImport(at)
		require.NotNil(t, state.LastImportAt)
		assert.True(t, state.LastImportAt.Equal(at))
		assert.Equal(t, "chk-001", state.LastExportCheckpoint)
	})
}

func TestNewImportedOrder(t *testing.T) {
	orderID := uuid.New()
	rec := NewImportedOrder("ERP-42", orderID)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "ERP-42", rec.ErpOrderID)
	assert.Equal(t, orderID, rec.OrderID)
	assert.False(t, rec.ImportedAt.IsZero())
}

func TestGatewayStatusIsDisabled(t *testing.T) {
	assert.True(t, GatewayStatusDisabled.IsDisabled())
	assert.False(t, GatewayStatusOK.IsDisabled())
}
