package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemType(t *testing.T) {
	for _, in := range []string{"P", "p", " p "} {
		it, err := ParseItemType(in)
		require.NoError(t, err)
		assert.Equal(t, ItemTypeProduct, it)
	}

	it, err := ParseItemType("m")
	require.NoError(t, err)
	assert.Equal(t, ItemTypeMaterial, it)

	_, err = ParseItemType("X")
	assert.Error(t, err)
}

func TestParseProductionStatusCaseInsensitive(t *testing.T) {
	for in, want := range map[string]ProductionOrderStatus{
		"INITIAL":   ProductionStatusInitial,
		"active":    ProductionStatusActive,
		" Complete": ProductionStatusComplete,
	} {
		st, err := ParseProductionStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, st)
	}

	_, err := ParseProductionStatus("DONE")
	assert.Error(t, err)
}

func TestParsePurchaseStatusCaseInsensitive(t *testing.T) {
	for in, want := range map[string]PurchaseOrderStatus{
		"confirm":   PurchaseStatusConfirm,
		"RECEIVED":  PurchaseStatusReceived,
		"Cancelled": PurchaseStatusCancelled,
		"initial":   PurchaseStatusInitial,
	} {
		st, err := ParsePurchaseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, st)
	}

	_, err := ParsePurchaseStatus("CONFIRMED")
	assert.Error(t, err)
}
