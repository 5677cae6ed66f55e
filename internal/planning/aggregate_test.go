package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSumsSameItemAndWeek(t *testing.T) {
	// Aynı ürüne aynı hafta iki ayrı emir: miktarlar toplanır
	rows := []Movement{
		{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")},
		{ItemID: 1, Week: wk(2025, 48), Qty: dec("3")},
		{ItemID: 1, Week: wk(2025, 49), Qty: dec("2")},
	}

	out := Aggregate(rows, wk(2025, 47), wk(2025, 50))

	require.Contains(t, out, uint(1))
	assert.Equal(t, "8", out[1][wk(2025, 48)].String())
	assert.Equal(t, "2", out[1][wk(2025, 49)].String())
}

func TestAggregateDropsRowsOutsideRange(t *testing.T) {
	rows := []Movement{
		{ItemID: 1, Week: wk(2025, 46), Qty: dec("100")}, // aralıktan önce
		{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")},
		{ItemID: 1, Week: wk(2026, 1), Qty: dec("100")}, // aralıktan sonra
	}

	out := Aggregate(rows, wk(2025, 47), wk(2025, 50))

	require.Contains(t, out, uint(1))
	assert.Len(t, out[1], 1)
	assert.Equal(t, "5", out[1][wk(2025, 48)].String())
}

func TestAggregateKeepsItemsSeparate(t *testing.T) {
	rows := []Movement{
		{ItemID: 1, Week: wk(2025, 48), Qty: dec("5")},
		{ItemID: 2, Week: wk(2025, 48), Qty: dec("7")},
	}

	out := Aggregate(rows, wk(2025, 48), wk(2025, 48))

	assert.Equal(t, "5", out[1][wk(2025, 48)].String())
	assert.Equal(t, "7", out[2][wk(2025, 48)].String())
}

func TestAggregateEmptyInput(t *testing.T) {
	out := Aggregate(nil, wk(2025, 47), wk(2025, 50))
	assert.Empty(t, out)
}
