package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test yardımcıları (paket içindeki tüm test dosyaları kullanır)

func wk(year, week int) WeekKey {
	return WeekKey{Year: year, Week: week}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balancesAsStrings(out []WeekBalance) []string {
	res := make([]string, 0, len(out))
	for _, b := range out {
		res = append(res, b.Balance.String())
	}
	return res
}

func TestProjectWalksForwardFromOpening(t *testing.T) {
	opening := &Opening{Week: wk(2025, 47), Qty: dec("20")}
	inflow := map[WeekKey]decimal.Decimal{
		wk(2025, 48): dec("5"),
		wk(2025, 49): dec("5"),
	}

	out := Project(opening, wk(2025, 47), wk(2025, 49), nil, inflow)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"20", "25", "30"}, balancesAsStrings(out))
	assert.Equal(t, wk(2025, 47), out[0].Week)
	assert.Equal(t, wk(2025, 49), out[2].Week)
}

func TestProjectOpeningWeekIgnoresMovements(t *testing.T) {
	// Çapa haftasına düşen giriş/çıkış çapanın değerini değiştirmez,
	// bir sonraki haftadan itibaren etkili olur
	opening := &Opening{Week: wk(2025, 47), Qty: dec("20")}
	inflow := map[WeekKey]decimal.Decimal{wk(2025, 47): dec("100")}
	outflow := map[WeekKey]decimal.Decimal{wk(2025, 47): dec("7")}

	out := Project(opening, wk(2025, 47), wk(2025, 48), outflow, inflow)

	require.Len(t, out, 2)
	assert.Equal(t, "20", out[0].Balance.String())
	assert.Equal(t, "20", out[1].Balance.String())
}

func TestProjectWeeksBeforeOpeningAreZero(t *testing.T) {
	opening := &Opening{Week: wk(2025, 49), Qty: dec("15")}

	out := Project(opening, wk(2025, 47), wk(2025, 50), nil, nil)

	require.Len(t, out, 4)
	assert.Equal(t, []string{"0", "0", "15", "15"}, balancesAsStrings(out))
}

func TestProjectWithoutOpeningAllZero(t *testing.T) {
	// Çapasız kalem: hareket olsa bile bakiye tanım gereği sıfırdır
	inflow := map[WeekKey]decimal.Decimal{wk(2025, 48): dec("5")}

	out := Project(nil, wk(2025, 47), wk(2025, 49), nil, inflow)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"0", "0", "0"}, balancesAsStrings(out))
}

func TestProjectNegativeBalanceNotClamped(t *testing.T) {
	opening := &Opening{Week: wk(2025, 47), Qty: dec("10")}
	outflow := map[WeekKey]decimal.Decimal{
		wk(2025, 48): dec("12"),
		wk(2025, 49): dec("3"),
	}

	out := Project(opening, wk(2025, 47), wk(2025, 49), outflow, nil)

	assert.Equal(t, []string{"10", "-2", "-5"}, balancesAsStrings(out))
}

func TestProjectRequestedSliceMatchesFullWalk(t *testing.T) {
	// İstenen aralık çapadan sonra başlasa da sonuç, çapadan yürünen tam
	// serinin ilgili dilimiyle birebir aynı olmalı
	opening := &Opening{Week: wk(2025, 47), Qty: dec("20")}
	inflow := map[WeekKey]decimal.Decimal{
		wk(2025, 48): dec("5"),
		wk(2025, 49): dec("5"),
	}
	outflow := map[WeekKey]decimal.Decimal{wk(2025, 49): dec("8")}

	full := Project(opening, wk(2025, 47), wk(2025, 50), outflow, inflow)
	slice := Project(opening, wk(2025, 49), wk(2025, 50), outflow, inflow)

	require.Len(t, full, 4)
	require.Len(t, slice, 2)
	assert.Equal(t, full[2:], slice)
}

func TestProjectAcrossYearBoundary(t *testing.T) {
	opening := &Opening{Week: wk(2025, 52), Qty: dec("10")}
	inflow := map[WeekKey]decimal.Decimal{wk(2026, 1): dec("4")}
	outflow := map[WeekKey]decimal.Decimal{wk(2025, 53): dec("2")}

	out := Project(opening, wk(2025, 52), wk(2026, 2), outflow, inflow)

	require.Len(t, out, 4)
	assert.Equal(t, []WeekKey{wk(2025, 52), wk(2025, 53), wk(2026, 1), wk(2026, 2)},
		[]WeekKey{out[0].Week, out[1].Week, out[2].Week, out[3].Week})
	assert.Equal(t, []string{"10", "8", "12", "12"}, balancesAsStrings(out))
}

func TestProjectReversedRangeReturnsNil(t *testing.T) {
	opening := &Opening{Week: wk(2025, 40), Qty: dec("5")}
	assert.Nil(t, Project(opening, wk(2025, 50), wk(2025, 48), nil, nil))
}

func TestProjectFractionalQuantities(t *testing.T) {
	opening := &Opening{Week: wk(2025, 47), Qty: dec("10.5")}
	outflow := map[WeekKey]decimal.Decimal{wk(2025, 48): dec("0.25")}

	out := Project(opening, wk(2025, 47), wk(2025, 48), outflow, nil)

	assert.Equal(t, []string{"10.5", "10.25"}, balancesAsStrings(out))
}
