package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekKeyCompare(t *testing.T) {
	a := WeekKey{Year: 2025, Week: 47}

	assert.Equal(t, 0, a.Compare(WeekKey{Year: 2025, Week: 47}))
	assert.Equal(t, -1, a.Compare(WeekKey{Year: 2025, Week: 48}))
	assert.Equal(t, 1, a.Compare(WeekKey{Year: 2025, Week: 46}))

	// Yıl haftadan önce gelir: 2024/53 < 2025/1
	assert.Equal(t, -1, WeekKey{Year: 2024, Week: 53}.Compare(WeekKey{Year: 2025, Week: 1}))
	assert.True(t, WeekKey{Year: 2024, Week: 53}.Before(WeekKey{Year: 2025, Week: 1}))
	assert.True(t, WeekKey{Year: 2025, Week: 1}.After(WeekKey{Year: 2024, Week: 53}))
}

func TestWeekKeyNext(t *testing.T) {
	assert.Equal(t, WeekKey{Year: 2025, Week: 48}, WeekKey{Year: 2025, Week: 47}.Next())
	// 53. haftadan sonra yeni yılın 1. haftası
	assert.Equal(t, WeekKey{Year: 2026, Week: 1}, WeekKey{Year: 2025, Week: 53}.Next())
}

func TestWeekKeyInRange(t *testing.T) {
	from := WeekKey{Year: 2025, Week: 47}
	to := WeekKey{Year: 2026, Week: 3}

	assert.True(t, from.InRange(from, to))
	assert.True(t, to.InRange(from, to))
	assert.True(t, WeekKey{Year: 2025, Week: 53}.InRange(from, to))
	assert.False(t, WeekKey{Year: 2025, Week: 46}.InRange(from, to))
	assert.False(t, WeekKey{Year: 2026, Week: 4}.InRange(from, to))
}

func TestWeeksEnumeration(t *testing.T) {
	// Yıl sınırını geçen aralık: 2025/52, 2025/53, 2026/1, 2026/2
	weeks := Weeks(WeekKey{Year: 2025, Week: 52}, WeekKey{Year: 2026, Week: 2})
	assert.Equal(t, []WeekKey{
		{Year: 2025, Week: 52},
		{Year: 2025, Week: 53},
		{Year: 2026, Week: 1},
		{Year: 2026, Week: 2},
	}, weeks)
}

func TestWeeksSingleAndEmpty(t *testing.T) {
	w := WeekKey{Year: 2025, Week: 10}
	assert.Equal(t, []WeekKey{w}, Weeks(w, w))

	// Ters aralık hata değil, boş sonuç
	assert.Empty(t, Weeks(WeekKey{Year: 2025, Week: 50}, WeekKey{Year: 2025, Week: 48}))
}

func TestValidWeek(t *testing.T) {
	assert.True(t, ValidWeek(1))
	assert.True(t, ValidWeek(53))
	assert.False(t, ValidWeek(0))
	assert.False(t, ValidWeek(54))
	assert.False(t, ValidWeek(-3))
}
