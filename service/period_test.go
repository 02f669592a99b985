package service

import (
	"testing"
	"time"

	"partnertrack/models"

	"github.com/stretchr/testify/assert"
)

func TestPeriodKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 15, 42, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-07", PeriodKey(at, models.PeriodDaily))
	assert.Equal(t, "2026-W10", PeriodKey(at, models.PeriodWeekly))
	assert.Equal(t, "2026-03", PeriodKey(at, models.PeriodMonthly))
}

func TestPeriodKey_SamePeriodSameKey(t *testing.T) {
	// Saturday morning and Sunday night of the same ISO week
	a := time.Date(2026, 3, 7, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)

	assert.NotEqual(t, PeriodKey(a, models.PeriodDaily), PeriodKey(b, models.PeriodDaily))
	assert.Equal(t, PeriodKey(a, models.PeriodWeekly), PeriodKey(b, models.PeriodWeekly))
	assert.Equal(t, PeriodKey(a, models.PeriodMonthly), PeriodKey(b, models.PeriodMonthly))
}

func TestPeriodKey_WeekBoundary(t *testing.T) {
	// Sunday 2026-03-08 ends ISO week 10; Monday 2026-03-09 starts week 11
	sunday := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-W10", PeriodKey(sunday, models.PeriodWeekly))
	assert.Equal(t, "2026-W11", PeriodKey(monday, models.PeriodWeekly))
}

func TestPeriodKey_UnknownPeriodDefaultsToDaily(t *testing.T) {
	at := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-07", PeriodKey(at, models.Period("hourly")))
}

func TestDailyKeysForPeriod_Weekly(t *testing.T) {
	// Saturday inside the week of Monday 2026-03-02
	at := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

	keys := DailyKeysForPeriod(at, models.PeriodWeekly)
	assert.Equal(t, []string{
		"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05",
		"2026-03-06", "2026-03-07", "2026-03-08",
	}, keys)
}

func TestDailyKeysForPeriod_WeeklyFromMonday(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	keys := DailyKeysForPeriod(monday, models.PeriodWeekly)
	assert.Len(t, keys, 7)
	assert.Equal(t, "2026-03-02", keys[0])
	assert.Equal(t, "2026-03-08", keys[6])
}

func TestDailyKeysForPeriod_Monthly(t *testing.T) {
	t.Run("february non-leap", func(t *testing.T) {
		keys := DailyKeysForPeriod(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), models.PeriodMonthly)
		assert.Len(t, keys, 28)
		assert.Equal(t, "2026-02-01", keys[0])
		assert.Equal(t, "2026-02-28", keys[27])
	})

	t.Run("31-day month", func(t *testing.T) {
		keys := DailyKeysForPeriod(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), models.PeriodMonthly)
		assert.Len(t, keys, 31)
		assert.Equal(t, "2026-03-31", keys[30])
	})
}
