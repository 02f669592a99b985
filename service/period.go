package service

import (
	"fmt"
	"time"

	"partnertrack/models"
)

// PeriodKey maps a timestamp and granularity to its canonical ledger key.
// Two timestamps in the same calendar day/week/month always yield the same key.
//
//	daily   -> 2024-03-07
//	weekly  -> 2024-W10 (ISO-8601 week number, calendar year)
//	monthly -> 2024-03
func PeriodKey(t time.Time, period models.Period) string {
	switch period {
	case models.PeriodDaily:
		return t.Format("2006-01-02")
	case models.PeriodWeekly:
		_, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%d", t.Year(), week)
	case models.PeriodMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// DailyKeysForPeriod returns the daily period keys covered by the weekly or
// monthly period containing t. Used by the rollup to recompute aggregates
// from scratch, which keeps re-running a rollup idempotent.
func DailyKeysForPeriod(t time.Time, period models.Period) []string {
	switch period {
	case models.PeriodWeekly:
		// Walk back to Monday of the ISO week
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		for day.Weekday() != time.Monday {
			day = day.AddDate(0, 0, -1)
		}
		keys := make([]string, 0, 7)
		for i := 0; i < 7; i++ {
			keys = append(keys, PeriodKey(day.AddDate(0, 0, i), models.PeriodDaily))
		}
		return keys
	case models.PeriodMonthly:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		var keys []string
		for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
			keys = append(keys, PeriodKey(day, models.PeriodDaily))
		}
		return keys
	default:
		return []string{PeriodKey(t, models.PeriodDaily)}
	}
}
