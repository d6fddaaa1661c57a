// Package recurrence computes the next occurrence of a standard 5-field
// cron expression, interpreted in UTC.
package recurrence

import (
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// NextOccurrence returns the smallest instant strictly greater than
// reference that the cron expression matches. ok is false if the
// expression fails to parse; the caller treats that as a CronParseError
// and skips the reminder this tick rather than failing the whole tick.
func NextOccurrence(cronExpr string, reference time.Time) (next time.Time, ok bool) {
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return time.Time{}, false
	}
	return schedule.Next(reference.UTC()).UTC(), true
}
