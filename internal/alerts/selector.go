// Package alerts selects which alert, if any, of a reminder must fire on
// the current tick.
package alerts

import (
	"time"

	"remindo/internal/models"
)

// SelectAlertToFire returns at most one alert: the first, in the
// reminder's stored order, whose alert instant (eventTime - offset) is due:
// now falls in the half-open window [alertInstant, alertInstant+tickInterval),
// i.e. 0 <= now-alertInstant < tickInterval. For recurring
// reminders an alert already acknowledged this occurrence (lastAlertTime
// at or after its alert instant) is skipped.
//
// ok is false when nothing is due this tick.
func SelectAlertToFire(r *models.Reminder, eventTime, now time.Time, tickInterval time.Duration) (alert models.Alert, ok bool) {
	for _, a := range r.Alerts {
		alertInstant := eventTime.Add(-a.Offset())
		diff := now.Sub(alertInstant)

		if diff < 0 || diff >= tickInterval {
			continue
		}

		if r.IsRecurring && r.LastAlertTime != nil && !r.LastAlertTime.Before(alertInstant) {
			continue
		}

		return a, true
	}
	return models.Alert{}, false
}
