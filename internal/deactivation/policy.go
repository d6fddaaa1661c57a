// Package deactivation holds the pure predicates that decide whether a
// reminder's lifecycle is over.
package deactivation

import (
	"time"

	"remindo/internal/models"
)

const (
	ReasonAlreadyAlerted = "already alerted"
	ReasonStaleMissed    = "stale/missed"
	ReasonPastEndDate    = "past end_date"
)

// Decision is the result of a deactivation check.
type Decision struct {
	ShouldDeactivate bool
	Reason           string
}

func keep() Decision { return Decision{} }

// OneTime decides whether a non-recurring reminder's lifecycle is over.
// Once lastAlertTime is set the reminder has already fired and must never
// fire again; absent that, a reminder whose event time is far enough in
// the past is assumed unserviceable and reaped without firing.
func OneTime(r *models.Reminder, now time.Time, staleThreshold time.Duration) Decision {
	if r.LastAlertTime != nil {
		return Decision{ShouldDeactivate: true, Reason: ReasonAlreadyAlerted}
	}
	if r.Date.Before(now.Add(-staleThreshold)) {
		return Decision{ShouldDeactivate: true, Reason: ReasonStaleMissed}
	}
	return keep()
}

// Recurring decides whether a recurring reminder has left its configured
// window. nextEventTime is the next cron occurrence strictly after now, as
// computed by the recurrence engine.
func Recurring(r *models.Reminder, nextEventTime time.Time) Decision {
	if r.EndDate != nil && nextEventTime.After(*r.EndDate) {
		return Decision{ShouldDeactivate: true, Reason: ReasonPastEndDate}
	}
	return keep()
}
