// Package engine orchestrates the store, recurrence, deactivation, alert
// selection, and dispatch collaborators into the two execution modes named
// in the system overview: a per-tick scheduling loop and a cleanup sweep.
// Both modes share one per-reminder resolve step (recurrence and
// deactivation). FireByID, used by the external-trigger adapter in
// internal/webhook, loads a single reminder and dispatches and
// acknowledges it directly, without that step or the time-window check.
package engine

import (
	"context"
	"log"
	"time"

	"remindo/internal/alerts"
	"remindo/internal/clock"
	"remindo/internal/deactivation"
	"remindo/internal/models"
	"remindo/internal/notify"
	"remindo/internal/recurrence"
	"remindo/internal/store"
)

// Engine holds every collaborator C7/C8/C9 depend on.
type Engine struct {
	Store      store.Store
	Clock      clock.Clock
	Dispatcher *notify.Dispatcher

	TickInterval   time.Duration
	StaleThreshold time.Duration
}

func New(s store.Store, c clock.Clock, d *notify.Dispatcher, tickInterval, staleThreshold time.Duration) *Engine {
	return &Engine{
		Store:          s,
		Clock:          c,
		Dispatcher:     d,
		TickInterval:   tickInterval,
		StaleThreshold: staleThreshold,
	}
}

// TickResult summarizes one pass over the active reminder set.
type TickResult struct {
	Checked     int
	Fired       int
	Deactivated int
}

// resolve resolves a reminder's event time for this evaluation: the next
// cron occurrence after now for recurring reminders, or the stored instant
// for one-time ones. ok is false when the reminder is not eligible to fire
// this pass (cron parse failure, or a deactivation decision was made).
func (e *Engine) resolve(r *models.Reminder, now time.Time) (eventTime time.Time, deactivateReason string, ok bool) {
	if r.IsRecurring {
		if r.Recurrence == nil {
			return time.Time{}, "", false
		}
		next, parsed := recurrence.NextOccurrence(*r.Recurrence, now)
		if !parsed {
			log.Printf("engine: reminder %d has an unparsable recurrence %q, skipping", r.ID, *r.Recurrence)
			return time.Time{}, "", false
		}
		if d := deactivation.Recurring(r, next); d.ShouldDeactivate {
			return time.Time{}, d.Reason, false
		}
		return next, "", true
	}

	if d := deactivation.OneTime(r, now, e.StaleThreshold); d.ShouldDeactivate {
		return time.Time{}, d.Reason, false
	}
	return r.Date, "", true
}

// Tick runs one pass of the scheduling loop (C7): load active reminders,
// retire the ones whose lifecycle is over, fire the rest's due alert, and
// acknowledge. A failure mutating one reminder is logged and that reminder
// is skipped; the tick continues. A failure loading the active set is
// returned and fails the whole tick; with the sqlite store, a single row
// that cannot be decoded is such a failure.
func (e *Engine) Tick(ctx context.Context) (TickResult, error) {
	active, err := e.Store.FindActive(ctx)
	if err != nil {
		return TickResult{}, err
	}

	now := e.Clock.Now()
	var result TickResult

	for _, r := range active {
		result.Checked++

		if !r.HasAlerts() {
			continue
		}

		eventTime, reason, ok := e.resolve(r, now)
		if !ok {
			if reason != "" {
				if err := e.Store.Deactivate(ctx, r.ID); err != nil {
					log.Printf("engine: deactivate reminder %d failed: %v", r.ID, err)
					continue
				}
				result.Deactivated++
			}
			continue
		}

		alert, due := alerts.SelectAlertToFire(r, eventTime, now, e.TickInterval)
		if !due {
			continue
		}

		e.fire(ctx, r, alert, now)
		result.Fired++
	}

	return result, nil
}

// fire dispatches and acknowledges. It never returns an error: a store
// write failure here is logged, matching the rest of the loop's
// skip-and-continue policy.
func (e *Engine) fire(ctx context.Context, r *models.Reminder, alert models.Alert, now time.Time) {
	log.Printf("engine: firing reminder %d alert %s", r.ID, alert.ID)
	e.Dispatcher.Send(ctx, r, r.Contacts)
	if err := e.Store.SetLastAlertTime(ctx, r.ID, now); err != nil {
		log.Printf("engine: setLastAlertTime for reminder %d failed: %v", r.ID, err)
	}
}

// CleanupResult summarizes one cleanup sweep.
type CleanupResult struct {
	Checked     int
	Deactivated int
}

// Cleanup runs the batch variant of Tick that only retires reminders past
// their lifecycle and never dispatches (C8). It walks every reminder, not
// just the active ones, so reminders created while the live loop was not
// running are still reaped.
func (e *Engine) Cleanup(ctx context.Context) (CleanupResult, error) {
	all, err := e.Store.FindAll(ctx)
	if err != nil {
		return CleanupResult{}, err
	}

	now := e.Clock.Now()
	var result CleanupResult

	for _, r := range all {
		result.Checked++
		if !r.IsActive {
			continue
		}
		if !r.HasAlerts() {
			continue
		}

		_, reason, ok := e.resolve(r, now)
		if ok || reason == "" {
			continue
		}

		if err := e.Store.Deactivate(ctx, r.ID); err != nil {
			log.Printf("engine: cleanup deactivate reminder %d failed: %v", r.ID, err)
			continue
		}
		result.Deactivated++
	}

	return result, nil
}

// TriggerResult is the outcome of an externally-triggered single-reminder
// fire (C9), shaped to match the webhook response contracts in §4.8/§8.
type TriggerResult struct {
	Status        string // "ok" or "skipped"
	Reason        string // populated when Status == "skipped"
	ReminderTitle string
}

// FireByID is the external-trigger adapter's primitive: load one reminder
// by id and, unless it is missing or inactive, dispatch and acknowledge it
// directly, skipping the time-window evaluation Tick performs.
// payloadIsRecurring mirrors the payload's isRecurring flag: when both it and the stored
// reminder report non-recurring, the reminder is retired immediately after
// firing, same as Tick would do on the following pass.
func (e *Engine) FireByID(ctx context.Context, id int64, payloadIsRecurring bool) (TriggerResult, error) {
	r, err := e.Store.FindByID(ctx, id)
	if err == store.ErrNotFound {
		return TriggerResult{Status: "skipped", Reason: "reminder_not_found"}, nil
	}
	if err != nil {
		return TriggerResult{}, err
	}

	if !r.IsActive {
		return TriggerResult{Status: "skipped", Reason: "inactive"}, nil
	}

	now := e.Clock.Now()
	e.Dispatcher.Send(ctx, r, r.Contacts)
	if err := e.Store.SetLastAlertTime(ctx, id, now); err != nil {
		return TriggerResult{}, err
	}

	if !payloadIsRecurring && !r.IsRecurring {
		if err := e.Store.Deactivate(ctx, id); err != nil {
			return TriggerResult{}, err
		}
	}

	return TriggerResult{Status: "ok", ReminderTitle: r.Title}, nil
}
