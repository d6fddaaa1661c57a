// Package models defines the reminder aggregate and its sub-entities.
package models

import (
	"fmt"
	"time"
)

// ContactMode is the closed set of delivery channels a contact can use.
// Only ContactModeEmail has a dispatch implementation; the others are
// accepted and silently no-opped by the notification dispatcher.
type ContactMode string

const (
	ContactModeEmail ContactMode = "email"
	ContactModeSMS   ContactMode = "sms"
	ContactModePush  ContactMode = "push"
	ContactModeICal  ContactMode = "ical"
)

func (m ContactMode) Valid() bool {
	switch m {
	case ContactModeEmail, ContactModeSMS, ContactModePush, ContactModeICal:
		return true
	default:
		return false
	}
}

// Contact is one delivery target for a reminder's alerts.
type Contact struct {
	ID      string      `json:"id"`
	Mode    ContactMode `json:"mode"`
	Address string      `json:"address"`
}

// MinAlertOffset is the floor the original system enforced inconsistently
// across two schema definitions; this implementation adopts it uniformly.
const MinAlertOffset = 3000 * time.Millisecond

// Alert is one offset-before-event-time trigger.
type Alert struct {
	ID       string `json:"id"`
	OffsetMS int64  `json:"offsetMs"`
}

func (a Alert) Offset() time.Duration {
	return time.Duration(a.OffsetMS) * time.Millisecond
}

// Reminder is the single aggregate root the engine operates on.
type Reminder struct {
	ID          int64
	Title       string
	Description string
	Date        time.Time // one-time fire instant, or recurrence anchor
	Location    *string

	Contacts []Contact
	Alerts   []Alert

	IsRecurring bool
	Recurrence  *string // standard 5-field cron, UTC
	StartDate   *time.Time
	EndDate     *time.Time

	LastAlertTime *time.Time
	IsActive      bool

	CreatedAt time.Time
}

// Validate enforces the invariants §3 assigns to the CRUD boundary. It is
// called by the store's Create/Update, the one remaining in-scope entry
// point for mutating a reminder's shape.
func (r *Reminder) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title must not be empty")
	}
	if r.Description == "" {
		return fmt.Errorf("description must not be empty")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if r.IsRecurring {
		if r.Recurrence == nil || *r.Recurrence == "" {
			return fmt.Errorf("isRecurring requires a non-empty recurrence expression")
		}
		if r.StartDate == nil {
			return fmt.Errorf("isRecurring requires a startDate")
		}
	}
	for _, c := range r.Contacts {
		if !c.Mode.Valid() {
			return fmt.Errorf("contact %s has invalid mode %q", c.ID, c.Mode)
		}
		if c.Address == "" {
			return fmt.Errorf("contact %s has empty address", c.ID)
		}
	}
	for _, a := range r.Alerts {
		if a.Offset() < MinAlertOffset {
			return fmt.Errorf("alert %s offsetMs %d is below the %s floor", a.ID, a.OffsetMS, MinAlertOffset)
		}
	}
	return nil
}

// HasAlerts reports whether the reminder can ever fire. The spec treats an
// empty alert set as a silent skip, never an error.
func (r *Reminder) HasAlerts() bool {
	return len(r.Alerts) > 0
}
