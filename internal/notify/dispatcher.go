// Package notify fans notifications out to a reminder's contacts,
// isolating per-contact failures so one bad address never blocks the rest.
package notify

import (
	"context"
	"log"

	"remindo/internal/models"
)

// EmailSender is the transport-agnostic interface the dispatcher depends
// on (§6). Production code wires a concrete provider; tests wire a stub.
type EmailSender interface {
	Send(ctx context.Context, address, subject, body string) error
}

// Dispatcher fans a reminder's alert out to its contacts. It never
// returns an error to the caller: a notification failure is logged and
// swallowed so the caller can still acknowledge the fire.
type Dispatcher struct {
	Email EmailSender
}

func New(email EmailSender) *Dispatcher {
	return &Dispatcher{Email: email}
}

// Send iterates contacts in order. Only ContactModeEmail has a dispatch
// implementation; other modes are accepted and no-opped (reserved for a
// future transport).
func (d *Dispatcher) Send(ctx context.Context, r *models.Reminder, contacts []models.Contact) {
	for _, c := range contacts {
		switch c.Mode {
		case models.ContactModeEmail:
			if d.Email == nil {
				continue
			}
			if err := d.Email.Send(ctx, c.Address, r.Title, r.Description); err != nil {
				log.Printf("notify: failed to send email to %s for reminder %d: %v", c.Address, r.ID, err)
				continue
			}
		case models.ContactModeSMS, models.ContactModePush, models.ContactModeICal:
			// reserved: no dispatch implementation for this mode yet
			continue
		}
	}
}
