package notify

import (
	"context"
	"errors"
	"testing"

	"remindo/internal/models"
)

type recordingSender struct {
	addresses []string
	failFor   string
}

func (r *recordingSender) Send(ctx context.Context, address, subject, body string) error {
	if address == r.failFor {
		return errors.New("send failed")
	}
	r.addresses = append(r.addresses, address)
	return nil
}

func TestSendOnlyDispatchesEmailContacts(t *testing.T) {
	sender := &recordingSender{}
	d := New(sender)
	r := &models.Reminder{ID: 1, Title: "t", Description: "d"}
	contacts := []models.Contact{
		{Mode: models.ContactModeEmail, Address: "a@example.com"},
		{Mode: models.ContactModeSMS, Address: "+1000"},
		{Mode: models.ContactModePush, Address: "device-1"},
		{Mode: models.ContactModeICal, Address: "cal-1"},
	}

	d.Send(context.Background(), r, contacts)

	if len(sender.addresses) != 1 || sender.addresses[0] != "a@example.com" {
		t.Fatalf("expected only the email contact to be dispatched, got %v", sender.addresses)
	}
}

func TestSendContinuesPastPerContactFailure(t *testing.T) {
	sender := &recordingSender{failFor: "bad@example.com"}
	d := New(sender)
	r := &models.Reminder{ID: 1, Title: "t", Description: "d"}
	contacts := []models.Contact{
		{Mode: models.ContactModeEmail, Address: "bad@example.com"},
		{Mode: models.ContactModeEmail, Address: "good@example.com"},
	}

	d.Send(context.Background(), r, contacts)

	if len(sender.addresses) != 1 || sender.addresses[0] != "good@example.com" {
		t.Fatalf("expected the second contact to still be attempted, got %v", sender.addresses)
	}
}

func TestSendWithNilEmailSenderNeverPanics(t *testing.T) {
	d := New(nil)
	r := &models.Reminder{ID: 1, Title: "t", Description: "d"}
	contacts := []models.Contact{{Mode: models.ContactModeEmail, Address: "a@example.com"}}

	d.Send(context.Background(), r, contacts)
}
