package alerts

import (
	"testing"
	"time"

	"remindo/internal/models"
)

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSelectAlertToFire(t *testing.T) {
	tickInterval := 3 * time.Second

	t.Run("due alert fires", func(t *testing.T) {
		r := &models.Reminder{
			Alerts: []models.Alert{{ID: "a1", OffsetMS: 60_000}},
		}
		eventTime := mustTime("2025-06-01T10:00:00Z")
		now := mustTime("2025-06-01T09:59:00.500Z")

		alert, ok := SelectAlertToFire(r, eventTime, now, tickInterval)
		if !ok || alert.ID != "a1" {
			t.Fatalf("expected alert a1 to fire, got %+v ok=%v", alert, ok)
		}
	})

	t.Run("outside window does not fire", func(t *testing.T) {
		r := &models.Reminder{
			Alerts: []models.Alert{{ID: "a1", OffsetMS: 60_000}},
		}
		eventTime := mustTime("2025-06-01T10:00:00Z")
		now := mustTime("2025-06-01T09:58:00Z")

		_, ok := SelectAlertToFire(r, eventTime, now, tickInterval)
		if ok {
			t.Fatalf("expected no alert to fire")
		}
	})

	t.Run("recurring already acknowledged occurrence is skipped", func(t *testing.T) {
		r := &models.Reminder{
			IsRecurring:   true,
			Alerts:        []models.Alert{{ID: "a1", OffsetMS: 0}},
			LastAlertTime: ptrTime(mustTime("2025-06-01T10:00:00Z")),
		}
		eventTime := mustTime("2025-06-01T10:05:00Z")
		now := mustTime("2025-06-01T10:04:59.500Z")

		_, ok := SelectAlertToFire(r, eventTime, now, tickInterval)
		if ok {
			t.Fatalf("expected alert instant to be outside the window, not merely acknowledged")
		}
	})

	t.Run("recurring new occurrence fires despite older ack", func(t *testing.T) {
		r := &models.Reminder{
			IsRecurring:   true,
			Alerts:        []models.Alert{{ID: "a1", OffsetMS: 0}},
			LastAlertTime: ptrTime(mustTime("2025-06-01T10:00:00Z")),
		}
		eventTime := mustTime("2025-06-01T10:05:00Z")
		now := mustTime("2025-06-01T10:05:00.100Z")

		alert, ok := SelectAlertToFire(r, eventTime, now, tickInterval)
		if !ok || alert.ID != "a1" {
			t.Fatalf("expected new occurrence to fire, got ok=%v", ok)
		}
	})

	t.Run("first matching offset wins", func(t *testing.T) {
		r := &models.Reminder{
			Alerts: []models.Alert{
				{ID: "early", OffsetMS: 120_000},
				{ID: "late", OffsetMS: 60_000},
			},
		}
		eventTime := mustTime("2025-06-01T10:00:00Z")
		now := mustTime("2025-06-01T09:58:00.200Z")

		alert, ok := SelectAlertToFire(r, eventTime, now, tickInterval)
		if !ok || alert.ID != "early" {
			t.Fatalf("expected first matching alert 'early' to win, got %+v", alert)
		}
	})

	t.Run("no alerts never fires", func(t *testing.T) {
		r := &models.Reminder{}
		_, ok := SelectAlertToFire(r, time.Now(), time.Now(), tickInterval)
		if ok {
			t.Fatalf("expected no alert to fire for an empty alert set")
		}
	})
}

func ptrTime(t time.Time) *time.Time { return &t }
