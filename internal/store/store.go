// Package store defines the persistence contract the engine depends on.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"remindo/internal/models"
)

// ErrNotFound is returned by operations that target a specific id that
// does not exist.
var ErrNotFound = errors.New("remindo: reminder not found")

// CreateInput is the set of fields a caller supplies when creating a
// reminder; id, isActive, and lastAlertTime are assigned by the store.
type CreateInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    *string
	Contacts    []models.Contact
	Alerts      []models.Alert
	IsRecurring bool
	Recurrence  *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// AssignSubEntityIDs fills in a uuid for any contact or alert with an empty
// ID. Every Store implementation calls this from Create/Update so a
// reminder's sub-entity ids are present regardless of which backend stored
// it.
func AssignSubEntityIDs(contacts []models.Contact, alerts []models.Alert) {
	for i := range contacts {
		if contacts[i].ID == "" {
			contacts[i].ID = uuid.NewString()
		}
	}
	for i := range alerts {
		if alerts[i].ID == "" {
			alerts[i].ID = uuid.NewString()
		}
	}
}

// Store is the persistence contract C1 specifies. Implementations must
// serialise writes so concurrent external-trigger handlers and the
// scheduling loop can share one instance safely.
type Store interface {
	FindAll(ctx context.Context) ([]*models.Reminder, error)
	FindActive(ctx context.Context) ([]*models.Reminder, error)
	FindByID(ctx context.Context, id int64) (*models.Reminder, error)

	Create(ctx context.Context, input CreateInput) (int64, error)
	Update(ctx context.Context, id int64, input CreateInput) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)
	DeleteBulk(ctx context.Context, ids []int64) (int, error)

	Deactivate(ctx context.Context, id int64) error
	SetLastAlertTime(ctx context.Context, id int64, at time.Time) error
}
