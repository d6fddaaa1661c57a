package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"remindo/internal/models"
	"remindo/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return New(db)
}

func validInput() store.CreateInput {
	return store.CreateInput{
		Title:       "Pay rent",
		Description: "Monthly",
		Date:        time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Contacts:    []models.Contact{{Mode: models.ContactModeEmail, Address: "a@example.com"}},
		Alerts:      []models.Alert{{OffsetMS: 60_000}},
	}
}

func TestCreateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, validInput())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pay rent", got.Title)
	require.True(t, got.IsActive)
	require.Nil(t, got.LastAlertTime)
	require.Len(t, got.Contacts, 1)
	require.NotEmpty(t, got.Contacts[0].ID)
	require.Len(t, got.Alerts, 1)
	require.NotEmpty(t, got.Alerts[0].ID)
	require.True(t, got.Date.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create(context.Background(), store.CreateInput{})
	require.Error(t, err)
}

func TestFindByIDMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindActiveExcludesDeactivated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = s.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, s.Deactivate(ctx, id1))

	active, err := s.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestUpdateFullReplacement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, validInput())
	require.NoError(t, err)

	updated := validInput()
	updated.Title = "Pay rent (updated)"
	updated.Contacts = append(updated.Contacts, models.Contact{Mode: models.ContactModeSMS, Address: "+10000000000"})

	ok, err := s.Update(ctx, id, updated)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pay rent (updated)", got.Title)
	require.Len(t, got.Contacts, 2)
}

func TestUpdateMissingReturnsFalse(t *testing.T) {
	s := newTestStore(t)
	ok, err := s.Update(context.Background(), 999, validInput())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteBulk(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := s.Create(ctx, validInput())
		require.NoError(t, err)
		ids = append(ids, id)
	}

	n, err := s.DeleteBulk(ctx, []int64{ids[0], ids[2], 99999})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, ids[1], all[0].ID)
}

func TestSetLastAlertTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, validInput())
	require.NoError(t, err)

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetLastAlertTime(ctx, id, at))

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.LastAlertTime)
	require.True(t, got.LastAlertTime.Equal(at))
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}
