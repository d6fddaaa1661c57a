// Package memory provides an in-memory Store for fast, dependency-free
// tests of the engine and scheduling components — the "in-memory store
// required by the test scenarios" the spec's design notes call for.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"remindo/internal/models"
	"remindo/internal/store"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	reminders map[int64]*models.Reminder
}

func New() *Store {
	return &Store{reminders: make(map[int64]*models.Reminder)}
}

var _ store.Store = (*Store)(nil)

func clone(r *models.Reminder) *models.Reminder {
	cp := *r
	if r.Location != nil {
		loc := *r.Location
		cp.Location = &loc
	}
	if r.Recurrence != nil {
		rec := *r.Recurrence
		cp.Recurrence = &rec
	}
	if r.StartDate != nil {
		t := *r.StartDate
		cp.StartDate = &t
	}
	if r.EndDate != nil {
		t := *r.EndDate
		cp.EndDate = &t
	}
	if r.LastAlertTime != nil {
		t := *r.LastAlertTime
		cp.LastAlertTime = &t
	}
	cp.Contacts = append([]models.Contact(nil), r.Contacts...)
	cp.Alerts = append([]models.Alert(nil), r.Alerts...)
	return &cp
}

func (s *Store) FindAll(ctx context.Context) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(func(*models.Reminder) bool { return true }), nil
}

func (s *Store) FindActive(ctx context.Context) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(func(r *models.Reminder) bool { return r.IsActive }), nil
}

func (s *Store) listLocked(keep func(*models.Reminder) bool) []*models.Reminder {
	var out []*models.Reminder
	for _, r := range s.reminders {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) FindByID(ctx context.Context, id int64) (*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(r), nil
}

func (s *Store) Create(ctx context.Context, input store.CreateInput) (int64, error) {
	r := &models.Reminder{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Contacts:    input.Contacts,
		Alerts:      input.Alerts,
		IsRecurring: input.IsRecurring,
		Recurrence:  input.Recurrence,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.Validate(); err != nil {
		return 0, err
	}
	store.AssignSubEntityIDs(r.Contacts, r.Alerts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.reminders[r.ID] = clone(r)
	return r.ID, nil
}

func (s *Store) Update(ctx context.Context, id int64, input store.CreateInput) (bool, error) {
	candidate := &models.Reminder{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Contacts:    input.Contacts,
		Alerts:      input.Alerts,
		IsRecurring: input.IsRecurring,
		Recurrence:  input.Recurrence,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := candidate.Validate(); err != nil {
		return false, err
	}
	store.AssignSubEntityIDs(candidate.Contacts, candidate.Alerts)

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.reminders[id]
	if !ok {
		return false, nil
	}
	candidate.IsActive = existing.IsActive
	candidate.LastAlertTime = existing.LastAlertTime
	candidate.CreatedAt = existing.CreatedAt
	s.reminders[id] = clone(candidate)
	return true, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return false, nil
	}
	delete(s.reminders, id)
	return true, nil
}

func (s *Store) DeleteBulk(ctx context.Context, ids []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, id := range ids {
		if _, ok := s.reminders[id]; ok {
			delete(s.reminders, id)
			count++
		}
	}
	return count, nil
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reminders[id]; ok {
		r.IsActive = false
	}
	return nil
}

func (s *Store) SetLastAlertTime(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.reminders[id]; ok {
		t := at
		r.LastAlertTime = &t
	}
	return nil
}
