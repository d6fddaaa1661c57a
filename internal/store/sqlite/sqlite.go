// Package sqlite backs the reminder store with an embedded SQLite
// database. Booleans are stored as 0/1 integers, contacts/alerts as JSON
// text, and every instant as an ISO-8601 string with a trailing Z — the
// transformation layer below is the one place those encodings exist; the
// rest of the engine only ever sees models.Reminder.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"remindo/internal/models"
	"remindo/internal/store"
)

const isoLayout = "2006-01-02T15:04:05.999999999Z"

// Store is a SQLite-backed implementation of store.Store. All writes go
// through mu so concurrent external-trigger handlers and the scheduling
// loop can share one instance safely, per the spec's shared-resource
// policy.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(isoLayout, s)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// marshalContacts and marshalAlerts assume the caller has already run
// store.AssignSubEntityIDs over the reminder's contacts/alerts.
func marshalContacts(contacts []models.Contact) (string, error) {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	b, err := json.Marshal(contacts)
	return string(b), err
}

func marshalAlerts(alerts []models.Alert) (string, error) {
	if alerts == nil {
		alerts = []models.Alert{}
	}
	b, err := json.Marshal(alerts)
	return string(b), err
}

type row struct {
	id            int64
	title         string
	description   string
	date          string
	location      sql.NullString
	contacts      string
	alerts        string
	isRecurring   int
	recurrence    sql.NullString
	startDate     sql.NullString
	endDate       sql.NullString
	lastAlertTime sql.NullString
	isActive      int
	createdAt     string
}

func scanRow(scanner interface{ Scan(dest ...any) error }) (row, error) {
	var rr row
	err := scanner.Scan(
		&rr.id, &rr.title, &rr.description, &rr.date, &rr.location,
		&rr.contacts, &rr.alerts, &rr.isRecurring, &rr.recurrence,
		&rr.startDate, &rr.endDate, &rr.lastAlertTime, &rr.isActive, &rr.createdAt,
	)
	return rr, err
}

// toReminder is the transformation layer: it converts the storage
// encoding (JSON text, 0/1 integers, ISO-8601 text) into the in-memory
// domain model before any engine logic runs.
func (rr row) toReminder() (*models.Reminder, error) {
	date, err := parseTime(rr.date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	createdAt, err := parseTime(rr.createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	var contacts []models.Contact
	if err := json.Unmarshal([]byte(rr.contacts), &contacts); err != nil {
		return nil, fmt.Errorf("unmarshal contacts: %w", err)
	}
	var als []models.Alert
	if err := json.Unmarshal([]byte(rr.alerts), &als); err != nil {
		return nil, fmt.Errorf("unmarshal alerts: %w", err)
	}

	r := &models.Reminder{
		ID:          rr.id,
		Title:       rr.title,
		Description: rr.description,
		Date:        date,
		Contacts:    contacts,
		Alerts:      als,
		IsRecurring: rr.isRecurring != 0,
		IsActive:    rr.isActive != 0,
		CreatedAt:   createdAt,
	}
	if rr.location.Valid {
		loc := rr.location.String
		r.Location = &loc
	}
	if rr.recurrence.Valid {
		rec := rr.recurrence.String
		r.Recurrence = &rec
	}
	if rr.startDate.Valid {
		t, err := parseTime(rr.startDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse start_date: %w", err)
		}
		r.StartDate = &t
	}
	if rr.endDate.Valid {
		t, err := parseTime(rr.endDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse end_date: %w", err)
		}
		r.EndDate = &t
	}
	if rr.lastAlertTime.Valid {
		t, err := parseTime(rr.lastAlertTime.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_alert_time: %w", err)
		}
		r.LastAlertTime = &t
	}
	return r, nil
}

const selectColumns = `id, title, description, date, location, contacts, alerts,
	is_recurring, recurrence, start_date, end_date, last_alert_time, is_active, created_at`

func (s *Store) FindAll(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM reminders ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *Store) FindActive(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM reminders WHERE is_active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func scanReminders(rows *sql.Rows) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for rows.Next() {
		rr, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		reminder, err := rr.toReminder()
		if err != nil {
			return nil, err
		}
		out = append(out, reminder)
	}
	return out, rows.Err()
}

func (s *Store) FindByID(ctx context.Context, id int64) (*models.Reminder, error) {
	rr, err := scanRow(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM reminders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rr.toReminder()
}

func (s *Store) Create(ctx context.Context, input store.CreateInput) (int64, error) {
	reminder := inputToReminder(0, input)
	if err := reminder.Validate(); err != nil {
		return 0, err
	}
	store.AssignSubEntityIDs(reminder.Contacts, reminder.Alerts)

	contactsJSON, err := marshalContacts(reminder.Contacts)
	if err != nil {
		return 0, err
	}
	alertsJSON, err := marshalAlerts(reminder.Alerts)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders
			(title, description, date, location, contacts, alerts, is_recurring, recurrence, start_date, end_date, last_alert_time, is_active, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		reminder.Title, reminder.Description, formatTime(reminder.Date), nullableString(reminder.Location),
		contactsJSON, alertsJSON, boolToInt(reminder.IsRecurring), nullableString(reminder.Recurrence),
		nullableTime(reminder.StartDate), nullableTime(reminder.EndDate), nil, boolToInt(true), formatTime(now),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) Update(ctx context.Context, id int64, input store.CreateInput) (bool, error) {
	reminder := inputToReminder(id, input)
	if err := reminder.Validate(); err != nil {
		return false, err
	}
	store.AssignSubEntityIDs(reminder.Contacts, reminder.Alerts)

	contactsJSON, err := marshalContacts(reminder.Contacts)
	if err != nil {
		return false, err
	}
	alertsJSON, err := marshalAlerts(reminder.Alerts)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET
			title = ?, description = ?, date = ?, location = ?, contacts = ?, alerts = ?,
			is_recurring = ?, recurrence = ?, start_date = ?, end_date = ?
		WHERE id = ?`,
		reminder.Title, reminder.Description, formatTime(reminder.Date), nullableString(reminder.Location),
		contactsJSON, alertsJSON, boolToInt(reminder.IsRecurring), nullableString(reminder.Recurrence),
		nullableTime(reminder.StartDate), nullableTime(reminder.EndDate), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func inputToReminder(id int64, input store.CreateInput) *models.Reminder {
	return &models.Reminder{
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
		IsActive:    true,
	}
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DeleteBulk(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM reminders WHERE id IN (%s)`, strings.Join(placeholders, ",")),
		args...,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET is_active = 0 WHERE id = ?`, id)
	return err
}

func (s *Store) SetLastAlertTime(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE reminders SET last_alert_time = ? WHERE id = ?`, formatTime(at), id)
	return err
}
