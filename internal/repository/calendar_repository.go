package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

const calendarColumns = `id, title, description, event_type, location, event_date, end_date, is_recurring, recurrence_pattern,
       is_active, is_published, created_by, archived_at, archived_by, deleted_at, created_at, updated_at`

// CalendarRepository persists calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs a calendar repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ListBase returns the stored rows a calendar window needs before expansion:
// non-recurring events overlapping the window plus every recurring event,
// since a recurring row can produce instances far from its base date.
func (r *CalendarRepository) ListBase(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	where, args := calendarConditions(filter)
	if filter.WindowStart != nil && filter.WindowEnd != nil {
		args = append(args, *filter.WindowEnd, *filter.WindowStart)
		where = append(where, fmt.Sprintf("(is_recurring OR (event_date <= $%d AND COALESCE(end_date, event_date) >= $%d))", len(args)-1, len(args)))
	}
	query := fmt.Sprintf(`SELECT %s
FROM calendar_events WHERE %s
ORDER BY event_date ASC, id ASC`, calendarColumns, joinConditions(where))
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list calendar base events: %w", err)
	}
	return events, nil
}

// List returns stored rows for management screens without expansion.
func (r *CalendarRepository) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	where, args := calendarConditions(filter)
	if filter.WindowStart != nil {
		args = append(args, *filter.WindowStart)
		where = append(where, fmt.Sprintf("COALESCE(end_date, event_date) >= $%d", len(args)))
	}
	if filter.WindowEnd != nil {
		args = append(args, *filter.WindowEnd)
		where = append(where, fmt.Sprintf("event_date <= $%d", len(args)))
	}
	whereClause := joinConditions(where)

	size, offset := pageBounds(filter.Page, filter.PageSize, 50, 200)
	query := fmt.Sprintf(`SELECT %s
FROM calendar_events WHERE %s ORDER BY event_date ASC, id ASC LIMIT %d OFFSET %d`, calendarColumns, whereClause, size, offset)
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendar events: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM calendar_events WHERE %s", whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count calendar events: %w", err)
	}
	return events, total, nil
}

// GetByID fetches a calendar event, including soft-deleted rows.
func (r *CalendarRepository) GetByID(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	query := fmt.Sprintf(`SELECT %s FROM calendar_events WHERE id = $1`, calendarColumns)
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a calendar event and fills in its generated id.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	const query = `INSERT INTO calendar_events (title, description, event_type, location, event_date, end_date, is_recurring,
	recurrence_pattern, is_active, is_published, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	err := r.db.GetContext(ctx, &event.ID, query,
		event.Title, event.Description, event.EventType, event.Location, event.EventDate, event.EndDate, event.IsRecurring,
		event.RecurrencePattern, event.IsActive, event.IsPublished, event.CreatedBy, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Update modifies the editable fields of a live event.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendar_events SET title = :title, description = :description, event_type = :event_type, location = :location,
event_date = :event_date, end_date = :end_date, is_recurring = :is_recurring, recurrence_pattern = :recurrence_pattern, updated_at = :updated_at
WHERE id = :id AND deleted_at IS NULL`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check calendar update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Transition persists the lifecycle flags of event only if the stored row
// still carries the flags the caller read.
func (r *CalendarRepository) Transition(ctx context.Context, event *models.CalendarEvent, from models.CalendarEventFlags) error {
	const query = `UPDATE calendar_events SET is_active = $1, is_published = $2, archived_at = $3, archived_by = $4,
deleted_at = $5, updated_at = $6
WHERE id = $7 AND is_active = $8 AND is_published = $9 AND (deleted_at IS NOT NULL) = $10 AND COALESCE(archived_by, '') = $11`
	res, err := r.db.ExecContext(ctx, query,
		event.IsActive, event.IsPublished, event.ArchivedAt, event.ArchivedBy, event.DeletedAt, event.UpdatedAt,
		event.ID, from.IsActive, from.IsPublished, from.Deleted, from.ArchivedBy)
	if err != nil {
		return fmt.Errorf("transition calendar event %d: %w", event.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check calendar transition rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

// PermanentDelete removes the row if it still carries the flags the caller read.
func (r *CalendarRepository) PermanentDelete(ctx context.Context, id int64, from models.CalendarEventFlags) error {
	const query = `DELETE FROM calendar_events WHERE id = $1 AND is_active = $2 AND is_published = $3 AND (deleted_at IS NOT NULL) = $4
AND COALESCE(archived_by, '') = $5`
	res, err := r.db.ExecContext(ctx, query, id, from.IsActive, from.IsPublished, from.Deleted, from.ArchivedBy)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check calendar delete rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

func calendarConditions(filter models.CalendarFilter) ([]string, []interface{}) {
	where := []string{}
	if filter.ArchiveOnly {
		where = append(where, "(is_active = FALSE OR deleted_at IS NOT NULL)")
		return where, []interface{}{}
	}
	where = append(where, "deleted_at IS NULL")
	if !filter.IncludeInactive {
		where = append(where, "is_active = TRUE")
	}
	if !filter.IncludeUnpublished {
		where = append(where, "is_published = TRUE")
	}
	return where, []interface{}{}
}

func joinConditions(where []string) string {
	if len(where) == 0 {
		return "1=1"
	}
	return strings.Join(where, " AND ")
}
