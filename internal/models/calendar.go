package models

import "time"

// RecurrencePattern is the repeat rule of a recurring calendar event.
type RecurrencePattern string

const (
	RecurrenceYearly  RecurrencePattern = "yearly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceWeekly  RecurrencePattern = "weekly"
)

// MaxEventSpanDays bounds end_date - event_date for a single event.
const MaxEventSpanDays = 366

// Known reports whether the pattern is one the expander understands.
func (p RecurrencePattern) Known() bool {
	switch p {
	case RecurrenceYearly, RecurrenceMonthly, RecurrenceWeekly:
		return true
	default:
		return false
	}
}

// CalendarEvent represents a school calendar entry.
//
// Lifecycle is stored as two flags, is_active and is_published. Every
// combination is mapped to an explicit CalendarEventState by State.
type CalendarEvent struct {
	ID                int64              `db:"id" json:"id"`
	Title             string             `db:"title" json:"title"`
	Description       string             `db:"description" json:"description"`
	EventType         string             `db:"event_type" json:"event_type"`
	Location          *string            `db:"location" json:"location,omitempty"`
	EventDate         CalendarDate       `db:"event_date" json:"event_date"`
	EndDate           *CalendarDate      `db:"end_date" json:"end_date,omitempty"`
	IsRecurring       bool               `db:"is_recurring" json:"is_recurring"`
	RecurrencePattern *RecurrencePattern `db:"recurrence_pattern" json:"recurrence_pattern,omitempty"`
	IsActive          bool               `db:"is_active" json:"is_active"`
	IsPublished       bool               `db:"is_published" json:"is_published"`
	CreatedBy         string             `db:"created_by" json:"created_by"`
	ArchivedAt        *time.Time         `db:"archived_at" json:"archived_at,omitempty"`
	ArchivedBy        *string            `db:"archived_by" json:"archived_by,omitempty"`
	DeletedAt         *time.Time         `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

// CalendarEventState is the unified view of the two storage flags.
type CalendarEventState string

const (
	CalendarEventStateDraft     CalendarEventState = "draft"
	CalendarEventStatePublished CalendarEventState = "published"
	CalendarEventStateArchived  CalendarEventState = "archived"
)

// State maps (is_active, is_published) onto the lifecycle state.
//
//	active   unpublished -> draft
//	active   published   -> published
//	inactive any         -> archived (is_published remembers the pre-archive visibility)
func (e *CalendarEvent) State() CalendarEventState {
	switch {
	case !e.IsActive:
		return CalendarEventStateArchived
	case e.IsPublished:
		return CalendarEventStatePublished
	default:
		return CalendarEventStateDraft
	}
}

// IsDeleted reports whether the row is soft-deleted.
func (e *CalendarEvent) IsDeleted() bool {
	return e.DeletedAt != nil
}

// IsSystemArchived reports whether an automated process archived the row.
func (e *CalendarEvent) IsSystemArchived() bool {
	return e.ArchivedBy != nil && *e.ArchivedBy == ArchivedBySystem
}

// LastDate returns the inclusive end of the event span.
func (e *CalendarEvent) LastDate() CalendarDate {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.EventDate
}

// SpanDays returns end_date - event_date in whole days, 0 without an end date.
func (e *CalendarEvent) SpanDays() int {
	if e.EndDate == nil {
		return 0
	}
	return e.EventDate.DaysUntil(*e.EndDate)
}

// CalendarEventFlags captures the fields a conditional transition update
// compares against.
type CalendarEventFlags struct {
	IsActive    bool
	IsPublished bool
	Deleted     bool
	// ArchivedBy is "" when the row has no archiver.
	ArchivedBy string
}

// FlagsOf snapshots the guarded state of an event.
func (e *CalendarEvent) FlagsOf() CalendarEventFlags {
	flags := CalendarEventFlags{IsActive: e.IsActive, IsPublished: e.IsPublished, Deleted: e.IsDeleted()}
	if e.ArchivedBy != nil {
		flags.ArchivedBy = *e.ArchivedBy
	}
	return flags
}

// EventOccurrence is a concrete dated appearance of a calendar event. For
// recurring events it is generated per read and never persisted.
type EventOccurrence struct {
	CalendarEvent
	OriginEventID        int64 `json:"origin_event_id"`
	IsRecurrenceInstance bool  `json:"is_recurrence_instance"`
}

// BucketEntry is an occurrence placed on one calendar day.
type BucketEntry struct {
	Event        EventOccurrence `json:"event"`
	IsMultiDay   bool            `json:"is_multi_day"`
	IsEventStart bool            `json:"is_event_start"`
	IsEventEnd   bool            `json:"is_event_end"`
}

// CalendarFilter narrows down base events loaded for expansion.
type CalendarFilter struct {
	WindowStart        *CalendarDate
	WindowEnd          *CalendarDate
	IncludeUnpublished bool
	IncludeInactive    bool
	ArchiveOnly        bool
	Page               int
	PageSize           int
}
