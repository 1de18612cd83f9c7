package lifecycle

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

// Calendar events have no approval sub-flow. Allowed transitions:
//
//	draft     -> published  (PublishEvent)
//	published -> draft      (UnpublishEvent)
//	draft     -> archived   (ArchiveEvent, keeps is_published=false)
//	published -> archived   (ArchiveEvent, keeps is_published=true)
//	archived  -> draft|published (RestoreEvent, unless system-archived)
//	any       -> deleted    (SoftDeleteEvent)

// PublishEvent makes an active event visible.
func PublishEvent(event *models.CalendarEvent, now time.Time) error {
	if err := ensureEventLive(event); err != nil {
		return err
	}
	if state := event.State(); state != models.CalendarEventStateDraft {
		return invalidEventFrom(ActionPublish, state)
	}
	event.IsPublished = true
	event.UpdatedAt = now
	return nil
}

// UnpublishEvent hides a published event.
func UnpublishEvent(event *models.CalendarEvent, now time.Time) error {
	if err := ensureEventLive(event); err != nil {
		return err
	}
	if state := event.State(); state != models.CalendarEventStatePublished {
		return invalidEventFrom(ActionUnpublish, state)
	}
	event.IsPublished = false
	event.UpdatedAt = now
	return nil
}

// ArchiveEvent deactivates an event. is_published is retained so a restore
// returns the event to its previous visibility.
func ArchiveEvent(event *models.CalendarEvent, actor models.Actor, now time.Time) error {
	if err := ensureEventLive(event); err != nil {
		return err
	}
	if state := event.State(); state == models.CalendarEventStateArchived {
		return invalidEventFrom(ActionArchive, state)
	}
	if actor.ID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "archive requires an actor")
	}
	by := actor.ID
	event.IsActive = false
	event.ArchivedAt = timePtr(now)
	event.ArchivedBy = &by
	event.UpdatedAt = now
	return nil
}

// RestoreEvent reactivates a user-archived event and/or clears a soft delete.
func RestoreEvent(event *models.CalendarEvent, now time.Time) error {
	if event.IsSystemArchived() {
		return appErrors.Clone(appErrors.ErrValidation, errCannotRestoreSystem)
	}
	if event.State() != models.CalendarEventStateArchived && !event.IsDeleted() {
		return appErrors.Clone(appErrors.ErrNotFound, errNothingToRestore)
	}
	event.DeletedAt = nil
	event.IsActive = true
	event.ArchivedAt = nil
	event.ArchivedBy = nil
	event.UpdatedAt = now
	return nil
}

// SoftDeleteEvent stamps deleted_at.
func SoftDeleteEvent(event *models.CalendarEvent, now time.Time) error {
	if event.IsDeleted() {
		return appErrors.Clone(appErrors.ErrValidation, "event already deleted")
	}
	event.DeletedAt = timePtr(now)
	event.UpdatedAt = now
	return nil
}

// CheckEventPermanentDelete allows permanent removal of archived or soft-deleted events.
func CheckEventPermanentDelete(event *models.CalendarEvent) error {
	if event.State() == models.CalendarEventStateArchived || event.IsDeleted() {
		return nil
	}
	return appErrors.Clone(appErrors.ErrValidation, "only archived or deleted events can be permanently deleted")
}

// ValidateEvent checks the stored fields that the calendar engine relies on.
func ValidateEvent(event *models.CalendarEvent) error {
	if !event.EventDate.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "event_date is not a valid date")
	}
	if event.EndDate != nil {
		if !event.EndDate.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "end_date is not a valid date")
		}
		if event.EndDate.Before(event.EventDate) {
			return appErrors.Clone(appErrors.ErrValidation, "end_date must be on or after event_date")
		}
		if event.SpanDays() > models.MaxEventSpanDays {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("an event may span at most %d days", models.MaxEventSpanDays))
		}
	}
	if event.IsRecurring {
		if event.RecurrencePattern == nil {
			return appErrors.Clone(appErrors.ErrValidation, "recurrence_pattern required for recurring events")
		}
		if !event.RecurrencePattern.Known() {
			return appErrors.Clone(appErrors.ErrValidation, "unsupported recurrence_pattern "+string(*event.RecurrencePattern))
		}
	} else if event.RecurrencePattern != nil {
		return appErrors.Clone(appErrors.ErrValidation, "recurrence_pattern set on a non-recurring event")
	}
	if !event.IsActive && event.ArchivedAt == nil {
		return appErrors.Clone(appErrors.ErrValidation, "inactive event is missing archive metadata")
	}
	return nil
}

func ensureEventLive(event *models.CalendarEvent) error {
	if event.IsDeleted() {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return nil
}

func invalidEventFrom(action Action, state models.CalendarEventState) error {
	return appErrors.Clone(appErrors.ErrValidation, "cannot "+string(action)+" event in state "+string(state))
}
