package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

func activeEvent() *models.CalendarEvent {
	return &models.CalendarEvent{
		ID:        10,
		EventDate: models.CalendarDate{Year: 2025, Month: 6, Day: 10},
		IsActive:  true,
	}
}

func TestCalendarEventStates(t *testing.T) {
	e := activeEvent()
	require.Equal(t, models.CalendarEventStateDraft, e.State())
	e.IsPublished = true
	require.Equal(t, models.CalendarEventStatePublished, e.State())
	e.IsActive = false
	require.Equal(t, models.CalendarEventStateArchived, e.State())
	e.IsPublished = false
	require.Equal(t, models.CalendarEventStateArchived, e.State())
}

func TestCalendarPublishArchiveRestore(t *testing.T) {
	e := activeEvent()
	require.NoError(t, PublishEvent(e, now))
	require.True(t, appErrors.Is(PublishEvent(e, now), appErrors.ErrValidation))

	require.NoError(t, ArchiveEvent(e, admin, now))
	require.False(t, e.IsActive)
	require.True(t, e.IsPublished)
	require.True(t, appErrors.Is(PublishEvent(e, now), appErrors.ErrValidation))
	require.True(t, appErrors.Is(ArchiveEvent(e, admin, now), appErrors.ErrValidation))

	require.NoError(t, RestoreEvent(e, now))
	require.Equal(t, models.CalendarEventStatePublished, e.State())
	require.Nil(t, e.ArchivedBy)

	require.NoError(t, UnpublishEvent(e, now))
	require.Equal(t, models.CalendarEventStateDraft, e.State())
	require.True(t, appErrors.Is(UnpublishEvent(e, now), appErrors.ErrValidation))
}

func TestCalendarRestoreRefusesSystemArchive(t *testing.T) {
	e := activeEvent()
	require.NoError(t, ArchiveEvent(e, models.SystemActor, now))
	err := RestoreEvent(e, now)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	require.False(t, e.IsActive)
}

func TestCalendarRestoreNothing(t *testing.T) {
	require.True(t, appErrors.Is(RestoreEvent(activeEvent(), now), appErrors.ErrNotFound))
}

func TestCalendarSoftDeleteAndPermanent(t *testing.T) {
	e := activeEvent()
	require.Error(t, CheckEventPermanentDelete(e))
	require.NoError(t, SoftDeleteEvent(e, now))
	require.True(t, appErrors.Is(SoftDeleteEvent(e, now), appErrors.ErrValidation))
	require.True(t, appErrors.Is(PublishEvent(e, now), appErrors.ErrNotFound))
	require.NoError(t, CheckEventPermanentDelete(e))

	require.NoError(t, RestoreEvent(e, now))
	require.False(t, e.IsDeleted())
	require.True(t, e.IsActive)
}

func TestValidateEvent(t *testing.T) {
	e := activeEvent()
	require.NoError(t, ValidateEvent(e))

	end := models.CalendarDate{Year: 2025, Month: 6, Day: 9}
	e.EndDate = &end
	require.Error(t, ValidateEvent(e))
	e.EndDate = nil

	e.IsRecurring = true
	require.Error(t, ValidateEvent(e))
	bogus := models.RecurrencePattern("hourly")
	e.RecurrencePattern = &bogus
	require.Error(t, ValidateEvent(e))
	weekly := models.RecurrenceWeekly
	e.RecurrencePattern = &weekly
	require.NoError(t, ValidateEvent(e))

	e.IsRecurring = false
	require.Error(t, ValidateEvent(e))
}

func TestValidateEventBoundsSpan(t *testing.T) {
	e := activeEvent()
	end := e.EventDate.AddDays(models.MaxEventSpanDays)
	e.EndDate = &end
	require.NoError(t, ValidateEvent(e))

	end = e.EventDate.AddDays(models.MaxEventSpanDays + 1)
	e.EndDate = &end
	require.Error(t, ValidateEvent(e))
}
