package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	"github.com/noah-isme/sma-bulletin-api/internal/repository"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

var calNow = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)

type calendarRepoStub struct {
	base          []models.CalendarEvent
	baseCalls     int
	baseFilter    models.CalendarFilter
	items         map[int64]models.CalendarEvent
	transitions   []models.CalendarEventFlags
	transitionErr error
	created       *models.CalendarEvent
	deleted       []int64
	err           error
}

func (r *calendarRepoStub) ListBase(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	r.baseCalls++
	r.baseFilter = filter
	return r.base, r.err
}

func (r *calendarRepoStub) List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error) {
	return nil, 0, r.err
}

func (r *calendarRepoStub) GetByID(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	event, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &event, nil
}

func (r *calendarRepoStub) Create(ctx context.Context, event *models.CalendarEvent) error {
	event.ID = 77
	r.created = event
	return r.err
}

func (r *calendarRepoStub) Update(ctx context.Context, event *models.CalendarEvent) error {
	return r.err
}

func (r *calendarRepoStub) Transition(ctx context.Context, event *models.CalendarEvent, from models.CalendarEventFlags) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	r.transitions = append(r.transitions, from)
	return nil
}

func (r *calendarRepoStub) PermanentDelete(ctx context.Context, id int64, from models.CalendarEventFlags) error {
	r.deleted = append(r.deleted, id)
	return r.err
}

type calendarCacheStub struct {
	entries     map[string][]byte
	invalidated []string
}

func newCalendarCacheStub() *calendarCacheStub {
	return &calendarCacheStub{entries: map[string][]byte{}}
}

func (c *calendarCacheStub) Lookup(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := c.entries[key]
	return ok && json.Unmarshal(raw, dest) == nil
}

func (c *calendarCacheStub) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if raw, err := json.Marshal(value); err == nil {
		c.entries[key] = raw
	}
}

func (c *calendarCacheStub) Invalidate(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	c.entries = map[string][]byte{}
	return nil
}

func calDate(y, m, d int) models.CalendarDate {
	return models.CalendarDate{Year: y, Month: m, Day: d}
}

func patternPtr(p models.RecurrencePattern) *models.RecurrencePattern { return &p }

func newCalendarServiceForTest(repo *calendarRepoStub, cache *calendarCacheStub, cfg CalendarServiceConfig) *CalendarService {
	var c calendarCache
	if cache != nil {
		c = cache
	}
	svc := NewCalendarService(repo, c, nil, nil, nil, cfg)
	svc.now = func() time.Time { return calNow }
	return svc
}

func TestCalendarServiceViewExpandsAndCaches(t *testing.T) {
	repo := &calendarRepoStub{base: []models.CalendarEvent{
		{ID: 1, Title: "Assembly", EventDate: calDate(2025, 1, 31), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceMonthly), IsActive: true, IsPublished: true},
		{ID: 2, Title: "Camp", EventDate: calDate(2025, 2, 27), EndDate: datePtr(calDate(2025, 3, 2)), IsActive: true, IsPublished: true},
	}}
	cache := newCalendarCacheStub()
	svc := newCalendarServiceForTest(repo, cache, CalendarServiceConfig{})

	view, err := svc.View(context.Background(), dto.CalendarViewQuery{Year: 2025, Month: 2})
	require.NoError(t, err)
	require.Equal(t, "2025-02-01", view.Start.String())
	require.Equal(t, "2025-02-28", view.End.String())
	require.Contains(t, view.Buckets, "2025-02-28")
	require.Len(t, view.Buckets["2025-02-28"], 2)
	require.NotContains(t, view.Buckets, "2025-03-01")
	require.Equal(t, []string{"2025-02-27", "2025-02-28"}, view.Dates)
	require.Contains(t, cache.entries, "calendar:view:2025-02")

	again, err := svc.View(context.Background(), dto.CalendarViewQuery{Year: 2025, Month: 2})
	require.NoError(t, err)
	require.Equal(t, 1, repo.baseCalls)
	require.Equal(t, view.Dates, again.Dates)
}

func TestCalendarServiceViewRejectsBadMonth(t *testing.T) {
	svc := newCalendarServiceForTest(&calendarRepoStub{}, nil, CalendarServiceConfig{})

	_, err := svc.View(context.Background(), dto.CalendarViewQuery{Year: 2025, Month: 13})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCalendarServiceViewStorageError(t *testing.T) {
	svc := newCalendarServiceForTest(&calendarRepoStub{err: errors.New("down")}, nil, CalendarServiceConfig{})

	_, err := svc.View(context.Background(), dto.CalendarViewQuery{Year: 2025})
	require.True(t, appErrors.Is(err, appErrors.ErrStorage))
}

func TestCalendarServiceListPaginatesSortedOccurrences(t *testing.T) {
	repo := &calendarRepoStub{base: []models.CalendarEvent{
		{ID: 5, Title: "Club", EventDate: calDate(2025, 3, 5), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceWeekly), IsActive: true, IsPublished: true},
		{ID: 2, Title: "Exam", EventDate: calDate(2025, 3, 12), IsActive: true, IsPublished: true},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{MaxPageSize: 2})

	items, pagination, err := svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2025, 3, 1), End: calDate(2025, 3, 31), Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, pagination.PageSize)
	require.Equal(t, 5, pagination.TotalCount)
	require.Len(t, items, 2)
	require.Equal(t, "2025-03-05", items[0].EventDate.String())
	require.Equal(t, "2025-03-12", items[1].EventDate.String())
	require.Equal(t, int64(2), items[1].OriginEventID)

	items, _, err = svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2025, 3, 1), End: calDate(2025, 3, 31), Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "2025-03-26", items[0].EventDate.String())

	items, _, err = svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2025, 3, 1), End: calDate(2025, 3, 31), Page: 9, PageSize: 2})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCalendarServiceListValidatesRange(t *testing.T) {
	svc := newCalendarServiceForTest(&calendarRepoStub{}, nil, CalendarServiceConfig{})

	_, _, err := svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2025, 3, 2), End: calDate(2025, 3, 1)})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(1, 1, 1), End: calDate(9999, 12, 31), PageSize: 1})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2024, 1, 1), End: calDate(2024, 12, 31)})
	require.NoError(t, err)
}

func TestCalendarServiceIncludesOccurrencesRunningIntoWindow(t *testing.T) {
	repo := &calendarRepoStub{base: []models.CalendarEvent{
		{ID: 3, Title: "Winter camp", EventDate: calDate(2019, 12, 30), EndDate: datePtr(calDate(2020, 1, 2)), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceYearly), IsActive: true, IsPublished: true},
		{ID: 4, Title: "Field study", EventDate: calDate(2025, 1, 20), EndDate: datePtr(calDate(2025, 12, 31)), IsActive: true, IsPublished: true},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	view, err := svc.View(context.Background(), dto.CalendarViewQuery{Year: 2025, Month: 1})
	require.NoError(t, err)
	require.Equal(t, "2025-01-01", view.Dates[0])
	require.Len(t, view.Buckets["2025-01-01"], 1)
	require.Len(t, view.Buckets["2025-01-02"], 1)
	require.NotContains(t, view.Buckets, "2025-01-03")
	require.Len(t, view.Buckets["2025-01-31"], 1)
	require.NotContains(t, view.Buckets, "2025-02-01")

	items, pagination, err := svc.List(context.Background(), dto.CalendarListQuery{Start: calDate(2025, 1, 1), End: calDate(2025, 1, 5)})
	require.NoError(t, err)
	require.Equal(t, 1, pagination.TotalCount)
	require.Equal(t, "2024-12-30", items[0].EventDate.String())
	require.Equal(t, int64(3), items[0].OriginEventID)
}

func TestCalendarServiceCreate(t *testing.T) {
	repo := &calendarRepoStub{}
	cache := newCalendarCacheStub()
	svc := newCalendarServiceForTest(repo, cache, CalendarServiceConfig{})
	weekly := "Weekly"

	event, err := svc.Create(context.Background(), dto.CalendarEventRequest{
		Title: "Choir", EventType: "club", EventDate: calDate(2025, 3, 4), IsRecurring: true, RecurrencePattern: &weekly, Publish: true,
	}, annAdmin)
	require.NoError(t, err)
	require.Equal(t, int64(77), event.ID)
	require.True(t, event.IsActive)
	require.True(t, event.IsPublished)
	require.Equal(t, models.RecurrenceWeekly, *event.RecurrencePattern)
	require.Equal(t, []string{"calendar:view:*"}, cache.invalidated)
}

func TestCalendarServiceCreateValidation(t *testing.T) {
	svc := newCalendarServiceForTest(&calendarRepoStub{}, nil, CalendarServiceConfig{})
	daily := "daily"

	_, err := svc.Create(context.Background(), dto.CalendarEventRequest{Title: "x", EventType: "y", EventDate: calDate(2025, 3, 4), IsRecurring: true, RecurrencePattern: &daily}, annAdmin)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), dto.CalendarEventRequest{Title: "x", EventType: "y", EventDate: calDate(2025, 3, 4), IsRecurring: true}, annAdmin)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), dto.CalendarEventRequest{Title: "x", EventType: "y", EventDate: calDate(2025, 3, 4), EndDate: datePtr(calDate(2025, 3, 1))}, annAdmin)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCalendarServiceArchiveAndRestore(t *testing.T) {
	repo := &calendarRepoStub{items: map[int64]models.CalendarEvent{
		1: {ID: 1, EventDate: calDate(2025, 3, 4), IsActive: true, IsPublished: true},
	}}
	cache := newCalendarCacheStub()
	svc := newCalendarServiceForTest(repo, cache, CalendarServiceConfig{})

	event, err := svc.Archive(context.Background(), 1, annAdmin)
	require.NoError(t, err)
	require.Equal(t, models.CalendarEventStateArchived, event.State())
	require.True(t, event.IsPublished)
	require.Equal(t, models.CalendarEventFlags{IsActive: true, IsPublished: true}, repo.transitions[0])

	repo.items[1] = *event
	event, err = svc.Restore(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, models.CalendarEventStatePublished, event.State())
	require.Len(t, cache.invalidated, 2)
}

func TestCalendarServiceRestoreRefusesSystemArchive(t *testing.T) {
	system := models.ArchivedBySystem
	repo := &calendarRepoStub{items: map[int64]models.CalendarEvent{
		1: {ID: 1, EventDate: calDate(2025, 3, 4), ArchivedAt: &calNow, ArchivedBy: &system},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	_, err := svc.Restore(context.Background(), 1)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
	require.Empty(t, repo.transitions)
}

func TestCalendarServiceTransitionConflict(t *testing.T) {
	repo := &calendarRepoStub{
		items:         map[int64]models.CalendarEvent{1: {ID: 1, EventDate: calDate(2025, 3, 4), IsActive: true}},
		transitionErr: repository.ErrStaleState,
	}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	_, err := svc.Publish(context.Background(), 1)
	require.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestCalendarServicePermanentDelete(t *testing.T) {
	repo := &calendarRepoStub{items: map[int64]models.CalendarEvent{
		1: {ID: 1, EventDate: calDate(2025, 3, 4), IsActive: true, IsPublished: true},
		2: {ID: 2, EventDate: calDate(2025, 3, 4), IsActive: true, DeletedAt: &calNow},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	require.True(t, appErrors.Is(svc.PermanentDelete(context.Background(), 1), appErrors.ErrValidation))
	require.NoError(t, svc.PermanentDelete(context.Background(), 2))
	require.Equal(t, []int64{2}, repo.deleted)
}

func TestCalendarServiceGetHidesDraftsFromReaders(t *testing.T) {
	repo := &calendarRepoStub{items: map[int64]models.CalendarEvent{
		1: {ID: 1, EventDate: calDate(2025, 3, 4), IsActive: true},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	_, err := svc.Get(context.Background(), 1, annStudent)
	require.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	event, err := svc.Get(context.Background(), 1, annAdmin)
	require.NoError(t, err)
	require.Equal(t, models.CalendarEventStateDraft, event.State())
}

func TestCalendarServiceExport(t *testing.T) {
	location := "Hall"
	repo := &calendarRepoStub{base: []models.CalendarEvent{
		{ID: 1, Title: "Open day", EventType: "public", Location: &location, EventDate: calDate(2025, 3, 15), IsActive: true, IsPublished: true},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{})

	export, err := svc.Export(context.Background(), dto.CalendarExportQuery{Year: 2025, Month: 3, Format: "csv"})
	require.NoError(t, err)
	require.Equal(t, "calendar_2025-03.csv", export.Filename)
	content := string(export.Content)
	require.True(t, strings.HasPrefix(content, "Date,End,Title,Type,Location,Recurring"))
	require.Contains(t, content, "2025-03-15,2025-03-15,Open day,public,Hall,")

	pdf, err := svc.Export(context.Background(), dto.CalendarExportQuery{Year: 2025, Format: "PDF"})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", pdf.ContentType)
	require.True(t, strings.HasPrefix(string(pdf.Content), "%PDF"))

	_, err = svc.Export(context.Background(), dto.CalendarExportQuery{Year: 2025, Format: "xlsx"})
	require.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestCalendarServiceFeed(t *testing.T) {
	repo := &calendarRepoStub{base: []models.CalendarEvent{
		{ID: 1, Title: "Staff meeting", EventDate: calDate(2025, 1, 31), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceMonthly), IsActive: true, IsPublished: true, UpdatedAt: calNow},
		{ID: 2, Title: "Trip", EventDate: calDate(2025, 5, 6), EndDate: datePtr(calDate(2025, 5, 8)), IsActive: true, IsPublished: true, UpdatedAt: calNow},
	}}
	svc := newCalendarServiceForTest(repo, nil, CalendarServiceConfig{FeedName: "SMA Calendar"})

	body, err := svc.Feed(context.Background(), 2025)
	require.NoError(t, err)
	require.NotNil(t, repo.baseFilter.WindowStart)
	ics := string(body)
	require.Contains(t, ics, "BEGIN:VCALENDAR")
	require.Contains(t, ics, "X-WR-CALNAME:SMA Calendar")
	require.Contains(t, ics, "UID:calendar-event-1@sma-bulletin-api")
	require.Contains(t, ics, "RRULE:FREQ=MONTHLY;BYSETPOS=-1;BYMONTHDAY=28,29,30,31")
	require.Contains(t, ics, "DTSTART;VALUE=DATE:20250506")
	require.Contains(t, ics, "DTEND;VALUE=DATE:20250509")
}

func TestRecurrenceRule(t *testing.T) {
	cases := []struct {
		event models.CalendarEvent
		want  string
	}{
		{models.CalendarEvent{EventDate: calDate(2024, 2, 29), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceYearly)}, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=29"},
		{models.CalendarEvent{EventDate: calDate(2025, 3, 15), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceMonthly)}, "FREQ=MONTHLY;BYMONTHDAY=15"},
		{models.CalendarEvent{EventDate: calDate(2025, 3, 5), IsRecurring: true, RecurrencePattern: patternPtr(models.RecurrenceWeekly)}, "FREQ=WEEKLY;BYDAY=WE"},
		{models.CalendarEvent{EventDate: calDate(2025, 3, 5)}, ""},
	}
	for _, tc := range cases {
		event := tc.event
		require.Equal(t, tc.want, recurrenceRule(&event))
	}
}

func datePtr(d models.CalendarDate) *models.CalendarDate { return &d }
