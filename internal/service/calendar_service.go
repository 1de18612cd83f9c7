package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-bulletin-api/internal/calendar"
	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/lifecycle"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	"github.com/noah-isme/sma-bulletin-api/internal/repository"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
	"github.com/noah-isme/sma-bulletin-api/pkg/export"
)

type calendarRepository interface {
	ListBase(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error)
	List(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, int, error)
	GetByID(ctx context.Context, id int64) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	Transition(ctx context.Context, event *models.CalendarEvent, from models.CalendarEventFlags) error
	PermanentDelete(ctx context.Context, id int64, from models.CalendarEventFlags) error
}

type calendarCache interface {
	Lookup(ctx context.Context, key string, dest interface{}) bool
	Store(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string) error
}

const (
	kindCalendarEvent     = "calendar_event"
	calendarViewKeyPrefix = "calendar:view:"
	// maxListRangeDays bounds end - start for the flat occurrence list.
	maxListRangeDays = 366
)

// CalendarServiceConfig holds calendar tunables.
type CalendarServiceConfig struct {
	CacheTTL    time.Duration
	MaxPageSize int
	FeedName    string
}

// CalendarService manages calendar events and builds the expanded views.
type CalendarService struct {
	repo      calendarRepository
	cache     calendarCache
	validator *validator.Validate
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       CalendarServiceConfig
	now       func() time.Time
}

// NewCalendarService constructs the service.
func NewCalendarService(repo calendarRepository, cache calendarCache, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg CalendarServiceConfig) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 200
	}
	if cfg.FeedName == "" {
		cfg.FeedName = "School Calendar"
	}
	svc := &CalendarService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
	svc.validator.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
		return models.RecurrencePattern(strings.ToLower(fl.Field().String())).Known()
	})
	return svc
}

// View returns the bucketed calendar for a year, or one month of it.
func (s *CalendarService) View(ctx context.Context, query dto.CalendarViewQuery) (*dto.CalendarView, error) {
	window, err := viewWindow(query.Year, query.Month)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s%04d-%02d", calendarViewKeyPrefix, query.Year, query.Month)
	var cached dto.CalendarView
	if s.cache != nil && s.cache.Lookup(ctx, key, &cached) {
		return &cached, nil
	}

	occurrences, err := s.occurrences(ctx, window)
	if err != nil {
		return nil, err
	}
	buckets := calendar.BucketWithin(occurrences, window)
	view := &dto.CalendarView{Start: window.Start, End: window.End, Buckets: buckets.Keyed()}
	for _, d := range buckets.Dates() {
		view.Dates = append(view.Dates, d.String())
	}
	if view.Dates == nil {
		view.Dates = []string{}
	}
	if s.cache != nil {
		s.cache.Store(ctx, key, view, s.cfg.CacheTTL)
	}
	return view, nil
}

// List returns the flattened occurrences overlapping [start, end], ordered by
// date then origin id, paginated in memory.
func (s *CalendarService) List(ctx context.Context, query dto.CalendarListQuery) ([]models.EventOccurrence, *models.Pagination, error) {
	if !query.Start.Valid() || !query.End.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "start and end must be valid dates")
	}
	if query.End.Before(query.Start) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end must be on or after start")
	}
	if query.Start.DaysUntil(query.End) > maxListRangeDays {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("range may cover at most %d days", maxListRangeDays+1))
	}
	normalizePage(&query.Page, &query.PageSize, 50)
	if query.PageSize > s.cfg.MaxPageSize {
		query.PageSize = s.cfg.MaxPageSize
	}
	window := calendar.Window{Start: query.Start, End: query.End}
	occurrences, err := s.occurrences(ctx, window)
	if err != nil {
		return nil, nil, err
	}
	occurrences = calendar.FilterOverlapping(occurrences, window)
	calendar.SortOccurrences(occurrences)

	total := len(occurrences)
	from := (query.Page - 1) * query.PageSize
	if from > total {
		from = total
	}
	to := from + query.PageSize
	if to > total {
		to = total
	}
	return occurrences[from:to], &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}, nil
}

// ListArchive returns archived or soft-deleted base events.
func (s *CalendarService) ListArchive(ctx context.Context, page, pageSize int) ([]models.CalendarEvent, *models.Pagination, error) {
	normalizePage(&page, &pageSize, 50)
	events, total, err := s.repo.List(ctx, models.CalendarFilter{ArchiveOnly: true, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, s.storageError(err, "failed to list archived events")
	}
	return events, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one base event. Only privileged actors see drafts, archived or
// deleted events.
func (s *CalendarService) Get(ctx context.Context, id int64, actor models.Actor) (*models.CalendarEvent, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Privileged() && (event.IsDeleted() || event.State() != models.CalendarEventStatePublished) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// Create stores a new active event, published when requested.
func (s *CalendarService) Create(ctx context.Context, req dto.CalendarEventRequest, actor models.Actor) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	event := &models.CalendarEvent{IsActive: true, IsPublished: req.Publish, CreatedBy: actor.ID}
	applyEventRequest(event, req)
	if err := lifecycle.ValidateEvent(event); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, s.storageError(err, "failed to create event")
	}
	s.invalidate(ctx)
	s.logger.Info("calendar event created", zap.Int64("id", event.ID), zap.String("actor_id", actor.ID))
	return event, nil
}

// Update replaces the editable fields of a live event.
func (s *CalendarService) Update(ctx context.Context, id int64, req dto.CalendarEventRequest) (*models.CalendarEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsDeleted() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	applyEventRequest(event, req)
	if err := lifecycle.ValidateEvent(event); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "event was deleted concurrently")
		}
		return nil, s.storageError(err, "failed to update event")
	}
	s.invalidate(ctx)
	return event, nil
}

// Publish makes a draft event visible.
func (s *CalendarService) Publish(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	return s.transition(ctx, id, lifecycle.ActionPublish, func(e *models.CalendarEvent, now time.Time) error {
		return lifecycle.PublishEvent(e, now)
	})
}

// Unpublish hides a published event.
func (s *CalendarService) Unpublish(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	return s.transition(ctx, id, lifecycle.ActionUnpublish, func(e *models.CalendarEvent, now time.Time) error {
		return lifecycle.UnpublishEvent(e, now)
	})
}

// Archive deactivates an event.
func (s *CalendarService) Archive(ctx context.Context, id int64, actor models.Actor) (*models.CalendarEvent, error) {
	return s.transition(ctx, id, lifecycle.ActionArchive, func(e *models.CalendarEvent, now time.Time) error {
		return lifecycle.ArchiveEvent(e, actor, now)
	})
}

// Restore reactivates a user-archived or soft-deleted event.
func (s *CalendarService) Restore(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	return s.transition(ctx, id, lifecycle.ActionRestore, func(e *models.CalendarEvent, now time.Time) error {
		return lifecycle.RestoreEvent(e, now)
	})
}

// SoftDelete hides an event from every view.
func (s *CalendarService) SoftDelete(ctx context.Context, id int64) error {
	_, err := s.transition(ctx, id, lifecycle.ActionSoftDelete, func(e *models.CalendarEvent, now time.Time) error {
		return lifecycle.SoftDeleteEvent(e, now)
	})
	return err
}

// PermanentDelete removes an archived or soft-deleted event.
func (s *CalendarService) PermanentDelete(ctx context.Context, id int64) error {
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckEventPermanentDelete(event); err != nil {
		s.metrics.RecordTransition(kindCalendarEvent, string(lifecycle.ActionPermanentlyDelete), "rejected")
		return err
	}
	if err := s.repo.PermanentDelete(ctx, id, event.FlagsOf()); err != nil {
		return s.persistError(lifecycle.ActionPermanentlyDelete, id, err)
	}
	s.metrics.RecordTransition(kindCalendarEvent, string(lifecycle.ActionPermanentlyDelete), "ok")
	s.invalidate(ctx)
	return nil
}

// Export renders the occurrences of a year or month as CSV or PDF.
func (s *CalendarService) Export(ctx context.Context, query dto.CalendarExportQuery) (*dto.CalendarExport, error) {
	window, err := viewWindow(query.Year, query.Month)
	if err != nil {
		return nil, err
	}
	occurrences, err := s.occurrences(ctx, window)
	if err != nil {
		return nil, err
	}
	occurrences = calendar.FilterOverlapping(occurrences, window)
	calendar.SortOccurrences(occurrences)
	dataset := occurrenceDataset(occurrences)

	label := fmt.Sprintf("%04d", query.Year)
	if query.Month != 0 {
		label = fmt.Sprintf("%04d-%02d", query.Year, query.Month)
	}
	switch strings.ToLower(query.Format) {
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &dto.CalendarExport{Filename: "calendar_" + label + ".csv", ContentType: "text/csv", Content: content}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, s.cfg.FeedName+" "+label)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &dto.CalendarExport{Filename: "calendar_" + label + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *CalendarService) occurrences(ctx context.Context, window calendar.Window) ([]models.EventOccurrence, error) {
	events, err := s.repo.ListBase(ctx, models.CalendarFilter{WindowStart: &window.Start, WindowEnd: &window.End})
	if err != nil {
		return nil, s.storageError(err, "failed to load calendar events")
	}
	return calendar.ExpandAll(events, window), nil
}

func (s *CalendarService) transition(ctx context.Context, id int64, action lifecycle.Action, apply func(*models.CalendarEvent, time.Time) error) (*models.CalendarEvent, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := event.FlagsOf()
	fromState := event.State()
	if err := apply(event, s.now()); err != nil {
		s.metrics.RecordTransition(kindCalendarEvent, string(action), "rejected")
		return nil, err
	}
	if err := s.repo.Transition(ctx, event, from); err != nil {
		return nil, s.persistError(action, id, err)
	}
	s.metrics.RecordTransition(kindCalendarEvent, string(action), "ok")
	s.invalidate(ctx)
	s.logger.Info("calendar event transition",
		zap.Int64("id", id),
		zap.String("action", string(action)),
		zap.String("from", string(fromState)),
		zap.String("to", string(event.State())),
		zap.Bool("deleted", event.IsDeleted()),
	)
	return event, nil
}

func (s *CalendarService) load(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, s.storageError(err, "failed to load event")
	}
	return event, nil
}

func (s *CalendarService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, calendarViewKeyPrefix+"*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

func (s *CalendarService) persistError(action lifecycle.Action, id int64, err error) error {
	if errors.Is(err, repository.ErrStaleState) {
		s.metrics.RecordTransition(kindCalendarEvent, string(action), "conflict")
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "event was modified concurrently")
	}
	s.metrics.RecordTransition(kindCalendarEvent, string(action), "error")
	s.logger.Error("persist calendar transition", zap.Int64("id", id), zap.String("action", string(action)), zap.Error(err))
	return appErrors.Storage(err, "failed to persist event")
}

func (s *CalendarService) storageError(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Storage(err, message)
}

func applyEventRequest(event *models.CalendarEvent, req dto.CalendarEventRequest) {
	event.Title = strings.TrimSpace(req.Title)
	event.Description = req.Description
	event.EventType = req.EventType
	event.Location = req.Location
	event.EventDate = req.EventDate
	event.EndDate = req.EndDate
	event.IsRecurring = req.IsRecurring
	event.RecurrencePattern = nil
	if req.RecurrencePattern != nil && *req.RecurrencePattern != "" {
		pattern := models.RecurrencePattern(strings.ToLower(*req.RecurrencePattern))
		event.RecurrencePattern = &pattern
	}
}

func viewWindow(year, month int) (calendar.Window, error) {
	if year < 1 || year > 9999 {
		return calendar.Window{}, appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}
	if month < 0 || month > 12 {
		return calendar.Window{}, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	window, err := calendar.YearWindow(year, month)
	if err != nil {
		return calendar.Window{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar window")
	}
	return window, nil
}

func occurrenceDataset(occurrences []models.EventOccurrence) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Date", "End", "Title", "Type", "Location", "Recurring"},
		Widths:  []float64{1, 1, 3, 1.2, 1.6, 1},
	}
	for _, occ := range occurrences {
		location := ""
		if occ.Location != nil {
			location = *occ.Location
		}
		recurring := ""
		if occ.IsRecurrenceInstance && occ.RecurrencePattern != nil {
			recurring = string(*occ.RecurrencePattern)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":      occ.EventDate.String(),
			"End":       occ.LastDate().String(),
			"Title":     occ.Title,
			"Type":      occ.EventType,
			"Location":  location,
			"Recurring": recurring,
		})
	}
	return data
}
