package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/lifecycle"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	"github.com/noah-isme/sma-bulletin-api/internal/repository"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	ListPublic(ctx context.Context, filter models.PublicAnnouncementFilter) ([]models.Announcement, int, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Announcement, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	UpdateContent(ctx context.Context, announcement *models.Announcement) error
	Transition(ctx context.Context, announcement *models.Announcement, from models.AnnouncementState) error
	PermanentDelete(ctx context.Context, id int64, from models.AnnouncementState) error
}

type announcementAttachmentCleaner interface {
	FilePaths(ctx context.Context, announcementID int64) ([]string, error)
	DeleteFiles(paths []string)
	List(ctx context.Context, announcementID int64) ([]models.AnnouncementAttachment, error)
}

const kindAnnouncement = "announcement"

// AnnouncementService orchestrates announcement CRUD and lifecycle. Every
// transition reads the row, checks it with the lifecycle package and writes
// it back with a conditional update keyed on the state that was read.
type AnnouncementService struct {
	repo        announcementRepository
	attachments announcementAttachmentCleaner
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, attachments announcementAttachmentCleaner, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{
		repo:        repo,
		attachments: attachments,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
	svc.validator.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		switch models.AnnouncementPriority(strings.ToUpper(fl.Field().String())) {
		case models.AnnouncementPriorityLow, models.AnnouncementPriorityNormal, models.AnnouncementPriorityHigh:
			return true
		default:
			return false
		}
	})
	return svc
}

// List returns announcements for management screens. Non-privileged callers
// only see their own rows.
func (s *AnnouncementService) List(ctx context.Context, query dto.AnnouncementListQuery, actor models.Actor) ([]models.Announcement, *models.Pagination, error) {
	filter := models.AnnouncementFilter{
		GradeLevel: query.GradeLevel,
		AuthorID:   query.AuthorID,
		Page:       query.Page,
		PageSize:   query.PageSize,
	}
	for _, raw := range query.Statuses {
		status := models.AnnouncementStatus(strings.ToLower(strings.TrimSpace(raw)))
		if !validStatus(status) {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown status "+raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if !actor.Role.Privileged() {
		filter.AuthorID = actor.ID
	}
	normalizePage(&filter.Page, &filter.PageSize, 20)
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, s.storageError(err, "failed to list announcements")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListArchive returns archived or soft-deleted announcements.
func (s *AnnouncementService) ListArchive(ctx context.Context, page, pageSize int) ([]models.Announcement, *models.Pagination, error) {
	normalizePage(&page, &pageSize, 20)
	rows, total, err := s.repo.List(ctx, models.AnnouncementFilter{ArchiveOnly: true, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, s.storageError(err, "failed to list archived announcements")
	}
	return rows, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Feed returns the public listing: published, live, grade-matching and inside
// the visibility window.
func (s *AnnouncementService) Feed(ctx context.Context, query dto.AnnouncementFeedQuery) ([]models.Announcement, *models.Pagination, error) {
	now := s.now()
	normalizePage(&query.Page, &query.PageSize, 20)
	rows, total, err := s.repo.ListPublic(ctx, models.PublicAnnouncementFilter{
		GradeLevel: query.GradeLevel,
		Now:        now,
		Page:       query.Page,
		PageSize:   query.PageSize,
	})
	if err != nil {
		return nil, nil, s.storageError(err, "failed to list announcement feed")
	}
	visible := lifecycle.FilterVisible(rows, now)
	return visible, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}, nil
}

// Get returns an announcement with its attachments. Callers without
// management rights only see published, visible, live rows or their own.
func (s *AnnouncementService) Get(ctx context.Context, id int64, actor models.Actor) (*dto.AnnouncementDetail, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanAuthor(item, actor) {
		public := item.Status == models.AnnouncementStatusPublished && !item.IsDeleted() && lifecycle.IsVisible(item, s.now())
		if !public {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
	}
	detail := &dto.AnnouncementDetail{Announcement: *item, Attachments: []models.AnnouncementAttachment{}}
	if s.attachments != nil {
		files, err := s.attachments.List(ctx, id)
		if err != nil {
			return nil, err
		}
		detail.Attachments = files
	}
	return detail, nil
}

// Create stores a new draft authored by actor.
func (s *AnnouncementService) Create(ctx context.Context, req dto.CreateAnnouncementRequest, actor models.Actor) (*models.Announcement, error) {
	if actor.ID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateWindow(req.VisibilityStartAt, req.VisibilityEndAt); err != nil {
		return nil, err
	}
	item := &models.Announcement{
		Title:             strings.TrimSpace(req.Title),
		Content:           req.Content,
		Status:            models.AnnouncementStatusDraft,
		Priority:          priorityOrDefault(req.Priority),
		IsPinned:          req.IsPinned,
		GradeLevel:        req.GradeLevel,
		AuthorID:          actor.ID,
		VisibilityStartAt: req.VisibilityStartAt,
		VisibilityEndAt:   req.VisibilityEndAt,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.storageError(err, "failed to create announcement")
	}
	s.logger.Info("announcement created", zap.Int64("id", item.ID), zap.String("author_id", actor.ID))
	return item, nil
}

// Update replaces the editable fields. Only the author or a privileged actor
// may edit, and never once the row is deleted.
func (s *AnnouncementService) Update(ctx context.Context, id int64, req dto.UpdateAnnouncementRequest, actor models.Actor) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := validateWindow(req.VisibilityStartAt, req.VisibilityEndAt); err != nil {
		return nil, err
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsDeleted() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	if !lifecycle.CanAuthor(item, actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author may edit this announcement")
	}
	item.Title = strings.TrimSpace(req.Title)
	item.Content = req.Content
	item.Priority = priorityOrDefault(req.Priority)
	item.IsPinned = req.IsPinned
	item.GradeLevel = req.GradeLevel
	item.VisibilityStartAt = req.VisibilityStartAt
	item.VisibilityEndAt = req.VisibilityEndAt
	if err := s.repo.UpdateContent(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "announcement was deleted concurrently")
		}
		return nil, s.storageError(err, "failed to update announcement")
	}
	return item, nil
}

// Submit moves a draft to pending.
func (s *AnnouncementService) Submit(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	return s.transition(ctx, id, lifecycle.ActionSubmit, func(item *models.Announcement, now time.Time) error {
		return lifecycle.Submit(item, actor, now)
	})
}

// Approve publishes a pending announcement.
func (s *AnnouncementService) Approve(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	return s.transition(ctx, id, lifecycle.ActionApprove, func(item *models.Announcement, now time.Time) error {
		return lifecycle.Approve(item, actor, now)
	})
}

// Reject archives a pending announcement.
func (s *AnnouncementService) Reject(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	return s.transition(ctx, id, lifecycle.ActionReject, func(item *models.Announcement, now time.Time) error {
		return lifecycle.Reject(item, actor, now)
	})
}

// Publish is the privileged override into published.
func (s *AnnouncementService) Publish(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	if !actor.Role.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "publishing requires an administrator")
	}
	return s.transition(ctx, id, lifecycle.ActionPublish, func(item *models.Announcement, now time.Time) error {
		return lifecycle.Publish(item, now)
	})
}

// Unpublish returns a published announcement to draft.
func (s *AnnouncementService) Unpublish(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	return s.transition(ctx, id, lifecycle.ActionUnpublish, func(item *models.Announcement, now time.Time) error {
		if !lifecycle.CanAuthor(item, actor) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the author may unpublish this announcement")
		}
		return lifecycle.Unpublish(item, now)
	})
}

// Archive user-archives an announcement.
func (s *AnnouncementService) Archive(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	return s.transition(ctx, id, lifecycle.ActionArchive, func(item *models.Announcement, now time.Time) error {
		if !lifecycle.CanAuthor(item, actor) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the author may archive this announcement")
		}
		return lifecycle.Archive(item, actor, now)
	})
}

// Restore undoes a user archive or soft delete.
func (s *AnnouncementService) Restore(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	if !actor.Role.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "restoring requires an administrator")
	}
	return s.transition(ctx, id, lifecycle.ActionRestore, func(item *models.Announcement, now time.Time) error {
		return lifecycle.Restore(item, now)
	})
}

// SoftDelete hides an announcement from every listing except the archive.
func (s *AnnouncementService) SoftDelete(ctx context.Context, id int64, actor models.Actor) error {
	_, err := s.transition(ctx, id, lifecycle.ActionSoftDelete, func(item *models.Announcement, now time.Time) error {
		if !lifecycle.CanAuthor(item, actor) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the author may delete this announcement")
		}
		return lifecycle.SoftDelete(item, now)
	})
	return err
}

// PermanentDelete removes an archived or soft-deleted announcement together
// with its attachment rows and files.
func (s *AnnouncementService) PermanentDelete(ctx context.Context, id int64, actor models.Actor) error {
	if !actor.Role.Privileged() {
		return appErrors.Clone(appErrors.ErrForbidden, "permanent deletion requires an administrator")
	}
	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckPermanentDelete(item); err != nil {
		s.metrics.RecordTransition(kindAnnouncement, string(lifecycle.ActionPermanentlyDelete), "rejected")
		return err
	}
	var files []string
	if s.attachments != nil {
		files, err = s.attachments.FilePaths(ctx, id)
		if err != nil {
			return err
		}
	}
	if err := s.repo.PermanentDelete(ctx, id, item.StateOf()); err != nil {
		return s.persistError(lifecycle.ActionPermanentlyDelete, id, err)
	}
	if s.attachments != nil {
		s.attachments.DeleteFiles(files)
	}
	s.metrics.RecordTransition(kindAnnouncement, string(lifecycle.ActionPermanentlyDelete), "ok")
	s.logger.Info("announcement permanently deleted", zap.Int64("id", id), zap.String("actor_id", actor.ID), zap.Int("files", len(files)))
	return nil
}

// ArchiveExpired system-archives every published announcement whose
// visibility window has closed. It returns how many rows were archived.
func (s *AnnouncementService) ArchiveExpired(ctx context.Context) (int, error) {
	now := s.now()
	candidates, err := s.repo.ListExpired(ctx, now, 0)
	if err != nil {
		return 0, s.storageError(err, "failed to list expired announcements")
	}
	archived := 0
	for i := range candidates {
		item := &candidates[i]
		from := item.StateOf()
		if !lifecycle.SweepExpired(item, now) {
			continue
		}
		if err := s.repo.Transition(ctx, item, from); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				s.logger.Debug("expired announcement changed before sweep", zap.Int64("id", item.ID))
				continue
			}
			return archived, s.storageError(err, "failed to archive expired announcement")
		}
		archived++
	}
	s.metrics.AddSweepArchived(archived)
	if archived > 0 {
		s.logger.Info("expired announcements archived", zap.Int("count", archived), zap.Int("candidates", len(candidates)))
	}
	return archived, nil
}

func (s *AnnouncementService) transition(ctx context.Context, id int64, action lifecycle.Action, apply func(*models.Announcement, time.Time) error) (*models.Announcement, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	from := item.StateOf()
	if err := apply(item, s.now()); err != nil {
		s.metrics.RecordTransition(kindAnnouncement, string(action), "rejected")
		return nil, err
	}
	if err := s.repo.Transition(ctx, item, from); err != nil {
		return nil, s.persistError(action, id, err)
	}
	s.metrics.RecordTransition(kindAnnouncement, string(action), "ok")
	s.logger.Info("announcement transition",
		zap.Int64("id", id),
		zap.String("action", string(action)),
		zap.String("from", string(from.Status)),
		zap.String("to", string(item.Status)),
		zap.Bool("deleted", item.IsDeleted()),
	)
	return item, nil
}

func (s *AnnouncementService) load(ctx context.Context, id int64) (*models.Announcement, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, s.storageError(err, "failed to load announcement")
	}
	return item, nil
}

func (s *AnnouncementService) persistError(action lifecycle.Action, id int64, err error) error {
	if errors.Is(err, repository.ErrStaleState) {
		s.metrics.RecordTransition(kindAnnouncement, string(action), "conflict")
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "announcement was modified concurrently")
	}
	s.metrics.RecordTransition(kindAnnouncement, string(action), "error")
	s.logger.Error("persist announcement transition", zap.Int64("id", id), zap.String("action", string(action)), zap.Error(err))
	return appErrors.Storage(err, "failed to persist announcement")
}

func (s *AnnouncementService) storageError(err error, message string) error {
	s.logger.Error(message, zap.Error(err))
	return appErrors.Storage(err, message)
}

func validStatus(status models.AnnouncementStatus) bool {
	switch status {
	case models.AnnouncementStatusDraft, models.AnnouncementStatusPending, models.AnnouncementStatusPublished, models.AnnouncementStatusArchived:
		return true
	default:
		return false
	}
}

func priorityOrDefault(raw string) models.AnnouncementPriority {
	if strings.TrimSpace(raw) == "" {
		return models.AnnouncementPriorityNormal
	}
	return models.AnnouncementPriority(strings.ToUpper(raw))
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return appErrors.Clone(appErrors.ErrValidation, "visibility_end_at must be after visibility_start_at")
	}
	return nil
}

func normalizePage(page, size *int, defaultSize int) {
	if *page < 1 {
		*page = 1
	}
	if *size <= 0 {
		*size = defaultSize
	}
}
