package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// ErrStaleState is returned when a conditional update matched no row because
// the stored state no longer equals the state the caller read.
var ErrStaleState = errors.New("row state changed since read")

const announcementColumns = `id, title, content, status, priority, is_pinned, grade_level, author_id, approved_by, approved_at,
       published_at, visibility_start_at, visibility_end_at, archived_at, archived_by, deleted_at, created_at, updated_at`

const priorityRank = `CASE priority WHEN 'HIGH' THEN 3 WHEN 'NORMAL' THEN 2 ELSE 1 END`

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements for the management screens.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	where := []string{}
	args := []interface{}{}
	if !filter.IncludeDeleted && !filter.ArchiveOnly {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.ArchiveOnly {
		where = append(where, "(status = 'archived' OR deleted_at IS NOT NULL)")
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.GradeLevel != nil {
		args = append(args, *filter.GradeLevel)
		where = append(where, fmt.Sprintf("grade_level = $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		where = append(where, fmt.Sprintf("author_id = $%d", len(args)))
	}
	whereClause := "1=1"
	if len(where) > 0 {
		whereClause = strings.Join(where, " AND ")
	}

	size, offset := pageBounds(filter.Page, filter.PageSize, 20, 100)
	query := fmt.Sprintf(`SELECT %s
FROM announcements WHERE %s
ORDER BY updated_at DESC, id DESC
LIMIT %d OFFSET %d`, announcementColumns, whereClause, size, offset)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM announcements WHERE %s", whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// ListPublic returns published, live announcements whose visibility window is
// open at filter.Now, pinned rows first.
func (r *AnnouncementRepository) ListPublic(ctx context.Context, filter models.PublicAnnouncementFilter) ([]models.Announcement, int, error) {
	args := []interface{}{filter.Now}
	where := []string{
		"status = 'published'",
		"deleted_at IS NULL",
		"(visibility_start_at IS NULL OR visibility_start_at <= $1)",
		"(visibility_end_at IS NULL OR visibility_end_at >= $1)",
	}
	if filter.GradeLevel != nil {
		args = append(args, *filter.GradeLevel)
		where = append(where, fmt.Sprintf("(grade_level IS NULL OR grade_level = $%d)", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	size, offset := pageBounds(filter.Page, filter.PageSize, 20, 100)
	query := fmt.Sprintf(`SELECT %s
FROM announcements WHERE %s
ORDER BY is_pinned DESC, %s DESC, published_at DESC NULLS LAST, id DESC
LIMIT %d OFFSET %d`, announcementColumns, whereClause, priorityRank, size, offset)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list public announcements: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM announcements WHERE %s", whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count public announcements: %w", err)
	}
	return announcements, total, nil
}

// ListExpired returns published rows whose visibility ended before now.
func (r *AnnouncementRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Announcement, error) {
	if limit <= 0 {
		limit = 500
	}
	query := fmt.Sprintf(`SELECT %s
FROM announcements
WHERE status = 'published' AND deleted_at IS NULL AND visibility_end_at IS NOT NULL AND visibility_end_at < $1
ORDER BY visibility_end_at ASC
LIMIT %d`, announcementColumns, limit)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, now); err != nil {
		return nil, fmt.Errorf("list expired announcements: %w", err)
	}
	return announcements, nil
}

// GetByID returns an announcement by identifier, including soft-deleted rows.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE id = $1`, announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts a new announcement and fills in its generated id.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	if announcement.Status == "" {
		announcement.Status = models.AnnouncementStatusDraft
	}
	const query = `INSERT INTO announcements (title, content, status, priority, is_pinned, grade_level, author_id,
	visibility_start_at, visibility_end_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`
	err := r.db.GetContext(ctx, &announcement.ID, query,
		announcement.Title, announcement.Content, announcement.Status, announcement.Priority, announcement.IsPinned,
		announcement.GradeLevel, announcement.AuthorID, announcement.VisibilityStartAt, announcement.VisibilityEndAt,
		announcement.CreatedAt, announcement.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// UpdateContent modifies the editable fields of a live announcement.
func (r *AnnouncementRepository) UpdateContent(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, priority = :priority, is_pinned = :is_pinned,
grade_level = :grade_level, visibility_start_at = :visibility_start_at, visibility_end_at = :visibility_end_at, updated_at = :updated_at
WHERE id = :id AND deleted_at IS NULL`
	res, err := r.db.NamedExecContext(ctx, query, announcement)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check announcement update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Transition persists the lifecycle fields of announcement only if the stored
// row still has the state the caller read.
func (r *AnnouncementRepository) Transition(ctx context.Context, announcement *models.Announcement, from models.AnnouncementState) error {
	const query = `UPDATE announcements SET status = $1, approved_by = $2, approved_at = $3, published_at = $4,
archived_at = $5, archived_by = $6, deleted_at = $7, updated_at = $8
WHERE id = $9 AND status = $10 AND (deleted_at IS NOT NULL) = $11 AND COALESCE(archived_by, '') = $12`
	res, err := r.db.ExecContext(ctx, query,
		announcement.Status, announcement.ApprovedBy, announcement.ApprovedAt, announcement.PublishedAt,
		announcement.ArchivedAt, announcement.ArchivedBy, announcement.DeletedAt, announcement.UpdatedAt,
		announcement.ID, from.Status, from.Deleted, from.ArchivedBy)
	if err != nil {
		return fmt.Errorf("transition announcement %d: %w", announcement.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check announcement transition rows: %w", err)
	}
	if affected == 0 {
		return ErrStaleState
	}
	return nil
}

// PermanentDelete removes the announcement and its attachment rows in one
// transaction, guarded by the state the caller read.
func (r *AnnouncementRepository) PermanentDelete(ctx context.Context, id int64, from models.AnnouncementState) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete announcement: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM announcement_attachments WHERE announcement_id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement attachments: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1 AND status = $2 AND (deleted_at IS NOT NULL) = $3 AND COALESCE(archived_by, '') = $4`,
		id, from.Status, from.Deleted, from.ArchivedBy)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check announcement delete rows: %w", err)
	}
	if affected == 0 {
		err = ErrStaleState
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete announcement: %w", err)
	}
	return nil
}

func pageBounds(page, size, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return size, (page - 1) * size
}
