package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

const attachmentColumns = `id, announcement_id, file_name, file_path, mime_type, size_bytes, is_primary, uploaded_by, uploaded_at`

// AttachmentRepository handles announcement attachment metadata.
type AttachmentRepository struct {
	db *sqlx.DB
}

// NewAttachmentRepository constructs the repository.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create stores metadata for an uploaded file. The first attachment of an
// announcement becomes primary. The announcement row is locked first so two
// concurrent first uploads cannot both claim the primary flag.
func (r *AttachmentRepository) Create(ctx context.Context, item *models.AnnouncementAttachment) (err error) {
	if item.UploadedAt.IsZero() {
		item.UploadedAt = time.Now().UTC()
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create attachment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ownerID int64
	if err = tx.GetContext(ctx, &ownerID, `SELECT id FROM announcements WHERE id = $1 FOR UPDATE`, item.AnnouncementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("lock announcement %d: %w", item.AnnouncementID, err)
	}

	const query = `INSERT INTO announcement_attachments
	(announcement_id, file_name, file_path, mime_type, size_bytes, is_primary, uploaded_by, uploaded_at)
	VALUES ($1, $2, $3, $4, $5,
	        NOT EXISTS (SELECT 1 FROM announcement_attachments WHERE announcement_id = $1),
	        $6, $7)
	RETURNING id, is_primary`
	row := tx.QueryRowxContext(ctx, query, item.AnnouncementID, item.FileName, item.FilePath, item.MimeType, item.SizeBytes, item.UploadedBy, item.UploadedAt)
	if err = row.Scan(&item.ID, &item.IsPrimary); err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create attachment: %w", err)
	}
	return nil
}

// GetByID retrieves one attachment of an announcement.
func (r *AttachmentRepository) GetByID(ctx context.Context, announcementID, id int64) (*models.AnnouncementAttachment, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcement_attachments WHERE id = $1 AND announcement_id = $2`, attachmentColumns)
	var item models.AnnouncementAttachment
	if err := r.db.GetContext(ctx, &item, query, id, announcementID); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByAnnouncement returns attachments, primary first.
func (r *AttachmentRepository) ListByAnnouncement(ctx context.Context, announcementID int64) ([]models.AnnouncementAttachment, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcement_attachments WHERE announcement_id = $1
	ORDER BY is_primary DESC, uploaded_at ASC, id ASC`, attachmentColumns)
	var items []models.AnnouncementAttachment
	if err := r.db.SelectContext(ctx, &items, query, announcementID); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return items, nil
}

// SetPrimary clears every primary flag of the announcement and sets the chosen
// attachment, all in one transaction.
func (r *AttachmentRepository) SetPrimary(ctx context.Context, announcementID, attachmentID int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set primary attachment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE announcement_attachments SET is_primary = FALSE WHERE announcement_id = $1`, announcementID); err != nil {
		return fmt.Errorf("clear primary attachment: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE announcement_attachments SET is_primary = TRUE WHERE id = $1 AND announcement_id = $2`, attachmentID, announcementID)
	if err != nil {
		return fmt.Errorf("set primary attachment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check primary attachment rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set primary attachment: %w", err)
	}
	return nil
}

// Delete removes one attachment row.
func (r *AttachmentRepository) Delete(ctx context.Context, announcementID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcement_attachments WHERE id = $1 AND announcement_id = $2`, id, announcementID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check attachment delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
