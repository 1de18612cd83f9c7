package dto

import (
	"time"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

// CreateAnnouncementRequest is the payload for a new draft announcement.
type CreateAnnouncementRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Content           string     `json:"content" validate:"required"`
	Priority          string     `json:"priority" validate:"omitempty,priority"`
	IsPinned          bool       `json:"is_pinned"`
	GradeLevel        *int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	VisibilityStartAt *time.Time `json:"visibility_start_at"`
	VisibilityEndAt   *time.Time `json:"visibility_end_at"`
}

// UpdateAnnouncementRequest replaces the editable fields of an announcement.
type UpdateAnnouncementRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Content           string     `json:"content" validate:"required"`
	Priority          string     `json:"priority" validate:"omitempty,priority"`
	IsPinned          bool       `json:"is_pinned"`
	GradeLevel        *int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	VisibilityStartAt *time.Time `json:"visibility_start_at"`
	VisibilityEndAt   *time.Time `json:"visibility_end_at"`
}

// AnnouncementListQuery captures management list filters.
type AnnouncementListQuery struct {
	Statuses   []string
	GradeLevel *int
	AuthorID   string
	Page       int
	PageSize   int
}

// AnnouncementFeedQuery captures public feed parameters.
type AnnouncementFeedQuery struct {
	GradeLevel *int
	Page       int
	PageSize   int
}

// AnnouncementDetail is an announcement together with its attachments.
type AnnouncementDetail struct {
	models.Announcement
	Attachments []models.AnnouncementAttachment `json:"attachments"`
}

// AttachmentDownloadResponse carries a signed, expiring download link.
type AttachmentDownloadResponse struct {
	models.AnnouncementAttachment
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
