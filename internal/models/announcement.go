package models

import "time"

// AnnouncementStatus is the lifecycle state of an announcement.
type AnnouncementStatus string

const (
	AnnouncementStatusDraft     AnnouncementStatus = "draft"
	AnnouncementStatusPending   AnnouncementStatus = "pending"
	AnnouncementStatusPublished AnnouncementStatus = "published"
	AnnouncementStatusArchived  AnnouncementStatus = "archived"
)

// AnnouncementPriority defines ordering for announcements.
type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "LOW"
	AnnouncementPriorityNormal AnnouncementPriority = "NORMAL"
	AnnouncementPriorityHigh   AnnouncementPriority = "HIGH"
)

// ArchivedBySystem marks rows archived by an automated retention process.
const ArchivedBySystem = "system"

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID                int64                `db:"id" json:"id"`
	Title             string               `db:"title" json:"title"`
	Content           string               `db:"content" json:"content"`
	Status            AnnouncementStatus   `db:"status" json:"status"`
	Priority          AnnouncementPriority `db:"priority" json:"priority"`
	IsPinned          bool                 `db:"is_pinned" json:"is_pinned"`
	GradeLevel        *int                 `db:"grade_level" json:"grade_level,omitempty"`
	AuthorID          string               `db:"author_id" json:"author_id"`
	ApprovedBy        *string              `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt        *time.Time           `db:"approved_at" json:"approved_at,omitempty"`
	PublishedAt       *time.Time           `db:"published_at" json:"published_at,omitempty"`
	VisibilityStartAt *time.Time           `db:"visibility_start_at" json:"visibility_start_at,omitempty"`
	VisibilityEndAt   *time.Time           `db:"visibility_end_at" json:"visibility_end_at,omitempty"`
	ArchivedAt        *time.Time           `db:"archived_at" json:"archived_at,omitempty"`
	ArchivedBy        *string              `db:"archived_by" json:"archived_by,omitempty"`
	DeletedAt         *time.Time           `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt         time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time            `db:"updated_at" json:"updated_at"`
}

// IsDeleted reports whether the row is soft-deleted.
func (a *Announcement) IsDeleted() bool {
	return a.DeletedAt != nil
}

// IsSystemArchived reports whether an automated process archived the row.
func (a *Announcement) IsSystemArchived() bool {
	return a.ArchivedBy != nil && *a.ArchivedBy == ArchivedBySystem
}

// AnnouncementState captures the fields a conditional transition update
// compares against.
type AnnouncementState struct {
	Status  AnnouncementStatus
	Deleted bool
	// ArchivedBy is "" when the row has no archiver.
	ArchivedBy string
}

// StateOf snapshots the guarded state of an announcement.
func (a *Announcement) StateOf() AnnouncementState {
	state := AnnouncementState{Status: a.Status, Deleted: a.IsDeleted()}
	if a.ArchivedBy != nil {
		state.ArchivedBy = *a.ArchivedBy
	}
	return state
}

// AnnouncementFilter allows listing announcements.
type AnnouncementFilter struct {
	Statuses       []AnnouncementStatus
	GradeLevel     *int
	AuthorID       string
	ArchiveOnly    bool
	IncludeDeleted bool
	Page           int
	PageSize       int
}

// PublicAnnouncementFilter narrows the public feed.
type PublicAnnouncementFilter struct {
	GradeLevel *int
	Now        time.Time
	Page       int
	PageSize   int
}
