package models

import "time"

// AnnouncementAttachment is a file uploaded alongside an announcement.
type AnnouncementAttachment struct {
	ID             int64     `db:"id" json:"id"`
	AnnouncementID int64     `db:"announcement_id" json:"announcement_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	FilePath       string    `db:"file_path" json:"-"`
	MimeType       string    `db:"mime_type" json:"mime_type"`
	SizeBytes      int64     `db:"size_bytes" json:"size_bytes"`
	IsPrimary      bool      `db:"is_primary" json:"is_primary"`
	UploadedBy     string    `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
}
