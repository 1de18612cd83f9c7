package dto

import "github.com/noah-isme/sma-bulletin-api/internal/models"

// CalendarEventRequest is the create/update payload for a calendar event.
type CalendarEventRequest struct {
	Title             string               `json:"title" validate:"required,max=200"`
	Description       string               `json:"description"`
	EventType         string               `json:"event_type" validate:"required,max=50"`
	Location          *string              `json:"location"`
	EventDate         models.CalendarDate  `json:"event_date"`
	EndDate           *models.CalendarDate `json:"end_date"`
	IsRecurring       bool                 `json:"is_recurring"`
	RecurrencePattern *string              `json:"recurrence_pattern" validate:"omitempty,recurrence"`
	Publish           bool                 `json:"publish"`
}

// CalendarViewQuery selects a year or a single month.
type CalendarViewQuery struct {
	Year  int
	Month int
}

// CalendarView is the bucketed calendar for a window.
type CalendarView struct {
	Start   models.CalendarDate             `json:"start"`
	End     models.CalendarDate             `json:"end"`
	Buckets map[string][]models.BucketEntry `json:"buckets"`
	Dates   []string                        `json:"dates"`
}

// CalendarListQuery selects a date range of flattened occurrences.
type CalendarListQuery struct {
	Start    models.CalendarDate
	End      models.CalendarDate
	Page     int
	PageSize int
}

// CalendarExportQuery selects the export window and format.
type CalendarExportQuery struct {
	Year   int
	Month  int
	Format string
}

// CalendarExport is a rendered export file.
type CalendarExport struct {
	Filename    string
	ContentType string
	Content     []byte
}
