package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
	"github.com/noah-isme/sma-bulletin-api/pkg/response"
)

type calendarService interface {
	View(ctx context.Context, query dto.CalendarViewQuery) (*dto.CalendarView, error)
	List(ctx context.Context, query dto.CalendarListQuery) ([]models.EventOccurrence, *models.Pagination, error)
	ListArchive(ctx context.Context, page, pageSize int) ([]models.CalendarEvent, *models.Pagination, error)
	Get(ctx context.Context, id int64, actor models.Actor) (*models.CalendarEvent, error)
	Create(ctx context.Context, req dto.CalendarEventRequest, actor models.Actor) (*models.CalendarEvent, error)
	Update(ctx context.Context, id int64, req dto.CalendarEventRequest) (*models.CalendarEvent, error)
	Publish(ctx context.Context, id int64) (*models.CalendarEvent, error)
	Unpublish(ctx context.Context, id int64) (*models.CalendarEvent, error)
	Archive(ctx context.Context, id int64, actor models.Actor) (*models.CalendarEvent, error)
	Restore(ctx context.Context, id int64) (*models.CalendarEvent, error)
	SoftDelete(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
	Export(ctx context.Context, query dto.CalendarExportQuery) (*dto.CalendarExport, error)
	Feed(ctx context.Context, year int) ([]byte, error)
}

// CalendarHandler exposes the school calendar endpoints.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// View godoc
// @Summary Calendar view bucketed by day
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Router /calendar/view [get]
func (h *CalendarHandler) View(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.View(c.Request.Context(), dto.CalendarViewQuery{Year: year, Month: month})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Events godoc
// @Summary Flat list of occurrences in a date range
// @Tags Calendar
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendar/events [get]
func (h *CalendarHandler) Events(c *gin.Context) {
	start, err := models.ParseCalendarDate(strings.TrimSpace(c.Query("start")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid start, expected YYYY-MM-DD"))
		return
	}
	end, err := models.ParseCalendarDate(strings.TrimSpace(c.Query("end")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid end, expected YYYY-MM-DD"))
		return
	}
	page, size, err := pagingFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), dto.CalendarListQuery{Start: start, End: end, Page: page, PageSize: size})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ListArchive godoc
// @Summary List archived or deleted events
// @Tags Calendar
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /calendar/archive [get]
func (h *CalendarHandler) ListArchive(c *gin.Context) {
	page, size, err := pagingFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.ListArchive(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Export godoc
// @Summary Export occurrences as CSV or PDF
// @Tags Calendar
// @Produce octet-stream
// @Param year query int true "Year"
// @Param month query int false "Month (1-12)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	year, month, err := yearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	export, err := h.service.Export(c.Request.Context(), dto.CalendarExportQuery{Year: year, Month: month, Format: c.DefaultQuery("format", "csv")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, export.Filename, export.ContentType, export.Content)
}

// Feed godoc
// @Summary iCalendar feed of published events
// @Tags Calendar
// @Produce text/calendar
// @Param year query int false "Year"
// @Success 200 {string} string
// @Router /calendar/feed.ics [get]
func (h *CalendarHandler) Feed(c *gin.Context) {
	year, err := queryInt(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	body, err := h.service.Feed(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// Get godoc
// @Summary Get a calendar event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id} [get]
func (h *CalendarHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, _ := actorFromContext(c)
	event, err := h.service.Get(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.CalendarEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /calendar [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event payload"))
		return
	}
	event, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param payload body dto.CalendarEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid event payload"))
		return
	}
	event, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Publish godoc
// @Summary Publish an event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id}/publish [post]
func (h *CalendarHandler) Publish(c *gin.Context) { h.transition(c, h.service.Publish) }

// Unpublish godoc
// @Summary Unpublish an event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id}/unpublish [post]
func (h *CalendarHandler) Unpublish(c *gin.Context) { h.transition(c, h.service.Unpublish) }

// ArchiveOne godoc
// @Summary Archive an event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id}/archive [post]
func (h *CalendarHandler) ArchiveOne(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	h.transition(c, func(ctx context.Context, id int64) (*models.CalendarEvent, error) {
		return h.service.Archive(ctx, id, actor)
	})
}

// Restore godoc
// @Summary Restore an archived or deleted event
// @Tags Calendar
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendar/{id}/restore [post]
func (h *CalendarHandler) Restore(c *gin.Context) { h.transition(c, h.service.Restore) }

// Delete godoc
// @Summary Soft delete an event
// @Tags Calendar
// @Param id path int true "Event ID"
// @Success 204
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) { h.remove(c, h.service.SoftDelete) }

// PermanentDelete godoc
// @Summary Permanently delete an archived or deleted event
// @Tags Calendar
// @Param id path int true "Event ID"
// @Success 204
// @Router /calendar/{id}/permanent [delete]
func (h *CalendarHandler) PermanentDelete(c *gin.Context) { h.remove(c, h.service.PermanentDelete) }

func (h *CalendarHandler) transition(c *gin.Context, apply func(ctx context.Context, id int64) (*models.CalendarEvent, error)) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	event, err := apply(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

func (h *CalendarHandler) remove(c *gin.Context, apply func(ctx context.Context, id int64) error) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := apply(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func yearMonth(c *gin.Context) (int, int, error) {
	year, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	if year == 0 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}
