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

type announcementService interface {
	List(ctx context.Context, query dto.AnnouncementListQuery, actor models.Actor) ([]models.Announcement, *models.Pagination, error)
	ListArchive(ctx context.Context, page, pageSize int) ([]models.Announcement, *models.Pagination, error)
	Feed(ctx context.Context, query dto.AnnouncementFeedQuery) ([]models.Announcement, *models.Pagination, error)
	Get(ctx context.Context, id int64, actor models.Actor) (*dto.AnnouncementDetail, error)
	Create(ctx context.Context, req dto.CreateAnnouncementRequest, actor models.Actor) (*models.Announcement, error)
	Update(ctx context.Context, id int64, req dto.UpdateAnnouncementRequest, actor models.Actor) (*models.Announcement, error)
	Submit(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Approve(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Reject(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Publish(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Unpublish(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Archive(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	Restore(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)
	SoftDelete(ctx context.Context, id int64, actor models.Actor) error
	PermanentDelete(ctx context.Context, id int64, actor models.Actor) error
}

type announcementTransition func(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error)

// AnnouncementHandler exposes announcement management and feed endpoints.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// Feed godoc
// @Summary Public announcement feed
// @Tags Announcements
// @Produce json
// @Param grade_level query int false "Grade level"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /announcements/feed [get]
func (h *AnnouncementHandler) Feed(c *gin.Context) {
	grade, err := queryOptionalInt(c, "grade_level")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size, err := pagingFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, pagination, err := h.service.Feed(c.Request.Context(), dto.AnnouncementFeedQuery{GradeLevel: grade, Page: page, PageSize: size})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// List godoc
// @Summary List announcements for management
// @Tags Announcements
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param grade_level query int false "Grade level"
// @Param author_id query string false "Author"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	grade, err := queryOptionalInt(c, "grade_level")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, size, err := pagingFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query := dto.AnnouncementListQuery{
		Statuses:   splitList(c.QueryArray("status")),
		GradeLevel: grade,
		AuthorID:   strings.TrimSpace(c.Query("author_id")),
		Page:       page,
		PageSize:   size,
	}
	items, pagination, err := h.service.List(c.Request.Context(), query, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Archive godoc
// @Summary List archived or deleted announcements
// @Tags Announcements
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /announcements/archive [get]
func (h *AnnouncementHandler) ListArchive(c *gin.Context) {
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

// Get godoc
// @Summary Get announcement with attachments
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, _ := actorFromContext(c)
	item, err := h.service.Get(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create a draft announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body dto.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid announcement payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update announcement content
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param payload body dto.UpdateAnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid announcement payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Submit godoc
// @Summary Submit a draft for review
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/submit [post]
func (h *AnnouncementHandler) Submit(c *gin.Context) { h.transition(c, h.service.Submit) }

// Approve godoc
// @Summary Approve a pending announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/approve [post]
func (h *AnnouncementHandler) Approve(c *gin.Context) { h.transition(c, h.service.Approve) }

// Reject godoc
// @Summary Reject a pending announcement into the archive
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/reject [post]
func (h *AnnouncementHandler) Reject(c *gin.Context) { h.transition(c, h.service.Reject) }

// Publish godoc
// @Summary Publish an approved or archived announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/publish [post]
func (h *AnnouncementHandler) Publish(c *gin.Context) { h.transition(c, h.service.Publish) }

// Unpublish godoc
// @Summary Withdraw a published announcement to draft
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/unpublish [post]
func (h *AnnouncementHandler) Unpublish(c *gin.Context) { h.transition(c, h.service.Unpublish) }

// ArchiveOne godoc
// @Summary Archive an announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/archive [post]
func (h *AnnouncementHandler) ArchiveOne(c *gin.Context) { h.transition(c, h.service.Archive) }

// Restore godoc
// @Summary Restore an archived or deleted announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/restore [post]
func (h *AnnouncementHandler) Restore(c *gin.Context) { h.transition(c, h.service.Restore) }

// Delete godoc
// @Summary Soft delete an announcement
// @Tags Announcements
// @Param id path int true "Announcement ID"
// @Success 204
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	h.remove(c, h.service.SoftDelete)
}

// PermanentDelete godoc
// @Summary Permanently delete an archived or deleted announcement
// @Tags Announcements
// @Param id path int true "Announcement ID"
// @Success 204
// @Router /announcements/{id}/permanent [delete]
func (h *AnnouncementHandler) PermanentDelete(c *gin.Context) {
	h.remove(c, h.service.PermanentDelete)
}

func (h *AnnouncementHandler) transition(c *gin.Context, apply announcementTransition) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := apply(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

func (h *AnnouncementHandler) remove(c *gin.Context, apply func(ctx context.Context, id int64, actor models.Actor) error) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := apply(c.Request.Context(), id, actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// splitList accepts both repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
