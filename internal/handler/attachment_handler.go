package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	"github.com/noah-isme/sma-bulletin-api/internal/service"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
	"github.com/noah-isme/sma-bulletin-api/pkg/response"
)

type attachmentService interface {
	Upload(ctx context.Context, announcementID int64, upload service.AttachmentUpload, actor models.Actor) (*models.AnnouncementAttachment, error)
	List(ctx context.Context, announcementID int64) ([]models.AnnouncementAttachment, error)
	SetPrimary(ctx context.Context, announcementID, attachmentID int64, actor models.Actor) error
	DownloadURL(ctx context.Context, announcementID, attachmentID int64) (*dto.AttachmentDownloadResponse, error)
	Download(ctx context.Context, announcementID, attachmentID int64, token string) (*service.AttachmentDownload, error)
	Delete(ctx context.Context, announcementID, attachmentID int64, actor models.Actor) error
}

// AttachmentHandler manages announcement attachment endpoints.
type AttachmentHandler struct {
	service attachmentService
}

// NewAttachmentHandler constructs the handler.
func NewAttachmentHandler(service attachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Upload godoc
// @Summary Upload an attachment
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Announcement ID"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Router /announcements/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	announcementID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	reader, ok := src.(io.ReadSeeker)
	if !ok {
		buf, readErr := io.ReadAll(src)
		if readErr != nil {
			response.Error(c, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
			return
		}
		reader = bytes.NewReader(buf)
	}
	upload := service.AttachmentUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  reader,
	}
	item, err := h.service.Upload(c.Request.Context(), announcementID, upload, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List attachments of an announcement
// @Tags Attachments
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	announcementID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.List(c.Request.Context(), announcementID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// SetPrimary godoc
// @Summary Mark an attachment as primary
// @Tags Attachments
// @Param id path int true "Announcement ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 204
// @Router /announcements/{id}/attachments/{attachmentId}/primary [post]
func (h *AttachmentHandler) SetPrimary(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	announcementID, attachmentID, err := attachmentIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.SetPrimary(c.Request.Context(), announcementID, attachmentID, actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DownloadURL godoc
// @Summary Issue a signed download link
// @Tags Attachments
// @Produce json
// @Param id path int true "Announcement ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/attachments/{attachmentId}/download-url [get]
func (h *AttachmentHandler) DownloadURL(c *gin.Context) {
	announcementID, attachmentID, err := attachmentIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	link, err := h.service.DownloadURL(c.Request.Context(), announcementID, attachmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download an attachment via signed token
// @Tags Attachments
// @Produce octet-stream
// @Param id path int true "Announcement ID"
// @Param attachmentId path int true "Attachment ID"
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /announcements/{id}/attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	announcementID, attachmentID, err := attachmentIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	token := c.Query("token")
	if strings.TrimSpace(token) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.service.Download(c.Request.Context(), announcementID, attachmentID, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	response.Stream(c, result.Filename, result.MimeType, result.SizeBytes, result.File)
}

// Delete godoc
// @Summary Delete an attachment
// @Tags Attachments
// @Param id path int true "Announcement ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 204
// @Router /announcements/{id}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	announcementID, attachmentID, err := attachmentIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), announcementID, attachmentID, actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func attachmentIDs(c *gin.Context) (int64, int64, error) {
	announcementID, err := pathID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	attachmentID, err := pathID(c, "attachmentId")
	if err != nil {
		return 0, 0, err
	}
	return announcementID, attachmentID, nil
}
