package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
	"github.com/noah-isme/sma-bulletin-api/internal/service"
)

type attachmentServiceStub struct {
	attachmentService

	upload      service.AttachmentUpload
	uploadBody  []byte
	primaryPair [2]int64
}

func (s *attachmentServiceStub) Upload(ctx context.Context, announcementID int64, upload service.AttachmentUpload, actor models.Actor) (*models.AnnouncementAttachment, error) {
	s.upload = upload
	body, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, err
	}
	s.uploadBody = body
	return &models.AnnouncementAttachment{ID: 3, AnnouncementID: announcementID, FileName: upload.Filename, IsPrimary: true}, nil
}

func (s *attachmentServiceStub) SetPrimary(ctx context.Context, announcementID, attachmentID int64, actor models.Actor) error {
	s.primaryPair = [2]int64{announcementID, attachmentID}
	return nil
}

func TestAttachmentHandlerUpload(t *testing.T) {
	stub := &attachmentServiceStub{}
	h := NewAttachmentHandler(stub)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "timetable.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 timetable"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	c, w := newTestContext(http.MethodPost, "/announcements/8/attachments", &body, teacherClaims, idParam("8"))
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "timetable.pdf", stub.upload.Filename)
	require.Equal(t, "%PDF-1.4 timetable", string(stub.uploadBody))
	require.Contains(t, w.Body.String(), `"is_primary":true`)
}

func TestAttachmentHandlerUploadRequiresFile(t *testing.T) {
	h := NewAttachmentHandler(&attachmentServiceStub{})
	c, w := newTestContext(http.MethodPost, "/announcements/8/attachments", nil, teacherClaims, idParam("8"))

	h.Upload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachmentHandlerDownloadRequiresToken(t *testing.T) {
	h := NewAttachmentHandler(&attachmentServiceStub{})
	params := gin.Params{{Key: "id", Value: "8"}, {Key: "attachmentId", Value: "3"}}
	c, w := newTestContext(http.MethodGet, "/announcements/8/attachments/3/download", nil, nil, params)

	h.Download(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachmentHandlerSetPrimary(t *testing.T) {
	stub := &attachmentServiceStub{}
	h := NewAttachmentHandler(stub)
	params := gin.Params{{Key: "id", Value: "8"}, {Key: "attachmentId", Value: "3"}}
	c, _ := newTestContext(http.MethodPost, "/announcements/8/attachments/3/primary", nil, teacherClaims, params)

	h.SetPrimary(c)

	require.Equal(t, http.StatusNoContent, c.Writer.Status())
	require.Equal(t, [2]int64{8, 3}, stub.primaryPair)
}
