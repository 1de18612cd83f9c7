package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

type announcementServiceStub struct {
	announcementService

	listQuery dto.AnnouncementListQuery
	listActor models.Actor
	feedQuery dto.AnnouncementFeedQuery
	created   dto.CreateAnnouncementRequest
	publishID int64
	publish   error
	deletedID int64
}

func (s *announcementServiceStub) List(ctx context.Context, query dto.AnnouncementListQuery, actor models.Actor) ([]models.Announcement, *models.Pagination, error) {
	s.listQuery = query
	s.listActor = actor
	return []models.Announcement{{ID: 1}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (s *announcementServiceStub) Feed(ctx context.Context, query dto.AnnouncementFeedQuery) ([]models.Announcement, *models.Pagination, error) {
	s.feedQuery = query
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (s *announcementServiceStub) Create(ctx context.Context, req dto.CreateAnnouncementRequest, actor models.Actor) (*models.Announcement, error) {
	s.created = req
	return &models.Announcement{ID: 9, Title: req.Title, AuthorID: actor.ID, Status: models.AnnouncementStatusDraft}, nil
}

func (s *announcementServiceStub) Publish(ctx context.Context, id int64, actor models.Actor) (*models.Announcement, error) {
	s.publishID = id
	if s.publish != nil {
		return nil, s.publish
	}
	return &models.Announcement{ID: id, Status: models.AnnouncementStatusPublished}, nil
}

func (s *announcementServiceStub) SoftDelete(ctx context.Context, id int64, actor models.Actor) error {
	s.deletedID = id
	return nil
}

func TestAnnouncementHandlerListRequiresAuth(t *testing.T) {
	h := NewAnnouncementHandler(&announcementServiceStub{})
	c, w := newTestContext(http.MethodGet, "/announcements", nil, nil, nil)

	h.List(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnnouncementHandlerListParsesFilters(t *testing.T) {
	stub := &announcementServiceStub{}
	h := NewAnnouncementHandler(stub)
	c, w := newTestContext(http.MethodGet, "/announcements?status=draft,pending&status=published&grade_level=10&page=2&page_size=5", nil, teacherClaims, nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"draft", "pending", "published"}, stub.listQuery.Statuses)
	require.NotNil(t, stub.listQuery.GradeLevel)
	require.Equal(t, 10, *stub.listQuery.GradeLevel)
	require.Equal(t, 2, stub.listQuery.Page)
	require.Equal(t, 5, stub.listQuery.PageSize)
	require.Equal(t, "teacher-1", stub.listActor.ID)
	require.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestAnnouncementHandlerFeedIsPublic(t *testing.T) {
	stub := &announcementServiceStub{}
	h := NewAnnouncementHandler(stub)
	c, w := newTestContext(http.MethodGet, "/announcements/feed?grade_level=7", nil, nil, nil)

	h.Feed(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.feedQuery.GradeLevel)
	require.Equal(t, 7, *stub.feedQuery.GradeLevel)
}

func TestAnnouncementHandlerFeedRejectsBadGrade(t *testing.T) {
	h := NewAnnouncementHandler(&announcementServiceStub{})
	c, w := newTestContext(http.MethodGet, "/announcements/feed?grade_level=ten", nil, nil, nil)

	h.Feed(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnouncementHandlerCreate(t *testing.T) {
	stub := &announcementServiceStub{}
	h := NewAnnouncementHandler(stub)
	body := strings.NewReader(`{"title":"Exam week","content":"Bring pencils","priority":"high","grade_level":11}`)
	c, w := newTestContext(http.MethodPost, "/announcements", body, teacherClaims, nil)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Exam week", stub.created.Title)
	require.Contains(t, w.Body.String(), `"author_id":"teacher-1"`)
}

func TestAnnouncementHandlerCreateRejectsMalformedBody(t *testing.T) {
	h := NewAnnouncementHandler(&announcementServiceStub{})
	c, w := newTestContext(http.MethodPost, "/announcements", strings.NewReader(`{"title":`), teacherClaims, nil)

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnnouncementHandlerTransitionMapsConflict(t *testing.T) {
	stub := &announcementServiceStub{publish: appErrors.Clone(appErrors.ErrConflict, "announcement changed concurrently")}
	h := NewAnnouncementHandler(stub)
	c, w := newTestContext(http.MethodPost, "/announcements/4/publish", nil, adminClaims, idParam("4"))

	h.Publish(c)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, int64(4), stub.publishID)
}

func TestAnnouncementHandlerTransitionRejectsBadID(t *testing.T) {
	stub := &announcementServiceStub{}
	h := NewAnnouncementHandler(stub)
	c, w := newTestContext(http.MethodPost, "/announcements/x/publish", nil, adminClaims, idParam("x"))

	h.Publish(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, stub.publishID)
}

func TestAnnouncementHandlerDelete(t *testing.T) {
	stub := &announcementServiceStub{}
	h := NewAnnouncementHandler(stub)
	c, _ := newTestContext(http.MethodDelete, "/announcements/12", nil, teacherClaims, idParam("12"))

	h.Delete(c)

	require.Equal(t, http.StatusNoContent, c.Writer.Status())
	require.Equal(t, int64(12), stub.deletedID)
}
