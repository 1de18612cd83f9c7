package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-bulletin-api/internal/models"
)

var announcementRowColumns = []string{"id", "title", "content", "status", "priority", "is_pinned", "grade_level", "author_id",
	"approved_by", "approved_at", "published_at", "visibility_start_at", "visibility_end_at", "archived_at", "archived_by",
	"deleted_at", "created_at", "updated_at"}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO announcements")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	item := &models.Announcement{Title: "Exam", Content: "Monday", Priority: models.AnnouncementPriorityNormal, AuthorID: "teacher-1"}
	require.NoError(t, repo.Create(context.Background(), item))
	require.Equal(t, int64(42), item.ID)
	require.Equal(t, models.AnnouncementStatusDraft, item.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(announcementRowColumns).
		AddRow(7, "Exam", "Monday", "published", "HIGH", true, 10, "teacher-1", "admin-1", now, now, nil, nil, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, status")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	item, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, models.AnnouncementStatusPublished, item.Status)
	require.Equal(t, 10, *item.GradeLevel)
	require.Equal(t, "admin-1", *item.ApprovedBy)
	require.Nil(t, item.DeletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListPublic(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	grade := 11
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, status")).
		WithArgs(now, grade).
		WillReturnRows(sqlmock.NewRows(announcementRowColumns).
			AddRow(1, "Pinned", "c", "published", "NORMAL", true, nil, "teacher-1", nil, nil, now, nil, nil, nil, nil, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements")).
		WithArgs(now, grade).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.ListPublic(context.Background(), models.PublicAnnouncementFilter{GradeLevel: &grade, Now: now})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, items, 1)
	require.Nil(t, items[0].GradeLevel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, status")).
		WithArgs(sqlmock.AnyArg(), "teacher-1").
		WillReturnRows(sqlmock.NewRows(announcementRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM announcements")).
		WithArgs(sqlmock.AnyArg(), "teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	items, total, err := repo.List(context.Background(), models.AnnouncementFilter{
		Statuses: []models.AnnouncementStatus{models.AnnouncementStatusDraft},
		AuthorID: "teacher-1",
	})
	require.NoError(t, err)
	require.Empty(t, items)
	require.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryTransition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	item := &models.Announcement{ID: 5, Status: models.AnnouncementStatusPublished, UpdatedAt: time.Now()}
	from := models.AnnouncementState{Status: models.AnnouncementStatusPending}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements SET status = $1")).
		WithArgs(models.AnnouncementStatusPublished, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg(), int64(5), models.AnnouncementStatusPending, false, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Transition(context.Background(), item, from))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Transition(context.Background(), item, from)
	require.True(t, errors.Is(err, ErrStaleState))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryTransitionGuardsArchiver(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	alice := "alice"
	read := &models.Announcement{ID: 6, Status: models.AnnouncementStatusArchived, ArchivedBy: &alice}
	from := read.StateOf()
	require.Equal(t, "alice", from.ArchivedBy)

	restored := &models.Announcement{ID: 6, Status: models.AnnouncementStatusPublished, UpdatedAt: time.Now()}
	// The row was re-archived by the sweep after it was read, so the archiver
	// no longer matches and nothing is updated.
	mock.ExpectExec(regexp.QuoteMeta("AND COALESCE(archived_by, '') = $12")).
		WithArgs(models.AnnouncementStatusPublished, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg(), int64(6), models.AnnouncementStatusArchived, false, "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Transition(context.Background(), restored, from), ErrStaleState)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcement_attachments")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("AND COALESCE(archived_by, '') = $4")).
		WithArgs(int64(6), models.AnnouncementStatusArchived, false, "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	require.ErrorIs(t, repo.PermanentDelete(context.Background(), 6, from), ErrStaleState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryUpdateContentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE announcements SET title")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateContent(context.Background(), &models.Announcement{ID: 9, Title: "x"})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAnnouncementRepositoryPermanentDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)
	from := models.AnnouncementState{Status: models.AnnouncementStatusArchived}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcement_attachments")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements")).
		WithArgs(int64(3), models.AnnouncementStatusArchived, false, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.PermanentDelete(context.Background(), 3, from))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcement_attachments")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcements")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	require.ErrorIs(t, repo.PermanentDelete(context.Background(), 3, from), ErrStaleState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListExpired(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	past := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, status")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(announcementRowColumns).
			AddRow(2, "Old", "c", "published", "LOW", false, nil, "teacher-1", nil, nil, past, nil, past, nil, nil, nil, past, past))

	items, err := repo.ListExpired(context.Background(), now, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
