package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-bulletin-api/internal/dto"
	"github.com/noah-isme/sma-bulletin-api/internal/lifecycle"
	"github.com/noah-isme/sma-bulletin-api/internal/models"
	appErrors "github.com/noah-isme/sma-bulletin-api/pkg/errors"
)

type attachmentStore interface {
	Create(ctx context.Context, item *models.AnnouncementAttachment) error
	GetByID(ctx context.Context, announcementID, id int64) (*models.AnnouncementAttachment, error)
	ListByAnnouncement(ctx context.Context, announcementID int64) ([]models.AnnouncementAttachment, error)
	SetPrimary(ctx context.Context, announcementID, attachmentID int64) error
	Delete(ctx context.Context, announcementID, id int64) error
}

type attachmentOwnerLoader interface {
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
}

type attachmentFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type attachmentSigner interface {
	Generate(id, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (id, relPath string, expiresAt time.Time, err error)
}

// AttachmentUpload carries upload metadata and stream reader.
type AttachmentUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// AttachmentDownload bundles an open file with its metadata for streaming.
type AttachmentDownload struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
}

// AttachmentServiceConfig holds upload limits and link settings.
type AttachmentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	APIPrefix    string
}

// AttachmentService manages announcement attachments on disk and in the database.
type AttachmentService struct {
	repo    attachmentStore
	owners  attachmentOwnerLoader
	storage attachmentFileStorage
	signer  attachmentSigner
	logger  *zap.Logger
	cfg     AttachmentServiceConfig
	mimeSet map[string]struct{}
}

// NewAttachmentService constructs the service with defaults.
func NewAttachmentService(repo attachmentStore, owners attachmentOwnerLoader, storage attachmentFileStorage, signer attachmentSigner, logger *zap.Logger, cfg AttachmentServiceConfig) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"application/pdf", "image/png", "image/jpeg"}
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	return &AttachmentService{repo: repo, owners: owners, storage: storage, signer: signer, logger: logger, cfg: cfg, mimeSet: mimeSet}
}

// Upload stores a file for an announcement. The first file becomes primary.
func (s *AttachmentService) Upload(ctx context.Context, announcementID int64, upload AttachmentUpload, actor models.Actor) (*models.AnnouncementAttachment, error) {
	if _, err := s.editable(ctx, announcementID, actor); err != nil {
		return nil, err
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, allowed := s.mimeSet[strings.ToLower(mimeType)]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mime type not allowed")
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext == "" {
		ext = mimeExtension(mimeType)
	}
	name := fmt.Sprintf("announcements/%d/%s%s", announcementID, uuid.NewString(), ext)
	path, err := s.storage.SaveStream(name, upload.Content)
	if err != nil {
		s.logger.Error("save attachment file", zap.Int64("announcement_id", announcementID), zap.Error(err))
		return nil, appErrors.Storage(err, "failed to store attachment")
	}
	item := &models.AnnouncementAttachment{
		AnnouncementID: announcementID,
		FileName:       filepath.Base(upload.Filename),
		FilePath:       path,
		MimeType:       mimeType,
		SizeBytes:      upload.Size,
		UploadedBy:     actor.ID,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		_ = s.storage.Delete(path)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		s.logger.Error("create attachment row", zap.Int64("announcement_id", announcementID), zap.Error(err))
		return nil, appErrors.Storage(err, "failed to create attachment")
	}
	return item, nil
}

// List returns the attachments of an announcement, primary first.
func (s *AttachmentService) List(ctx context.Context, announcementID int64) ([]models.AnnouncementAttachment, error) {
	items, err := s.repo.ListByAnnouncement(ctx, announcementID)
	if err != nil {
		s.logger.Error("list attachments", zap.Int64("announcement_id", announcementID), zap.Error(err))
		return nil, appErrors.Storage(err, "failed to list attachments")
	}
	if items == nil {
		items = []models.AnnouncementAttachment{}
	}
	return items, nil
}

// FilePaths returns the stored paths of every attachment of an announcement.
func (s *AttachmentService) FilePaths(ctx context.Context, announcementID int64) ([]string, error) {
	items, err := s.List(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(items))
	for _, item := range items {
		paths = append(paths, item.FilePath)
	}
	return paths, nil
}

// DeleteFiles removes stored files, logging failures.
func (s *AttachmentService) DeleteFiles(paths []string) {
	for _, path := range paths {
		if err := s.storage.Delete(path); err != nil {
			s.logger.Warn("delete attachment file", zap.String("path", path), zap.Error(err))
		}
	}
}

// SetPrimary marks one attachment as the primary file.
func (s *AttachmentService) SetPrimary(ctx context.Context, announcementID, attachmentID int64, actor models.Actor) error {
	if _, err := s.editable(ctx, announcementID, actor); err != nil {
		return err
	}
	if err := s.repo.SetPrimary(ctx, announcementID, attachmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		s.logger.Error("set primary attachment", zap.Int64("attachment_id", attachmentID), zap.Error(err))
		return appErrors.Storage(err, "failed to set primary attachment")
	}
	return nil
}

// DownloadURL generates a signed link for an attachment.
func (s *AttachmentService) DownloadURL(ctx context.Context, announcementID, attachmentID int64) (*dto.AttachmentDownloadResponse, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	item, err := s.get(ctx, announcementID, attachmentID)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(strconv.FormatInt(item.ID, 10), item.FilePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate download token")
	}
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	return &dto.AttachmentDownloadResponse{
		AnnouncementAttachment: *item,
		DownloadURL:            fmt.Sprintf("%s/announcements/%d/attachments/%d/download?token=%s", base, announcementID, item.ID, token),
		ExpiresAt:              expiresAt,
	}, nil
}

// Download validates the token and opens the file.
func (s *AttachmentService) Download(ctx context.Context, announcementID, attachmentID int64, token string) (*AttachmentDownload, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer unavailable")
	}
	item, err := s.get(ctx, announcementID, attachmentID)
	if err != nil {
		return nil, err
	}
	id, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired token")
	}
	if id != strconv.FormatInt(item.ID, 10) || relPath != item.FilePath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to open attachment")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Storage(err, "failed to read attachment metadata")
	}
	return &AttachmentDownload{File: file, Filename: item.FileName, MimeType: item.MimeType, SizeBytes: info.Size()}, nil
}

// Delete removes one attachment row and its file.
func (s *AttachmentService) Delete(ctx context.Context, announcementID, attachmentID int64, actor models.Actor) error {
	if _, err := s.editable(ctx, announcementID, actor); err != nil {
		return err
	}
	item, err := s.get(ctx, announcementID, attachmentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, announcementID, attachmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return appErrors.Storage(err, "failed to delete attachment")
	}
	s.DeleteFiles([]string{item.FilePath})
	return nil
}

func (s *AttachmentService) get(ctx context.Context, announcementID, attachmentID int64) (*models.AnnouncementAttachment, error) {
	item, err := s.repo.GetByID(ctx, announcementID, attachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return nil, appErrors.Storage(err, "failed to load attachment")
	}
	return item, nil
}

func (s *AttachmentService) editable(ctx context.Context, announcementID int64, actor models.Actor) (*models.Announcement, error) {
	owner, err := s.owners.GetByID(ctx, announcementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Storage(err, "failed to load announcement")
	}
	if owner.IsDeleted() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	if !lifecycle.CanAuthor(owner, actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author may change attachments")
	}
	return owner, nil
}

func detectMime(upload AttachmentUpload) (string, error) {
	if upload.MimeType != "" && upload.MimeType != "application/octet-stream" {
		return upload.MimeType, nil
	}
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	return http.DetectContentType(header[:n]), nil
}

func mimeExtension(mime string) string {
	switch strings.ToLower(mime) {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}
