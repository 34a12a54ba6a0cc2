package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sharebox/backend/internal/models"
	"github.com/sharebox/backend/internal/storage"
	"github.com/sharebox/backend/pkg/logger"
	"gorm.io/gorm"
)

type FileService struct {
	DB     *gorm.DB
	Store  storage.ObjectStore
	Access *AccessService
}

func NewFileService(db *gorm.DB, store storage.ObjectStore, access *AccessService) *FileService {
	return &FileService{DB: db, Store: store, Access: access}
}

type UploadRequest struct {
	Name        string
	Size        int64
	ContentType string
	Visibility  models.Visibility
	Content     io.Reader
}

// Upload writes the content under a fresh storage key, then records the
// metadata row. A failed insert triggers a compensating object delete so no
// orphaned bytes survive the operation.
func (s *FileService) Upload(ctx context.Context, owner *models.User, req UploadRequest) (*models.File, error) {
	key := fmt.Sprintf("%s/%s/%s", owner.ID, uuid.New(), req.Name)

	if err := s.Store.Put(ctx, key, req.Content, req.Size, req.ContentType); err != nil {
		return nil, ErrStorage("failed storing file content", err)
	}

	entry := models.File{
		OwnerID:    owner.ID,
		Name:       req.Name,
		StorageKey: key,
		MimeType:   req.ContentType,
		Size:       req.Size,
		Visibility: req.Visibility,
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			logger.Error("upload_rollback_failed", delErr, map[string]interface{}{
				"storage_key": key,
			})
		}
		return nil, ErrStorage("failed recording uploaded file", err)
	}

	return &entry, nil
}

// Download returns the file metadata and a reader over its content. A
// metadata row whose object is gone is a store inconsistency and surfaces
// as a storage error, never as not-found.
func (s *FileService) Download(ctx context.Context, user *models.User, fileID uuid.UUID) (*models.File, io.ReadCloser, error) {
	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound("file not found")
		}
		return nil, nil, fmt.Errorf("loading file: %w", err)
	}

	if !s.Access.CanAccess(ctx, user, &file, ActionDownload) {
		return nil, nil, ErrForbidden("not authorized to download this file")
	}

	exists, err := s.Store.Exists(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, ErrStorage("failed checking file content", err)
	}
	if !exists {
		logger.Error("file_content_missing", nil, map[string]interface{}{
			"file_id":     file.ID.String(),
			"storage_key": file.StorageKey,
		})
		return nil, nil, ErrStorage("file content is missing from storage", nil)
	}

	content, err := s.Store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, ErrStorage("failed reading file content", err)
	}

	return &file, content, nil
}

// Delete removes the grants and the metadata row in one transaction, then
// deletes the object best-effort. A failed object delete leaves the bytes
// orphaned and is reported through the returned flag, not as an error; the
// user-visible metadata state is already consistent at that point.
func (s *FileService) Delete(ctx context.Context, user *models.User, fileID uuid.UUID) (orphaned bool, err error) {
	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound("file not found")
		}
		return false, fmt.Errorf("loading file: %w", err)
	}

	if !s.Access.CanAccess(ctx, user, &file, ActionDelete) {
		return false, ErrForbidden("not authorized to delete this file")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.ShareGrant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.File{}, "id = ?", file.ID).Error
	})
	if err != nil {
		return false, fmt.Errorf("deleting file record: %w", err)
	}

	if err := s.Store.Delete(ctx, file.StorageKey); err != nil {
		logger.Error("file_content_delete_failed", err, map[string]interface{}{
			"file_id":     file.ID.String(),
			"storage_key": file.StorageKey,
		})
		return true, nil
	}

	return false, nil
}
