package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharebox/backend/internal/models"
	"github.com/sharebox/backend/internal/storage"
	"github.com/sharebox/backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminService carries the privileged mutations that bypass ordinary
// ownership checks. Callers are expected to have verified the admin role
// already; the only checks here are the self-protection rules.
type AdminService struct {
	DB    *gorm.DB
	Store storage.ObjectStore
}

func NewAdminService(db *gorm.DB, store storage.ObjectStore) *AdminService {
	return &AdminService{DB: db, Store: store}
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	var users []models.User
	err := s.DB.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	return users, total, nil
}

// DeleteUser removes the target user together with every file they own and
// every grant that references them, in a single transaction. Object cleanup
// for their stored files happens after commit, best effort.
func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, targetID uuid.UUID) error {
	if targetID == actor.ID {
		return ErrForbidden("cannot delete your own admin account")
	}

	var target models.User
	if err := s.DB.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound("user not found")
		}
		return fmt.Errorf("loading user: %w", err)
	}

	var ownedFiles []models.File
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", target.ID).Find(&ownedFiles).Error; err != nil {
		return fmt.Errorf("listing owned files: %w", err)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedFileIDs := tx.Model(&models.File{}).Select("id").Where("owner_id = ?", target.ID)
		if err := tx.Where("file_id IN (?)", ownedFileIDs).Delete(&models.ShareGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shared_by_id = ? OR recipient_id = ?", target.ID, target.ID).Delete(&models.ShareGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", target.ID).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", target.ID).Error
	})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	for _, file := range ownedFiles {
		if file.StorageKey == "" {
			continue
		}
		if err := s.Store.Delete(ctx, file.StorageKey); err != nil {
			logger.Error("user_file_cleanup_failed", err, map[string]interface{}{
				"user_id":     target.ID.String(),
				"file_id":     file.ID.String(),
				"storage_key": file.StorageKey,
			})
		}
	}

	return nil
}

// SetAdminFlag toggles the target's admin role. Idempotent; admins cannot
// change their own flag through this path.
func (s *AdminService) SetAdminFlag(ctx context.Context, actor *models.User, targetID uuid.UUID, isAdmin bool) error {
	if targetID == actor.ID {
		return ErrForbidden("cannot change your own admin status")
	}

	result := s.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", targetID).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return fmt.Errorf("updating admin status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound("user not found")
	}
	return nil
}
