package services

import (
	"context"
	"fmt"

	"github.com/sharebox/backend/internal/models"
	"gorm.io/gorm"
)

type Action string

const (
	ActionView          Action = "view"
	ActionDownload      Action = "download"
	ActionDelete        Action = "delete"
	ActionManageSharing Action = "manage-sharing"
)

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// CanAccess decides whether user may perform action on file. Rules apply in
// precedence order: admin, owner, public visibility, then an existing grant.
// Visibility and grants only ever open up view and download; delete and
// manage-sharing stay with the owner and admins.
func (a *AccessService) CanAccess(ctx context.Context, user *models.User, file *models.File, action Action) bool {
	if user.IsAdmin {
		return true
	}
	if file.OwnerID == user.ID {
		return true
	}
	if action != ActionView && action != ActionDownload {
		return false
	}
	if file.IsPublic() {
		return true
	}

	var count int64
	err := a.DB.WithContext(ctx).
		Model(&models.ShareGrant{}).
		Where("file_id = ? AND recipient_id = ?", file.ID, user.ID).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// ListVisible returns every file for admins, otherwise the user's own files
// plus all public ones. Grants do not influence this listing; shared files
// are retrieved separately.
func (a *AccessService) ListVisible(ctx context.Context, user *models.User) ([]models.File, error) {
	query := a.DB.WithContext(ctx).Preload("Owner").Order("created_at DESC")
	if !user.IsAdmin {
		query = query.Where("owner_id = ? OR visibility = ?", user.ID, models.VisibilityPublic)
	}

	var files []models.File
	if err := query.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("listing visible files: %w", err)
	}
	return files, nil
}
