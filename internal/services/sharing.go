package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharebox/backend/internal/models"
	"gorm.io/gorm"
)

type SharingService struct {
	DB *gorm.DB
}

func NewSharingService(db *gorm.DB) *SharingService {
	return &SharingService{DB: db}
}

// UserRef is the recipient/sharer identity exposed alongside grants.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type GrantInfo struct {
	ID        uuid.UUID `json:"id"`
	Recipient UserRef   `json:"recipient"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharedFile is one entry of the shared-with-me listing: the file, who
// shared it, and when.
type SharedFile struct {
	File     models.File `json:"file"`
	SharedBy UserRef     `json:"sharedBy"`
	GrantID  uuid.UUID   `json:"grantID"`
	SharedAt time.Time   `json:"sharedAt"`
}

// CreateGrant shares a private file owned by actor with the user registered
// under recipientEmail. Self-shares are rejected before the visibility check
// so that sharing with yourself is always reported as an invalid operation,
// whatever the file's visibility.
func (s *SharingService) CreateGrant(ctx context.Context, actor *models.User, fileID uuid.UUID, recipientEmail string) (*models.ShareGrant, error) {
	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("file not found")
		}
		return nil, fmt.Errorf("loading file: %w", err)
	}

	if file.OwnerID != actor.ID {
		return nil, ErrForbidden("you can only share your own files")
	}

	email := strings.ToLower(strings.TrimSpace(recipientEmail))
	var recipient models.User
	if err := s.DB.WithContext(ctx).First(&recipient, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("recipient user not found")
		}
		return nil, fmt.Errorf("loading recipient: %w", err)
	}

	if recipient.ID == actor.ID {
		return nil, ErrInvalidOperation("cannot share a file with yourself")
	}

	if file.IsPublic() {
		return nil, ErrForbidden("public files need no grant; only private files can be shared")
	}

	var existing int64
	err := s.DB.WithContext(ctx).
		Model(&models.ShareGrant{}).
		Where("file_id = ? AND recipient_id = ?", file.ID, recipient.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("checking existing grant: %w", err)
	}
	if existing > 0 {
		return nil, ErrConflict("file already shared with this user")
	}

	grant := models.ShareGrant{
		FileID:      file.ID,
		SharedByID:  actor.ID,
		RecipientID: recipient.ID,
	}
	if err := s.DB.WithContext(ctx).Create(&grant).Error; err != nil {
		// Concurrent identical grants race on the unique index; the loser
		// gets the same Conflict the precheck would have produced.
		if isUniqueViolation(err) {
			return nil, ErrConflict("file already shared with this user")
		}
		return nil, fmt.Errorf("creating grant: %w", err)
	}

	return &grant, nil
}

// RevokeGrant deletes a single grant. Only the file's owner or an admin may
// revoke; the recipient cannot give up a grant through this path.
func (s *SharingService) RevokeGrant(ctx context.Context, actor *models.User, grantID uuid.UUID) error {
	var grant models.ShareGrant
	if err := s.DB.WithContext(ctx).First(&grant, "id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound("sharing entry not found")
		}
		return fmt.Errorf("loading grant: %w", err)
	}

	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", grant.FileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound("associated file not found")
		}
		return fmt.Errorf("loading file: %w", err)
	}

	if file.OwnerID != actor.ID && !actor.IsAdmin {
		return ErrForbidden("not authorized to unshare this file")
	}

	if err := s.DB.WithContext(ctx).Delete(&models.ShareGrant{}, "id = ?", grant.ID).Error; err != nil {
		return fmt.Errorf("deleting grant: %w", err)
	}
	return nil
}

// ListGrantsForFile returns the grants on one file with recipient identity,
// in grant insertion order. Owner or admin only.
func (s *SharingService) ListGrantsForFile(ctx context.Context, actor *models.User, fileID uuid.UUID) ([]GrantInfo, error) {
	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("file not found")
		}
		return nil, fmt.Errorf("loading file: %w", err)
	}

	if file.OwnerID != actor.ID && !actor.IsAdmin {
		return nil, ErrForbidden("not authorized to view sharing details for this file")
	}

	var grants []models.ShareGrant
	err := s.DB.WithContext(ctx).
		Preload("Recipient").
		Where("file_id = ?", file.ID).
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}

	infos := make([]GrantInfo, 0, len(grants))
	for _, grant := range grants {
		infos = append(infos, GrantInfo{
			ID: grant.ID,
			Recipient: UserRef{
				ID:       grant.Recipient.ID,
				Username: grant.Recipient.Username,
				Email:    grant.Recipient.Email,
			},
			CreatedAt: grant.CreatedAt,
		})
	}
	return infos, nil
}

// ListSharedWithMe returns the files other users granted to user, joined
// with the sharer's identity, in grant insertion order.
func (s *SharingService) ListSharedWithMe(ctx context.Context, user *models.User) ([]SharedFile, error) {
	var grants []models.ShareGrant
	err := s.DB.WithContext(ctx).
		Preload("File").
		Preload("File.Owner").
		Preload("SharedBy").
		Where("recipient_id = ?", user.ID).
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("listing shared files: %w", err)
	}

	shared := make([]SharedFile, 0, len(grants))
	for _, grant := range grants {
		shared = append(shared, SharedFile{
			File: grant.File,
			SharedBy: UserRef{
				ID:       grant.SharedBy.ID,
				Username: grant.SharedBy.Username,
				Email:    grant.SharedBy.Email,
			},
			GrantID:  grant.ID,
			SharedAt: grant.CreatedAt,
		})
	}
	return shared, nil
}
