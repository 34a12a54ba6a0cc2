package models

import "github.com/google/uuid"

// ShareGrant is one directed permission: a private file, granted by its
// owner, to a single recipient. At most one grant may exist per
// (file, recipient) pair; the composite unique index enforces that under
// concurrent inserts.
type ShareGrant struct {
	BaseModel
	FileID      uuid.UUID `json:"fileID" gorm:"type:uuid;not null;uniqueIndex:idx_share_grants_file_recipient"`
	SharedByID  uuid.UUID `json:"sharedByID" gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID `json:"recipientID" gorm:"type:uuid;not null;uniqueIndex:idx_share_grants_file_recipient;index"`

	File      File `json:"file,omitempty" gorm:"foreignKey:FileID;references:ID"`
	SharedBy  User `json:"sharedBy,omitempty" gorm:"foreignKey:SharedByID;references:ID"`
	Recipient User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID;references:ID"`
}

func (ShareGrant) TableName() string {
	return "share_grants"
}
