package models

import "github.com/google/uuid"

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

type File struct {
	BaseModel
	OwnerID    uuid.UUID  `json:"ownerID" gorm:"type:uuid;not null;index"`
	Name       string     `json:"name" gorm:"type:varchar(255);not null"`
	StorageKey string     `json:"-" gorm:"type:text;not null;uniqueIndex"`
	MimeType   string     `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size       int64      `json:"size" gorm:"not null;default:0"`
	Visibility Visibility `json:"visibility" gorm:"type:varchar(10);not null;default:'private';index"`

	Owner  User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Grants []ShareGrant `json:"-" gorm:"foreignKey:FileID"`
}

// IsPublic reports whether the file is open to every authenticated user.
func (f *File) IsPublic() bool {
	return f.Visibility == VisibilityPublic
}
