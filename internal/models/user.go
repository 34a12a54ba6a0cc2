package models

type User struct {
	BaseModel
	Username       string       `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email          string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string       `json:"-" gorm:"type:text;not null"`
	IsAdmin        bool         `json:"isAdmin" gorm:"not null;default:false"`
	Files          []File       `json:"-" gorm:"foreignKey:OwnerID"`
	GrantsGiven    []ShareGrant `json:"-" gorm:"foreignKey:SharedByID"`
	GrantsReceived []ShareGrant `json:"-" gorm:"foreignKey:RecipientID"`
}
