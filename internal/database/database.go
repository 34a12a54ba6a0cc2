package database

import (
	"fmt"

	"github.com/sharebox/backend/internal/config"
	"github.com/sharebox/backend/internal/models"
	"github.com/sharebox/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig, adminCfg config.AdminConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedAdminUser(db, adminCfg); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.ShareGrant{},
	)
}

// SeedAdminUser creates the administrator account on first boot. Any
// existing user row means seeding already happened.
func SeedAdminUser(db *gorm.DB, cfg config.AdminConfig) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		IsAdmin:      true,
	}

	return db.Create(&admin).Error
}
