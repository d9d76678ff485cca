package database

import (
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/models/user"
)

// SeedData seeds the database with initial data
func SeedData(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}
	logger.Success("Database seeding completed successfully")
	return nil
}

// seedAdminUser creates the bootstrap admin used to onboard hubs, branches and
// operators. The password comes from ADMIN_PASSWORD and must be changed after
// first login.
func seedAdminUser(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	var existing user.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		logger.Debug("Admin user already exists, skipping...")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing admin user", err)
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		logger.Warning("ADMIN_PASSWORD not set, seeding admin with default password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := user.User{Username: username, PasswordHash: string(hash)}
		if err := tx.Create(&admin).Error; err != nil {
			logger.Error("Failed to create admin user", err)
			return err
		}
		profile := user.OperatorProfile{
			UserID:   admin.ID,
			Type:     constants.TypeAdmin,
			Code:     "000000",
			CodeName: "Head Office",
		}
		if err := tx.Create(&profile).Error; err != nil {
			logger.Error("Failed to create admin profile", err)
			return err
		}
		return nil
	})
}
