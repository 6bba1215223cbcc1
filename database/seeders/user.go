package seeders

import (
	"errors"
	"os"

	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultSystemName  = "System"
	defaultSystemEmail = "system@envitefy.link"
)

// SeedSystemUser makes sure the IsSystem operator account exists. The
// password comes from SYSTEM_USER_PASSWORD; without it a fresh database
// cannot be seeded.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	if email == "" {
		email = defaultSystemEmail
	}

	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		configslog.SLog.Infof("System user '%s' already exists (ID: %d), skipping create.", email, existing.ID)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Database error while checking system user", zap.Error(result.Error))
		return result.Error
	}

	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if password == "" {
		return errors.New("SYSTEM_USER_PASSWORD must be set to seed the system user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Could not hash system user password", zap.Error(err))
		return err
	}

	user := models.User{
		Name:         defaultSystemName,
		Email:        email,
		PasswordHash: string(hash),
		IsSystem:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("Could not create system user", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("System user '%s' created successfully (ID: %d).", email, user.ID)
	return nil
}
