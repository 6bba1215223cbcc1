package migrations

import (
	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateSignupResponsesTable creates/updates the table for guest slot claims.
func MigrateSignupResponsesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating signup_responses table...")
	// The events table must already exist (FK target).
	err := db.AutoMigrate(&models.SignupResponse{})
	if err != nil {
		configslog.Log.Error("Failed to migrate signup_responses table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Signup_responses table migrated successfully")
	return nil
}
