package migrations

import (
	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEventsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating events & event_details tables...")
	err := db.AutoMigrate(&models.Event{}, &models.EventDetail{})
	if err != nil {
		configslog.Log.Error("Failed to migrate events & event_details tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Events & event_details tables migrated successfully")
	return nil
}
