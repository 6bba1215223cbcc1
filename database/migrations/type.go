package migrations

import (
	"errors"

	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"gorm.io/gorm"
)

func MigrateTypesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating types table...")

	if err := db.AutoMigrate(&models.Type{}); err != nil {
		errMsg := "failed to migrate types table: " + err.Error()
		configslog.Log.Error(errMsg)
		return errors.New(errMsg)
	}

	configslog.SLog.Info("Types table migrated successfully.")
	return nil
}
