package seeders

import (
	"context"
	"errors"

	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SeedTypes(db *gorm.DB) error {
	systemUserID := uint(1)
	ctx := models.ContextWithUserID(context.Background(), systemUserID)

	typesToSeed := []models.Type{
		{Name: models.TypeNameEvent, Description: "Shareable event link service"},
	}

	var createdCount int64 = 0
	var errorOccurred bool = false

	configslog.SLog.Info("Seeding service types...")

	for _, typeToSeed := range typesToSeed {
		var existingType models.Type
		result := db.Where("name = ?", typeToSeed.Name).First(&existingType)

		if result.Error == nil {
			configslog.SLog.Debugf("Service type '%s' already exists, skipping create.", typeToSeed.Name)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Database error while checking service type",
				zap.String("type_name", typeToSeed.Name),
				zap.Error(result.Error),
			)
			errorOccurred = true
			continue
		}

		configslog.SLog.Infof("Creating service type '%s'...", typeToSeed.Name)

		err := db.WithContext(ctx).Create(&typeToSeed).Error
		if err != nil {
			configslog.Log.Error("Could not create service type",
				zap.String("type_name", typeToSeed.Name),
				zap.Error(err),
			)
			errorOccurred = true
			continue
		}

		configslog.SLog.Infof("Service type '%s' created successfully (ID: %d, created by: %d).", typeToSeed.Name, typeToSeed.ID, systemUserID)
		createdCount++
	}

	if createdCount > 0 {
		configslog.SLog.Infof("%d new service type(s) seeded successfully.", createdCount)
	} else if !errorOccurred {
		configslog.SLog.Info("All service types already present, nothing added.")
	}

	if errorOccurred {
		return errors.New("at least one error occurred while seeding service types")
	}

	configslog.SLog.Info("Service type seeding completed successfully.")
	return nil
}
