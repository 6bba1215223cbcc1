package database

import (
	"envitefy.link/configs/configslog"
	"envitefy.link/database/migrations"
	"envitefy.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed flag given, nothing to do.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Could not begin database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization failed (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Rolling back because initialization hit an error.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Additional error during rollback", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		configslog.SLog.Info("Running migrations...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrations finished.")
	} else {
		configslog.SLog.Info("Migrate flag not given, skipping migration step.")
	}

	if seed {
		configslog.SLog.Info("Running seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders finished.")
	} else {
		configslog.SLog.Info("Seed flag not given, skipping seeder step.")
	}

	configslog.SLog.Info("Committing transaction...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("Database initialization completed successfully")
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Running migrations in order...")

	configslog.SLog.Info(" -> Running user migrations...")
	if err := migrations.MigrateUsersTable(db); err != nil {
		configslog.Log.Error("Users table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> User migrations finished.")

	configslog.SLog.Info(" -> Running type migrations...")
	if err := migrations.MigrateTypesTable(db); err != nil {
		configslog.Log.Error("Types table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Type migrations finished.")

	configslog.SLog.Info(" -> Running link migrations...")
	if err := migrations.MigrateLinksTable(db); err != nil {
		configslog.Log.Error("Links table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Link migrations finished.")

	configslog.SLog.Info(" -> Running event migrations...")
	if err := migrations.MigrateEventsTables(db); err != nil {
		configslog.Log.Error("Events tables migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Event migrations finished.")

	configslog.SLog.Info(" -> Running signup response migrations...")
	if err := migrations.MigrateSignupResponsesTable(db); err != nil {
		configslog.Log.Error("Signup responses table migration failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Signup response migrations finished.")

	configslog.SLog.Info("All migrations ran successfully.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info("Checking/creating/updating the system user...")
	if err := seeders.SeedSystemUser(db); err != nil {
		configslog.Log.Error("System user seed/update failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> Running type seeder...")
	if err := seeders.SeedTypes(db); err != nil {
		configslog.Log.Error("Types table could not be seeded", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Type seeder finished.")

	configslog.SLog.Info("All seeders checked/ran successfully.")
	return nil
}
