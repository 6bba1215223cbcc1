package main

import (
	"flag"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/database"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()
	migrateFlag := flag.Bool("migrate", false, "Run database initialization (includes migrations)")
	seedFlag := flag.Bool("seed", false, "Run database initialization (includes seeders)")
	flag.Parse()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	db := configsdatabase.GetDB()

	configslog.SLog.Info("Running database initialization...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Database initialization finished.")
}
