package main

import (
	"os"
	"os/signal"
	"syscall"

	"envitefy.link/configs/configsapp"
	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/routes"
	"envitefy.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views:       engine,
		AppName:     "envitefy.link",
		ProxyHeader: fiber.HeaderXForwardedFor,
	})

	routes.SetupRoutes(app)

	reminders := services.NewReminderService(services.LogNotifier{})
	if err := reminders.Start(cfg.ReminderCron); err != nil {
		configslog.Log.Fatal("Could not start reminder scheduler", zap.Error(err))
	}
	defer reminders.Stop()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Shutdown signal received, closing server...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	configslog.SLog.Infof("Server listening on %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		configslog.Log.Fatal("Server could not start", zap.Error(err))
	}

	configslog.SLog.Info("Server stopped.")
}
