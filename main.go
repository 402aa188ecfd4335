package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnsphere/config"
	controllers "learnsphere/controllers/course"
	"learnsphere/database"
	"learnsphere/routers"
	"learnsphere/services/learning"
	"learnsphere/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	notifier := utils.NewNotifier(config.AppConfig.BadgeWebhookURL)
	svc := learning.New(database.Database.Db,
		learning.WithNotifier(notifier),
		learning.WithCompletionBonus(config.AppConfig.CourseCompletionBonus),
	)
	controllers.SetLearningService(svc)

	scheduler, err := utils.InitializeBadgeScheduler(svc, config.AppConfig.BadgeReconcileCron)
	if err != nil {
		log.Fatalf("[BADGE-SCHEDULER] Invalid BADGE_RECONCILE_CRON %q: %v", config.AppConfig.BadgeReconcileCron, err)
	}

	app := routers.SetupApp()

	go func() {
		log.Printf("Server is running on port %s", config.AppConfig.Port)
		if err := app.Listen(":" + config.AppConfig.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	<-scheduler.Stop().Done()
	notifier.Wait()
	log.Println("Server exited")
}
