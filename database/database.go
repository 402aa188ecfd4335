package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"learnsphere/config"
	"learnsphere/models"
	courseModels "learnsphere/models/course"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, tunes the pool and runs migrations.
func ConnectDb() {
	db, err := Open(config.AppConfig)
	if err != nil {
		log.Fatalf("[DB] Failed to connect to %s: %v", config.AppConfig.DBDriver, err)
		os.Exit(2)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB] Failed to get database instance: %v", err)
	}

	if config.AppConfig.DBDriver == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[DB] Migration failed: %v", err)
	}

	Database = DbInstance{Db: db}
	log.Printf("[DB] Connected to %s", config.AppConfig.DBDriver)
}

// Open returns a gorm handle for the driver named in cfg.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if cfg.DBLogSQL {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return gorm.Open(dialector, gormConfig)
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	log.Println("[DB] Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.LoginTracking{},
		&models.PointLog{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.QuizQuestion{},
		&courseModels.QuizAttempt{},
		&courseModels.QuizFirstPass{},
		&courseModels.Enrollment{},
		&courseModels.LessonCompletion{},
		&courseModels.Certificate{},
	)
	if err != nil {
		return err
	}

	log.Println("[DB] Migrations completed successfully.")
	return nil
}
