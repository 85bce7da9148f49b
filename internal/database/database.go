package database

import (
	"fmt"
	"log"

	"github.com/letsgoal/goal-tracker-api/internal/config"
	"github.com/letsgoal/goal-tracker-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

func Migrate() error {
	if err := MigrateModels(DB); err != nil {
		return err
	}
	// The index-existence check reads pg_indexes; other drivers rely on the
	// indexes AutoMigrate derives from model tags.
	if DB.Dialector.Name() == "postgres" {
		return MigrateDatabase(DB)
	}
	return nil
}

// MigrateModels runs the schema migration against the given database.
func MigrateModels(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.SetupJoinTable(&models.Goal{}, "Tags", &models.GoalTag{}); err != nil {
		return fmt.Errorf("failed to set up goal_tags join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.Subgoal{},
		&models.Tag{},
		&models.GoalTag{},
		&models.GoalShare{},
		&models.Event{},
		&models.ProgressEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
