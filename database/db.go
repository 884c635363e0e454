package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/stdlib"

	pgxpkg "github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gameinsight/internal/http-api/models"
)

// OpenGorm opens a Postgres connection through the pgx stdlib driver and
// wraps it in gorm. Using an explicit *sql.DB keeps pool settings in one
// place and lets callers share the handle with non-gorm code.
func OpenGorm(databaseURL string) (*gorm.DB, error) {
	connConfig, err := pgxpkg.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[Database] Connected and migrated successfully")
	return db, nil
}

// Migrate applies the schema for every model the ingestion and API layers use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Game{},
		&models.Genre{},
		&models.Platform{},
		&models.Store{},
		&models.Tag{},
		&models.GameGenre{},
		&models.GamePlatform{},
		&models.GameStore{},
		&models.GameTag{},
		&models.User{},
		&models.IngestionRun{},
	)
}

// SQLDB returns the underlying *sql.DB for lifecycle management.
func SQLDB(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB, nil
}
