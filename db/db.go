package db

import (
	"fmt"
	"os"
	"path/filepath"

	"amomaster/config"
	"amomaster/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Connect opens the database selected by conf.Database: sqlite3 (default),
// postgres or an in-memory sqlite. Tables are migrated when conf.AutoMigrate
// is set or the database lives in memory.
func Connect(conf config.Configuration, logger *zap.Logger) (*gorm.DB, error) {
	logger = logger.Named("db")

	var (
		db  *gorm.DB
		err error
	)

	switch conf.Database {
	case "postgres", "postgresql":
		logger.Info("connecting to postgres",
			zap.String("host", conf.DbHost),
			zap.String("db", conf.DbName))
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
			conf.DbHost, conf.DbPort, conf.DbUser, conf.DbName, conf.DbPass)
		db, err = gorm.Open("postgres", dsn)
	case "memory":
		logger.Info("using in-memory sqlite")
		db, err = OpenInMemory()
	default:
		path := conf.DbPath
		if path == "" {
			path = "db/database.db"
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, errors.Wrap(mkErr, "create database dir")
		}
		logger.Info("connecting to sqlite3", zap.String("path", path))
		db, err = gorm.Open("sqlite3", path)
	}
	if err != nil {
		logger.Error("connect database failed", zap.Error(err))
		return nil, errors.Wrap(err, "connect database")
	}

	db.LogMode(conf.DbDebug)

	if conf.AutoMigrate || conf.Database == "memory" {
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// OpenInMemory opens a private sqlite database. A single connection keeps
// every query on the same in-memory database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory sqlite")
	}
	db.DB().SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...).Error; err != nil {
		return errors.Wrap(err, "automigrate")
	}
	return nil
}
