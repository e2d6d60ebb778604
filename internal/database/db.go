package database

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"work-report-rag/config"
	"work-report-rag/pkg/logger"
)

var DB *gorm.DB

// connect opens the DB and applies pool configuration
func connect() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(config.Cfg.Dns), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(config.Cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.Cfg.Database.MaxOpenConns)
	lifetime := time.Duration(config.Cfg.Database.MaxLifetime) * time.Minute
	sqlDB.SetConnMaxIdleTime(lifetime)
	sqlDB.SetConnMaxLifetime(lifetime)

	return db, nil
}

// ensureConnection verifies DB connectivity and reconnects if needed.
// The first connection is made lazily; search works without MySQL, only
// chat history persistence needs it.
func ensureConnection() error {
	if DB == nil {
		db, err := connect()
		if err != nil {
			logger.Error(err, "database: failed to connect to database")
			return err
		}
		DB = db
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Error(err, "database: failed to get database connection")
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		db, err := connect()
		if err != nil {
			logger.Error(err, "database: failed to reconnect to database")
			return err
		}
		DB = db
	}
	return nil
}

// GetDB returns a healthy *gorm.DB, attempting reconnect if necessary
func GetDB() (*gorm.DB, error) {
	if err := ensureConnection(); err != nil {
		return nil, err
	}
	return DB, nil
}
