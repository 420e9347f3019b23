package database

import (
	"fmt"
	"time"

	"github.com/AsemAbuOthman/Forsah-sub000/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PGConnectStr build postgres dsn
func PGConnectStr(host string, port int, user, password, dbName string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbName)
}

// NewPGConnection open a gorm postgres connection have retry
func NewPGConnection(d Connection) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	count := d.RetryCount
	if count < 1 {
		count = 1
	}

	for i := 0; i < count; i++ {
		db, err = gorm.Open(postgres.Open(d.ConnectStr), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
			}
			if pingErr == nil {
				return db, nil
			}
			err = pingErr
		}

		logger.Log.Warn(
			"Failed to connect to postgreSQL database, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		if i < count-1 {
			time.Sleep(d.RetryInterval)
		}
	}

	return nil, fmt.Errorf("failed to connect to postgreSQL after %d attempts: %w", count, err)
}
