package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the application database. MySQL is the default; setting
// DB_DRIVER=sqlite switches to a local file for development. The handle is
// opened once at startup and injected everywhere, never rebuilt per request.
func InitDB() (*gorm.DB, error) {
	cfg := &gorm.Config{
		// Map driver duplicate-key errors to gorm.ErrDuplicatedKey so the
		// order number retry loop can recognize collisions portably.
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "srm.db"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
	} else {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getenv("DB_USER", "root"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_HOST", "127.0.0.1"),
			getenv("DB_PORT", "3306"),
			getenv("DB_NAME", "starlink_srm"),
		)
		db, err = gorm.Open(mysql.Open(dsn), cfg)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
