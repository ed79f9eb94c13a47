package client

import (
	"fmt"
	"stripe-checkout-demo/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens the goods database and migrates its tables. driver is
// "sqlite" (databaseURL is a file path or ":memory:") or "mysql" (a DSN).
func InitDBClient(driver, databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(databaseURL)
	case "sqlite", "":
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if driver == "mysql" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite serializes writers anyway, and an in-memory database lives
		// only as long as its single connection
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&model.Item{},
		&model.Discount{},
		&model.Tax{},
		&model.Order{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
