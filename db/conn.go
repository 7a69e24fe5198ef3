// Package db opens the relational database and keeps the schema migrated
package db

import (
	"fmt"
	"printdoc/document-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch driver := viper.GetString("database.driver"); driver {
	case "postgres":
		dial = postgres.Open(viper.GetString("database.dsn"))
	case "sqlite":
		dial = sqlite.Open(viper.GetString("database.dsn"))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = db.AutoMigrate(model.Admin{}, model.Document{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
