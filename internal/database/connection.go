package database

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chatcall/internal/models"
)

func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	d.db = db

	return d.Migrate()
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{})
}
