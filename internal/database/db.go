package database

import (
	"log"

	"github.com/Ashutoshverma77/store-app-be/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.StoreItem{},
		&model.StorePlace{},
		&model.PlaceItemQuantity{},
		&model.Receiving{},
		&model.ReceivingLine{},
		&model.Issue{},
		&model.IssueLine{},
		&model.StockMovement{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
