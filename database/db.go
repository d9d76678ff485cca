package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"courier-backend/logger"
	"courier-backend/models/log"
	"courier-backend/models/network"
	"courier-backend/models/shipment"
	"courier-backend/models/user"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := SeedData(DB); err != nil {
		logger.Error("Failed to seed initial data", err)
		return nil, err
	}

	return DB, nil
}

// Migrate runs auto migration for all models, in dependency order.
func Migrate(db *gorm.DB) error {
	// Stage 1: principals and network reference data
	stage1Models := []interface{}{
		&user.User{},
		&user.Token{},
		&user.OperatorProfile{},
		&network.Hub{},
		&network.Branch{},
		&network.Vehicle{},
		&network.DeliveryAgent{},
		&network.Area{},
	}
	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: shipment lifecycle tables (Manifest before OutscanLine,
	// DRS before DRSLine)
	stage2Models := []interface{}{
		&shipment.Booking{},
		&shipment.ChildPiece{},
		&shipment.BookingDetail{},
		&shipment.InscanEvent{},
		&shipment.Manifest{},
		&shipment.OutscanLine{},
		&shipment.DRS{},
		&shipment.DRSLine{},
		&shipment.DeliveryGate{},
		&shipment.DeliveryOutcome{},
	}
	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: logging
	if err := db.AutoMigrate(&log.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &log.Log{}, err)
	}

	return nil
}
