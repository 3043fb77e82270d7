package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/models"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Equipment{},
		&models.EquipmentManager{},
		&models.Booking{},
		&models.MagicLink{},
		&models.AIQueryLog{},
		&models.AIUsage{},
		&models.CronJob{},
	); err != nil {
		return err
	}

	// Conflict checks always scan active rows of one equipment by date range.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_equipment_dates
	  ON %s (equipment_id, start_date, end_date)
	  WHERE status = 'active';
	`, models.BookingTable, models.BookingTable)).Error; err != nil {
		return err
	}

	// One active magic link lookup path: unexpired, unused, newest first.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_by_email
	  ON %s (email, expires_at DESC)
	  WHERE used_at IS NULL;
	`, models.MagicLinkTable, models.MagicLinkTable)).Error; err != nil {
		return err
	}

	return nil
}
