package migration

import (
	"fmt"

	"gorm.io/gorm"

	"grocery-price-tracker/entities"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Receipt{},
		&entities.Item{},
	); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	fmt.Println("Database migration complete")
	return nil
}
