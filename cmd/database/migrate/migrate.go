package migration

import (
	"Trademate-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.TradeOffer{}); err != nil {
		log.Fatalf("Error migrating trade offer database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.TradeOfferItem{}); err != nil {
		log.Fatalf("Error migrating trade offer item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Review{}); err != nil {
		log.Fatalf("Error migrating review database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.XPTransaction{}); err != nil {
		log.Fatalf("Error migrating xp transaction database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
