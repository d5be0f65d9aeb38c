package db

import (
	"fmt"
	"log"

	"github.com/hoaconnect/hoa-services-app/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.UserDocument{},
		&models.Apartment{},
		&models.House{},
		&models.Service{},
		&models.ServiceProvider{},
		&models.ServiceRate{},
		&models.ProviderLocation{},
		&models.Job{},
		&models.Bid{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
