package migrations

import (
	"github.com/Rakhulsr/e-agri/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Farmer{},
		&models.Dealer{},
		&models.LoginAttempt{},
		&models.Category{},
		&models.Product{},
		&models.WeatherReading{},
	)
}
