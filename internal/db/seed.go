package db

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

var defaultServices = []models.Service{
	{Name: "Corte Clásico", DurationMin: 30, Price: 25, Active: true},
	{Name: "Corte + Barba", DurationMin: 50, Price: 40, Active: true},
	{Name: "Tinte / Color", DurationMin: 90, Price: 80, Active: true},
}

func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := seedServices(db); err != nil {
		return err
	}
	return seedAdmin(db, cfg)
}

func seedServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := make([]models.Service, len(defaultServices))
	copy(services, defaultServices)
	return db.Create(&services).Error
}

func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var admin models.Admin
	err := db.Where("email = ?", cfg.AdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin = models.Admin{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashed),
	}
	return db.Create(&admin).Error
}
