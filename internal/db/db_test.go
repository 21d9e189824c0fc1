package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestMigrateAndSeed(t *testing.T) {
	db := openSQLite(t)

	if err := Migrate(db, appointment.Policy{CompletedBlocksSlot: true}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{AdminName: "Admin", AdminEmail: "admin@test.pe", AdminPassword: "secret123"}
	if err := Seed(db, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// segunda execução não duplica
	if err := Seed(db, cfg); err != nil {
		t.Fatalf("seed again: %v", err)
	}

	var services int64
	db.Model(&models.Service{}).Count(&services)
	if services != int64(len(defaultServices)) {
		t.Fatalf("expected %d services, got %d", len(defaultServices), services)
	}

	var admins []models.Admin
	db.Find(&admins)
	if len(admins) != 1 || admins[0].PasswordHash == "secret123" {
		t.Fatalf("expected one admin with hashed password, got %+v", admins)
	}
}

func TestSeed_SkipsAdminWithoutPassword(t *testing.T) {
	db := openSQLite(t)
	if err := Migrate(db, appointment.Policy{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Seed(db, &config.Config{AdminEmail: "admin@test.pe"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var count int64
	db.Model(&models.Admin{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no admin, got %d", count)
	}
}
