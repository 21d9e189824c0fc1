package db

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

const overlapConstraint = "appointments_no_overlap"

func Migrate(db *gorm.DB, policy appointment.Policy) error {
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Service{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	return EnsureOverlapConstraint(db, policy)
}

// EnsureOverlapConstraint recria a exclusion constraint com o predicado da
// política ativa. É a última barreira contra double-booking entre instâncias.
func EnsureOverlapConstraint(db *gorm.DB, policy appointment.Policy) error {
	statuses := make([]string, 0, 2)
	for _, st := range policy.BlockingStatuses() {
		statuses = append(statuses, fmt.Sprintf("'%s'", st))
	}

	if err := db.Exec(
		"ALTER TABLE appointments DROP CONSTRAINT IF EXISTS " + overlapConstraint,
	).Error; err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`ALTER TABLE appointments ADD CONSTRAINT %s
		EXCLUDE USING gist (tstzrange(start_time, end_time, '[)') WITH &&)
		WHERE (status IN (%s))`,
		overlapConstraint,
		strings.Join(statuses, ", "),
	)
	if err := db.Exec(stmt).Error; err != nil {
		// dados legados sobrepostos: segue só com o lock da aplicação
		log.Printf("overlap constraint not installed: %v", err)
	}
	return nil
}
