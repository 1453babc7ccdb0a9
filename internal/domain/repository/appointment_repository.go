package repository

import (
	"context"
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindActiveByDoctor returns slot-holding appointments in [from, to).
	FindActiveByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	CountActiveForPatient(ctx context.Context, db *gorm.DB, patientPhone string, doctorID uuid.UUID, from, to time.Time) (int64, error)
	// UpdateStatus applies the change only while the row is still in status
	// from. Returns affected rows: 0 means a concurrent writer got there first.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, at time.Time) (int64, error)
	Reschedule(ctx context.Context, db *gorm.DB, id uuid.UUID, from entity.AppointmentStatus, newStart time.Time, at time.Time) (int64, error)
}
