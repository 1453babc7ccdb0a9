package service

import (
	"context"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityChecker interface {
	// Check splits the doctor's grid for date into free and occupied slots.
	// The grid is empty on days outside the doctor's available days.
	Check(ctx context.Context, doctorID uuid.UUID, date time.Time) (*entity.DayAvailability, error)
	// Doctor resolves an active doctor.
	Doctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error)
}

type availabilityChecker struct {
	db              *gorm.DB
	log             *logrus.Logger
	policy          *BookingPolicy
	doctors         *DoctorDirectory
	appointmentRepo repository.AppointmentRepository
}

func NewAvailabilityChecker(
	db *gorm.DB,
	log *logrus.Logger,
	policy *BookingPolicy,
	doctors *DoctorDirectory,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityChecker {
	return &availabilityChecker{
		db:              db,
		log:             log,
		policy:          policy,
		doctors:         doctors,
		appointmentRepo: appointmentRepo,
	}
}

func (c *availabilityChecker) Doctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	return c.doctors.FindActive(ctx, doctorID)
}

func (c *availabilityChecker) Check(ctx context.Context, doctorID uuid.UUID, date time.Time) (*entity.DayAvailability, error) {
	doctor, err := c.doctors.FindActive(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	day := c.policy.StartOfDay(date)
	if !doctor.WorksOn(day.Weekday()) {
		return &entity.DayAvailability{
			DoctorID: doctorID.String(),
			Date:     day.Format("2006-01-02"),
			Free:     []entity.Slot{},
			Occupied: []entity.Slot{},
		}, nil
	}

	appointments, err := c.appointmentRepo.FindActiveByDoctor(ctx, c.db, doctorID, day, c.policy.NextDay(day))
	if err != nil {
		c.log.Warnf("Failed to load appointments for doctor %s on %s: %+v", doctorID, day.Format("2006-01-02"), err)
		return nil, apperror.Internal("failed to load appointments", err)
	}

	free, occupied := SplitGrid(c.policy.DayGrid(day), appointments)
	return &entity.DayAvailability{
		DoctorID: doctorID.String(),
		Date:     day.Format("2006-01-02"),
		Free:     free,
		Occupied: occupied,
	}, nil
}

// SplitGrid partitions grid by whether a slot-holding appointment starts at
// each slot. Appointments off the grid or in a freeing status are ignored.
func SplitGrid(grid []entity.Slot, appointments []entity.Appointment) (free, occupied []entity.Slot) {
	taken := make(map[int64]bool, len(appointments))
	for _, a := range appointments {
		if a.Status.OccupiesSlot() {
			taken[a.AppointmentAt.Unix()] = true
		}
	}

	free = make([]entity.Slot, 0, len(grid))
	occupied = make([]entity.Slot, 0, len(appointments))
	for _, slot := range grid {
		if taken[slot.Start.Unix()] {
			occupied = append(occupied, slot)
		} else {
			free = append(free, slot)
		}
	}
	return free, occupied
}

// IsSlotFree reports whether start is one of the free slots.
func IsSlotFree(availability *entity.DayAvailability, start time.Time) bool {
	for _, slot := range availability.Free {
		if slot.StartsAt(start) {
			return true
		}
	}
	return false
}
