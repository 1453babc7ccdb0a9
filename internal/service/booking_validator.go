package service

import (
	"context"
	"strings"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BookingRequest is a patient's request for one slot with one doctor.
type BookingRequest struct {
	DoctorID     uuid.UUID
	SlotStart    time.Time
	PatientName  string
	PatientPhone string
	PatientEmail string
	Age          *int
	Gender       string
	Reason       string
	HospitalID   string
	PatientID    *uuid.UUID
}

type BookingValidator interface {
	// Validate applies every booking rule in order and stops at the first
	// failure. On success it returns a scheduled, unsaved appointment.
	Validate(ctx context.Context, req *BookingRequest) (*entity.Appointment, error)
	// ValidateSlot applies only the date and slot rules, for moving an
	// existing appointment.
	ValidateSlot(ctx context.Context, doctorID uuid.UUID, slotStart time.Time) (*entity.DoctorProfile, error)
}

type bookingValidator struct {
	db              *gorm.DB
	log             *logrus.Logger
	policy          *BookingPolicy
	availability    AvailabilityChecker
	appointmentRepo repository.AppointmentRepository
	validator       *validator.CustomValidator
	now             Clock
}

func NewBookingValidator(
	db *gorm.DB,
	log *logrus.Logger,
	policy *BookingPolicy,
	availability AvailabilityChecker,
	appointmentRepo repository.AppointmentRepository,
	validator *validator.CustomValidator,
	now Clock,
) BookingValidator {
	if now == nil {
		now = time.Now
	}
	return &bookingValidator{
		db:              db,
		log:             log,
		policy:          policy,
		availability:    availability,
		appointmentRepo: appointmentRepo,
		validator:       validator,
		now:             now,
	}
}

func (v *bookingValidator) Validate(ctx context.Context, req *BookingRequest) (*entity.Appointment, error) {
	// (a) - (c): date, window, grid, doctor and free slot
	doctor, err := v.ValidateSlot(ctx, req.DoctorID, req.SlotStart)
	if err != nil {
		return nil, err
	}

	// (c) one active booking per patient, doctor and date
	phone := strings.TrimSpace(req.PatientPhone)
	day := v.policy.StartOfDay(req.SlotStart)
	count, err := v.appointmentRepo.CountActiveForPatient(ctx, v.db, phone, req.DoctorID, day, v.policy.NextDay(day))
	if err != nil {
		v.log.Warnf("Failed to check existing bookings for doctor %s: %+v", req.DoctorID, err)
		return nil, apperror.Internal("failed to check existing bookings", err)
	}
	if count > 0 {
		return nil, ErrDuplicateBooking
	}

	// (d) patient contact fields
	name := strings.TrimSpace(req.PatientName)
	if name == "" {
		return nil, ErrPatientNameMissing
	}
	if !v.validator.ValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	email := strings.TrimSpace(req.PatientEmail)
	if email != "" && !v.validator.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	return &entity.Appointment{
		ID:            uuid.New(),
		PatientID:     req.PatientID,
		HospitalID:    req.HospitalID,
		PatientName:   name,
		PatientPhone:  phone,
		PatientEmail:  email,
		Age:           req.Age,
		Gender:        req.Gender,
		DoctorID:      doctor.UserID,
		DoctorName:    doctor.User.FullName,
		Specialty:     doctor.Specialization,
		AppointmentAt: req.SlotStart.UTC(),
		Status:        entity.AppointmentStatusScheduled,
		Reason:        req.Reason,
		CreatedAt:     v.now().UTC(),
	}, nil
}

func (v *bookingValidator) ValidateSlot(ctx context.Context, doctorID uuid.UUID, slotStart time.Time) (*entity.DoctorProfile, error) {
	// (a) allowed weekday
	if !v.policy.IsAllowedDay(slotStart) {
		return nil, ErrNotAllowedWeekday.Withf("%s is not an allowed booking day",
			slotStart.In(v.policy.Location()).Weekday())
	}

	// (b) advance booking window
	now := v.now()
	days := v.policy.DaysBetween(now, slotStart)
	if days < 1 {
		return nil, ErrSlotInPast
	}
	if days > v.policy.Config().AdvanceWindowDays {
		return nil, ErrWindowExceeded.Withf("appointments can be booked at most %d days ahead",
			v.policy.Config().AdvanceWindowDays)
	}

	// (c) slot exists and is free
	if !v.policy.OnGrid(slotStart) {
		return nil, ErrOffGrid
	}

	doctor, err := v.availability.Doctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if weekday := slotStart.In(v.policy.Location()).Weekday(); !doctor.WorksOn(weekday) {
		return nil, ErrDoctorOffDay.Withf("doctor does not see patients on %s", weekday)
	}

	availability, err := v.availability.Check(ctx, doctorID, slotStart)
	if err != nil {
		return nil, err
	}
	if !IsSlotFree(availability, slotStart) {
		return nil, ErrSlotTaken
	}
	return doctor, nil
}
