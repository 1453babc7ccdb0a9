package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkerFixture struct {
	checker         AvailabilityChecker
	policy          *BookingPolicy
	cache           *mocks.DoctorCache
	doctorRepo      *mocks.DoctorProfileRepository
	appointmentRepo *mocks.AppointmentRepository
}

func newCheckerFixture(t *testing.T) *checkerFixture {
	db, _ := mocks.NewGormDB(t)
	log := mocks.NewLogger()
	policy := NewBookingPolicy(testBookingConfig())
	cache := &mocks.DoctorCache{}
	doctorRepo := &mocks.DoctorProfileRepository{}
	appointmentRepo := &mocks.AppointmentRepository{}

	directory := NewDoctorDirectory(db, log, cache, doctorRepo)
	return &checkerFixture{
		checker:         NewAvailabilityChecker(db, log, policy, directory, appointmentRepo),
		policy:          policy,
		cache:           cache,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
	}
}

func activeDoctor(id uuid.UUID) *entity.DoctorProfile {
	active := true
	return &entity.DoctorProfile{
		UserID:         id,
		Specialization: "Cardiology",
		User:           entity.User{ID: id, FullName: "Dr. Meera Rao", IsActive: &active},
	}
}

func TestSplitGrid(t *testing.T) {
	p := NewBookingPolicy(testBookingConfig())
	grid := p.DayGrid(at(2026, time.October, 16, 0, 0))

	appointments := []entity.Appointment{
		{AppointmentAt: at(2026, time.October, 16, 9, 0).UTC(), Status: entity.AppointmentStatusScheduled},
		{AppointmentAt: at(2026, time.October, 16, 10, 30).UTC(), Status: entity.AppointmentStatusConfirmed},
		{AppointmentAt: at(2026, time.October, 16, 11, 0).UTC(), Status: entity.AppointmentStatusCancelled},
		{AppointmentAt: at(2026, time.October, 16, 11, 30).UTC(), Status: entity.AppointmentStatusNoShow},
	}

	free, occupied := SplitGrid(grid, appointments)
	assert.Len(t, occupied, 2)
	assert.Len(t, free, 10)
	assert.Equal(t, len(grid), len(free)+len(occupied))

	seen := make(map[int64]bool)
	for _, s := range append(append([]entity.Slot{}, free...), occupied...) {
		assert.False(t, seen[s.Start.Unix()], "slot listed twice")
		seen[s.Start.Unix()] = true
	}
	assert.True(t, occupied[0].StartsAt(at(2026, time.October, 16, 9, 0)))
	assert.True(t, occupied[1].StartsAt(at(2026, time.October, 16, 10, 30)))
}

func TestSplitGrid_NoAppointments(t *testing.T) {
	grid := NewBookingPolicy(testBookingConfig()).DayGrid(at(2026, time.October, 16, 0, 0))

	free, occupied := SplitGrid(grid, nil)
	assert.Equal(t, grid, free)
	assert.Empty(t, occupied)
}

func TestAvailabilityChecker_Check(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()
	doctor := activeDoctor(doctorID)
	day := at(2026, time.October, 16, 0, 0)

	f.cache.On("Get", doctorID).Return(nil, nil)
	f.doctorRepo.On("FindByUserID", doctorID).Return(doctor, nil)
	f.cache.On("Set", doctor).Return(nil)
	f.appointmentRepo.On("FindActiveByDoctor", doctorID, day, at(2026, time.October, 17, 0, 0)).
		Return([]entity.Appointment{
			{AppointmentAt: at(2026, time.October, 16, 14, 30).UTC(), Status: entity.AppointmentStatusScheduled},
		}, nil)

	result, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, doctorID.String(), result.DoctorID)
	assert.Equal(t, "2026-10-16", result.Date)
	assert.Len(t, result.Free, 11)
	require.Len(t, result.Occupied, 1)
	assert.True(t, result.Occupied[0].StartsAt(at(2026, time.October, 16, 14, 30)))

	f.cache.AssertExpectations(t)
	f.doctorRepo.AssertExpectations(t)
	f.appointmentRepo.AssertExpectations(t)
}

func TestAvailabilityChecker_UnknownDoctor(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()

	f.cache.On("Get", doctorID).Return(nil, nil)
	f.doctorRepo.On("FindByUserID", doctorID).Return(nil, nil)

	_, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	f.appointmentRepo.AssertNotCalled(t, "FindActiveByDoctor", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityChecker_InactiveDoctorFromCache(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()
	doctor := activeDoctor(doctorID)
	inactive := false
	doctor.User.IsActive = &inactive

	f.cache.On("Get", doctorID).Return(doctor, nil)

	_, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	f.doctorRepo.AssertNotCalled(t, "FindByUserID", mock.Anything)
}

func TestAvailabilityChecker_CacheFailureFallsBackToDatabase(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()
	doctor := activeDoctor(doctorID)

	f.cache.On("Get", doctorID).Return(nil, errors.New("connection refused"))
	f.doctorRepo.On("FindByUserID", doctorID).Return(doctor, nil)
	f.cache.On("Set", doctor).Return(errors.New("connection refused"))
	f.appointmentRepo.On("FindActiveByDoctor", doctorID, mock.Anything, mock.Anything).Return([]entity.Appointment{}, nil)

	result, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	require.NoError(t, err)
	assert.Len(t, result.Free, 12)
}

func TestAvailabilityChecker_RepositoryFailureIsInternal(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()

	f.cache.On("Get", doctorID).Return(activeDoctor(doctorID), nil)
	f.appointmentRepo.On("FindActiveByDoctor", doctorID, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestAvailabilityChecker_DoctorOffDayHasNoSlots(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()
	doctor := activeDoctor(doctorID)
	doctor.AvailableDays = entity.Weekdays{time.Monday}

	f.cache.On("Get", doctorID).Return(doctor, nil)

	result, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", result.Date)
	assert.Empty(t, result.Free)
	assert.Empty(t, result.Occupied)
	f.appointmentRepo.AssertNotCalled(t, "FindActiveByDoctor", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailabilityChecker_DoctorWorkingDayHasFullGrid(t *testing.T) {
	f := newCheckerFixture(t)
	doctorID := uuid.New()
	doctor := activeDoctor(doctorID)
	doctor.AvailableDays = entity.Weekdays{time.Monday, time.Friday}

	f.cache.On("Get", doctorID).Return(doctor, nil)
	f.appointmentRepo.On("FindActiveByDoctor", doctorID, mock.Anything, mock.Anything).Return([]entity.Appointment{}, nil)

	result, err := f.checker.Check(context.Background(), doctorID, at(2026, time.October, 16, 0, 0))
	require.NoError(t, err)
	assert.Len(t, result.Free, 12)
}
