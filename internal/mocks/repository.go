// Package mocks holds testify mocks for the domain repositories and the
// doctor cache, shared by service and usecase tests.
package mocks

import (
	"context"
	"time"

	"medical-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// AppointmentRepository is a mock implementation of repository.AppointmentRepository
type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(appointment)
	return args.Error(0)
}

func (m *AppointmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *AppointmentRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *AppointmentRepository) FindActiveByDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	args := m.Called(doctorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *AppointmentRepository) CountActiveForPatient(ctx context.Context, db *gorm.DB, patientPhone string, doctorID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(patientPhone, doctorID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus, at time.Time) (int64, error) {
	args := m.Called(id, from, to, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AppointmentRepository) Reschedule(ctx context.Context, db *gorm.DB, id uuid.UUID, from entity.AppointmentStatus, newStart time.Time, at time.Time) (int64, error) {
	args := m.Called(id, from, newStart, at)
	return args.Get(0).(int64), args.Error(1)
}

// DoctorProfileRepository is a mock implementation of repository.DoctorProfileRepository
type DoctorProfileRepository struct {
	mock.Mock
}

func (m *DoctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *DoctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorProfile), args.Error(1)
}

func (m *DoctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.DoctorProfile, error) {
	args := m.Called(activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DoctorProfile), args.Error(1)
}

func (m *DoctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

// PatientProfileRepository is a mock implementation of repository.PatientProfileRepository
type PatientProfileRepository struct {
	mock.Mock
}

func (m *PatientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *PatientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientProfile), args.Error(1)
}

func (m *PatientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

// UserRepository is a mock implementation of repository.UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) ExistsByRole(ctx context.Context, db *gorm.DB, roleID int) (bool, error) {
	args := m.Called(roleID)
	return args.Bool(0), args.Error(1)
}

// AuditLogRepository is a mock implementation of repository.AuditLogRepository
type AuditLogRepository struct {
	mock.Mock
}

func (m *AuditLogRepository) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	args := m.Called(log)
	return args.Error(0)
}

func (m *AuditLogRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuditLog), args.Error(1)
}

func (m *AuditLogRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

// DoctorCache is a mock implementation of service.DoctorCache
type DoctorCache struct {
	mock.Mock
}

func (m *DoctorCache) Get(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorProfile), args.Error(1)
}

func (m *DoctorCache) Set(ctx context.Context, profile *entity.DoctorProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *DoctorCache) Invalidate(ctx context.Context, doctorID uuid.UUID) error {
	args := m.Called(doctorID)
	return args.Error(0)
}
