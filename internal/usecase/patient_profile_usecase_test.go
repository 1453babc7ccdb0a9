package usecase

import (
	"context"
	"testing"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"
	"medical-appointment-booking/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newPatientFixture(t *testing.T) (PatientProfileUsecase, sqlmock.Sqlmock, *mocks.UserRepository, *mocks.PatientProfileRepository) {
	db, sql := mocks.NewGormDB(t)
	log := mocks.NewLogger()

	userRepo := &mocks.UserRepository{}
	patientRepo := &mocks.PatientProfileRepository{}
	auditRepo := &mocks.AuditLogRepository{}
	auditRepo.On("Create", mock.Anything).Return(nil).Maybe()

	return NewPatientProfileUsecase(db, log, userRepo, patientRepo, service.NewAuditService(log, auditRepo)), sql, userRepo, patientRepo
}

func storedPatient(t *testing.T, id uuid.UUID) *entity.PatientProfile {
	return &entity.PatientProfile{
		UserID:      id,
		HospitalID:  "HSP-2002",
		PhoneNumber: "9000000002",
		User:        entity.User{ID: id, Password: hashed(t, "old-secret"), RoleID: entity.RoleIDPatient},
	}
}

func TestUpdateSelfProfile_Phone(t *testing.T) {
	uc, sql, userRepo, patientRepo := newPatientFixture(t)
	id := uuid.New()

	patientRepo.On("FindByUserID", id).Return(storedPatient(t, id), nil)
	patientRepo.On("Update", mock.MatchedBy(func(p *entity.PatientProfile) bool {
		return p.PhoneNumber == "9111111111" && p.Gender == "female"
	})).Return(nil)
	sql.ExpectBegin()
	sql.ExpectCommit()

	profile, err := uc.UpdateSelfProfile(actorContext(id, entity.RoleIDPatient), &dto.PatientUpdateSelfRequest{
		PhoneNumber: "9111111111",
		Gender:      "female",
	})
	require.NoError(t, err)
	assert.Equal(t, "9111111111", profile.PhoneNumber)
	assert.Equal(t, "HSP-2002", profile.HospitalID)
	userRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateSelfProfile_Password(t *testing.T) {
	uc, sql, userRepo, patientRepo := newPatientFixture(t)
	id := uuid.New()

	patientRepo.On("FindByUserID", id).Return(storedPatient(t, id), nil)
	userRepo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new-secret")) == nil
	})).Return(nil)
	sql.ExpectBegin()
	sql.ExpectCommit()

	_, err := uc.UpdateSelfProfile(actorContext(id, entity.RoleIDPatient), &dto.PatientUpdateSelfRequest{
		OldPassword: "old-secret",
		Password:    "new-secret",
	})
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
	patientRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateSelfProfile_WrongOldPassword(t *testing.T) {
	uc, sql, userRepo, patientRepo := newPatientFixture(t)
	id := uuid.New()

	patientRepo.On("FindByUserID", id).Return(storedPatient(t, id), nil)
	sql.ExpectBegin()
	sql.ExpectRollback()

	_, err := uc.UpdateSelfProfile(actorContext(id, entity.RoleIDPatient), &dto.PatientUpdateSelfRequest{
		OldPassword: "guess",
		Password:    "new-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidOldPassword)
	userRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateSelfProfile_Missing(t *testing.T) {
	uc, sql, _, patientRepo := newPatientFixture(t)
	id := uuid.New()

	patientRepo.On("FindByUserID", id).Return(nil, nil)
	sql.ExpectBegin()
	sql.ExpectRollback()

	_, err := uc.UpdateSelfProfile(actorContext(id, entity.RoleIDPatient), &dto.PatientUpdateSelfRequest{Gender: "male"})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = uc.UpdateSelfProfile(context.Background(), &dto.PatientUpdateSelfRequest{Gender: "male"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetSelfProfile(t *testing.T) {
	uc, _, _, patientRepo := newPatientFixture(t)
	id := uuid.New()
	missing := uuid.New()
	patientRepo.On("FindByUserID", id).Return(storedPatient(t, id), nil)
	patientRepo.On("FindByUserID", missing).Return(nil, nil)

	profile, err := uc.GetSelfProfile(actorContext(id, entity.RoleIDPatient))
	require.NoError(t, err)
	assert.Equal(t, "HSP-2002", profile.HospitalID)
	assert.Equal(t, "9000000002", profile.PhoneNumber)

	_, err = uc.GetSelfProfile(actorContext(missing, entity.RoleIDPatient))
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = uc.GetSelfProfile(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
