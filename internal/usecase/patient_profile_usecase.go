package usecase

import (
	"context"

	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound    = apperror.NotFound("patient_not_found", "patient profile not found")
	ErrInvalidOldPassword = apperror.Validation("invalid_old_password", "invalid old password")
)

// PatientProfileUsecase is the patient's self-service view of their own
// profile.
type PatientProfileUsecase interface {
	GetSelfProfile(ctx context.Context) (*dto.PatientProfileResponse, error)
	UpdateSelfProfile(ctx context.Context, req *dto.PatientUpdateSelfRequest) (*dto.PatientProfileResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *patientProfileUsecase) loadSelf(ctx context.Context, db *gorm.DB) (*entity.PatientProfile, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, db, userID)
	if err != nil {
		u.log.WithField("user_id", userID).Warnf("Failed to find patient profile: %+v", err)
		return nil, apperror.Internal("failed to load patient profile", err)
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return profile, nil
}

// GetSelfProfile returns the caller's profile; the booking form prefills the
// patient name, phone and hospital id from it.
func (u *patientProfileUsecase) GetSelfProfile(ctx context.Context) (*dto.PatientProfileResponse, error) {
	profile, err := u.loadSelf(ctx, u.db)
	if err != nil {
		return nil, err
	}
	return converter.PatientProfileToResponse(profile), nil
}

// profileChanges records which rows an update touches.
type profileChanges struct {
	password bool
	contact  bool
}

func (c profileChanges) none() bool { return !c.password && !c.contact }

func applyPatientPatch(profile *entity.PatientProfile, req *dto.PatientUpdateSelfRequest) (profileChanges, error) {
	var changes profileChanges
	if req.Password != "" {
		if !passwordMatches(profile.User.Password, req.OldPassword) {
			return changes, ErrInvalidOldPassword
		}
		password, err := hashPassword(req.Password)
		if err != nil {
			return changes, err
		}
		profile.User.Password = password
		changes.password = true
	}
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
		changes.contact = true
	}
	if req.Gender != "" {
		profile.Gender = req.Gender
		changes.contact = true
	}
	return changes, nil
}

// UpdateSelfProfile changes the password (old password required), phone
// number or gender. The phone number becomes the default contact for new
// bookings.
func (u *patientProfileUsecase) UpdateSelfProfile(ctx context.Context, req *dto.PatientUpdateSelfRequest) (*dto.PatientProfileResponse, error) {
	if _, ok := middleware.GetUserIDFromContext(ctx); !ok {
		return nil, ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.loadSelf(ctx, tx)
	if err != nil {
		return nil, err
	}

	before := converter.PatientProfileToResponse(profile)
	changes, err := applyPatientPatch(profile, req)
	if err != nil {
		return nil, err
	}
	if changes.none() {
		return before, nil
	}

	if changes.password {
		if err := u.userRepo.Update(ctx, tx, &profile.User); err != nil {
			u.log.WithField("user_id", profile.UserID).Warnf("Failed to update password: %+v", err)
			return nil, apperror.Internal("failed to update profile", err)
		}
	}
	if changes.contact {
		if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
			u.log.WithField("user_id", profile.UserID).Warnf("Failed to update patient profile: %+v", err)
			return nil, apperror.Internal("failed to update profile", err)
		}
	}

	after := converter.PatientProfileToResponse(profile)
	err = u.auditService.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionProfileUpdate, entity.AuditEntityPatient, profile.UserID.String(), before, map[string]interface{}{
		"profile":          after,
		"password_changed": changes.password,
	})
	if err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to update profile", err)
	}
	return after, nil
}
